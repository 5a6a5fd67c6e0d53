// Package catalog loads the static game-content definitions embedded with the
// binary: spells, shop items, daily-streak rewards and quiz items.
package catalog

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Spell is one castable spell definition.
type Spell struct {
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	ManaCost       int    `yaml:"mana_cost"`
	Type           string `yaml:"type"`
	Description    string `yaml:"description"`
	RequiresTarget bool   `yaml:"requires_target"`

	// Effect magnitudes; zero means the effect does not apply.
	StealAmount int `yaml:"steal_amount"`
	ManaGain    int `yaml:"mana_gain"`
	ManaLoss    int `yaml:"mana_loss"`
}

// ShopItem is one purchasable cosmetic.
type ShopItem struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Price       int    `yaml:"price"`
	Description string `yaml:"description"`
}

// StreakReward is the reward granted for reaching a given streak day. Streaks
// past the last configured day keep receiving the final day's reward.
type StreakReward struct {
	Day    int    `yaml:"day"`
	Type   string `yaml:"type"` // "mana" or "moon_shards"
	Amount int    `yaml:"amount"`
}

// QuizItem is one vocabulary question used by the board mini-games. The ID
// doubles as the learned-content ID a mastery record is keyed on.
type QuizItem struct {
	ID       string   `yaml:"id"`
	Question string   `yaml:"question"`
	Options  []string `yaml:"options"`
	Answer   string   `yaml:"answer"`
}

// Catalog is the full set of loaded definitions, indexed by ID.
type Catalog struct {
	Spells        map[string]Spell
	ShopItems     map[string]ShopItem
	StreakRewards []StreakReward
	QuizItems     []QuizItem
}

// Load parses the embedded definition files.
func Load() (*Catalog, error) {
	c := &Catalog{
		Spells:    make(map[string]Spell),
		ShopItems: make(map[string]ShopItem),
	}

	var spellFile struct {
		Spells []Spell `yaml:"spells"`
	}
	if err := readYAML("data/spells.yaml", &spellFile); err != nil {
		return nil, err
	}
	for _, s := range spellFile.Spells {
		c.Spells[s.ID] = s
	}

	var itemFile struct {
		Items []ShopItem `yaml:"items"`
	}
	if err := readYAML("data/shop_items.yaml", &itemFile); err != nil {
		return nil, err
	}
	for _, it := range itemFile.Items {
		c.ShopItems[it.ID] = it
	}

	var rewardFile struct {
		Rewards []StreakReward `yaml:"rewards"`
	}
	if err := readYAML("data/streak_rewards.yaml", &rewardFile); err != nil {
		return nil, err
	}
	c.StreakRewards = rewardFile.Rewards

	var quizFile struct {
		Items []QuizItem `yaml:"items"`
	}
	if err := readYAML("data/quiz_items.yaml", &quizFile); err != nil {
		return nil, err
	}
	c.QuizItems = quizFile.Items

	return c, nil
}

// RewardForDay returns the reward for a streak day, falling back to the last
// configured day for longer streaks. ok is false only when no rewards are
// configured at all.
func (c *Catalog) RewardForDay(day int) (StreakReward, bool) {
	if len(c.StreakRewards) == 0 {
		return StreakReward{}, false
	}
	best := c.StreakRewards[0]
	for _, r := range c.StreakRewards {
		if r.Day == day {
			return r, true
		}
		if r.Day > best.Day {
			best = r
		}
	}
	if day > best.Day {
		return best, true
	}
	return StreakReward{}, false
}

func readYAML(name string, out any) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
