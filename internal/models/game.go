package models

import "time"

// GameStatus is the lifecycle of a game session.
type GameStatus string

const (
	GameWaiting  GameStatus = "waiting"
	GamePlaying  GameStatus = "playing"
	GameFinished GameStatus = "finished"
)

// TileType classifies a board tile.
type TileType string

const (
	TileStart  TileType = "start"
	TileFinish TileType = "finish"
	TileQuiz   TileType = "quiz"
	TileBonus  TileType = "bonus"
	TileMalus  TileType = "malus"
	TileEvent  TileType = "event"
)

// Tile is one board square. Mana is the bonus/malus delta applied when a
// player lands on it.
type Tile struct {
	Type TileType `json:"type"`
	Mana int      `json:"mana,omitempty"`
	XP   int      `json:"xp,omitempty"`
}

// MiniGame is a pending quiz a player must answer before the turn advances.
// ItemID names the quizzed content so a correct answer can seed its mastery
// record.
type MiniGame struct {
	Type          string   `json:"type"`
	ItemID        string   `json:"item_id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	PlayerID      string   `json:"player_id"`
}

// GameEvent is a pending board event a player must resolve.
type GameEvent struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	PlayerID string `json:"player_id"`
}

// Game is one session. Board, pending mini-game and pending event are stored
// embedded in the session row; player state lives in GamePlayer rows.
type Game struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	HostID          string     `json:"host_id"`
	Status          GameStatus `json:"status"`
	CurrentPlayerID string     `json:"current_player_id,omitempty"`
	Board           []Tile     `json:"board,omitempty"`
	MiniGame        *MiniGame  `json:"mini_game,omitempty"`
	Event           *GameEvent `json:"event,omitempty"`
	LastDiceRoll    int        `json:"last_dice_roll,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// DuelBlock is a destructible unit of a player's defense in the typing duel.
// A block is attackable only while IsDestroyed is false and VulnerableAt has
// passed; destruction is terminal.
type DuelBlock struct {
	ID           string    `json:"id"`
	Text         string    `json:"text"`
	VulnerableAt time.Time `json:"vulnerable_at"`
	IsDestroyed  bool      `json:"is_destroyed"`
}

// GamePlayer is one participant's embedded state within a session: board
// position, in-game mana, and the typing-duel ground/blocks.
type GamePlayer struct {
	GameID       string      `json:"game_id"`
	UID          string      `json:"uid"`
	DisplayName  string      `json:"display_name"`
	TurnOrder    int         `json:"turn_order"`
	Position     int         `json:"position"`
	Mana         int         `json:"mana"`
	GroundHeight int         `json:"ground_height"`
	Blocks       []DuelBlock `json:"blocks"`
	Quest        *Quest      `json:"quest,omitempty"`
}

// QuestStep is one objective within a player quest.
type QuestStep struct {
	Description string `json:"description"`
	Objective   string `json:"objective"`
	Completed   bool   `json:"completed"`
}

// Quest tracks a player's progression through a sequence of objectives.
type Quest struct {
	QuestID     string      `json:"quest_id"`
	Title       string      `json:"title"`
	CurrentStep int         `json:"current_step"`
	Steps       []QuestStep `json:"steps"`
}

// AdvanceStep marks the given step completed and moves the cursor forward.
func (q *Quest) AdvanceStep(stepIndex int) {
	if stepIndex < 0 || stepIndex >= len(q.Steps) {
		return
	}
	q.Steps[stepIndex].Completed = true
	q.CurrentStep++
}

// PendingObjective returns the objective of the current step, or "" when the
// quest is finished.
func (q *Quest) PendingObjective() string {
	if q == nil || q.CurrentStep >= len(q.Steps) {
		return ""
	}
	return q.Steps[q.CurrentStep].Objective
}
