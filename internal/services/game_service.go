package services

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/hangeulsoft/koreanparty/internal/catalog"
	"github.com/hangeulsoft/koreanparty/internal/db"
	"github.com/hangeulsoft/koreanparty/internal/errors"
	"github.com/hangeulsoft/koreanparty/internal/logger"
	"github.com/hangeulsoft/koreanparty/internal/models"
)

const (
	boardSize  = 30
	maxPlayers = 4
	minPlayers = 2

	bonusTileMana  = 15
	malusTileMana  = 10
	quizRewardMana = 10

	playerStartMana = 100

	// Duel blocks become vulnerable one after another.
	blockVulnerabilityStep = 30 * time.Second
)

// Quest objectives checked during turn resolution.
const (
	objectiveLandQuiz   = "land_quiz"
	objectiveAnswerQuiz = "answer_quiz"
	objectiveFinishRace = "finish_race"
)

// Event types a player can draw on an event tile.
const (
	eventManaStorm = "mana_storm"
	eventMoonGift  = "moon_gift"
)

// TurnResult is the outcome of one dice turn.
type TurnResult struct {
	DiceRoll    int               `json:"dice_roll"`
	NewPosition int               `json:"new_position"`
	Tile        models.Tile       `json:"tile"`
	MiniGame    *models.MiniGame  `json:"mini_game,omitempty"`
	Event       *models.GameEvent `json:"event,omitempty"`
	Finished    bool              `json:"finished"`
}

// MiniGameResult is the outcome of answering a pending quiz.
type MiniGameResult struct {
	Correct    bool   `json:"correct"`
	Answer     string `json:"answer"`
	RewardMana int    `json:"reward_mana,omitempty"`
}

// EventResult is the applied effect of a pending board event.
type EventResult struct {
	Type       string `json:"type"`
	ManaDelta  int    `json:"mana_delta,omitempty"`
	MoonShards int    `json:"moon_shards,omitempty"`
}

// GameService handles session lifecycle and the turn loop
type GameService interface {
	CreateGame(ctx context.Context, hostID, name string) (*models.Game, error)
	JoinGame(ctx context.Context, gameID, uid string) error
	StartGame(ctx context.Context, gameID, uid string, now time.Time) (*models.Game, error)
	GetGame(ctx context.Context, gameID string) (*models.Game, []models.GamePlayer, error)
	TakeTurn(ctx context.Context, gameID, uid string) (*TurnResult, error)
	SubmitMiniGameAnswer(ctx context.Context, gameID, uid, answer string, now time.Time) (*MiniGameResult, error)
	ResolveEvent(ctx context.Context, gameID, uid string) (*EventResult, error)
}

type gameService struct {
	db      *db.DB
	catalog *catalog.Catalog
	srs     SRSService

	// roll returns a uniform value in [0, n). Swappable in tests.
	roll func(n int) int
}

// NewGameService creates a new GameService
func NewGameService(database *db.DB, cat *catalog.Catalog, srsSvc SRSService) GameService {
	return &gameService{
		db:      database,
		catalog: cat,
		srs:     srsSvc,
		roll:    rand.Intn,
	}
}

func (s *gameService) CreateGame(ctx context.Context, hostID, name string) (*models.Game, error) {
	log := logger.FromContext(ctx)

	if name == "" {
		return nil, errors.NewInvalidArgumentError("name", "must not be empty")
	}

	game := models.Game{
		ID:     uuid.NewString(),
		Name:   name,
		HostID: hostID,
		Status: models.GameWaiting,
	}
	err := s.db.Tx(ctx, func(q db.Querier) error {
		host, err := db.GetUser(ctx, q, hostID)
		if err == db.ErrNotFound {
			return errors.NewNotFoundError("user", hostID)
		}
		if err != nil {
			return errors.NewInternalError(err)
		}
		if err := db.InsertGame(ctx, q, game); err != nil {
			return errors.NewInternalError(err)
		}
		player := models.GamePlayer{
			GameID:      game.ID,
			UID:         hostID,
			DisplayName: host.Pseudo,
			TurnOrder:   0,
			Mana:        playerStartMana,
			Blocks:      []models.DuelBlock{},
		}
		if err := db.InsertGamePlayer(ctx, q, player); err != nil {
			return errors.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("created game: id=%s host=%s", game.ID, hostID)
	return &game, nil
}

func (s *gameService) JoinGame(ctx context.Context, gameID, uid string) error {
	log := logger.FromContext(ctx)

	if gameID == "" {
		return errors.NewInvalidArgumentError("gameId", "must not be empty")
	}

	err := s.db.Tx(ctx, func(q db.Querier) error {
		game, err := db.GetGame(ctx, q, gameID)
		if err == db.ErrNotFound {
			return errors.NewNotFoundError("game", gameID)
		}
		if err != nil {
			return errors.NewInternalError(err)
		}
		if game.Status != models.GameWaiting {
			return errors.NewFailedPreconditionError("game has already started")
		}

		user, err := db.GetUser(ctx, q, uid)
		if err == db.ErrNotFound {
			return errors.NewNotFoundError("user", uid)
		}
		if err != nil {
			return errors.NewInternalError(err)
		}

		if _, err := db.GetGamePlayer(ctx, q, gameID, uid); err == nil {
			return errors.NewAlreadyExistsError("game player", uid)
		} else if err != db.ErrNotFound {
			return errors.NewInternalError(err)
		}

		count, err := db.CountGamePlayers(ctx, q, gameID)
		if err != nil {
			return errors.NewInternalError(err)
		}
		if count >= maxPlayers {
			return errors.NewFailedPreconditionError("game is full")
		}

		player := models.GamePlayer{
			GameID:      gameID,
			UID:         uid,
			DisplayName: user.Pseudo,
			TurnOrder:   count,
			Mana:        playerStartMana,
			Blocks:      []models.DuelBlock{},
		}
		if err := db.InsertGamePlayer(ctx, q, player); err != nil {
			return errors.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("user joined game: uid=%s game=%s", uid, gameID)
	return nil
}

// StartGame generates the board, deals each player their duel blocks and
// starter quest, and hands the first turn to the host.
func (s *gameService) StartGame(ctx context.Context, gameID, uid string, now time.Time) (*models.Game, error) {
	log := logger.FromContext(ctx)

	var started *models.Game
	err := s.db.Tx(ctx, func(q db.Querier) error {
		game, err := db.GetGame(ctx, q, gameID)
		if err == db.ErrNotFound {
			return errors.NewNotFoundError("game", gameID)
		}
		if err != nil {
			return errors.NewInternalError(err)
		}
		if game.HostID != uid {
			return errors.NewFailedPreconditionError("only the host can start the game")
		}
		if game.Status != models.GameWaiting {
			return errors.NewFailedPreconditionError("game has already started")
		}

		players, err := db.GamePlayers(ctx, q, gameID)
		if err != nil {
			return errors.NewInternalError(err)
		}
		if len(players) < minPlayers {
			return errors.NewFailedPreconditionError("not enough players to start")
		}

		game.Board = s.generateBoard()
		game.Status = models.GamePlaying
		game.CurrentPlayerID = players[0].UID
		if err := db.UpdateGame(ctx, q, *game); err != nil {
			return errors.NewInternalError(err)
		}

		for i := range players {
			players[i].Blocks = s.generateBlocks(now)
			players[i].Quest = starterQuest()
			if err := db.UpdateGamePlayer(ctx, q, players[i]); err != nil {
				return errors.NewInternalError(err)
			}
		}

		started = game
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("started game: id=%s players=%s", gameID, started.CurrentPlayerID)
	return started, nil
}

func (s *gameService) GetGame(ctx context.Context, gameID string) (*models.Game, []models.GamePlayer, error) {
	game, err := db.GetGame(ctx, s.db, gameID)
	if err == db.ErrNotFound {
		return nil, nil, errors.NewNotFoundError("game", gameID)
	}
	if err != nil {
		return nil, nil, errors.NewInternalError(err)
	}
	players, err := db.GamePlayers(ctx, s.db, gameID)
	if err != nil {
		return nil, nil, errors.NewInternalError(err)
	}
	return game, players, nil
}

// TakeTurn rolls the dice for the current player and applies the landing
// tile. Quiz and event tiles leave a pending state on the session that must
// be resolved before the turn passes; every other tile passes the turn
// immediately.
func (s *gameService) TakeTurn(ctx context.Context, gameID, uid string) (*TurnResult, error) {
	log := logger.FromContext(ctx)

	var result TurnResult
	err := s.db.Tx(ctx, func(q db.Querier) error {
		game, err := db.GetGame(ctx, q, gameID)
		if err == db.ErrNotFound {
			return errors.NewNotFoundError("game", gameID)
		}
		if err != nil {
			return errors.NewInternalError(err)
		}
		if game.Status != models.GamePlaying {
			return errors.NewFailedPreconditionError("game is not in progress")
		}
		if game.CurrentPlayerID != uid {
			return errors.NewFailedPreconditionError("not your turn")
		}
		if game.MiniGame != nil || game.Event != nil {
			return errors.NewFailedPreconditionError("a pending mini-game or event must be resolved first")
		}

		players, err := db.GamePlayers(ctx, q, gameID)
		if err != nil {
			return errors.NewInternalError(err)
		}
		player := findPlayer(players, uid)
		if player == nil {
			return errors.NewNotFoundError("player", uid)
		}

		dice := s.roll(6) + 1
		pos := player.Position + dice
		if pos >= boardSize-1 {
			pos = boardSize - 1
		}
		player.Position = pos
		tile := game.Board[pos]
		game.LastDiceRoll = dice

		result = TurnResult{DiceRoll: dice, NewPosition: pos, Tile: tile}
		advanceQuest(player, "land_"+string(tile.Type))

		switch tile.Type {
		case models.TileBonus:
			player.Mana += tile.Mana
		case models.TileMalus:
			player.Mana -= tile.Mana
			if player.Mana < 0 {
				player.Mana = 0
			}
		case models.TileQuiz:
			game.MiniGame = s.pickMiniGame(uid)
			result.MiniGame = game.MiniGame
		case models.TileEvent:
			game.Event = s.pickEvent(uid)
			result.Event = game.Event
		case models.TileFinish:
			advanceQuest(player, objectiveFinishRace)
			game.Status = models.GameFinished
			result.Finished = true
		}

		// Turn passes now unless the tile left something pending.
		if game.MiniGame == nil && game.Event == nil && game.Status == models.GamePlaying {
			game.CurrentPlayerID = nextPlayer(players, player.TurnOrder)
		}

		if err := db.UpdateGamePlayer(ctx, q, *player); err != nil {
			return errors.NewInternalError(err)
		}
		if err := db.UpdateGame(ctx, q, *game); err != nil {
			return errors.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug("turn taken: game=%s uid=%s dice=%d pos=%d tile=%s", gameID, uid, result.DiceRoll, result.NewPosition, result.Tile.Type)
	return &result, nil
}

// SubmitMiniGameAnswer resolves the pending quiz. A correct answer grants
// mana, advances a matching quest step, and seeds a mastery record for the
// quizzed item so it enters the review queue.
func (s *gameService) SubmitMiniGameAnswer(ctx context.Context, gameID, uid, answer string, now time.Time) (*MiniGameResult, error) {
	log := logger.FromContext(ctx)

	if answer == "" {
		return nil, errors.NewInvalidArgumentError("answer", "must not be empty")
	}

	var result MiniGameResult
	var learnedItem string
	err := s.db.Tx(ctx, func(q db.Querier) error {
		game, err := db.GetGame(ctx, q, gameID)
		if err == db.ErrNotFound {
			return errors.NewNotFoundError("game", gameID)
		}
		if err != nil {
			return errors.NewInternalError(err)
		}
		if game.MiniGame == nil || game.MiniGame.PlayerID != uid {
			return errors.NewFailedPreconditionError("no pending mini-game for this player")
		}

		players, err := db.GamePlayers(ctx, q, gameID)
		if err != nil {
			return errors.NewInternalError(err)
		}
		player := findPlayer(players, uid)
		if player == nil {
			return errors.NewNotFoundError("player", uid)
		}

		result = MiniGameResult{Answer: game.MiniGame.CorrectAnswer}
		if answer == game.MiniGame.CorrectAnswer {
			result.Correct = true
			result.RewardMana = quizRewardMana
			player.Mana += quizRewardMana
			advanceQuest(player, objectiveAnswerQuiz)
			learnedItem = game.MiniGame.ItemID
		}

		game.MiniGame = nil
		game.CurrentPlayerID = nextPlayer(players, player.TurnOrder)

		if err := db.UpdateGamePlayer(ctx, q, *player); err != nil {
			return errors.NewInternalError(err)
		}
		if err := db.UpdateGame(ctx, q, *game); err != nil {
			return errors.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Correct && learnedItem != "" && s.srs != nil {
		if _, err := s.srs.LearnItems(ctx, uid, []string{learnedItem}, now); err != nil {
			log.Warn("failed to seed mastery record for quiz item %s: %v", learnedItem, err)
		}
	}

	log.Debug("mini-game answered: game=%s uid=%s correct=%t", gameID, uid, result.Correct)
	return &result, nil
}

// ResolveEvent applies the pending board event to the player who drew it.
func (s *gameService) ResolveEvent(ctx context.Context, gameID, uid string) (*EventResult, error) {
	log := logger.FromContext(ctx)

	var result EventResult
	err := s.db.Tx(ctx, func(q db.Querier) error {
		game, err := db.GetGame(ctx, q, gameID)
		if err == db.ErrNotFound {
			return errors.NewNotFoundError("game", gameID)
		}
		if err != nil {
			return errors.NewInternalError(err)
		}
		if game.Event == nil || game.Event.PlayerID != uid {
			return errors.NewFailedPreconditionError("no pending event for this player")
		}

		players, err := db.GamePlayers(ctx, q, gameID)
		if err != nil {
			return errors.NewInternalError(err)
		}
		player := findPlayer(players, uid)
		if player == nil {
			return errors.NewNotFoundError("player", uid)
		}

		result = EventResult{Type: game.Event.Type}
		switch game.Event.Type {
		case eventManaStorm:
			result.ManaDelta = -10
			player.Mana -= 10
			if player.Mana < 0 {
				player.Mana = 0
			}
		case eventMoonGift:
			result.MoonShards = 5
		}

		game.Event = nil
		game.CurrentPlayerID = nextPlayer(players, player.TurnOrder)

		if err := db.UpdateGamePlayer(ctx, q, *player); err != nil {
			return errors.NewInternalError(err)
		}
		if err := db.UpdateGame(ctx, q, *game); err != nil {
			return errors.NewInternalError(err)
		}

		if result.MoonShards > 0 {
			user, err := db.GetUser(ctx, q, uid)
			if err != nil && err != db.ErrNotFound {
				return errors.NewInternalError(err)
			}
			if user != nil {
				if err := db.UpdateUserCurrency(ctx, q, uid, user.Mana, user.MoonShards+result.MoonShards); err != nil {
					return errors.NewInternalError(err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug("event resolved: game=%s uid=%s type=%s", gameID, uid, result.Type)
	return &result, nil
}

func (s *gameService) generateBoard() []models.Tile {
	board := make([]models.Tile, boardSize)
	board[0] = models.Tile{Type: models.TileStart}
	board[boardSize-1] = models.Tile{Type: models.TileFinish}
	for i := 1; i < boardSize-1; i++ {
		switch s.roll(10) {
		case 0, 1, 2, 3:
			board[i] = models.Tile{Type: models.TileQuiz}
		case 4, 5:
			board[i] = models.Tile{Type: models.TileBonus, Mana: bonusTileMana}
		case 6, 7:
			board[i] = models.Tile{Type: models.TileMalus, Mana: malusTileMana}
		default:
			board[i] = models.Tile{Type: models.TileEvent}
		}
	}
	return board
}

func (s *gameService) generateBlocks(now time.Time) []models.DuelBlock {
	blocks := make([]models.DuelBlock, 0, len(s.catalog.QuizItems))
	for i, item := range s.catalog.QuizItems {
		blocks = append(blocks, models.DuelBlock{
			ID:           uuid.NewString(),
			Text:         item.Answer,
			VulnerableAt: now.Add(time.Duration(i) * blockVulnerabilityStep),
		})
	}
	return blocks
}

func (s *gameService) pickMiniGame(uid string) *models.MiniGame {
	item := s.catalog.QuizItems[s.roll(len(s.catalog.QuizItems))]
	return &models.MiniGame{
		Type:          "vocabulary_quiz",
		ItemID:        item.ID,
		Question:      item.Question,
		Options:       item.Options,
		CorrectAnswer: item.Answer,
		PlayerID:      uid,
	}
}

func (s *gameService) pickEvent(uid string) *models.GameEvent {
	if s.roll(2) == 0 {
		return &models.GameEvent{
			Type:     eventManaStorm,
			Title:    "Mana Storm",
			Message:  "A storm drains some of your mana.",
			PlayerID: uid,
		}
	}
	return &models.GameEvent{
		Type:     eventMoonGift,
		Title:    "Gift of the Moon",
		Message:  "The moon grants you a few shards.",
		PlayerID: uid,
	}
}

func starterQuest() *models.Quest {
	return &models.Quest{
		QuestID: "path_of_the_scholar",
		Title:   "Path of the Scholar",
		Steps: []models.QuestStep{
			{Description: "Land on a quiz tile", Objective: objectiveLandQuiz},
			{Description: "Answer a quiz correctly", Objective: objectiveAnswerQuiz},
			{Description: "Reach the finish tile", Objective: objectiveFinishRace},
		},
	}
}

func findPlayer(players []models.GamePlayer, uid string) *models.GamePlayer {
	for i := range players {
		if players[i].UID == uid {
			return &players[i]
		}
	}
	return nil
}

func nextPlayer(players []models.GamePlayer, currentOrder int) string {
	next := (currentOrder + 1) % len(players)
	for i := range players {
		if players[i].TurnOrder == next {
			return players[i].UID
		}
	}
	return players[0].UID
}

func advanceQuest(p *models.GamePlayer, objective string) {
	if p.Quest == nil {
		return
	}
	if p.Quest.PendingObjective() == objective {
		p.Quest.AdvanceStep(p.Quest.CurrentStep)
	}
}
