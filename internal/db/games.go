package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hangeulsoft/koreanparty/internal/logger"
	"github.com/hangeulsoft/koreanparty/internal/models"
)

const gameColumns = `id, name, host_id, status, current_player_id, board, mini_game, event, last_dice_roll, created_at`

func scanGame(s interface{ Scan(...any) error }) (*models.Game, error) {
	var g models.Game
	var board string
	var miniGame, event sql.NullString
	err := s.Scan(&g.ID, &g.Name, &g.HostID, &g.Status, &g.CurrentPlayerID,
		&board, &miniGame, &event, &g.LastDiceRoll, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(board), &g.Board); err != nil {
		return nil, fmt.Errorf("decode board for game %s: %w", g.ID, err)
	}
	if miniGame.Valid && miniGame.String != "" {
		g.MiniGame = &models.MiniGame{}
		if err := json.Unmarshal([]byte(miniGame.String), g.MiniGame); err != nil {
			return nil, fmt.Errorf("decode mini-game for game %s: %w", g.ID, err)
		}
	}
	if event.Valid && event.String != "" {
		g.Event = &models.GameEvent{}
		if err := json.Unmarshal([]byte(event.String), g.Event); err != nil {
			return nil, fmt.Errorf("decode event for game %s: %w", g.ID, err)
		}
	}
	return &g, nil
}

func encodeGame(g models.Game) (board string, miniGame, event sql.NullString, err error) {
	b, err := json.Marshal(g.Board)
	if err != nil {
		return "", miniGame, event, err
	}
	board = string(b)
	if g.MiniGame != nil {
		mg, err := json.Marshal(g.MiniGame)
		if err != nil {
			return "", miniGame, event, err
		}
		miniGame = sql.NullString{String: string(mg), Valid: true}
	}
	if g.Event != nil {
		ev, err := json.Marshal(g.Event)
		if err != nil {
			return "", miniGame, event, err
		}
		event = sql.NullString{String: string(ev), Valid: true}
	}
	return board, miniGame, event, nil
}

// GetGame loads one session.
func GetGame(ctx context.Context, q Querier, id string) (*models.Game, error) {
	row := q.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = ?`, id)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return g, err
}

// InsertGame creates a session row.
func InsertGame(ctx context.Context, q Querier, g models.Game) error {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("inserting game: id=%s host=%s", g.ID, g.HostID)

	board, miniGame, event, err := encodeGame(g)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
INSERT INTO games (id, name, host_id, status, current_player_id, board, mini_game, event, last_dice_roll)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, g.ID, g.Name, g.HostID, g.Status, g.CurrentPlayerID, board, miniGame, event, g.LastDiceRoll)
	if err != nil {
		log.Error("failed to insert game: %v", err)
	}
	return err
}

// UpdateGame writes the full mutable state of a session back. Turn resolution
// touches status, current player, board pendings and the dice roll together,
// so partial updates are not worth the surface.
func UpdateGame(ctx context.Context, q Querier, g models.Game) error {
	board, miniGame, event, err := encodeGame(g)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
UPDATE games SET status = ?, current_player_id = ?, board = ?, mini_game = ?, event = ?, last_dice_roll = ? WHERE id = ?
`, g.Status, g.CurrentPlayerID, board, miniGame, event, g.LastDiceRoll, g.ID)
	return err
}

func scanGamePlayer(s interface{ Scan(...any) error }) (models.GamePlayer, error) {
	var p models.GamePlayer
	var blocks string
	var quest sql.NullString
	err := s.Scan(&p.GameID, &p.UID, &p.DisplayName, &p.TurnOrder, &p.Position,
		&p.Mana, &p.GroundHeight, &blocks, &quest)
	if err != nil {
		return p, err
	}
	if err := json.Unmarshal([]byte(blocks), &p.Blocks); err != nil {
		return p, fmt.Errorf("decode blocks for player %s: %w", p.UID, err)
	}
	if quest.Valid && quest.String != "" {
		p.Quest = &models.Quest{}
		if err := json.Unmarshal([]byte(quest.String), p.Quest); err != nil {
			return p, fmt.Errorf("decode quest for player %s: %w", p.UID, err)
		}
	}
	return p, nil
}

func encodeGamePlayer(p models.GamePlayer) (blocks string, quest sql.NullString, err error) {
	b, err := json.Marshal(p.Blocks)
	if err != nil {
		return "", quest, err
	}
	blocks = string(b)
	if p.Quest != nil {
		qb, err := json.Marshal(p.Quest)
		if err != nil {
			return "", quest, err
		}
		quest = sql.NullString{String: string(qb), Valid: true}
	}
	return blocks, quest, nil
}

const gamePlayerColumns = `game_id, uid, display_name, turn_order, position, mana, ground_height, blocks, quest`

// GetGamePlayer loads one participant's state.
func GetGamePlayer(ctx context.Context, q Querier, gameID, uid string) (*models.GamePlayer, error) {
	row := q.QueryRowContext(ctx, `SELECT `+gamePlayerColumns+` FROM game_players WHERE game_id = ? AND uid = ?`, gameID, uid)
	p, err := scanGamePlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GamePlayers lists the participants of a session in turn order.
func GamePlayers(ctx context.Context, q Querier, gameID string) ([]models.GamePlayer, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+gamePlayerColumns+` FROM game_players WHERE game_id = ? ORDER BY turn_order ASC`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []models.GamePlayer
	for rows.Next() {
		p, err := scanGamePlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// InsertGamePlayer adds a participant to a session.
func InsertGamePlayer(ctx context.Context, q Querier, p models.GamePlayer) error {
	blocks, quest, err := encodeGamePlayer(p)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
INSERT INTO game_players (`+gamePlayerColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, p.GameID, p.UID, p.DisplayName, p.TurnOrder, p.Position, p.Mana, p.GroundHeight, blocks, quest)
	return err
}

// UpdateGamePlayer writes a participant's full mutable state back.
func UpdateGamePlayer(ctx context.Context, q Querier, p models.GamePlayer) error {
	blocks, quest, err := encodeGamePlayer(p)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
UPDATE game_players SET position = ?, mana = ?, ground_height = ?, blocks = ?, quest = ? WHERE game_id = ? AND uid = ?
`, p.Position, p.Mana, p.GroundHeight, blocks, quest, p.GameID, p.UID)
	return err
}

// CountGamePlayers returns the number of participants in a session.
func CountGamePlayers(ctx context.Context, q Querier, gameID string) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM game_players WHERE game_id = ?`, gameID).Scan(&n)
	return n, err
}
