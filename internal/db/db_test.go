package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hangeulsoft/koreanparty/internal/db"
	"github.com/hangeulsoft/koreanparty/internal/models"
	"github.com/hangeulsoft/koreanparty/internal/testutil"
)

func TestTxCommitsAllWrites(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	err := database.Tx(ctx, func(q db.Querier) error {
		if err := db.InsertUser(ctx, q, models.User{UID: "u1", Pseudo: "first"}); err != nil {
			return err
		}
		return db.InsertUser(ctx, q, models.User{UID: "u2", Pseudo: "second"})
	})
	require.NoError(t, err)

	_, err = db.GetUser(ctx, database, "u1")
	assert.NoError(t, err)
	_, err = db.GetUser(ctx, database, "u2")
	assert.NoError(t, err)
}

func TestTxRollsBackOnError(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := database.Tx(ctx, func(q db.Querier) error {
		if err := db.InsertUser(ctx, q, models.User{UID: "u1", Pseudo: "first"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = db.GetUser(ctx, database, "u1")
	assert.Equal(t, db.ErrNotFound, err, "no write may land when the transaction fails")
}

func TestMasteryUpsertRoundTrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.InsertUser(ctx, database, models.User{UID: "u1", Pseudo: "learner"}))

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := models.MasteryRecord{
		UID:            "u1",
		ItemID:         "hangeul_a",
		Status:         models.StatusLearning,
		MasteryLevel:   2,
		EaseFactor:     2.5,
		IntervalDays:   6,
		CorrectStreak:  2,
		Reviews:        2,
		LastReviewedAt: now,
		NextReviewAt:   now.Add(6 * 24 * time.Hour),
	}
	require.NoError(t, db.UpsertMasteryRecord(ctx, database, rec))

	rec.IntervalDays = 15
	rec.CorrectStreak = 3
	require.NoError(t, db.UpsertMasteryRecord(ctx, database, rec))

	loaded, err := db.GetMasteryRecord(ctx, database, "u1", "hangeul_a")
	require.NoError(t, err)
	assert.Equal(t, 15, loaded.IntervalDays)
	assert.Equal(t, 3, loaded.CorrectStreak)
	assert.Equal(t, models.StatusLearning, loaded.Status)
}

func TestGamePlayerBlocksRoundTrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.InsertUser(ctx, database, models.User{UID: "u1", Pseudo: "player"}))
	require.NoError(t, db.InsertGame(ctx, database, models.Game{
		ID: "g1", HostID: "u1", Status: models.GameWaiting,
		Board: []models.Tile{{Type: models.TileStart}},
	}))

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	player := models.GamePlayer{
		GameID: "g1", UID: "u1", Mana: 100,
		Blocks: []models.DuelBlock{
			{ID: "b1", Text: "사과", VulnerableAt: now},
			{ID: "b2", Text: "바다", VulnerableAt: now.Add(time.Minute), IsDestroyed: true},
		},
		Quest: &models.Quest{
			QuestID: "q1",
			Title:   "test quest",
			Steps:   []models.QuestStep{{Description: "step", Objective: "land_quiz"}},
		},
	}
	require.NoError(t, db.InsertGamePlayer(ctx, database, player))

	loaded, err := db.GetGamePlayer(ctx, database, "g1", "u1")
	require.NoError(t, err)
	require.Len(t, loaded.Blocks, 2)
	assert.Equal(t, "사과", loaded.Blocks[0].Text)
	assert.True(t, loaded.Blocks[1].IsDestroyed)
	require.NotNil(t, loaded.Quest)
	assert.Equal(t, "land_quiz", loaded.Quest.Steps[0].Objective)
}
