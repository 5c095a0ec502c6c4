package repository

import (
	"context"
	"testing"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGameRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores a copy of the game", func(t *testing.T) {
		// Given: a stored game
		gameRepo := NewMemoryGameRepository(0)
		game := entity.NewGame("123")
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: the caller keeps mutating its own game
		_, err := game.ApplyHumanMove(0, 0)
		require.NoError(t, err)

		// Then: the stored game is unchanged until it is saved again
		stored, err := gameRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, entity.Board{}, stored.Board)

		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))
		stored, err = gameRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, game, stored)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		gameRepo := NewMemoryGameRepository(0)

		game, err := gameRepo.GetByID(ctx, "9999999")

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.Nil(t, game)
	})

	t.Run("DeleteByID", func(t *testing.T) {
		gameRepo := NewMemoryGameRepository(0)
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, entity.NewGame("123")))

		require.NoError(t, gameRepo.DeleteByID(ctx, "123"))
		require.ErrorIs(t, gameRepo.DeleteByID(ctx, "123"), apperror.ErrGameNotFound)

		_, err := gameRepo.GetByID(ctx, "123")
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Expired games are not found", func(t *testing.T) {
		// Given: a repository with a controllable clock
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		gameRepo := &memGame{
			games: xsync.NewMapOf[string, memoryGame](),
			ttl:   time.Minute,
			now:   func() time.Time { return now },
		}
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, entity.NewGame("123")))

		// When: the TTL has not passed yet
		_, err := gameRepo.GetByID(ctx, "123")

		// Then: the game is found
		require.NoError(t, err)

		// When: the TTL passes
		now = now.Add(time.Minute)
		_, err = gameRepo.GetByID(ctx, "123")

		// Then: the game is gone
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.Equal(t, 0, gameRepo.games.Size())
	})
}
