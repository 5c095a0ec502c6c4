package repository

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

type memoryGame struct {
	game      entity.Game
	expiresAt time.Time
}

type memGame struct {
	games *xsync.MapOf[string, memoryGame]
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryGameRepository keeps copies of live games in process memory with the same TTL semantics as Redis.
func NewMemoryGameRepository(ttl time.Duration) GameRepository {
	return &memGame{
		games: xsync.NewMapOf[string, memoryGame](),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (that *memGame) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	entry := memoryGame{game: *game}
	if that.ttl > 0 {
		entry.expiresAt = that.now().Add(that.ttl)
	}

	that.games.Store(game.ID, entry)

	return nil
}

func (that *memGame) GetByID(_ context.Context, id string) (*entity.Game, error) {
	entry, ok := that.load(id)
	if !ok {
		return nil, apperror.ErrGameNotFound
	}

	game := entry.game

	return &game, nil
}

func (that *memGame) DeleteByID(_ context.Context, id string) error {
	if _, ok := that.load(id); !ok {
		return apperror.ErrGameNotFound
	}

	that.games.Delete(id)

	return nil
}

func (that *memGame) load(id string) (memoryGame, bool) {
	entry, ok := that.games.Load(id)
	if !ok {
		return memoryGame{}, false
	}

	if !entry.expiresAt.IsZero() && !that.now().Before(entry.expiresAt) {
		that.games.Delete(id)
		return memoryGame{}, false
	}

	return entry, true
}
