package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

type GameUseCase interface {
	CreateGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	MakeTurn(ctx context.Context, id string, row, col int) (*entity.Game, *entity.Move, error)
	ResetGame(ctx context.Context, id string) (*entity.Game, error)
	DeleteGame(ctx context.Context, id string) error
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type gameController interface {
	Play(game *entity.Game, row, col int) (entity.Result, *entity.Move, error)
}

type gameUseCase struct {
	logger     *slog.Logger
	gameRepo   gameRepo
	controller gameController

	// serializes load-play-store per game id
	locks *xsync.MapOf[string, *sync.Mutex]
}

func NewGameUseCase(logger *slog.Logger, gameRepo gameRepo, controller gameController) GameUseCase {
	return &gameUseCase{
		logger:     logger.With("component", "game usecase"),
		gameRepo:   gameRepo,
		controller: controller,
		locks:      xsync.NewMapOf[string, *sync.Mutex](),
	}
}

func (that *gameUseCase) CreateGame(ctx context.Context) (*entity.Game, error) {
	game := entity.NewGame(uuid.NewString())

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID)

	return game, nil
}

func (that *gameUseCase) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) MakeTurn(ctx context.Context, id string, row, col int) (*entity.Game, *entity.Move, error) {
	log := that.logger.With("method", "MakeTurn", "gameID", id)

	unlock := that.lock(id)
	defer unlock()

	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		that.forgetMissing(id, err)
		return nil, nil, fmt.Errorf("failed to get game: %w", err)
	}

	result, computerMove, err := that.controller.Play(game, row, col)
	if err != nil {
		log.Debug("turn rejected", "row", row, "col", col, "error", err)
		return nil, nil, fmt.Errorf("failed to make turn: %w", err)
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, nil, fmt.Errorf("failed to update game: %w", err)
	}

	log.Debug("turn played", "row", row, "col", col, "computerMove", computerMove, "result", result)

	if result.IsTerminal() {
		moves := game.Board.Count(entity.HumanMark) + game.Board.Count(entity.ComputerMark)
		log.Info("game finished", "result", result, "winner", result.Winner(), "moves", moves)
	}

	return game, computerMove, nil
}

func (that *gameUseCase) ResetGame(ctx context.Context, id string) (*entity.Game, error) {
	unlock := that.lock(id)
	defer unlock()

	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		that.forgetMissing(id, err)
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	game.Reset()

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.logger.Info("game reset", "gameID", id)

	return game, nil
}

func (that *gameUseCase) DeleteGame(ctx context.Context, id string) error {
	unlock := that.lock(id)
	defer unlock()

	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		that.forgetMissing(id, err)
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.locks.Delete(id)

	that.logger.Info("game deleted", "gameID", id)

	return nil
}

// forgetMissing drops the lock of a game that no longer exists, e.g. after its TTL ran out.
// Requests still waiting on the dropped mutex only find ErrGameNotFound, and game IDs are never reused,
// so a fresh mutex for the same ID cannot race with a live game.
func (that *gameUseCase) forgetMissing(id string, err error) {
	if errors.Is(err, apperror.ErrGameNotFound) {
		that.locks.Delete(id)
	}
}

func (that *gameUseCase) lock(id string) func() {
	mu, _ := that.locks.LoadOrStore(id, &sync.Mutex{})
	mu.Lock()

	return mu.Unlock
}
