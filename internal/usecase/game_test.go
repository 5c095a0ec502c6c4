package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/bot"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/repository"
	"github.com/rocketscienceinc/tictactoe-ai/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-ai/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errRedisDown = errors.New("redis down")

type mockGameRepo struct {
	mock.Mock
}

func (that *mockGameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	args := that.Called(ctx, game)
	return args.Error(0)
}

func (that *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameRepo) DeleteByID(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

func newController() *tictactoe.GameController {
	return tictactoe.NewGameController(bot.NewEngine(entity.ComputerMark))
}

func newMemoryUseCase() GameUseCase {
	return NewGameUseCase(suite.NewLogger(), repository.NewMemoryGameRepository(0), newController())
}

func TestGameUseCase_CreateGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates and stores an empty game", func(t *testing.T) {
		// Given: a use case over an in-memory repository
		useCase := newMemoryUseCase()

		// When: a game is created
		game, err := useCase.CreateGame(ctx)

		// Then: it has an ID, an empty board and can be loaded back
		require.NoError(t, err)
		assert.NotEmpty(t, game.ID)
		assert.Equal(t, entity.Board{}, game.Board)

		stored, err := useCase.GetGame(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, game, stored)
	})

	t.Run("Returns error if repository fails", func(t *testing.T) {
		// Given: a repository that cannot store games
		repo := &mockGameRepo{}
		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Game")).Return(errRedisDown).Once()
		useCase := NewGameUseCase(suite.NewLogger(), repo, newController())

		// When: a game is created
		game, err := useCase.CreateGame(ctx)

		// Then: the storage error is returned
		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, game)
		repo.AssertExpectations(t)
	})
}

func TestGameUseCase_GetGame(t *testing.T) {
	ctx := context.Background()

	// Given: no game with the requested ID
	useCase := newMemoryUseCase()

	// When: the game is requested
	game, err := useCase.GetGame(ctx, "missing")

	// Then: ErrGameNotFound is returned
	require.ErrorIs(t, err, apperror.ErrGameNotFound)
	assert.Nil(t, game)
}

func TestGameUseCase_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Human move is answered by the computer and stored", func(t *testing.T) {
		// Given: a new game
		useCase := newMemoryUseCase()
		game, err := useCase.CreateGame(ctx)
		require.NoError(t, err)

		// When: the human takes the center
		updated, computerMove, err := useCase.MakeTurn(ctx, game.ID, 1, 1)

		// Then: both marks are on the stored board
		require.NoError(t, err)
		require.NotNil(t, computerMove)
		assert.Equal(t, entity.PlayerX, updated.Board.At(1, 1))
		assert.Equal(t, entity.PlayerO, updated.Board.At(computerMove.Row, computerMove.Col))

		stored, err := useCase.GetGame(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, stored)
	})

	t.Run("Invalid move is rejected and nothing is stored", func(t *testing.T) {
		// Given: a repository holding a game with X in the corner
		game := entity.NewGame("g1")
		game.Board[0][0] = entity.PlayerX
		game.Board[1][1] = entity.PlayerO

		repo := &mockGameRepo{}
		repo.On("GetByID", mock.Anything, "g1").Return(game, nil).Once()
		useCase := NewGameUseCase(suite.NewLogger(), repo, newController())

		// When: the human plays on the occupied corner
		updated, computerMove, err := useCase.MakeTurn(ctx, "g1", 0, 0)

		// Then: ErrInvalidMove is returned and CreateOrUpdate is never called
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Nil(t, updated)
		assert.Nil(t, computerMove)
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "CreateOrUpdate", mock.Anything, mock.Anything)
	})

	t.Run("Unknown game", func(t *testing.T) {
		useCase := newMemoryUseCase()

		_, _, err := useCase.MakeTurn(ctx, "missing", 0, 0)

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Returns error if repository update fails", func(t *testing.T) {
		repo := &mockGameRepo{}
		repo.On("GetByID", mock.Anything, "g1").Return(entity.NewGame("g1"), nil).Once()
		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Game")).Return(errRedisDown).Once()
		useCase := NewGameUseCase(suite.NewLogger(), repo, newController())

		_, _, err := useCase.MakeTurn(ctx, "g1", 2, 2)

		require.ErrorIs(t, err, errRedisDown)
		repo.AssertExpectations(t)
	})

	t.Run("Concurrent turns on one game never interleave", func(t *testing.T) {
		// Given: a new game
		useCase := newMemoryUseCase()
		game, err := useCase.CreateGame(ctx)
		require.NoError(t, err)

		// When: every cell is requested at the same time
		var wg sync.WaitGroup
		for _, move := range (entity.Board{}).EmptyCells() {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, _ = useCase.MakeTurn(ctx, game.ID, move.Row, move.Col)
			}()
		}
		wg.Wait()

		// Then: the board is a consistent sequence of X-then-O turns
		stored, err := useCase.GetGame(ctx, game.ID)
		require.NoError(t, err)

		xCount, oCount := stored.Board.Count(entity.PlayerX), stored.Board.Count(entity.PlayerO)
		if stored.Board.Winner(entity.PlayerX) || stored.Result() == entity.ResultDraw {
			assert.Equal(t, oCount+1, xCount)
		} else {
			assert.Equal(t, oCount, xCount)
		}
		assert.NotEqual(t, entity.ResultXWins, stored.Result())
	})
}

func TestGameUseCase_ResetGame(t *testing.T) {
	ctx := context.Background()

	// Given: a game with moves on the board
	useCase := newMemoryUseCase()
	game, err := useCase.CreateGame(ctx)
	require.NoError(t, err)
	_, _, err = useCase.MakeTurn(ctx, game.ID, 0, 0)
	require.NoError(t, err)

	// When: the game is reset
	reset, err := useCase.ResetGame(ctx, game.ID)

	// Then: the stored board is empty and the game is in progress
	require.NoError(t, err)
	assert.Equal(t, entity.Board{}, reset.Board)
	assert.False(t, reset.Over)

	stored, err := useCase.GetGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ResultInProgress, stored.Result())
}

func TestGameUseCase_DeleteGame(t *testing.T) {
	ctx := context.Background()

	useCase := newMemoryUseCase()
	game, err := useCase.CreateGame(ctx)
	require.NoError(t, err)

	require.NoError(t, useCase.DeleteGame(ctx, game.ID))

	_, err = useCase.GetGame(ctx, game.ID)
	require.ErrorIs(t, err, apperror.ErrGameNotFound)
	require.ErrorIs(t, useCase.DeleteGame(ctx, game.ID), apperror.ErrGameNotFound)
}

func TestGameUseCase_Locks(t *testing.T) {
	ctx := context.Background()

	t.Run("Deleted game leaves no lock behind", func(t *testing.T) {
		// Given: a game with a played turn
		useCase := newMemoryUseCase()
		game, err := useCase.CreateGame(ctx)
		require.NoError(t, err)
		_, _, err = useCase.MakeTurn(ctx, game.ID, 0, 0)
		require.NoError(t, err)

		// When: it is deleted and then played again
		require.NoError(t, useCase.DeleteGame(ctx, game.ID))
		_, _, err = useCase.MakeTurn(ctx, game.ID, 1, 1)

		// Then: the turn finds no game and the lock map is empty
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.Equal(t, 0, useCase.(*gameUseCase).locks.Size())
	})

	t.Run("Expired game lock is dropped on the next request", func(t *testing.T) {
		// Given: a repository that no longer has the game
		repo := &mockGameRepo{}
		repo.On("GetByID", mock.Anything, "gone").Return(nil, apperror.ErrGameNotFound).Twice()
		useCase := NewGameUseCase(suite.NewLogger(), repo, newController())

		// When: a turn and a reset are requested for it
		_, _, turnErr := useCase.MakeTurn(ctx, "gone", 0, 0)
		_, resetErr := useCase.ResetGame(ctx, "gone")

		// Then: both fail with ErrGameNotFound and no lock is kept
		require.ErrorIs(t, turnErr, apperror.ErrGameNotFound)
		require.ErrorIs(t, resetErr, apperror.ErrGameNotFound)
		assert.Equal(t, 0, useCase.(*gameUseCase).locks.Size())
		repo.AssertExpectations(t)
	})

	t.Run("Live game keeps its lock", func(t *testing.T) {
		useCase := newMemoryUseCase()
		game, err := useCase.CreateGame(ctx)
		require.NoError(t, err)

		_, _, err = useCase.MakeTurn(ctx, game.ID, 0, 0)
		require.NoError(t, err)

		assert.Equal(t, 1, useCase.(*gameUseCase).locks.Size())
	})
}
