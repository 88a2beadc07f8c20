package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
)

type Cell string

const (
	EmptyCell Cell = ""
	CellX     Cell = "X"
	CellO     Cell = "O"
)

const BoardSize = 9

// WinCombos - rows, columns, diagonals. The order decides which line is reported first.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

type OutcomeKind int

const (
	Ongoing OutcomeKind = iota
	Win
	Draw
)

func (that OutcomeKind) String() string {
	switch that {
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "ongoing"
	}
}

// Outcome - result of evaluating a board. Symbol is set only for Win.
type Outcome struct {
	Kind   OutcomeKind
	Symbol Cell
}

type Board [BoardSize]Cell

// SetCell - writes symbol into an empty cell.
func (that *Board) SetCell(position int, symbol Cell) error {
	if position < 0 || position >= BoardSize {
		return fmt.Errorf("%w: cell %d is out of range", apperror.ErrInvalidMove, position)
	}

	if that[position] != EmptyCell {
		return fmt.Errorf("%w: cell %d is already occupied", apperror.ErrInvalidMove, position)
	}

	that[position] = symbol

	return nil
}

func (that *Board) EvaluateOutcome() Outcome {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return Outcome{Kind: Win, Symbol: a}
		}
	}

	// the game continues while any cell is empty
	for _, cell := range that {
		if cell == EmptyCell {
			return Outcome{Kind: Ongoing}
		}
	}

	return Outcome{Kind: Draw}
}
