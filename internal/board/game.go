package board

import "fmt"

// Board wraps a Position with the move history a game (as opposed to a bare
// position) needs to track: a strict LIFO undo stack and the hash trail
// threefold repetition is checked against. Position itself stays a plain
// bitboard snapshot with no notion of how it was reached.
type Board struct {
	pos     *Position
	history []boardFrame
	hashes  []uint64
}

type boardFrame struct {
	move Move
	undo UndoInfo
}

// NewBoard returns a Board at the standard starting position.
func NewBoard() *Board {
	return &Board{
		pos:    NewPosition(),
		hashes: []uint64{NewPosition().Hash},
	}
}

// NewBoardFromFEN parses fen and returns a Board at that position.
func NewBoardFromFEN(fen string) (*Board, error) {
	pos, err := ParseFEN(fen)
	if err != nil {
		return nil, fmt.Errorf("board: %w", err)
	}
	return &Board{
		pos:    pos,
		hashes: []uint64{pos.Hash},
	}, nil
}

// Position exposes the underlying bitboard position.
func (b *Board) Position() *Position {
	return b.pos
}

// Ply returns the number of moves applied since the board was created.
func (b *Board) Ply() int {
	return len(b.history)
}

// LastMove returns the most recently applied move, or NoMove if none.
func (b *Board) LastMove() Move {
	if len(b.history) == 0 {
		return NoMove
	}
	return b.history[len(b.history)-1].move
}

// IsNull reports whether m is the null move.
func IsNull(m Move) bool {
	return m == NoMove
}

// ApplyMove plays m if it is legal in the current position, and returns
// an error otherwise, leaving the board unchanged. It pushes the
// resulting undo information onto the board's stack so a matching
// UndoMove can unwind it.
func (b *Board) ApplyMove(m Move) error {
	if !b.pos.GeneratePseudoLegalMoves().Contains(m) || !b.pos.IsLegal(m) {
		return fmt.Errorf("board: illegal move %s in position %s", m, b.pos.ToFEN())
	}
	undo := b.pos.MakeMove(m)
	b.history = append(b.history, boardFrame{move: m, undo: undo})
	b.hashes = append(b.hashes, b.pos.Hash)
	return nil
}

// ApplyUCIMove parses s as a UCI move string and applies it.
func (b *Board) ApplyUCIMove(s string) error {
	m, err := ParseMove(s, b.pos)
	if err != nil {
		return err
	}
	return b.ApplyMove(m)
}

// UndoMove pops the most recently applied move. It panics if the stack is
// empty, since undoing past the board's origin is always a caller bug.
func (b *Board) UndoMove() {
	n := len(b.history)
	if n == 0 {
		panic("board: UndoMove called with empty history")
	}
	frame := b.history[n-1]
	b.pos.UnmakeMove(frame.move, frame.undo)
	b.history = b.history[:n-1]
	b.hashes = b.hashes[:len(b.hashes)-1]
}

// FiftyMoveRule reports whether the fifty-move rule currently allows a
// draw claim.
func (b *Board) FiftyMoveRule() bool {
	return b.pos.HalfMoveClock >= 100
}

// ThreefoldRepetition reports whether the current position has occurred
// at least three times in this board's history (counting the current
// occurrence).
func (b *Board) ThreefoldRepetition() bool {
	target := b.pos.Hash
	count := 0
	for _, h := range b.hashes {
		if h == target {
			count++
			if count >= 3 {
				return true
			}
		}
	}
	return false
}

// IsDrawByRule reports whether the game is drawn by the fifty-move rule,
// threefold repetition, stalemate, or insufficient material.
func (b *Board) IsDrawByRule() bool {
	return b.FiftyMoveRule() || b.ThreefoldRepetition() || b.pos.IsDraw()
}

// FEN returns the FEN representation of the current position.
func (b *Board) FEN() string {
	return b.pos.ToFEN()
}

// String renders the board the way Position does, for debugging and logs.
func (b *Board) String() string {
	return b.pos.String()
}

// LegalMoves returns the legal moves available to the side to move.
func (b *Board) LegalMoves() *MoveList {
	return b.pos.GenerateLegalMoves()
}

// IsCheckmate, IsStalemate delegate straight to the underlying position.
func (b *Board) IsCheckmate() bool { return b.pos.IsCheckmate() }
func (b *Board) IsStalemate() bool { return b.pos.IsStalemate() }
func (b *Board) InCheck() bool     { return b.pos.InCheck() }
func (b *Board) SideToMove() Color { return b.pos.SideToMove }
func (b *Board) Hash() uint64      { return b.pos.Hash }
