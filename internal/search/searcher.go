// Package search implements iterative-deepening alpha-beta search with
// quiescence, a transposition table, killer moves, and a history
// heuristic. The core Searcher is synchronous: a single call to Search
// runs to completion (or to its time/depth limit) on the calling
// goroutine. Backgrounding a search and servicing "stop" concurrently
// is the UCI front-end's job, not this package's.
package search

import (
	"context"
	"time"

	"github.com/seekerror/logw"

	"github.com/hailam/chessig/internal/board"
	"github.com/hailam/chessig/internal/book"
	"github.com/hailam/chessig/internal/eval"
)

// abortScore is returned up the call stack when the time budget runs
// out mid-search. It collides with a legitimate evaluation of -1; this
// is accepted since every comparison against it is paired with a check
// that the time budget has run out or the context has been cancelled.
const abortScore = -1

// Stats accumulates counters for one Search call, surfaced to the UCI
// front-end's "info" reporting.
type Stats struct {
	Nodes             int
	EvaluatedPositions int
	BetaCutoffs       int
	TranspositionUses int
}

// Info reports one completed iterative-deepening iteration, delivered
// through Searcher.OnInfo so a UCI front-end can print it as a
// standard "info depth ... score cp ... hashfull ..." line while the
// search is still running.
type Info struct {
	Depth    int
	Score    int
	Nodes    int
	Time     time.Duration
	HashFull float64 // fraction (0-1) of the transposition table in use
	Move     board.Move
}

// Searcher holds all state that must survive across the iterative
// deepening loop of a single Search call, plus the long-lived tables
// (transposition, history, killers) that persist across calls within a
// game.
type Searcher struct {
	tt        *TranspositionTable
	history   *HistoryHeuristic
	killers   *KillerMoves
	evaluator eval.Evaluator
	book      *book.Book

	stats Stats

	bestMoveThisIter  board.Move
	hasSearchedOneMove bool

	startTime  time.Time
	timeBudget time.Duration
	targetDepth int

	// OnInfo, if set, is called once per completed iterative-deepening
	// iteration so a UCI front-end can report progress while Search is
	// still running. It must not block or call back into Search/Stats.
	OnInfo func(Info)
}

// NewSearcher builds a Searcher with a transposition table sized
// hashMB megabytes. ob may be nil, disabling opening-book consultation.
func NewSearcher(hashMB int, ob *book.Book) *Searcher {
	return &Searcher{
		tt:        NewTranspositionTable(hashMB),
		history:   NewHistoryHeuristic(),
		killers:   NewKillerMoves(),
		evaluator: eval.NewClassic(),
		book:      ob,
	}
}

// Stats returns a snapshot of the last Search call's counters.
func (s *Searcher) Stats() Stats {
	return s.stats
}

// TranspositionUsage returns the fraction (0 to 1) of the transposition
// table currently in use.
func (s *Searcher) TranspositionUsage() float64 {
	return s.tt.Usage()
}

// NewGame clears all tables that must not leak information between
// unrelated games.
func (s *Searcher) NewGame() {
	s.tt.Clear()
	s.history.Clear()
	s.killers.Clear()
	if s.book != nil {
		s.book.Reset()
	}
}

// Search runs iterative deepening on b up to limiter's depth and time
// bounds and returns the best move found. If the opening book has a
// continuation for the current position, it is played immediately
// without any search, and consulted only once per call.
func (s *Searcher) Search(ctx context.Context, b *board.Board, limiter Limiter) board.Move {
	s.stats = Stats{}

	if s.book != nil && s.book.IsEnabled() {
		if mv, ok := s.book.NextMove(); ok {
			if m, err := board.ParseMove(mv, b.Position()); err == nil && b.LegalMoves().Contains(m) {
				return m
			}
		}
	}

	s.startTime = time.Now()
	s.timeBudget = limiter.Budget()
	s.targetDepth = limiter.Depth()
	s.bestMoveThisIter = board.NoMove
	s.hasSearchedOneMove = false

	bestMove := board.NoMove
	bestEval := negativeInfinity
	depthReached := 0

	for depth := 0; depth <= s.targetDepth; depth++ {
		if ctx.Err() != nil || time.Since(s.startTime) > s.timeBudget {
			break
		}

		score := s.negamax(ctx, b, negativeInfinity, Infinity, depth, 0, 0)

		if score == abortScore && (ctx.Err() != nil || time.Since(s.startTime) > s.timeBudget) && s.bestMoveThisIter != board.NoMove {
			break
		}

		if s.hasSearchedOneMove {
			bestMove = s.bestMoveThisIter
			bestEval = score
			depthReached = depth
			s.hasSearchedOneMove = false
			s.bestMoveThisIter = board.NoMove

			if s.OnInfo != nil {
				s.OnInfo(Info{
					Depth:    depthReached,
					Score:    bestEval,
					Nodes:    s.stats.Nodes,
					Time:     time.Since(s.startTime),
					HashFull: s.TranspositionUsage(),
					Move:     bestMove,
				})
			}

			if IsMateEval(score) {
				break
			}
		}
	}

	logw.Debugf(ctx, "search depth=%d nodes=%d score=%d move=%s hashfull=%.1f%%",
		depthReached, s.stats.Nodes, bestEval, bestMove, s.TranspositionUsage()*100)

	return bestMove
}

// negamax is the fail-hard alpha-beta search. It mutates b in place via
// Apply/UndoMove and always leaves it exactly as it found it.
func (s *Searcher) negamax(ctx context.Context, b *board.Board, alpha, beta, depth, plyFromRoot, numExtensions int) int {
	s.stats.Nodes++

	if b.IsStalemate() || b.FiftyMoveRule() || b.ThreefoldRepetition() {
		return 0
	}
	if b.IsCheckmate() {
		return -(ImmediateMateScore - plyFromRoot)
	}

	if depth <= 0 {
		return s.quiescence(ctx, b, alpha, beta, plyFromRoot+1)
	}

	pos := b.Position()
	if ttEval, ok := s.lookupTTWithDrawCheck(b, depth, plyFromRoot, alpha, beta); ok {
		return ttEval
	}

	if plyFromRoot > 3 {
		const margin = 50
		e := s.evaluator.Evaluate(pos)
		if e-margin >= beta {
			return e - margin
		}
	}

	moves := pos.GenerateLegalMoves()
	OrderMoves(pos, moves, s.tt, s.killers, s.history, depth)

	bestMove := board.NoMove
	bound := UpperBound

	for i := 0; i < moves.Len(); i++ {
		if ctx.Err() != nil || time.Since(s.startTime) > s.timeBudget {
			return abortScore
		}
		mv := moves.Get(i)

		if err := b.ApplyMove(mv); err != nil {
			continue
		}

		extension := calculateExtensions(pos, numExtensions)

		e := negativeInfinity
		fullSearch := true

		const reducedDepth = 2
		if i > 4 && extension == 0 && !pos.InCheck() && depth >= 3 {
			e = -s.negamax(ctx, b, -beta, -alpha, depth-1-reducedDepth, plyFromRoot+1, numExtensions)
			fullSearch = e > alpha
		}

		if fullSearch {
			if i == 0 {
				e = -s.negamax(ctx, b, -beta, -alpha, depth-1+extension, plyFromRoot+1, numExtensions+extension)
			} else {
				e = -s.negamax(ctx, b, -alpha-1, -alpha, depth-1, plyFromRoot+1, numExtensions+extension)
				if e > alpha && e < beta {
					e = -s.negamax(ctx, b, -beta, -alpha, depth-1, plyFromRoot+1, numExtensions+extension)
				}
			}
		}

		b.UndoMove()

		if e == abortScore && (ctx.Err() != nil || time.Since(s.startTime) > s.timeBudget) {
			return abortScore
		}

		if e >= beta {
			s.tt.Store(pos.Hash, depth, plyFromRoot, e, LowerBound, mv)
			s.stats.BetaCutoffs++
			return beta
		}

		if e > alpha {
			bound = Exact
			bestMove = mv
			alpha = e
			s.history.Update(mv, depth)

			if plyFromRoot == 0 {
				s.bestMoveThisIter = mv
				s.hasSearchedOneMove = true
			}
		}
	}

	s.tt.Store(pos.Hash, depth, plyFromRoot, alpha, bound, bestMove)
	return alpha
}

// lookupTTWithDrawCheck probes the transposition table and, if a usable
// entry exists, replays the position further (at the root, the stored
// best move and then every legal reply to it; elsewhere, every legal
// move one ply deep) to make sure trusting
// the cached score would not paper over a forced draw the table entry
// predates. This is slower than a bare TT hit but prevents the search
// from repeating into a draw it has already seen refuted.
func (s *Searcher) lookupTTWithDrawCheck(b *board.Board, depth, plyFromRoot, alpha, beta int) (int, bool) {
	pos := b.Position()
	ttEval, ok := s.tt.LookupEval(pos.Hash, depth, plyFromRoot, alpha, beta)
	if !ok {
		return 0, false
	}
	s.stats.TranspositionUses++

	if plyFromRoot == 0 {
		storedMove, hasMove := s.tt.GetStoredMove(pos.Hash)
		if !hasMove {
			return 0, false
		}
		if err := b.ApplyMove(storedMove); err != nil {
			return 0, false
		}
		foundDraw := false
		replies := pos.GenerateLegalMoves()
		for i := 0; i < replies.Len(); i++ {
			if err := b.ApplyMove(replies.Get(i)); err != nil {
				continue
			}
			if b.FiftyMoveRule() || b.ThreefoldRepetition() {
				foundDraw = true
				b.UndoMove()
				break
			}
			b.UndoMove()
		}
		b.UndoMove()

		if foundDraw {
			return 0, false
		}
		s.bestMoveThisIter = storedMove
		s.hasSearchedOneMove = true
		return ttEval, true
	}

	foundDraw := false
	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		if err := b.ApplyMove(moves.Get(i)); err != nil {
			continue
		}
		if b.FiftyMoveRule() || b.ThreefoldRepetition() {
			foundDraw = true
			b.UndoMove()
			break
		}
		b.UndoMove()
	}
	if foundDraw {
		return 0, false
	}
	return ttEval, true
}

// quiescence extends the search through captures only, to avoid
// evaluating a position in the middle of an exchange.
func (s *Searcher) quiescence(ctx context.Context, b *board.Board, alpha, beta, plyFromRoot int) int {
	pos := b.Position()
	e := s.evaluator.Evaluate(pos)

	if b.IsCheckmate() {
		return -(ImmediateMateScore - plyFromRoot)
	}
	if b.ThreefoldRepetition() || b.FiftyMoveRule() || b.IsStalemate() {
		return 0
	}
	s.stats.EvaluatedPositions++

	if e >= beta {
		s.stats.BetaCutoffs++
		return beta
	}
	if e > alpha {
		alpha = e
	}

	captures := pos.GenerateCaptures()
	OrderMoves(pos, captures, s.tt, s.killers, s.history, 0)

	for i := 0; i < captures.Len(); i++ {
		mv := captures.Get(i)
		if err := b.ApplyMove(mv); err != nil {
			continue
		}
		score := -s.quiescence(ctx, b, -beta, -alpha, plyFromRoot+1)
		b.UndoMove()

		if score >= beta {
			s.stats.BetaCutoffs++
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}
