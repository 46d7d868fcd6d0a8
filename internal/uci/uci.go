// Package uci implements the Universal Chess Interface protocol: a
// line-oriented stdin/stdout command loop that wires GUI commands to a
// Board and Searcher. It is the only place in the module where a
// search runs in the background while the main goroutine keeps reading
// commands (notably "stop").
package uci

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/atomic"

	"github.com/seekerror/logw"

	"github.com/hailam/chessig/internal/board"
	"github.com/hailam/chessig/internal/book"
	"github.com/hailam/chessig/internal/search"
)

// UCI holds everything the protocol loop needs across commands: the
// current game position, the searcher (and its long-lived tables), and
// the state of any in-flight background search.
type UCI struct {
	searcher *search.Searcher
	ob       *book.Book
	b        *board.Board

	hashMB int

	searching atomic.Bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// New creates a UCI handler backed by searcher. ob may be nil.
func New(searcher *search.Searcher, ob *book.Book, hashMB int) *UCI {
	u := &UCI{
		searcher: searcher,
		ob:       ob,
		b:        board.NewBoard(),
		hashMB:   hashMB,
	}
	u.wireInfo()
	return u
}

// wireInfo hooks the searcher's per-iteration callback to print a
// standard UCI "info" line to stdout as the search progresses, rather
// than only logging a summary once the whole search has finished.
func (u *UCI) wireInfo() {
	u.searcher.OnInfo = u.sendInfo
}

// sendInfo prints one iterative-deepening iteration's progress in UCI
// "info" format. Only a single-move pv is reported, since this
// searcher keeps just the root's best move across iterations rather
// than a full principal-variation line.
func (u *UCI) sendInfo(info search.Info) {
	var parts []string
	parts = append(parts, fmt.Sprintf("depth %d", info.Depth))

	if search.IsMateEval(info.Score) {
		mateIn := (search.ImmediateMateScore - info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))

	if info.Time > 0 {
		nps := int64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}

	parts = append(parts, fmt.Sprintf("hashfull %d", int(info.HashFull*1000)))

	if info.Move != board.NoMove {
		parts = append(parts, fmt.Sprintf("pv %s", info.Move))
	}

	fmt.Printf("info %s\n", strings.Join(parts, " "))
}

// Run drives the UCI command loop over stdin until "quit".
func (u *UCI) Run(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(ctx, args)
		case "go":
			u.handleGo(ctx, args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleStop()
			return
		case "setoption":
			u.handleSetOption(args)
		case "d":
			fmt.Println(u.b.String())
		default:
			logw.Debugf(ctx, "uci: ignoring unrecognized command %q", cmd)
		}
	}
}

func (u *UCI) handleUCI() {
	fmt.Println("id name Chessig")
	fmt.Println("id author Chessig Team")
	fmt.Println()
	fmt.Println("option name Hash type spin default 64 min 1 max 4096")
	fmt.Println("option name OwnBook type check default true")
	fmt.Println("uciok")
}

func (u *UCI) handleNewGame() {
	u.searcher.NewGame()
	u.b = board.NewBoard()
}

// handlePosition parses "position startpos|fen <fen> [moves ...]" and
// replays every move against both the board and the opening book, so
// the book's notion of "where we are" never falls out of sync with the
// real game even when no search is run between moves.
func (u *UCI) handlePosition(ctx context.Context, args []string) {
	if len(args) == 0 {
		return
	}

	isStartpos := args[0] == "startpos"

	switch {
	case isStartpos:
		u.b = board.NewBoard()
	case args[0] == "fen":
		fenEnd := len(args)
		for i, a := range args[1:] {
			if a == "moves" {
				fenEnd = i + 1
				break
			}
		}
		b, err := board.NewBoardFromFEN(strings.Join(args[1:fenEnd], " "))
		if err != nil {
			logw.Errorf(ctx, "uci: invalid fen: %v", err)
			return
		}
		u.b = b
	default:
		return
	}

	// A custom FEN starts outside any known opening, so the book has
	// nothing to say about it for the rest of this game.
	if u.ob != nil {
		u.ob.SetEnabled(isStartpos)
		u.ob.Reset()
	}

	moveStart := len(args)
	for i, arg := range args {
		if arg == "moves" {
			moveStart = i + 1
			break
		}
	}

	if moveStart >= len(args) {
		return
	}
	for _, mv := range args[moveStart:] {
		if err := u.b.ApplyUCIMove(mv); err != nil {
			logw.Errorf(ctx, "uci: invalid move %s: %v", mv, err)
			return
		}
		if u.ob != nil && !u.ob.ApplyMove(mv) {
			u.ob.SetEnabled(false)
		}
	}
}

// goOptions holds parsed "go" command arguments.
type goOptions struct {
	depth     int
	hasDepth  bool
	moveTime  time.Duration
	hasTime   bool
	infinite  bool
	wtime     time.Duration
	btime     time.Duration
	winc      time.Duration
	binc      time.Duration
	movesToGo int
}

func parseGoOptions(args []string) goOptions {
	var o goOptions
	for i := 0; i < len(args); i++ {
		next := func() string {
			if i+1 < len(args) {
				i++
				return args[i]
			}
			return ""
		}
		switch args[i] {
		case "depth":
			o.depth, _ = strconv.Atoi(next())
			o.hasDepth = true
		case "movetime":
			ms, _ := strconv.Atoi(next())
			o.moveTime = time.Duration(ms) * time.Millisecond
			o.hasTime = true
		case "infinite":
			o.infinite = true
		case "wtime":
			ms, _ := strconv.Atoi(next())
			o.wtime = time.Duration(ms) * time.Millisecond
		case "btime":
			ms, _ := strconv.Atoi(next())
			o.btime = time.Duration(ms) * time.Millisecond
		case "winc":
			ms, _ := strconv.Atoi(next())
			o.winc = time.Duration(ms) * time.Millisecond
		case "binc":
			ms, _ := strconv.Atoi(next())
			o.binc = time.Duration(ms) * time.Millisecond
		case "movestogo":
			o.movesToGo, _ = strconv.Atoi(next())
		}
	}
	return o
}

// timeForMove computes the budget for the side to move, using the
// search time formula time = (sideTime / movesToGo) * factor, where
// factor = 2 - nMoves/10 and nMoves = min(ply-10, 10) once the opening
// book is out of the picture, so factor falls from 3 at ply 0 to 1 at
// ply 20 and stays there. While the book is still enabled, nMoves is
// left at zero (factor 2) since the book, not the clock, governs the
// early moves.
func (u *UCI) timeForMove(o goOptions) time.Duration {
	var sideTime, inc time.Duration
	if u.b.SideToMove() == board.White {
		sideTime, inc = o.wtime, o.winc
	} else {
		sideTime, inc = o.btime, o.binc
	}
	if sideTime <= 0 {
		return 0
	}

	movesToGo := o.movesToGo
	if movesToGo <= 0 {
		movesToGo = estimateMovesToGo(u.b)
	}

	nMoves := 0
	bookActive := u.ob != nil && u.ob.IsEnabled()
	if !bookActive {
		nMoves = u.b.Ply() - 10
		if nMoves > 10 {
			nMoves = 10
		}
	}
	factor := 2.0 - float64(nMoves)/10.0

	base := time.Duration(float64(sideTime/time.Duration(movesToGo)) * factor)
	budget := base + inc*9/10

	if max := sideTime * 9 / 10; budget > max {
		budget = max
	}
	if budget < 10*time.Millisecond {
		budget = 10 * time.Millisecond
	}
	return budget
}

func estimateMovesToGo(b *board.Board) int {
	pieces := b.Position().AllOccupied.PopCount()
	switch {
	case pieces > 24:
		return 40
	case pieces > 12:
		return 30
	default:
		return 20
	}
}

func (u *UCI) limiterFor(o goOptions) search.Limiter {
	switch {
	case o.infinite:
		return search.DepthLimit(search.MaxPly)
	case o.hasDepth && o.hasTime:
		return search.Both(o.depth, o.moveTime)
	case o.hasDepth:
		return search.DepthLimit(o.depth)
	case o.hasTime:
		return search.TimeLimit(o.moveTime)
	default:
		budget := u.timeForMove(o)
		if budget <= 0 {
			return search.DepthLimit(6)
		}
		return search.TimeLimit(budget)
	}
}

// handleGo launches a search in the background so the command loop
// stays responsive to "stop" while it runs.
func (u *UCI) handleGo(ctx context.Context, args []string) {
	if u.searching.Load() {
		return
	}
	opts := parseGoOptions(args)
	limiter := u.limiterFor(opts)

	searchCtx, cancel := context.WithCancel(ctx)
	u.cancel = cancel
	u.done = make(chan struct{})
	u.searching.Store(true)

	go func() {
		defer close(u.done)
		defer u.searching.Store(false)

		mv := u.searcher.Search(searchCtx, u.b, limiter)
		if mv == board.NoMove {
			legal := u.b.LegalMoves()
			if legal.Len() > 0 {
				mv = legal.Get(0)
			}
		}
		if mv == board.NoMove {
			fmt.Println("bestmove 0000")
			return
		}
		fmt.Printf("bestmove %s\n", mv)
	}()
}

func (u *UCI) handleStop() {
	if !u.searching.Load() {
		return
	}
	if u.cancel != nil {
		u.cancel()
	}
	<-u.done
}

func (u *UCI) handleSetOption(args []string) {
	var name, value string
	readingName, readingValue := false, false
	for _, a := range args {
		switch a {
		case "name":
			readingName, readingValue = true, false
		case "value":
			readingName, readingValue = false, true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += a
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += a
			}
		}
	}

	switch strings.ToLower(name) {
	case "hash":
		if mb, err := strconv.Atoi(value); err == nil && mb >= 1 {
			u.hashMB = mb
			u.searcher = search.NewSearcher(mb, u.ob)
			u.wireInfo()
		}
	case "ownbook":
		if u.ob != nil {
			u.ob.SetEnabled(strings.ToLower(value) == "true")
		}
	}
}
