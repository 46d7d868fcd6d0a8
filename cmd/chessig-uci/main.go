// Command chessig-uci runs the engine as a UCI-speaking process on
// stdin/stdout, suitable for any UCI-compatible GUI.
package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/hailam/chessig/internal/book"
	"github.com/hailam/chessig/internal/uci"
	"github.com/hailam/chessig/internal/search"
)

var (
	hashMB   = flag.Int("hash", 64, "transposition table size in megabytes")
	bookPath = flag.String("book", "", "path to an opening book file: one game per line, space-separated UCI moves")
)

func main() {
	flag.Parse()

	var ob *book.Book
	if *bookPath != "" {
		games, err := loadBook(*bookPath)
		if err != nil {
			log.Printf("opening book not loaded: %v", err)
		} else {
			ob = book.New(games, 1)
		}
	}

	searcher := search.NewSearcher(*hashMB, ob)
	protocol := uci.New(searcher, ob, *hashMB)
	protocol.Run(context.Background())
}

// loadBook reads a plain-text opening book: one recorded game per
// line, its moves given as space-separated UCI strings (e2e4 e7e5 ...).
// Extracting such a file from PGN is left to an external tool; this
// program only consumes the already-flattened move lists.
func loadBook(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var games [][]string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		games = append(games, strings.Fields(line))
	}
	return games, scanner.Err()
}
