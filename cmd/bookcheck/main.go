package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/notnil/chess"
	"golang.org/x/sync/errgroup"

	"tethysbook/internal/book"
	"tethysbook/internal/logx"
)

type result struct {
	fen  string
	move string
	line []string
	err  error
}

func main() {
	var (
		path     = flag.String("book", "data/book.bin", "polyglot book file")
		fen      = flag.String("fen", "", "position to probe (default: start position)")
		fensFile = flag.String("fens", "", "file with one FEN per line")
		best     = flag.Bool("best", false, "pick the highest weighted move")
		plies    = flag.Int("line", 0, "also follow the book for this many plies")
		workers  = flag.Int("workers", runtime.NumCPU(), "parallel probes when -fens is set")
		level    = flag.String("log-level", "warn", "log level")
	)
	flag.Parse()
	log := logx.NewLogger(*level)

	fens := []string{*fen}
	if *fensFile != "" {
		var err error
		if fens, err = readLines(*fensFile); err != nil {
			log.Fatal().Err(err).Msg("read fens")
		}
	}

	results := make([]result, len(fens))
	jobs := make(chan int)
	g, ctx := errgroup.WithContext(context.Background())
	for w := 0; w < max(1, *workers); w++ {
		g.Go(func() error {
			// one book per worker; a Book is not safe for concurrent use.
			b, err := book.Load(*path, book.WithLogger(log))
			if err != nil {
				return err
			}
			defer b.Close()
			for i := range jobs {
				results[i] = probe(b, fens[i], *path, *best, *plies)
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(jobs)
		for i := range fens {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Str("book", *path).Msg("bookcheck failed")
	}

	for _, r := range results {
		switch {
		case r.err != nil:
			fmt.Printf("%s\terror: %v\n", r.fen, r.err)
		case r.move == "":
			fmt.Printf("%s\t(none)\n", r.fen)
		case len(r.line) > 0:
			fmt.Printf("%s\t%s\t%s\n", r.fen, r.move, strings.Join(r.line, " "))
		default:
			fmt.Printf("%s\t%s\n", r.fen, r.move)
		}
	}
}

func probe(b *book.Book, fen, path string, best bool, plies int) result {
	pos := chess.StartingPosition()
	if fen != "" {
		opt, err := chess.FEN(fen)
		if err != nil {
			return result{fen: fen, err: err}
		}
		pos = chess.NewGame(opt).Position()
	}
	r := result{fen: pos.String()}
	if mv, ok := b.Probe(pos, path, best); ok {
		r.move = chess.UCINotation{}.Encode(pos, mv)
	}
	if plies > 0 {
		r.line = b.Line(pos, plies)
	}
	return r
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			out = append(out, line)
		}
	}
	return out, scanner.Err()
}
