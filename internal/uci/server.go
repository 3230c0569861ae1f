package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"tethysbook/internal/engine"
)

// Server speaks the UCI text protocol and answers "go" from the opening book.
type Server struct {
	name   string
	player *engine.Player
	out    io.Writer
	log    zerolog.Logger

	pos *chess.Position
}

func NewServer(name string, player *engine.Player, out io.Writer, log zerolog.Logger) *Server {
	return &Server{
		name:   name,
		player: player,
		out:    out,
		log:    log,
		pos:    chess.StartingPosition(),
	}
}

// Run reads commands until "quit" or end of input. Command errors are
// reported as "info string" lines and do not stop the loop.
func (s *Server) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" {
			return nil
		}
		if err := s.handle(ctx, line); err != nil {
			s.log.Debug().Err(err).Str("cmd", line).Msg("uci command failed")
			s.send("info string %v", err)
		}
	}
	return scanner.Err()
}

func (s *Server) send(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}

func (s *Server) handle(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	args := fields[1:]
	switch fields[0] {
	case "uci":
		s.send("id name %s", s.name)
		s.send("id author the tethys authors")
		for _, opt := range s.player.Options().UCI() {
			s.send("%s", opt)
		}
		s.send("uciok")
	case "isready":
		s.send("readyok")
	case "setoption":
		return s.setOption(args)
	case "ucinewgame":
		s.pos = chess.StartingPosition()
	case "position":
		pos, err := parsePosition(args)
		if err != nil {
			return err
		}
		s.pos = pos
	case "go":
		mv, ok := s.player.BookMove(ctx, s.pos)
		if !ok {
			s.send("info string no book move")
			s.send("bestmove 0000")
			return nil
		}
		s.send("bestmove %s", chess.UCINotation{}.Encode(s.pos, mv))
	case "stop", "ponderhit":
	default:
		return fmt.Errorf("unknown command: %s", fields[0])
	}
	return nil
}

// setOption handles "name <words...> [value <words...>]".
func (s *Server) setOption(args []string) error {
	if len(args) < 2 || args[0] != "name" {
		return errors.New("invalid setoption arguments")
	}
	nameEnd := len(args)
	value := ""
	for i, a := range args {
		if a == "value" {
			nameEnd = i
			value = strings.Join(args[i+1:], " ")
			break
		}
	}
	name := strings.Join(args[1:nameEnd], " ")
	return s.player.Options().Set(name, value)
}

func parsePosition(args []string) (*chess.Position, error) {
	if len(args) == 0 {
		return nil, errors.New("invalid position arguments")
	}
	movesIdx := len(args)
	for i, a := range args {
		if a == "moves" {
			movesIdx = i
			break
		}
	}

	var pos *chess.Position
	switch args[0] {
	case "startpos":
		pos = chess.StartingPosition()
	case "fen":
		opt, err := chess.FEN(strings.Join(args[1:movesIdx], " "))
		if err != nil {
			return nil, fmt.Errorf("parse fen: %w", err)
		}
		pos = chess.NewGame(opt).Position()
	default:
		return nil, fmt.Errorf("unknown position type: %s", args[0])
	}

	if movesIdx < len(args) {
		for _, s := range args[movesIdx+1:] {
			mv, err := chess.UCINotation{}.Decode(pos, s)
			if err != nil {
				return nil, fmt.Errorf("parse move %s: %w", s, err)
			}
			if !legal(pos, mv) {
				return nil, fmt.Errorf("illegal move: %s", s)
			}
			pos = pos.Update(mv)
		}
	}
	return pos, nil
}

func legal(pos *chess.Position, mv *chess.Move) bool {
	for _, v := range pos.ValidMoves() {
		if v.S1() == mv.S1() && v.S2() == mv.S2() && v.Promo() == mv.Promo() {
			return true
		}
	}
	return false
}
