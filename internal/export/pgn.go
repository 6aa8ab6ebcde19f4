// Package export writes finished or running games as PGN so they can be
// opened by ordinary chess software.
package export

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/notnil/chess"

	"github.com/benbeisheim/twochess-backend/internal/engine"
)

// ErrUnexportable is returned for histories standard chess rejects, such as
// a pawn stepping onto the last rank without promoting.
var ErrUnexportable = errors.New("move history cannot be expressed in PGN")

var rosterOrder = []string{"Event", "Site", "Date", "Round", "White", "Black", "Result"}

// PGN replays the board's history through a standard chess game and renders
// it with the given tags. Result is always taken from the board.
func PGN(b *engine.Board, tags map[string]string) (string, error) {
	game := chess.NewGame()
	var sans []string

	for i, m := range b.History().All() {
		from, to := toSquare(m.From), toSquare(m.To)
		var found *chess.Move
		for _, vm := range game.ValidMoves() {
			if vm.S1() == from && vm.S2() == to && vm.Promo() == chess.NoPieceType {
				found = vm
				break
			}
		}
		if found == nil {
			return "", fmt.Errorf("%w: ply %d %s%s", ErrUnexportable, i+1, m.From, m.To)
		}
		sans = append(sans, chess.AlgebraicNotation{}.Encode(game.Position(), found))
		if err := game.Move(found); err != nil {
			return "", fmt.Errorf("%w: ply %d: %v", ErrUnexportable, i+1, err)
		}
	}

	result := Result(b)
	var sb strings.Builder
	writeTags(&sb, tags, result)
	for i, san := range sans {
		if i%2 == 0 {
			fmt.Fprintf(&sb, "%d. ", i/2+1)
		}
		sb.WriteString(san)
		sb.WriteString(" ")
	}
	sb.WriteString(result)
	sb.WriteString("\n")
	return sb.String(), nil
}

// Result is the PGN result token for b.
func Result(b *engine.Board) string {
	winner, over := b.Winner()
	switch {
	case !over:
		return "*"
	case winner == engine.White:
		return "1-0"
	default:
		return "0-1"
	}
}

func writeTags(sb *strings.Builder, tags map[string]string, result string) {
	written := make(map[string]bool, len(tags))
	for _, key := range rosterOrder {
		value, ok := tags[key]
		if key == "Result" {
			value, ok = result, true
		}
		if !ok {
			value = "?"
		}
		fmt.Fprintf(sb, "[%s %q]\n", key, value)
		written[key] = true
	}
	var extra []string
	for key := range tags {
		if !written[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		fmt.Fprintf(sb, "[%s %q]\n", key, tags[key])
	}
	sb.WriteString("\n")
}

func toSquare(c engine.Coordinate) chess.Square {
	return chess.Square(c.Rank*8 + c.File)
}
