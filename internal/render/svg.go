// Package render draws boards as SVG documents for clients that cannot run
// their own board widget.
package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/benbeisheim/twochess-backend/internal/engine"
)

const (
	squareSize  = 60
	borderSize  = 20
	lightColour = "#f0d9b5"
	darkColour  = "#b58863"
	markColour  = "#7fa650"
)

var glyphs = map[engine.Side]map[engine.PieceType]string{
	engine.White: {
		engine.King: "♔", engine.Queen: "♕", engine.Rook: "♖",
		engine.Bishop: "♗", engine.Knight: "♘", engine.Pawn: "♙",
	},
	engine.Black: {
		engine.King: "♚", engine.Queen: "♛", engine.Rook: "♜",
		engine.Bishop: "♝", engine.Knight: "♞", engine.Pawn: "♟",
	},
}

type Options struct {
	// Perspective is the side drawn at the bottom.
	Perspective engine.Side
	// Marked squares get an overlay, e.g. the legal moves of a selected piece.
	Marked []engine.Coordinate
}

// Board writes b as an SVG image to w.
func Board(w io.Writer, b *engine.Board, opts Options) {
	total := 8*squareSize + 2*borderSize
	canvas := svg.New(w)
	canvas.Start(total, total)
	canvas.Rect(0, 0, total, total, "fill:#312e2b")

	marked := make(map[engine.Coordinate]bool, len(opts.Marked))
	for _, c := range opts.Marked {
		marked[c] = true
	}

	for _, c := range engine.AllCoordinates() {
		x, y := origin(c, opts.Perspective)
		fill := lightColour
		if (c.File+c.Rank)%2 == 0 {
			fill = darkColour
		}
		canvas.Rect(x, y, squareSize, squareSize, "fill:"+fill, fmt.Sprintf(`id="%s"`, c))
		if marked[c] {
			canvas.Circle(x+squareSize/2, y+squareSize/2, squareSize/6, "fill:"+markColour+";fill-opacity:0.8")
		}
		if p, ok := b.Piece(c); ok {
			canvas.Text(x+squareSize/2, y+squareSize*3/4, glyphs[p.Side][p.Type],
				"text-anchor:middle;font-size:44px;font-family:serif")
		}
	}

	drawLabels(canvas, opts.Perspective)
	canvas.End()
}

// origin is the top left corner of c's square.
func origin(c engine.Coordinate, perspective engine.Side) (int, int) {
	col, row := c.File, 7-c.Rank
	if perspective == engine.Black {
		col, row = 7-c.File, c.Rank
	}
	return borderSize + col*squareSize, borderSize + row*squareSize
}

func drawLabels(canvas *svg.SVG, perspective engine.Side) {
	style := "text-anchor:middle;font-size:12px;font-family:sans-serif;fill:#bababa"
	for i := 0; i < 8; i++ {
		file := engine.Coordinate{File: i, Rank: 0}
		x, _ := origin(file, perspective)
		canvas.Text(x+squareSize/2, 8*squareSize+borderSize+14, file.FileLetter(), style)

		rank := engine.Coordinate{File: 0, Rank: i}
		_, y := origin(rank, perspective)
		canvas.Text(borderSize/2, y+squareSize/2+4, fmt.Sprintf("%d", i+1), style)
	}
}
