package boardrender

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strings"

	nchess "github.com/corentings/chess/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	boardSquares      = 8
	defaultSquareSize = 72
)

var (
	lightSquare         = color.RGBA{233, 207, 163, 255}
	darkSquare          = color.RGBA{187, 136, 96, 255}
	coordinateTextColor = color.NRGBA{R: 60, G: 44, B: 28, A: 255}
)

// RenderFEN renders a library position to a PNG board image. The FEN is
// decoded for display only; no legality checking happens here.
func RenderFEN(ctx context.Context, fen string, squareSize int) ([]byte, error) {
	var game *nchess.Game
	if strings.TrimSpace(fen) == "" || fen == "startpos" {
		game = nchess.NewGame()
	} else {
		option, err := nchess.FEN(fen)
		if err != nil {
			return nil, fmt.Errorf("parse fen %q: %w", fen, err)
		}
		game = nchess.NewGame(option)
	}
	return RenderBoard(ctx, game.Position().Board(), squareSize)
}

// RenderBoard draws squares, pieces and coordinates into a PNG.
func RenderBoard(ctx context.Context, board *nchess.Board, squareSize int) ([]byte, error) {
	if board == nil {
		return nil, fmt.Errorf("board is nil")
	}
	if squareSize <= 0 {
		squareSize = defaultSquareSize
	}

	margin := squareSize / 2
	boardSize := squareSize * boardSquares
	totalWidth := boardSize + margin*2
	totalHeight := boardSize + margin*2
	origin := image.Point{X: margin, Y: margin}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	img := image.NewRGBA(image.Rect(0, 0, totalWidth, totalHeight))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, imagedraw.Src)

	drawSquares(img, squareSize, origin)
	if err := drawPieces(img, board, squareSize, origin); err != nil {
		return nil, err
	}
	drawCoordinates(img, squareSize, origin, margin)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return pngBuf.Bytes(), nil
}

var (
	boardRanks = []nchess.Rank{nchess.Rank8, nchess.Rank7, nchess.Rank6, nchess.Rank5, nchess.Rank4, nchess.Rank3, nchess.Rank2, nchess.Rank1}
	boardFiles = []nchess.File{nchess.FileA, nchess.FileB, nchess.FileC, nchess.FileD, nchess.FileE, nchess.FileF, nchess.FileG, nchess.FileH}
)

func drawSquares(dst imagedraw.Image, squareSize int, origin image.Point) {
	for row, rank := range boardRanks {
		for col, file := range boardFiles {
			x := origin.X + col*squareSize
			y := origin.Y + row*squareSize
			sq := nchess.NewSquare(file, rank)
			imagedraw.Draw(dst, image.Rect(x, y, x+squareSize, y+squareSize), image.NewUniform(squareColor(sq)), image.Point{}, imagedraw.Src)
		}
	}
}

func drawPieces(dst imagedraw.Image, board *nchess.Board, squareSize int, origin image.Point) error {
	boardMap := board.SquareMap()
	for row, rank := range boardRanks {
		for col, file := range boardFiles {
			sq := nchess.NewSquare(file, rank)
			piece := boardMap[sq]
			if piece == nchess.NoPiece {
				continue
			}
			img, err := renderPieceImage(piece, squareSize)
			if err != nil {
				return err
			}
			x := origin.X + col*squareSize
			y := origin.Y + row*squareSize
			imagedraw.Draw(dst, image.Rect(x, y, x+squareSize, y+squareSize), img, image.Point{}, imagedraw.Over)
		}
	}
	return nil
}

func drawCoordinates(img *image.RGBA, squareSize int, origin image.Point, margin int) {
	drawer := &font.Drawer{
		Dst:  img,
		Face: basicfont.Face7x13,
		Src:  image.NewUniform(coordinateTextColor),
	}
	ascent := basicfont.Face7x13.Metrics().Ascent.Ceil()
	boardEndY := origin.Y + boardSquares*squareSize

	for row, rank := range boardRanks {
		baseline := origin.Y + row*squareSize + squareSize/2 + ascent/2
		drawCenteredText(drawer, rank.String(), origin.X-margin/2, baseline)
	}
	for col, file := range boardFiles {
		centerX := origin.X + col*squareSize + squareSize/2
		drawCenteredText(drawer, file.String(), centerX, boardEndY+margin/2+ascent/2)
	}
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	if text == "" {
		return
	}
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}

func squareColor(sq nchess.Square) color.Color {
	if (int(sq.File())+int(sq.Rank()))%2 == 0 {
		return darkSquare
	}
	return lightSquare
}
