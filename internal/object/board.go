package object

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/tomz197/balloon-darts/internal/game/config"
	"github.com/tomz197/balloon-darts/internal/physics"
)

// Board is the full set of balloons for one level, stored row-major.
type Board struct {
	Level    int
	Rows     int
	Cols     int
	Balloons []*Balloon

	grid *physics.Grid // Broad-phase index over Balloons (rebuilt on layout)
}

// GenerateBoard creates a fresh board for the level, laid out in view.
// Shape and points depend only on the level; colors are drawn from rng.
func GenerateBoard(level int, view Viewport, rng *rand.Rand) *Board {
	if level < 1 {
		level = 1
	}
	cols := config.Columns(level)
	rows := config.BoardRows
	points := config.BalloonPoints(level)

	b := &Board{
		Level:    level,
		Rows:     rows,
		Cols:     cols,
		Balloons: make([]*Balloon, 0, rows*cols),
	}
	for range rows * cols {
		b.Balloons = append(b.Balloons, &Balloon{
			ID:     uuid.NewString(),
			Radius: config.BalloonRadius,
			Color:  Palette[rng.Intn(len(Palette))],
			Points: points,
		})
	}
	b.Relayout(view)
	return b
}

// Relayout positions every balloon for a new viewport. Identities, colors,
// points and popped flags are kept.
func (b *Board) Relayout(view Viewport) {
	boardWidth := float64(b.Cols-1) * config.BalloonSpacingX
	boardHeight := float64(b.Rows-1) * config.BalloonSpacingY
	startX := (view.Width - boardWidth) / 2
	startY := (view.Height-boardHeight)/2 - config.BoardLift

	for i, balloon := range b.Balloons {
		r, c := i/b.Cols, i%b.Cols
		balloon.X = startX + float64(c)*config.BalloonSpacingX
		balloon.Y = startY + float64(r)*config.BalloonSpacingY
	}

	// Cell size covers the widest hit distance so a 3x3 query is exhaustive.
	reach := config.BalloonRadius
	for _, balloon := range b.Balloons {
		reach = max(reach, balloon.Radius)
	}
	reach += config.HitMargin
	b.grid = physics.NewGrid(startX-reach, startY-reach, boardWidth+2*reach, boardHeight+2*reach, reach)
	for i, balloon := range b.Balloons {
		b.grid.Insert(balloon.X, balloon.Y, i)
	}
}

// Find returns the balloon with the given id.
func (b *Board) Find(id string) (*Balloon, bool) {
	for _, balloon := range b.Balloons {
		if balloon.ID == id {
			return balloon, true
		}
	}
	return nil, false
}

// Remaining returns how many balloons are still unpopped.
func (b *Board) Remaining() int {
	n := 0
	for _, balloon := range b.Balloons {
		if !balloon.Popped {
			n++
		}
	}
	return n
}

// Cleared reports whether every balloon is popped.
func (b *Board) Cleared() bool {
	return b.Remaining() == 0
}

// HitTest returns the first unpopped balloon, in row-major order, that a
// dart landing at p would hit.
func (b *Board) HitTest(p Point) (*Balloon, bool) {
	best := -1
	b.grid.QueryAround(p.X, p.Y, func(i int) bool {
		if best >= 0 && i > best {
			return false
		}
		balloon := b.Balloons[i]
		if !balloon.Popped && IsHit(p, balloon) {
			best = i
		}
		return false
	})
	if best < 0 {
		return nil, false
	}
	return b.Balloons[best], true
}
