package object

import (
	"math/rand"
	"testing"

	"github.com/tomz197/balloon-darts/internal/game/config"
	"pgregory.net/rapid"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestGenerateBoard_Level1(t *testing.T) {
	b := GenerateBoard(1, Viewport{Width: 1000, Height: 800}, testRand())

	if b.Cols != 5 || b.Rows != 3 {
		t.Fatalf("shape = %dx%d, want 5x3", b.Cols, b.Rows)
	}
	if len(b.Balloons) != 15 {
		t.Fatalf("len(Balloons) = %d, want 15", len(b.Balloons))
	}
	for i, balloon := range b.Balloons {
		if balloon.Points != 15 {
			t.Errorf("balloon %d Points = %d, want 15", i, balloon.Points)
		}
		if balloon.Radius != config.BalloonRadius {
			t.Errorf("balloon %d Radius = %v, want %v", i, balloon.Radius, config.BalloonRadius)
		}
		if balloon.Popped {
			t.Errorf("balloon %d already popped", i)
		}
		if balloon.VX != 0 || balloon.VY != 0 {
			t.Errorf("balloon %d velocity = (%v, %v), want zero", i, balloon.VX, balloon.VY)
		}
	}

	// Centered horizontally: (1000 - 4*90) / 2 = 320.
	first, last := b.Balloons[0], b.Balloons[len(b.Balloons)-1]
	if first.X != 320 || last.X != 680 {
		t.Errorf("X range = [%v, %v], want [320, 680]", first.X, last.X)
	}
	// Lifted: (800 - 2*100) / 2 - 50 = 250.
	if first.Y != 250 || last.Y != 450 {
		t.Errorf("Y range = [%v, %v], want [250, 450]", first.Y, last.Y)
	}
}

func TestGenerateBoard_RowMajor(t *testing.T) {
	b := GenerateBoard(2, DefaultViewport(), testRand())
	for i := 1; i < b.Cols; i++ {
		if b.Balloons[i].Y != b.Balloons[0].Y {
			t.Fatalf("balloon %d not on first row", i)
		}
		if b.Balloons[i].X-b.Balloons[i-1].X != config.BalloonSpacingX {
			t.Fatalf("balloon %d spacing = %v, want %v", i, b.Balloons[i].X-b.Balloons[i-1].X, config.BalloonSpacingX)
		}
	}
	if b.Balloons[b.Cols].Y-b.Balloons[0].Y != config.BalloonSpacingY {
		t.Errorf("row spacing = %v, want %v", b.Balloons[b.Cols].Y-b.Balloons[0].Y, config.BalloonSpacingY)
	}
}

func TestGenerateBoard_Shape(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		level := rapid.IntRange(1, 100).Draw(t, "level")
		w := rapid.Float64Range(100, 4000).Draw(t, "width")
		h := rapid.Float64Range(100, 4000).Draw(t, "height")
		b := GenerateBoard(level, Viewport{Width: w, Height: h}, rand.New(rand.NewSource(int64(level))))

		wantCols := min(4+level, 8)
		if b.Cols != wantCols || b.Rows != 3 {
			t.Fatalf("level %d shape = %dx%d, want %dx3", level, b.Cols, b.Rows, wantCols)
		}
		if len(b.Balloons) != wantCols*3 {
			t.Fatalf("level %d balloons = %d, want %d", level, len(b.Balloons), wantCols*3)
		}
		for _, balloon := range b.Balloons {
			if balloon.Points != 10+level*5 {
				t.Fatalf("level %d balloon points = %d, want %d", level, balloon.Points, 10+level*5)
			}
			if balloon.Color < ColorRed || balloon.Color > ColorCyan {
				t.Fatalf("color %d outside palette", balloon.Color)
			}
		}
	})
}

func TestGenerateBoard_FreshIdentities(t *testing.T) {
	rng := testRand()
	a := GenerateBoard(1, DefaultViewport(), rng)
	b := GenerateBoard(1, DefaultViewport(), rng)

	seen := make(map[string]bool)
	for _, balloon := range append(a.Balloons, b.Balloons...) {
		if seen[balloon.ID] {
			t.Fatalf("duplicate id %s", balloon.ID)
		}
		seen[balloon.ID] = true
	}
}

func TestBoard_Relayout_KeepsPopState(t *testing.T) {
	b := GenerateBoard(3, Viewport{Width: 800, Height: 600}, testRand())
	b.Balloons[4].Popped = true
	id := b.Balloons[4].ID
	color := b.Balloons[4].Color

	b.Relayout(Viewport{Width: 1600, Height: 1200})

	if !b.Balloons[4].Popped || b.Balloons[4].ID != id || b.Balloons[4].Color != color {
		t.Fatalf("balloon 4 changed identity or state on relayout")
	}
	if got := b.Remaining(); got != len(b.Balloons)-1 {
		t.Errorf("Remaining() = %d, want %d", got, len(b.Balloons)-1)
	}
	// (1600 - 6*90) / 2 = 530
	if b.Balloons[0].X != 530 {
		t.Errorf("first X = %v, want 530", b.Balloons[0].X)
	}
}

func TestBoard_HitTest(t *testing.T) {
	b := GenerateBoard(1, Viewport{Width: 1000, Height: 800}, testRand())
	target := b.Balloons[7]

	got, ok := b.HitTest(target.Center())
	if !ok || got != target {
		t.Fatalf("HitTest(center of 7) = %v, %v; want balloon 7", got, ok)
	}

	if _, ok := b.HitTest(Point{X: -500, Y: -500}); ok {
		t.Error("HitTest far away should miss")
	}

	target.Popped = true
	if got, ok := b.HitTest(target.Center()); ok {
		t.Errorf("HitTest on popped balloon returned %s", got.ID)
	}
}

func TestBoard_HitTest_FirstInRowMajorOrder(t *testing.T) {
	b := GenerateBoard(1, Viewport{Width: 1000, Height: 800}, testRand())
	// Midway between balloons 0 and 1 is 45 px from each: outside the 40 px reach.
	mid := Point{X: (b.Balloons[0].X + b.Balloons[1].X) / 2, Y: b.Balloons[0].Y}
	if _, ok := b.HitTest(mid); ok {
		t.Fatal("midpoint between balloons should miss")
	}

	// Widen the balloons so neighbours overlap; the earlier index must win.
	for _, balloon := range b.Balloons {
		balloon.Radius = 40
	}
	b.Relayout(Viewport{Width: 1000, Height: 800})
	got, ok := b.HitTest(mid)
	if !ok || got != b.Balloons[0] {
		t.Fatalf("HitTest(mid) = %v, %v; want balloon 0", got, ok)
	}
}

// The grid-backed hit test must agree with a plain row-major scan.
func TestBoard_HitTest_MatchesLinearScan(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		level := rapid.IntRange(1, 6).Draw(t, "level")
		b := GenerateBoard(level, Viewport{
			Width:  rapid.Float64Range(200, 2000).Draw(t, "width"),
			Height: rapid.Float64Range(200, 2000).Draw(t, "height"),
		}, testRand())
		for _, balloon := range b.Balloons {
			balloon.Popped = rapid.Bool().Draw(t, "popped")
		}
		p := Point{
			X: rapid.Float64Range(-200, 2200).Draw(t, "x"),
			Y: rapid.Float64Range(-200, 2200).Draw(t, "y"),
		}

		var want *Balloon
		for _, balloon := range b.Balloons {
			if !balloon.Popped && IsHit(p, balloon) {
				want = balloon
				break
			}
		}
		got, ok := b.HitTest(p)
		if ok != (want != nil) || got != want {
			t.Fatalf("HitTest(%v) = %v, %v; want %v", p, got, ok, want)
		}
	})
}

func TestBoard_Find(t *testing.T) {
	b := GenerateBoard(1, DefaultViewport(), testRand())
	want := b.Balloons[3]
	if got, ok := b.Find(want.ID); !ok || got != want {
		t.Errorf("Find(%s) = %v, %v", want.ID, got, ok)
	}
	if _, ok := b.Find("missing"); ok {
		t.Error("Find(missing) should fail")
	}
}
