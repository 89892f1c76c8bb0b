package draw

import (
	"bytes"
	"strings"
	"testing"
)

var red = RGB(239, 68, 68)

func TestRGB(t *testing.T) {
	if RGB(0, 0, 0) == 0 {
		t.Fatalf("black must differ from the empty pixel")
	}
	r, g, b := RGB(1, 2, 3).Components()
	if r != 1 || g != 2 || b != 3 {
		t.Errorf("Components = %d %d %d", r, g, b)
	}
	if got := RGB(200, 100, 10).Scale(2); got != RGB(255, 200, 20) {
		t.Errorf("Scale(2) = %#x", got)
	}
	if Color(0).Scale(0.5) != 0 {
		t.Errorf("empty color scaled to non-empty")
	}
}

func TestCanvas_Scaling(t *testing.T) {
	// 10 columns x 5 rows = 10 x 10 sub-pixels covering a 100 x 100 space.
	c := NewScaledCanvas(10, 5, 100, 100)
	c.SetFloat(55, 99, red)
	if c.Pixel(5, 9) != red {
		t.Errorf("pixel (5,9) not set")
	}
	c.SetFloat(-1, 50, red)
	c.SetFloat(100, 50, red)

	col, row := c.LogicalToTerminal(55, 99)
	if col != 6 || row != 5 {
		t.Errorf("LogicalToTerminal = %d,%d; want 6,5", col, row)
	}
}

func TestCanvas_FillCircle(t *testing.T) {
	c := NewCanvas(20, 10)
	c.FillCircle(Point{X: 10, Y: 10}, 4, red)

	if c.Pixel(10, 10) != red || c.Pixel(7, 10) != red || c.Pixel(10, 13) != red {
		t.Errorf("circle interior not filled")
	}
	if c.Pixel(15, 10) != 0 || c.Pixel(10, 15) != 0 || c.Pixel(6, 6) != 0 {
		t.Errorf("circle leaked outside its radius")
	}

	c.Clear()
	c.FillCircle(Point{X: 3.2, Y: 4.7}, 0.01, red)
	if c.Pixel(3, 4) != red {
		t.Errorf("tiny circle did not set its center pixel")
	}
}

func TestCanvas_DrawLine(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(Point{X: 0, Y: 0}, Point{X: 9, Y: 9}, red)
	for i := 0; i < 10; i++ {
		if c.Pixel(i, i) != red {
			t.Errorf("diagonal pixel %d not set", i)
		}
	}
}

func TestCanvas_RenderDiffs(t *testing.T) {
	c := NewCanvas(4, 2)
	blue := RGB(59, 130, 246)
	c.SetFloat(0, 0, red)  // top half of cell (1,1)
	c.SetFloat(0, 1, blue) // bottom half of cell (1,1)
	c.SetFloat(2, 2, red)  // top of cell (3,2)
	c.SetFloat(2, 3, red)  // bottom of cell (3,2)

	var buf bytes.Buffer
	c.Render(&buf)
	out := buf.String()
	for _, want := range []string{
		"\033[1;1H", "\033[38;2;239;68;68m", "\033[48;2;59;130;246m", "▀",
		"\033[2;1H", "█", "\033[0m",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("first render missing %q in %q", want, out)
		}
	}
	if strings.Count(out, " ") != 6 {
		t.Errorf("first render should paint 6 empty cells, got %d", strings.Count(out, " "))
	}

	buf.Reset()
	c.Render(&buf)
	if buf.Len() != 0 {
		t.Errorf("unchanged frame rendered %q", buf.String())
	}

	c.Clear()
	c.SetFloat(0, 0, red)
	c.SetFloat(0, 1, blue)
	buf.Reset()
	c.Render(&buf)
	if got := buf.String(); got != "\033[2;3H \033[0m" && got != "\033[2;3H " {
		t.Errorf("erase render = %q", got)
	}

	c.ForceRedraw()
	buf.Reset()
	c.Render(&buf)
	if strings.Count(buf.String(), "H") < 1 || !strings.Contains(buf.String(), "▀") {
		t.Errorf("forced redraw = %q", buf.String())
	}
}

func TestCanvas_Offset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.SetOffset(3, 2)
	var buf bytes.Buffer
	c.Render(&buf)
	if !strings.HasPrefix(buf.String(), "\033[3;4H") {
		t.Errorf("first offset render = %q", buf.String())
	}

	c.SetFloat(1, 0, red)
	buf.Reset()
	c.Render(&buf)
	if !strings.Contains(buf.String(), "\033[3;5H") {
		t.Errorf("offset render = %q", buf.String())
	}
}

func TestChunkWriter(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 2, 1)
	cw.WriteAt(1, 1, "hi")
	cw.SetColor(RGB(1, 2, 3))
	cw.WriteString("x")
	cw.ResetStyle()
	big := strings.Repeat("a", 3*maxChunkSize)
	cw.WriteString(big)

	if err := cw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	want := "\033[2;3Hhi\033[38;2;1;2;3mx\033[0m" + big
	if out.String() != want {
		t.Errorf("flushed %d bytes, want %d", out.Len(), len(want))
	}
	out.Reset()
	if err := cw.Flush(); err != nil || out.Len() != 0 {
		t.Errorf("second Flush wrote %q, %v; want nothing", out.String(), err)
	}
}

func TestCanvas_Invalidate(t *testing.T) {
	c := NewCanvas(4, 2)
	var buf bytes.Buffer
	c.Render(&buf)

	c.Invalidate(2, 2, 2)
	c.Invalidate(0, 9, 3) // Off canvas
	buf.Reset()
	c.Render(&buf)
	if got := buf.String(); got != "\033[2;2H  " {
		t.Errorf("invalidated render = %q", got)
	}
}
