package draw

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// ANSI control sequences used by the front ends.
const (
	seqClear      = "\033[H\033[2J"
	seqHideCursor = "\033[?25l"
	seqShowCursor = "\033[?25h"
	seqDefaultFg  = "\033[39m"
	seqReset      = "\033[0m"
)

// ChunkWriter collects one frame of terminal output (canvas cells, HUD
// text) and sends it in maxChunkSize pieces on Flush. Coordinates given to
// WriteAt are relative to the centered play area.
type ChunkWriter struct {
	buf     strings.Builder
	out     *bufio.Writer
	scratch [20]byte
	offCol  int
	offRow  int
}

func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		out:    bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset moves the play area, e.g. after a terminal resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

func (cw *ChunkWriter) Write(p []byte) (int, error) {
	return cw.buf.Write(p)
}

func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// WriteAt writes s starting at the 1-based play area cell (col, row).
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.buf.WriteString("\033[")
	cw.writeInt(row + cw.offRow)
	cw.buf.WriteByte(';')
	cw.writeInt(col + cw.offCol)
	cw.buf.WriteByte('H')
	cw.buf.WriteString(s)
}

// SetColor switches the foreground color for following text. The zero
// color restores the terminal default.
func (cw *ChunkWriter) SetColor(c Color) {
	if c == 0 {
		cw.buf.WriteString(seqDefaultFg)
		return
	}
	r, g, b := c.Components()
	cw.buf.WriteString("\033[38;2;")
	cw.writeInt(int(r))
	cw.buf.WriteByte(';')
	cw.writeInt(int(g))
	cw.buf.WriteByte(';')
	cw.writeInt(int(b))
	cw.buf.WriteByte('m')
}

// ResetStyle clears colors and attributes.
func (cw *ChunkWriter) ResetStyle() {
	cw.buf.WriteString(seqReset)
}

func (cw *ChunkWriter) writeInt(n int) {
	cw.buf.Write(strconv.AppendInt(cw.scratch[:0], int64(n), 10))
}

// Flush sends the frame and empties the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	if err := writeChunks(cw.out, data); err != nil {
		return err
	}
	return cw.out.Flush()
}

var _ io.Writer = (*ChunkWriter)(nil)

// writeChunks writes data in pieces of at most maxChunkSize bytes so a slow
// SSH channel sees a steady flow instead of one large burst.
func writeChunks(w io.Writer, data string) error {
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := io.WriteString(w, data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// TermSizeFunc reports the terminal size in cells.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc reads the size of the process's own terminal.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

func ClearScreen(w io.Writer) { io.WriteString(w, seqClear) }
func HideCursor(w io.Writer)  { io.WriteString(w, seqHideCursor) }
func ShowCursor(w io.Writer)  { io.WriteString(w, seqShowCursor) }
