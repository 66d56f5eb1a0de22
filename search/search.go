// Package search finds literal query matches in the visible window of a
// terminal grid for highlighting.
package search

import (
	"fmt"
	"iter"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/javanhut/RavenPanel/grid"
)

// MatchTimeout bounds a single find call.
const MatchTimeout = 50 * time.Millisecond

// Match is a highlighted range. End.Col is exclusive and covers both columns
// of a wide character in the last matched cell.
type Match struct {
	Start grid.Point
	End   grid.Point
}

// Highlighter searches grid lines for one query.
type Highlighter struct {
	query string
	re    *regexp2.Regexp
}

// Compile builds a highlighter for a literal query.
func Compile(query string) (*Highlighter, error) {
	if query == "" {
		return nil, fmt.Errorf("search: empty query")
	}
	re, err := regexp2.Compile(regexp2.Escape(query), regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("search: compile %q: %w", query, err)
	}
	re.MatchTimeout = MatchTimeout
	return &Highlighter{query: query, re: re}, nil
}

func (h *Highlighter) Query() string { return h.query }

// window is the searchable text of a range of lines flattened into runes.
// Lines that did not soft-wrap are followed by a newline so matches do not
// cross hard line breaks.
type window struct {
	runes  []rune
	points []grid.Point // per rune, the cell it came from
	index  [][]int      // per line and column, the rune covering it
	top    int
	bottom int
	cols   int
}

func newWindow(lines grid.Lines, top, bottom int) *window {
	w := &window{top: top, bottom: bottom, cols: lines.Columns()}
	for line := top; line <= bottom; line++ {
		row := lines.Row(line)
		idx := make([]int, w.cols)
		for col := 0; col < w.cols; col++ {
			if col >= len(row) {
				idx[col] = len(w.runes)
				continue
			}
			c := row[col]
			if c.Flags&grid.FlagWideSpacer != 0 && col > 0 {
				idx[col] = idx[col-1]
				continue
			}
			ch := c.Char
			if ch == 0 {
				ch = ' '
			}
			idx[col] = len(w.runes)
			w.runes = append(w.runes, ch)
			w.points = append(w.points, grid.Point{Line: line, Col: col})
		}
		w.index = append(w.index, idx)
		if len(row) == 0 || row[len(row)-1].Flags&grid.FlagWrapline == 0 {
			w.runes = append(w.runes, '\n')
			w.points = append(w.points, grid.Point{Line: line, Col: w.cols - 1})
		}
	}
	return w
}

func (w *window) runeAt(p grid.Point) int {
	return w.index[p.Line-w.top][p.Col]
}

// Matches yields the matches in the visible window plus one look-ahead line,
// in increasing order. It stops early when the matcher fails or stops making
// progress.
func (h *Highlighter) Matches(lines grid.Lines) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		if h == nil || lines.Columns() <= 0 {
			return
		}
		top := -lines.DisplayOffset()
		bottom := min(top+lines.ScreenLines(), lines.BottommostLine())
		if bottom < top {
			return
		}
		w := newWindow(lines, top, bottom)
		lastCol := w.cols - 1

		cursor := grid.Point{Line: top}
		for {
			from := w.runeAt(cursor)
			m, err := h.re.FindRunesMatchStartingAt(w.runes, from)
			if err != nil || m == nil {
				return
			}
			if m.Index < from {
				return
			}

			start := w.points[m.Index]
			end := start
			if m.Length > 0 {
				end = w.points[m.Index+m.Length-1]
				row := lines.Row(end.Line)
				width := 1
				if end.Col < len(row) {
					width = row[end.Col].Width()
				}
				if !yield(Match{Start: start, End: grid.Point{Line: end.Line, Col: end.Col + width}}) {
					return
				}
				if end.Col+1 < w.cols && end.Col < len(row) && row[end.Col].Flags&grid.FlagWide != 0 {
					end.Col++
				}
			}

			switch {
			case end.Col < lastCol:
				end.Col++
			case end.Line < bottom:
				end = grid.Point{Line: end.Line + 1}
			default:
				return
			}
			if !cursor.Before(end) {
				return
			}
			cursor = end
		}
	}
}
