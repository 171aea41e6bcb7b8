package tui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// cell is one rendered target rune.
type cell struct {
	s       string
	width   int
	isSpace bool
}

// buildCells styles every target rune against the typed input. Runes typed
// past the end of the target are summarized in a trailing overflow marker.
func buildCells(target, input []rune, cursorIndex int) []cell {
	out := make([]cell, 0, len(target)+1)
	for i, want := range target {
		shown := want
		style := pendingStyle
		if i < len(input) {
			switch {
			case input[i] == want:
				style = correctStyle
			case want == ' ':
				shown = '·'
				style = incorrectStyle
			default:
				style = incorrectStyle
			}
		}
		if i == cursorIndex {
			style = style.Underline(true)
		}
		out = append(out, cell{
			s:       style.Render(string(shown)),
			width:   runewidth.RuneWidth(shown),
			isSpace: want == ' ',
		})
	}
	if extra := len(input) - len(target); extra > 0 {
		marker := fmt.Sprintf(" +%d", extra)
		out = append(out, cell{
			s:     incorrectStyle.Render(marker),
			width: runewidth.StringWidth(marker),
		})
	}
	return out
}

func renderCells(cells []cell) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteString(c.s)
	}
	return b.String()
}

// wrapCells breaks cells into lines no wider than width, preferring the last
// space on the line. Sentences without spaces (CJK) break anywhere.
func wrapCells(cells []cell, width int) string {
	if width <= 0 {
		return renderCells(cells)
	}
	var lines []string
	var line []cell
	lineWidth := 0
	for _, c := range cells {
		if lineWidth+c.width > width && len(line) > 0 {
			cut := lastSpace(line)
			if cut < 0 {
				lines = append(lines, renderCells(line))
				line, lineWidth = nil, 0
			} else {
				lines = append(lines, renderCells(line[:cut]))
				line = append([]cell(nil), line[cut+1:]...)
				lineWidth = widthOf(line)
			}
		}
		line = append(line, c)
		lineWidth += c.width
	}
	lines = append(lines, renderCells(line))
	return strings.Join(lines, "\n")
}

func widthOf(cells []cell) int {
	total := 0
	for _, c := range cells {
		total += c.width
	}
	return total
}

func lastSpace(cells []cell) int {
	for i := len(cells) - 1; i >= 0; i-- {
		if cells[i].isSpace {
			return i
		}
	}
	return -1
}
