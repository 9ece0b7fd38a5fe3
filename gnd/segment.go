// Package gnd segments the raw authority dump stream into records and
// extracts their identifiers.
package gnd

import (
	"bufio"
	"io"
	"strings"
)

// maxLineSize bounds a single input line. Dump lines are short, this is
// headroom for atypical content.
const maxLineSize = 1 << 20

// GroupScanner partitions a line stream into maximal runs of non-blank
// lines. Blank runs separate groups and are discarded. Lines are returned
// stripped of leading and trailing whitespace. The scan is single-pass and
// holds at most one group in memory.
type GroupScanner struct {
	sc      *bufio.Scanner
	group   []string
	runs    int
	inBlank bool
	started bool
}

// NewGroupScanner wraps a reader of line-oriented text.
func NewGroupScanner(r io.Reader) *GroupScanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &GroupScanner{sc: sc}
}

// Scan advances to the next non-blank group. It returns false when the
// input is exhausted or reading fails.
func (g *GroupScanner) Scan() bool {
	g.group = g.group[:0]
	for g.sc.Scan() {
		line := strings.TrimSpace(g.sc.Text())
		if line == "" {
			if !g.inBlank || !g.started {
				g.runs++
				g.inBlank = true
				g.started = true
			}
			if len(g.group) > 0 {
				return true
			}
			continue
		}
		if g.inBlank || !g.started {
			g.runs++
			g.inBlank = false
			g.started = true
		}
		g.group = append(g.group, line)
	}
	return len(g.group) > 0
}

// Group returns the stripped lines of the current group. The slice is
// reused by the next call to Scan.
func (g *GroupScanner) Group() []string {
	return g.group
}

// Runs returns the number of blank and non-blank runs seen so far.
func (g *GroupScanner) Runs() int {
	return g.runs
}

// Err returns the first error encountered while reading.
func (g *GroupScanner) Err() error {
	return g.sc.Err()
}
