package gnd

import (
	"regexp"
	"strings"
)

// Record is one authority entry: the GND identifier and the stripped,
// newline-joined text of its block.
type Record struct {
	ID      string
	Content string
}

// idPattern recognizes the GND identifier on the first line of a record
// block, e.g. <rdf:Description rdf:about="http://d-nb.info/gnd/118540238">.
var idPattern = regexp.MustCompile(`http://d-nb\.info/gnd/([0-9A-Z-]+)">`)

// Parse inspects a stripped group of lines. Groups whose first line carries
// no identifier are not records and are dropped by the caller; ok reports
// whether a record was found.
func Parse(lines []string) (rec Record, ok bool) {
	if len(lines) == 0 {
		return Record{}, false
	}
	m := idPattern.FindStringSubmatch(lines[0])
	if m == nil {
		return Record{}, false
	}
	return Record{ID: m[1], Content: strings.Join(lines, "\n")}, true
}
