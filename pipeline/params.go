// Package pipeline implements the staged execution model: stages with
// declared parameters, fingerprint-addressed artifacts and an atomic
// write-then-promote contract, plus a small topological runner.
package pipeline

import (
	"regexp"
	"sort"
	"strings"

	"github.com/gosimple/slug"
)

// DefaultFingerprint is used when a stage declares no parameters.
const DefaultFingerprint = "artefact"

// Parameter is one named stage parameter. A stage declares its parameters
// as an explicit ordered list, never discovered by reflection.
type Parameter struct {
	Name  string
	Value string
}

// Fingerprint derives the artifact address from a parameter set. Parameters
// are sorted by name so the result is stable regardless of declaration
// order. Identical parameter sets always yield identical fingerprints.
func Fingerprint(params []Parameter) string {
	if len(params) == 0 {
		return DefaultFingerprint
	}

	sorted := make([]Parameter, len(params))
	copy(sorted, params)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	parts := make([]string, len(sorted))
	for i, p := range sorted {
		parts[i] = p.Name + "-" + slug.Make(p.Value)
	}
	return strings.Join(parts, "-")
}

var (
	kindSlugFirst = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	kindSlugLast  = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// KindSlug converts a CamelCase stage kind into its lowercase-hyphenated
// directory name, e.g. GNDDump becomes gnd-dump.
func KindSlug(name string) string {
	s := kindSlugFirst.ReplaceAllString(name, "${1}-${2}")
	s = kindSlugLast.ReplaceAllString(s, "${1}-${2}")
	return strings.ToLower(s)
}
