// Package pattern derives occurrences of the 23 GoF design patterns from
// the sub-pattern sets produced by package subpattern.
package pattern

import (
	"fmt"
	"sort"
	"strings"
)

// Occurrence is a labeled bundle of the sub-pattern tuples that witness one
// instance of a design pattern at specific classes.
type Occurrence struct {
	Pattern   string
	Witnesses map[string]any
}

// Key returns a stable string uniquely identifying this occurrence's
// witness bundle, used to deduplicate identical records.
func (o Occurrence) Key() string {
	keys := make([]string, 0, len(o.Witnesses))
	for k := range o.Witnesses {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(o.Pattern)
	for _, k := range keys {
		fmt.Fprintf(&b, "|%s=%v", k, o.Witnesses[k])
	}
	return b.String()
}

func dedupOccurrences(in []Occurrence) []Occurrence {
	seen := make(map[string]struct{}, len(in))
	out := make([]Occurrence, 0, len(in))
	for _, o := range in {
		k := o.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, o)
	}
	return out
}
