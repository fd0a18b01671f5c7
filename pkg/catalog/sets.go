package catalog

import (
	"fmt"
	"sort"
)

// SetProblem describes one inconsistency inside a colour set.
type SetProblem struct {
	Record string `json:"record"`
	Set    string `json:"set"`
	Target string `json:"target"`
	Color  string `json:"color,omitempty"`
	Reason string `json:"reason"`
}

func (p SetProblem) String() string {
	return fmt.Sprintf("%s: set %q target %q: %s", p.Record, p.Set, p.Target, p.Reason)
}

// ResolveSet maps each target of the named set to a concrete colour value.
// Assignments whose target or colour key is unknown are left out and
// reported; an empty result means the set cannot produce a variant.
func (r *AssetRecord) ResolveSet(name string) (map[string]string, []SetProblem) {
	if r.Sets == nil {
		return nil, nil
	}
	set, ok := r.Sets.Get(name)
	if !ok || set == nil {
		return nil, nil
	}

	resolved := make(map[string]string, set.Len())
	var problems []SetProblem
	for pair := set.Oldest(); pair != nil; pair = pair.Next() {
		targetKey, colorKey := pair.Key, pair.Value
		if r.Targets == nil {
			problems = append(problems, SetProblem{Record: r.Path, Set: name, Target: targetKey, Color: colorKey, Reason: "record has no targets"})
			continue
		}
		if _, ok := r.Targets.Get(targetKey); !ok {
			problems = append(problems, SetProblem{Record: r.Path, Set: name, Target: targetKey, Color: colorKey, Reason: "unknown target"})
			continue
		}
		if r.Colors == nil {
			problems = append(problems, SetProblem{Record: r.Path, Set: name, Target: targetKey, Color: colorKey, Reason: "record has no colors"})
			continue
		}
		cv, ok := r.Colors.Get(colorKey)
		if !ok || cv.Value == "" {
			problems = append(problems, SetProblem{Record: r.Path, Set: name, Target: targetKey, Color: colorKey, Reason: "unknown color"})
			continue
		}
		resolved[targetKey] = cv.Value
	}
	return resolved, problems
}

// ValidateSets checks every set of the record. A set is valid when every
// target it touches exists and every colour it references exists.
func (r *AssetRecord) ValidateSets() []SetProblem {
	var problems []SetProblem
	for _, name := range r.SetNames() {
		_, p := r.ResolveSet(name)
		problems = append(problems, p...)
	}
	return problems
}

// ValidateCatalog runs ValidateSets over every record and flags duplicate paths.
func ValidateCatalog(records []*AssetRecord) []SetProblem {
	var problems []SetProblem
	seen := make(map[string]int, len(records))
	for _, r := range records {
		seen[r.Path]++
		problems = append(problems, r.ValidateSets()...)
	}
	dups := make([]string, 0)
	for p, n := range seen {
		if n > 1 {
			dups = append(dups, p)
		}
	}
	sort.Strings(dups)
	for _, p := range dups {
		problems = append(problems, SetProblem{Record: p, Reason: fmt.Sprintf("path appears %d times", seen[p])})
	}
	return problems
}
