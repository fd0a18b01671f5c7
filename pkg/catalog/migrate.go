package catalog

import (
	"fmt"
	"strings"

	"github.com/fulmenhq/brandkit/pkg/scanner"
)

// MainTarget is the target key used for a legacy single-target configuration.
const MainTarget = "main"

// Migrate upgrades a record's legacy colorConfig into targets and sets.
// It only acts on vector records that have a colorConfig, at least one
// colour and no sets yet, so applying it again is a no-op. colorConfig
// itself is left in place for older consumers. Reports whether the record changed.
func Migrate(r *AssetRecord) bool {
	if !strings.EqualFold(r.Format, scanner.VectorExtension) {
		return false
	}
	cc, ok := r.Legacy()
	if !ok || !r.HasColors() || r.HasSets() {
		return false
	}

	targets := r.Targets
	if !r.HasTargets() {
		targets = legacyTargets(cc)
	}
	if targets.Len() == 0 {
		return false
	}

	sets := NewSets()
	i := 1
	for color := r.Colors.Oldest(); color != nil; color = color.Next() {
		set := NewColorSet()
		for target := targets.Oldest(); target != nil; target = target.Next() {
			set.Set(target.Key, color.Key)
		}
		sets.Set(fmt.Sprintf("set_%d", i), set)
		i++
	}

	r.Targets = targets
	r.Sets = sets
	return true
}

// legacyTargets builds targets from "selector" (comma separated, keys
// selector_1..N) or, failing that, from "target" (key main).
func legacyTargets(cc LegacyColorConfig) *Targets {
	targets := NewTargets()
	if cc.Selector != "" {
		n := 0
		for _, part := range strings.Split(cc.Selector, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n++
			targets.Set(fmt.Sprintf("selector_%d", n), part)
		}
		return targets
	}
	if t := strings.TrimSpace(cc.Target); t != "" {
		targets.Set(MainTarget, t)
	}
	return targets
}
