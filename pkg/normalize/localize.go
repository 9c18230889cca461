// Package normalize converts raw per-spectrum search results into the
// canonical identification document graph: localized modifications, interned
// peptides and proteins, evidence links and per-spectrum items.
package normalize

import (
	"sort"

	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/core"
)

// LocalizeModifications converts a result's modification map into the ordered
// list of localized modification records. The N-terminus localizes to
// location 0, the C-terminus to sequence length + 1, and an internal offset i
// to the 1-based position i+1 with the residue at that offset attached.
// Co-occurring deltas at one position each become an independent record.
//
// The function is pure and performs no deduplication; positions are emitted
// in sequence order so the result is deterministic for a given map.
func LocalizeModifications(mods map[core.ModPosition][]core.MassDelta, sequence string) []core.LocalizedModification {
	if len(mods) == 0 {
		return nil
	}

	positions := make([]core.ModPosition, 0, len(mods))
	for pos := range mods {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Compare(positions[j]) < 0
	})

	var localized []core.LocalizedModification
	for _, pos := range positions {
		for _, delta := range mods[pos] {
			lm := core.LocalizedModification{
				AvgMassDelta:  delta.Avg,
				MonoMassDelta: delta.Mono,
			}
			switch pos.Kind {
			case core.PosNTerminal:
				lm.Location = 0
			case core.PosCTerminal:
				lm.Location = len(sequence) + 1
			default:
				lm.Location = pos.Index + 1
				lm.Residue = sequence[pos.Index]
			}
			localized = append(localized, lm)
		}
	}
	return localized
}
