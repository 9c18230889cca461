package normalize

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/core"
)

func TestLocalizeModifications(t *testing.T) {
	oxidation := core.MassDelta{Mono: 15.994915, Avg: 15.9994}
	acetyl := core.MassDelta{Mono: 42.010565, Avg: 42.0367}
	amide := core.MassDelta{Mono: -0.984016, Avg: -0.9848}

	tests := []struct {
		name     string
		mods     map[core.ModPosition][]core.MassDelta
		sequence string
		want     []core.LocalizedModification
	}{
		{
			name:     "empty map",
			mods:     nil,
			sequence: "PEPTIDE",
			want:     nil,
		},
		{
			name: "n-terminal sentinel",
			mods: map[core.ModPosition][]core.MassDelta{
				core.NTerminal(): {acetyl},
			},
			sequence: "PEPTIDE",
			want: []core.LocalizedModification{
				{MonoMassDelta: 42.010565, AvgMassDelta: 42.0367, Location: 0},
			},
		},
		{
			name: "c-terminal sentinel",
			mods: map[core.ModPosition][]core.MassDelta{
				core.CTerminal(): {amide},
			},
			sequence: "PEPTIDE",
			want: []core.LocalizedModification{
				{MonoMassDelta: -0.984016, AvgMassDelta: -0.9848, Location: 8},
			},
		},
		{
			name: "internal offset converts to 1-based with residue",
			mods: map[core.ModPosition][]core.MassDelta{
				core.Internal(3): {oxidation},
			},
			sequence: "PEPTIDE",
			want: []core.LocalizedModification{
				{MonoMassDelta: 15.994915, AvgMassDelta: 15.9994, Location: 4, Residue: 'T'},
			},
		},
		{
			name: "positions emitted in sequence order",
			mods: map[core.ModPosition][]core.MassDelta{
				core.CTerminal(): {amide},
				core.Internal(5): {oxidation},
				core.Internal(0): {oxidation},
				core.NTerminal(): {acetyl},
			},
			sequence: "PEPTIDE",
			want: []core.LocalizedModification{
				{MonoMassDelta: 42.010565, AvgMassDelta: 42.0367, Location: 0},
				{MonoMassDelta: 15.994915, AvgMassDelta: 15.9994, Location: 1, Residue: 'P'},
				{MonoMassDelta: 15.994915, AvgMassDelta: 15.9994, Location: 6, Residue: 'D'},
				{MonoMassDelta: -0.984016, AvgMassDelta: -0.9848, Location: 8},
			},
		},
		{
			name: "co-occurring deltas become independent records",
			mods: map[core.ModPosition][]core.MassDelta{
				core.Internal(1): {oxidation, acetyl},
			},
			sequence: "PEPTIDE",
			want: []core.LocalizedModification{
				{MonoMassDelta: 15.994915, AvgMassDelta: 15.9994, Location: 2, Residue: 'E'},
				{MonoMassDelta: 42.010565, AvgMassDelta: 42.0367, Location: 2, Residue: 'E'},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocalizeModifications(tt.mods, tt.sequence)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("LocalizeModifications() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
