package core

import "fmt"

// PositionKind discriminates the three places a modification can sit on a
// peptide. The zero value is PosNTerminal so the kinds sort in sequence order
// (N-terminus, internal residues, C-terminus).
type PositionKind int

const (
	PosNTerminal PositionKind = iota
	PosInternal
	PosCTerminal
)

// ModPosition locates a modification on a peptide: the N-terminus, the
// C-terminus, or a specific 0-based residue offset.
type ModPosition struct {
	Kind  PositionKind
	Index int // 0-based residue offset; meaningful only for PosInternal
}

// NTerminal returns the peptide N-terminus position.
func NTerminal() ModPosition {
	return ModPosition{Kind: PosNTerminal}
}

// CTerminal returns the peptide C-terminus position.
func CTerminal() ModPosition {
	return ModPosition{Kind: PosCTerminal}
}

// Internal returns the position of the residue at 0-based offset i.
func Internal(i int) ModPosition {
	return ModPosition{Kind: PosInternal, Index: i}
}

// Compare orders positions in sequence direction: N-terminus first, internal
// residues by ascending offset, C-terminus last.
func (p ModPosition) Compare(other ModPosition) int {
	if p.Kind != other.Kind {
		if p.Kind < other.Kind {
			return -1
		}
		return 1
	}
	if p.Kind == PosInternal && p.Index != other.Index {
		if p.Index < other.Index {
			return -1
		}
		return 1
	}
	return 0
}

func (p ModPosition) String() string {
	switch p.Kind {
	case PosNTerminal:
		return "n-term"
	case PosCTerminal:
		return "c-term"
	default:
		return fmt.Sprintf("%d", p.Index)
	}
}
