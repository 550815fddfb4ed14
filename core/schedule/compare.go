package schedule

import (
	"cmp"

	"github.com/haocluo92/well-scheduler/core/model"
)

// CompareBatches orders batches for assignment. Primary key is ascending
// priority, where a present priority sorts before an absent one: an unset
// priority means "lowest importance", not zero. When both priorities are
// absent the earlier allow-to-drill date wins and an unset date loses. Equal
// pairs return 0 so a stable sort keeps the caller's input order as the final
// tie-break.
func CompareBatches(a, b *model.WellBatch) int {
	pa, aok := a.Priority()
	pb, bok := b.Priority()
	switch {
	case aok && bok:
		return cmp.Compare(pa, pb)
	case aok:
		return -1
	case bok:
		return 1
	}
	at, bt := a.AllowToDrill, b.AllowToDrill
	switch {
	case !at.IsZero() && !bt.IsZero():
		return at.Compare(bt)
	case !at.IsZero():
		return -1
	case !bt.IsZero():
		return 1
	default:
		return 0
	}
}
