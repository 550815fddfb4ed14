// Package simops detects batch pairs whose wells are close enough that
// concurrent work on them needs simultaneous-operations coordination.
package simops

import (
	"github.com/haocluo92/well-scheduler/core/model"
)

// DefaultThresholdMeters is the proximity threshold applied when none is
// configured.
const DefaultThresholdMeters = 3000.0

// ConflictPair records one representative proximity conflict between two
// batches. At most one pair is reported per batch pair.
type ConflictPair struct {
	BatchA         string  `json:"batch_a"`
	BatchB         string  `json:"batch_b"`
	WellA          string  `json:"well_a"`
	WellB          string  `json:"well_b"`
	DistanceMeters float64 `json:"distance_meters"`
}

// Analyzer performs the pairwise proximity search over well locations.
type Analyzer struct {
	ThresholdMeters float64
}

// NewAnalyzer returns an analyzer with the given threshold in meters.
// Non-positive thresholds fall back to DefaultThresholdMeters.
func NewAnalyzer(thresholdMeters float64) *Analyzer {
	if thresholdMeters <= 0 {
		thresholdMeters = DefaultThresholdMeters
	}
	return &Analyzer{ThresholdMeters: thresholdMeters}
}

// Pairs scans every unordered pair of distinct batches and reports the first
// well pair found within the threshold, then stops scanning that batch pair.
// Wells without coordinates never produce a conflict. The scan is O(B²·W²)
// and intended for small fleets.
func (a *Analyzer) Pairs(batches []*model.WellBatch) []ConflictPair {
	var out []ConflictPair
	for i := 0; i < len(batches); i++ {
		for j := i + 1; j < len(batches); j++ {
			if pair, ok := a.firstHit(batches[i], batches[j]); ok {
				out = append(out, pair)
			}
		}
	}
	return out
}

func (a *Analyzer) firstHit(ba, bb *model.WellBatch) (ConflictPair, bool) {
	for _, wa := range ba.Wells {
		latA, lonA, ok := wa.Coordinates()
		if !ok {
			continue
		}
		for _, wb := range bb.Wells {
			latB, lonB, ok := wb.Coordinates()
			if !ok {
				continue
			}
			d := Haversine(latA, lonA, latB, lonB)
			if d < a.ThresholdMeters {
				return ConflictPair{
					BatchA:         ba.Name,
					BatchB:         bb.Name,
					WellA:          wa.Name,
					WellB:          wb.Name,
					DistanceMeters: d,
				}, true
			}
		}
	}
	return ConflictPair{}, false
}
