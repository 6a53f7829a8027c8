package progress

import (
	"errors"
	"math"
	"time"
)

var (
	ErrInsufficientData = errors.New("insufficient data, at least two entries needed")
	ErrNoConvergence    = errors.New("no convergence, weight is not trending towards the target")
)

// slopes below this are treated as a flat trend, in kg per day
const flatSlopeEpsilon = 1e-6

type Projection struct {
	TargetWeightKg  float64   `json:"targetWeightKg"`
	CurrentWeightKg float64   `json:"currentWeightKg"`
	WeeklyRateKg    float64   `json:"weeklyRateKg"`
	DaysNeeded      int       `json:"daysNeeded"`
	EstimatedDate   time.Time `json:"estimatedDate"`
}

// Project fits a least-squares line over the logged weights and
// extrapolates the date the target weight is reached. The entries must be
// in ascending timestamp order. When the observed trend points away from
// the target (or is flat), it returns ErrNoConvergence instead of a
// nonsensical date in the past.
func Project(entries []Entry, targetWeightKg float64) (*Projection, error) {
	if targetWeightKg <= 0 {
		return nil, ErrInvalidInput
	}
	if len(entries) < 2 {
		return nil, ErrInsufficientData
	}

	// x is days since the first entry, y the logged weight
	t0 := entries[0].Timestamp
	var sumX, sumY, sumXY, sumXX float64
	for _, e := range entries {
		x := e.Timestamp.Sub(t0).Hours() / 24
		y := e.WeightKg
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	n := float64(len(entries))
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		// all entries share one timestamp
		return nil, ErrInsufficientData
	}
	slope := (n*sumXY - sumX*sumY) / denom

	last := entries[len(entries)-1]
	requiredChange := targetWeightKg - last.WeightKg

	if requiredChange == 0 {
		return &Projection{
			TargetWeightKg:  targetWeightKg,
			CurrentWeightKg: last.WeightKg,
			WeeklyRateKg:    slope * 7,
			DaysNeeded:      0,
			EstimatedDate:   last.Timestamp,
		}, nil
	}

	if math.Abs(slope) < flatSlopeEpsilon || requiredChange*slope < 0 {
		return nil, ErrNoConvergence
	}

	daysNeeded := requiredChange / slope
	return &Projection{
		TargetWeightKg:  targetWeightKg,
		CurrentWeightKg: last.WeightKg,
		WeeklyRateKg:    slope * 7,
		DaysNeeded:      int(math.Ceil(daysNeeded)),
		EstimatedDate:   last.Timestamp.Add(time.Duration(daysNeeded * 24 * float64(time.Hour))),
	}, nil
}
