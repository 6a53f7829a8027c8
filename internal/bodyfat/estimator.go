package bodyfat

import (
	"errors"
	"math"

	"github.com/2beens/fitassist/internal/profile"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrMissingMeasurement = errors.New("missing measurement")
)

const (
	minPercent = 2.0
	maxPercent = 60.0
)

type Input struct {
	Sex      profile.Sex `json:"sex"`
	HeightCm float64     `json:"heightCm"`
	NeckCm   float64     `json:"neckCm"`
	WaistCm  float64     `json:"waistCm"`
	// hip circumference, required for the female formula only
	HipCm *float64 `json:"hipCm,omitempty"`
}

type Result struct {
	Percent float64 `json:"percent"`
	// OutOfRange marks an estimate that fell outside the plausible band
	// and was clamped, instead of silently accepting the raw number
	OutOfRange bool     `json:"outOfRange"`
	Category   Category `json:"category"`
}

// Estimate computes the body fat percentage using the US Navy
// circumference method.
func Estimate(in Input) (*Result, error) {
	if in.HeightCm <= 0 || in.NeckCm <= 0 || in.WaistCm <= 0 {
		return nil, ErrInvalidInput
	}

	var raw float64
	switch in.Sex {
	case profile.SexMale:
		if in.WaistCm <= in.NeckCm {
			return nil, ErrInvalidInput
		}
		raw = 495/(1.0324-0.19077*math.Log10(in.WaistCm-in.NeckCm)+
			0.15456*math.Log10(in.HeightCm)) - 450
	case profile.SexFemale:
		if in.HipCm == nil {
			return nil, ErrMissingMeasurement
		}
		if *in.HipCm <= 0 {
			return nil, ErrInvalidInput
		}
		if in.WaistCm+*in.HipCm <= in.NeckCm {
			return nil, ErrInvalidInput
		}
		raw = 495/(1.29579-0.35004*math.Log10(in.WaistCm+*in.HipCm-in.NeckCm)+
			0.22100*math.Log10(in.HeightCm)) - 450
	default:
		return nil, ErrInvalidInput
	}

	percent, outOfRange := raw, false
	if percent < minPercent {
		percent, outOfRange = minPercent, true
	} else if percent > maxPercent {
		percent, outOfRange = maxPercent, true
	}
	percent = math.Round(percent*100) / 100

	return &Result{
		Percent:    percent,
		OutOfRange: outOfRange,
		Category:   Classify(percent, in.Sex),
	}, nil
}

type Category string

const (
	CategoryEssential Category = "Essential Fat"
	CategoryAthletes  Category = "Athletes"
	CategoryFitness   Category = "Fitness"
	CategoryAverage   Category = "Average"
	CategoryObese     Category = "Obese"
)

// Classify maps the body fat percentage to a category, with
// sex-specific thresholds.
func Classify(percent float64, sex profile.Sex) Category {
	if sex == profile.SexFemale {
		switch {
		case percent < 14:
			return CategoryEssential
		case percent < 21:
			return CategoryAthletes
		case percent < 25:
			return CategoryFitness
		case percent < 32:
			return CategoryAverage
		default:
			return CategoryObese
		}
	}
	switch {
	case percent < 6:
		return CategoryEssential
	case percent < 14:
		return CategoryAthletes
	case percent < 18:
		return CategoryFitness
	case percent < 25:
		return CategoryAverage
	default:
		return CategoryObese
	}
}

// SplitMass splits the total body weight into lean and fat mass.
func SplitMass(weightKg, percent float64) (lean, fat float64, err error) {
	if weightKg <= 0 || percent < 0 || percent > 100 {
		return 0, 0, ErrInvalidInput
	}
	fat = weightKg * percent / 100
	lean = weightKg - fat
	return lean, fat, nil
}
