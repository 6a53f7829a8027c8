package profile

import (
	"errors"
	"math"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnknownActivityLevel = errors.New("unknown activity level")
)

// activityMultipliers maps activity level to the TDEE multiplier.
var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary: 1.2,
	ActivityLight:     1.375,
	ActivityModerate:  1.55,
	ActivityVery:      1.725,
	ActivitySuper:     1.9,
}

const (
	weightLossCalorieOffset = -500
	muscleGainCalorieOffset = 300
)

type BMICategoryName string

const (
	BMIUnderweight BMICategoryName = "Underweight"
	BMINormal      BMICategoryName = "Normal"
	BMIOverweight  BMICategoryName = "Overweight"
	BMIObese       BMICategoryName = "Obese"
)

// ComputeBMI returns the body mass index, rounded to 2 decimals.
func ComputeBMI(weightKg, heightCm float64) (float64, error) {
	if weightKg <= 0 || heightCm <= 0 {
		return 0, ErrInvalidInput
	}
	heightM := heightCm / 100
	bmi := weightKg / (heightM * heightM)
	return round2(bmi), nil
}

func BMICategory(bmi float64) BMICategoryName {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	default:
		return BMIObese
	}
}

// ComputeBMR returns the basal metabolic rate using the Mifflin-St Jeor
// equation, in kcal per day.
func ComputeBMR(weightKg, heightCm float64, age int, sex Sex) (float64, error) {
	if weightKg <= 0 || heightCm <= 0 {
		return 0, ErrInvalidInput
	}
	if age <= 0 || age > 120 {
		return 0, ErrInvalidInput
	}

	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	switch sex {
	case SexMale:
		return round2(base + 5), nil
	case SexFemale:
		return round2(base - 161), nil
	default:
		return 0, ErrInvalidInput
	}
}

// ComputeTDEE returns the total daily energy expenditure for the given BMR
// and activity level.
func ComputeTDEE(bmr float64, activity ActivityLevel) (float64, error) {
	if bmr <= 0 {
		return 0, ErrInvalidInput
	}
	multiplier, ok := activityMultipliers[activity]
	if !ok {
		return 0, ErrUnknownActivityLevel
	}
	return round2(bmr * multiplier), nil
}

// CalorieTarget adjusts the TDEE for the given goal.
func CalorieTarget(tdee float64, goal Goal) (float64, error) {
	if tdee <= 0 {
		return 0, ErrInvalidInput
	}
	switch goal {
	case GoalWeightLoss:
		return tdee + weightLossCalorieOffset, nil
	case GoalMuscleGain:
		return tdee + muscleGainCalorieOffset, nil
	case GoalMaintenance:
		return tdee, nil
	default:
		return 0, ErrInvalidInput
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
