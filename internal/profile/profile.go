package profile

import (
	"time"

	"github.com/google/uuid"
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

func (s Sex) IsValid() bool {
	return s == SexMale || s == SexFemale
}

type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityVery      ActivityLevel = "very_active"
	ActivitySuper     ActivityLevel = "super_active"
)

func (a ActivityLevel) IsValid() bool {
	_, ok := activityMultipliers[a]
	return ok
}

type Goal string

const (
	GoalWeightLoss  Goal = "weight_loss"
	GoalMuscleGain  Goal = "muscle_gain"
	GoalMaintenance Goal = "maintenance"
)

func (g Goal) IsValid() bool {
	switch g {
	case GoalWeightLoss, GoalMuscleGain, GoalMaintenance:
		return true
	}
	return false
}

type Experience string

const (
	ExperienceBeginner     Experience = "beginner"
	ExperienceIntermediate Experience = "intermediate"
	ExperienceAdvanced     Experience = "advanced"
)

func (e Experience) IsValid() bool {
	switch e {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
		return true
	}
	return false
}

type DietPreference string

const (
	DietVegetarian    DietPreference = "vegetarian"
	DietNonVegetarian DietPreference = "non_vegetarian"
	DietVegan         DietPreference = "vegan"
	DietEggetarian    DietPreference = "eggetarian"
)

func (d DietPreference) IsValid() bool {
	switch d {
	case DietVegetarian, DietNonVegetarian, DietVegan, DietEggetarian:
		return true
	}
	return false
}

type UserProfile struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"userId"`
	Name           string         `json:"name"`
	Age            int            `json:"age"`
	Sex            Sex            `json:"sex"`
	HeightCm       float64        `json:"heightCm"`
	WeightKg       float64        `json:"weightKg"`
	GoalWeightKg   float64        `json:"goalWeightKg"`
	ActivityLevel  ActivityLevel  `json:"activityLevel"`
	Goal           Goal           `json:"goal"`
	Experience     Experience     `json:"experience"`
	DietPreference DietPreference `json:"dietPreference"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// Validate checks all profile fields which the calculators depend on.
func (p *UserProfile) Validate() error {
	if p.Name == "" {
		return ErrInvalidInput
	}
	if p.Age <= 0 || p.Age > 120 {
		return ErrInvalidInput
	}
	if !p.Sex.IsValid() {
		return ErrInvalidInput
	}
	if p.HeightCm <= 0 || p.WeightKg <= 0 {
		return ErrInvalidInput
	}
	if p.GoalWeightKg <= 0 {
		return ErrInvalidInput
	}
	if !p.ActivityLevel.IsValid() {
		return ErrUnknownActivityLevel
	}
	if !p.Goal.IsValid() || !p.Experience.IsValid() || !p.DietPreference.IsValid() {
		return ErrInvalidInput
	}
	return nil
}
