package workout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fitassist/internal/profile"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnknownCombination = errors.New("unknown workout combination")
)

const (
	minExercises       = 4
	minutesPerExercise = 10
	mixedStrengthCount = 3
	mixedCardioCount   = 2
	defaultDurationMin = 45
)

type GenerateParams struct {
	Location        Location           `json:"location"`
	Type            Type               `json:"type"`
	Experience      profile.Experience `json:"experience"`
	DurationMinutes int                `json:"durationMinutes"`
}

type Plan struct {
	ID              uuid.UUID          `json:"id"`
	UserID          uuid.UUID          `json:"userId"`
	Type            Type               `json:"type"`
	Location        Location           `json:"location"`
	Experience      profile.Experience `json:"experience"`
	DurationMinutes int                `json:"durationMinutes"`
	Warmup          []RoutineStep      `json:"warmup"`
	Exercises       []Exercise         `json:"exercises"`
	Cooldown        []RoutineStep      `json:"cooldown"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// Generate builds a workout plan from the static catalog. Generation is
// deterministic for identical params.
func Generate(params GenerateParams) (*Plan, error) {
	if !params.Location.IsValid() || !params.Experience.IsValid() {
		return nil, ErrUnknownCombination
	}
	if !params.Type.IsValid() {
		return nil, ErrUnknownCombination
	}
	if params.DurationMinutes == 0 {
		params.DurationMinutes = defaultDurationMin
	}
	if params.DurationMinutes < 0 || params.DurationMinutes > 240 {
		return nil, ErrInvalidInput
	}

	var pool []Exercise
	switch params.Type {
	case TypeStrength:
		p, ok := catalogPool(params.Location, TypeStrength, params.Experience)
		if !ok {
			return nil, ErrUnknownCombination
		}
		pool = p
	case TypeCardio:
		p, ok := catalogPool(params.Location, TypeCardio, params.Experience)
		if !ok {
			return nil, ErrUnknownCombination
		}
		pool = p
	case TypeHIIT:
		// hiit runs the cardio pool with tightened rest periods
		p, ok := catalogPool(params.Location, TypeCardio, params.Experience)
		if !ok {
			return nil, ErrUnknownCombination
		}
		pool = tightenRest(p)
	case TypeMixed:
		strengthPool, ok := catalogPool(params.Location, TypeStrength, params.Experience)
		if !ok {
			return nil, ErrUnknownCombination
		}
		cardioPool, ok := catalogPool(params.Location, TypeCardio, params.Experience)
		if !ok {
			return nil, ErrUnknownCombination
		}
		pool = append(pool, strengthPool[:min(mixedStrengthCount, len(strengthPool))]...)
		pool = append(pool, cardioPool[:min(mixedCardioCount, len(cardioPool))]...)
	}

	numExercises := params.DurationMinutes / minutesPerExercise
	if numExercises < minExercises {
		numExercises = minExercises
	}
	if numExercises > len(pool) {
		numExercises = len(pool)
	}

	exercises := make([]Exercise, numExercises)
	copy(exercises, pool[:numExercises])

	return &Plan{
		Type:            params.Type,
		Location:        params.Location,
		Experience:      params.Experience,
		DurationMinutes: params.DurationMinutes,
		Warmup:          append([]RoutineStep(nil), warmupRoutine...),
		Exercises:       exercises,
		Cooldown:        append([]RoutineStep(nil), cooldownRoutine...),
	}, nil
}

// tightenRest halves the rest period of each exercise, keeping the "<n>s"
// format. Rests that do not parse as plain seconds are left untouched.
func tightenRest(pool []Exercise) []Exercise {
	tightened := make([]Exercise, len(pool))
	copy(tightened, pool)
	for i, e := range tightened {
		secsStr, found := strings.CutSuffix(e.Rest, "s")
		if !found {
			continue
		}
		secs, err := strconv.Atoi(secsStr)
		if err != nil || secs == 0 {
			continue
		}
		tightened[i].Rest = fmt.Sprintf("%ds", secs/2)
	}
	return tightened
}
