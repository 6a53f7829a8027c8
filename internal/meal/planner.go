package meal

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/2beens/fitassist/internal/profile"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInsufficientDishes = errors.New("insufficient dishes for the calorie target")
)

const (
	maxDays = 7
	// daily totals may drift this far from the target before the plan
	// is rejected
	calorieTolerance = 0.20
)

type GenerateParams struct {
	DietPreference profile.DietPreference `json:"dietPreference"`
	CalorieTarget  float64                `json:"calorieTarget"`
	Days           int                    `json:"days"`
}

type Meal struct {
	Slot Slot `json:"slot"`
	Dish Dish `json:"dish"`
}

type DayPlan struct {
	Day           int     `json:"day"`
	Meals         []Meal  `json:"meals"`
	TotalCalories float64 `json:"totalCalories"`
	TotalProtein  float64 `json:"totalProtein"`
	TotalCarbs    float64 `json:"totalCarbs"`
	TotalFat      float64 `json:"totalFat"`
}

type Plan struct {
	ID             uuid.UUID              `json:"id"`
	UserID         uuid.UUID              `json:"userId"`
	DietPreference profile.DietPreference `json:"dietPreference"`
	CalorieTarget  float64                `json:"calorieTarget"`
	Days           []DayPlan              `json:"days"`
	CreatedAt      time.Time              `json:"createdAt"`
}

// Generate builds a meal plan over the dish table. Selection is greedy,
// closest dish to each slot calorie target, with a deterministic rotation
// across days so consecutive days differ while staying reproducible.
func Generate(params GenerateParams) (*Plan, error) {
	if !params.DietPreference.IsValid() {
		return nil, ErrInvalidInput
	}
	if params.CalorieTarget <= 0 {
		return nil, ErrInvalidInput
	}
	if params.Days < 1 || params.Days > maxDays {
		return nil, ErrInvalidInput
	}

	plan := &Plan{
		DietPreference: params.DietPreference,
		CalorieTarget:  params.CalorieTarget,
	}

	for day := 1; day <= params.Days; day++ {
		dayPlan := DayPlan{Day: day}
		for _, slot := range daySlots {
			slotTarget := params.CalorieTarget * slotCalorieShare[slot]
			dish, err := selectDish(slot, params.DietPreference, slotTarget, day-1)
			if err != nil {
				return nil, err
			}
			dayPlan.Meals = append(dayPlan.Meals, Meal{Slot: slot, Dish: dish})
			dayPlan.TotalCalories += dish.Calories
			dayPlan.TotalProtein += dish.Protein
			dayPlan.TotalCarbs += dish.Carbs
			dayPlan.TotalFat += dish.Fat
		}

		if math.Abs(dayPlan.TotalCalories-params.CalorieTarget) > params.CalorieTarget*calorieTolerance {
			return nil, ErrInsufficientDishes
		}

		plan.Days = append(plan.Days, dayPlan)
	}

	return plan, nil
}

// selectDish picks the dish for the given slot. Candidates within the
// slot calorie band are ranked by distance to the slot target, ties
// broken by table order, and the rotation index cycles through that
// ranking for variety across days. Day one always gets the closest dish.
func selectDish(slot Slot, diet profile.DietPreference, targetCalories float64, rotation int) (Dish, error) {
	pool := availableDishes(slot, diet)
	if len(pool) == 0 {
		return Dish{}, ErrInsufficientDishes
	}

	band := targetCalories * calorieTolerance
	var candidates []Dish
	for _, dish := range pool {
		if math.Abs(dish.Calories-targetCalories) <= band {
			candidates = append(candidates, dish)
		}
	}
	if len(candidates) == 0 {
		// nothing lands in the band, take the least bad dish and let the
		// daily tolerance check decide the plan's fate
		best := pool[0]
		for _, dish := range pool[1:] {
			if math.Abs(dish.Calories-targetCalories) < math.Abs(best.Calories-targetCalories) {
				best = dish
			}
		}
		return best, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return math.Abs(candidates[i].Calories-targetCalories) < math.Abs(candidates[j].Calories-targetCalories)
	})

	return candidates[rotation%len(candidates)], nil
}
