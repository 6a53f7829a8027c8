package progress

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid input")

type Entry struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"userId"`
	Timestamp      time.Time `json:"timestamp"`
	WeightKg       float64   `json:"weightKg"`
	BodyFatPercent *float64  `json:"bodyFatPercent,omitempty"`
	WaistCm        *float64  `json:"waistCm,omitempty"`
	ChestCm        *float64  `json:"chestCm,omitempty"`
	ArmsCm         *float64  `json:"armsCm,omitempty"`
	Notes          string    `json:"notes,omitempty"`
}

func (e *Entry) Validate() error {
	if e.WeightKg <= 0 {
		return ErrInvalidInput
	}
	if e.BodyFatPercent != nil && (*e.BodyFatPercent < 0 || *e.BodyFatPercent > 100) {
		return ErrInvalidInput
	}
	for _, m := range []*float64{e.WaistCm, e.ChestCm, e.ArmsCm} {
		if m != nil && *m <= 0 {
			return ErrInvalidInput
		}
	}
	return nil
}
