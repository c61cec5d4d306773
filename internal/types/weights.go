//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// WeightTable holds the scoring configuration for one run.
// It is loaded once and treated as read-only afterwards.
type WeightTable struct {
	EventWeights        map[string]int `json:"event_weights" yaml:"event_weights" validate:"required,dive,min=0"`
	LateMinuteThreshold int            `json:"late_minute_bonus_after" yaml:"late_minute_bonus_after" validate:"min=0"`
	LateMinuteBonus     int            `json:"late_minute_bonus" yaml:"late_minute_bonus" validate:"min=0"`
	MaxSelectedEvents   int            `json:"max_pages" yaml:"max_pages" validate:"min=0"`
}

// Validate validates the WeightTable using the validator.
func (w *WeightTable) Validate() error {
	validate := validator.New()
	if err := validate.Struct(w); err != nil {
		return fmt.Errorf("invalid weight table: %w", err)
	}
	return nil
}

// Weight returns the base weight for a canonical key, or 0 when the key is untracked.
func (w *WeightTable) Weight(key string) int {
	if w == nil {
		return 0
	}
	return w.EventWeights[key]
}
