package domain

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNegativeIntake   = errors.New("intake values cannot be negative")
	ErrIntakeOutOfRange = errors.New("intake values must be finite and at most 1000000")
)

// MaxIntakeValue bounds any single nutrient value, in kcal or grams.
const MaxIntakeValue = 1_000_000

type Nutrient string

const (
	Calories      Nutrient = "calories"
	Protein       Nutrient = "protein"
	Carbohydrates Nutrient = "carbohydrates"
	Fat           Nutrient = "fat"
)

// Nutrients lists every tracked field in display order.
var Nutrients = []Nutrient{Calories, Protein, Carbohydrates, Fat}

func (n Nutrient) Label() string {
	switch n {
	case Calories:
		return "Calories"
	case Protein:
		return "Protein"
	case Carbohydrates:
		return "Carbohydrates"
	case Fat:
		return "Fat"
	default:
		return string(n)
	}
}

func (n Nutrient) Unit() string {
	if n == Calories {
		return "kcal"
	}
	return "g"
}

// NutrientIntake is a snapshot of consumed or targeted nutrients. Calories are
// in kcal, the macronutrients in grams.
type NutrientIntake struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
}

func (in NutrientIntake) Value(n Nutrient) float64 {
	switch n {
	case Calories:
		return in.Calories
	case Protein:
		return in.Protein
	case Carbohydrates:
		return in.Carbohydrates
	case Fat:
		return in.Fat
	default:
		return 0
	}
}

func (in NutrientIntake) IsZero() bool {
	return in.Calories == 0 && in.Protein == 0 && in.Carbohydrates == 0 && in.Fat == 0
}

func (in NutrientIntake) Add(other NutrientIntake) NutrientIntake {
	return NutrientIntake{
		Calories:      in.Calories + other.Calories,
		Protein:       in.Protein + other.Protein,
		Carbohydrates: in.Carbohydrates + other.Carbohydrates,
		Fat:           in.Fat + other.Fat,
	}
}

func (in NutrientIntake) Validate() error {
	for _, n := range Nutrients {
		v := in.Value(n)
		switch {
		case math.IsNaN(v), math.IsInf(v, 0), v > MaxIntakeValue:
			return fmt.Errorf("%w: %s", ErrIntakeOutOfRange, n)
		case v < 0:
			return fmt.Errorf("%w: %s", ErrNegativeIntake, n)
		}
	}
	return nil
}

// FormatAmount renders a value with the unit of n, e.g. "2000 kcal" or "70 g".
func FormatAmount(n Nutrient, v float64) string {
	return fmt.Sprintf("%s %s", formatNumber(v), n.Unit())
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
