package domain

// NoFoodIdentified is shown in place of the composition chart when the
// analysis found nothing to plot.
const NoFoodIdentified = "No food identified"

const (
	KcalPerGramProtein       = 4
	KcalPerGramCarbohydrates = 4
	KcalPerGramFat           = 9
)

type CompositionSlice struct {
	Nutrient Nutrient `json:"nutrient"`
	Grams    float64  `json:"grams"`
	Kcal     float64  `json:"kcal"`
	Share    float64  `json:"share"`
}

// Composition splits a meal's energy by macronutrient.
type Composition struct {
	Empty       bool               `json:"empty"`
	Placeholder string             `json:"placeholder,omitempty"`
	TotalKcal   float64            `json:"total_kcal"`
	Slices      []CompositionSlice `json:"slices"`
}

func NewComposition(current NutrientIntake) Composition {
	if current.IsZero() {
		return Composition{
			Empty:       true,
			Placeholder: NoFoodIdentified,
			Slices:      []CompositionSlice{},
		}
	}

	slices := []CompositionSlice{
		{Nutrient: Protein, Grams: current.Protein, Kcal: current.Protein * KcalPerGramProtein},
		{Nutrient: Carbohydrates, Grams: current.Carbohydrates, Kcal: current.Carbohydrates * KcalPerGramCarbohydrates},
		{Nutrient: Fat, Grams: current.Fat, Kcal: current.Fat * KcalPerGramFat},
	}

	var total float64
	for _, s := range slices {
		total += s.Kcal
	}
	for i := range slices {
		slices[i].Share = fractionOf(slices[i].Kcal, total)
	}

	return Composition{
		TotalKcal: total,
		Slices:    slices,
	}
}

// MacroCalories derives energy from grams of macronutrients.
func MacroCalories(protein, carbohydrates, fat float64) float64 {
	return protein*KcalPerGramProtein + carbohydrates*KcalPerGramCarbohydrates + fat*KcalPerGramFat
}
