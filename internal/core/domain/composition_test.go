package domain

import "testing"

func TestNewComposition(t *testing.T) {
	t.Parallel()

	t.Run("Should split calories by macronutrient", func(t *testing.T) {
		t.Parallel()

		c := NewComposition(NutrientIntake{Calories: 355, Protein: 25, Carbohydrates: 30, Fat: 15})

		if c.Empty {
			t.Fatal("Expected a non-empty composition")
		}
		if c.TotalKcal != 355 {
			t.Errorf("Expected total 355 kcal, got %v", c.TotalKcal)
		}

		want := map[Nutrient]float64{Protein: 100, Carbohydrates: 120, Fat: 135}
		var shares float64
		for _, s := range c.Slices {
			if s.Kcal != want[s.Nutrient] {
				t.Errorf("Expected %v kcal from %s, got %v", want[s.Nutrient], s.Nutrient, s.Kcal)
			}
			shares += s.Share
		}
		if shares < 0.999999 || shares > 1.000001 {
			t.Errorf("Expected shares to sum to 1, got %v", shares)
		}
	})

	t.Run("Should report placeholder when nothing was identified", func(t *testing.T) {
		t.Parallel()

		c := NewComposition(NutrientIntake{})

		if !c.Empty {
			t.Fatal("Expected empty composition")
		}
		if c.Placeholder != NoFoodIdentified {
			t.Errorf("Expected placeholder %q, got %q", NoFoodIdentified, c.Placeholder)
		}
		if len(c.Slices) != 0 {
			t.Errorf("Expected no slices, got %d", len(c.Slices))
		}
	})

	t.Run("Should not divide by zero when only calories are set", func(t *testing.T) {
		t.Parallel()

		c := NewComposition(NutrientIntake{Calories: 120})

		if c.Empty {
			t.Fatal("Calories alone should still count as identified food")
		}
		for _, s := range c.Slices {
			if s.Share != 0 {
				t.Errorf("Expected zero share for %s, got %v", s.Nutrient, s.Share)
			}
		}
	})
}

func TestMacroCalories(t *testing.T) {
	if got := MacroCalories(25, 30, 15); got != 355 {
		t.Errorf("MacroCalories(25, 30, 15) = %v, want 355", got)
	}
}
