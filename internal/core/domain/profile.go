package domain

import (
	"errors"
	"strings"
)

var (
	ErrProfileNotFound      = errors.New("user profile not found")
	ErrInvalidHeight        = errors.New("height must be a positive number of centimetres")
	ErrInvalidWeight        = errors.New("weight must be a positive number of kilograms")
	ErrInvalidAge           = errors.New("age must be a positive number of years")
	ErrInvalidGender        = errors.New("gender must be Male or Female")
	ErrInvalidActivityLevel = errors.New("invalid activity level")
	ErrInvalidGoal          = errors.New("invalid goal")
	ErrInvalidPreference    = errors.New("invalid dietary preference")
)

const (
	GenderMale   = "Male"
	GenderFemale = "Female"

	ActivitySedentary        = "Sedentary"
	ActivityLightlyActive    = "Lightly Active"
	ActivityModeratelyActive = "Moderately Active"
	ActivityVeryActive       = "Very Active"

	GoalGainMuscle      = "Gain Muscle"
	GoalLoseWeight      = "Lose Weight"
	GoalMaintainFitness = "Maintain Fitness"

	PreferenceHighProtein = "High Protein"
	PreferenceBalanced    = "Balanced"
	PreferenceLowCarb     = "Low Carb"

	maxHeightCM = 300
	maxWeightKG = 700
	maxAge      = 130
)

var (
	activityLevels = []string{ActivitySedentary, ActivityLightlyActive, ActivityModeratelyActive, ActivityVeryActive}
	goals          = []string{GoalGainMuscle, GoalLoseWeight, GoalMaintainFitness}
	preferences    = []string{PreferenceHighProtein, PreferenceBalanced, PreferenceLowCarb}
)

// UserProfile mirrors the profile store. The tdee and target_* fields are
// computed upstream from the body measurements and are read-only here.
type UserProfile struct {
	Height              int    `json:"height"`
	Weight              int    `json:"weight"`
	Age                 int    `json:"age"`
	Gender              string `json:"gender"`
	ActivityLevel       string `json:"activity_level"`
	Goal                string `json:"target"`
	Preference          string `json:"preference"`
	TDEE                int    `json:"tdee"`
	TargetProtein       int    `json:"target_protein"`
	TargetCarbohydrates int    `json:"target_carbohydrates"`
	TargetFat           int    `json:"target_fat"`
}

func NewUserProfile(height, weight, age int, gender, activityLevel, goal, preference string) (*UserProfile, error) {
	p := &UserProfile{
		Height:        height,
		Weight:        weight,
		Age:           age,
		Gender:        normalizeChoice(gender, []string{GenderMale, GenderFemale}),
		ActivityLevel: normalizeChoice(activityLevel, activityLevels),
		Goal:          normalizeChoice(goal, goals),
		Preference:    normalizeChoice(preference, preferences),
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *UserProfile) Validate() error {
	if p.Height <= 0 || p.Height > maxHeightCM {
		return ErrInvalidHeight
	}
	if p.Weight <= 0 || p.Weight > maxWeightKG {
		return ErrInvalidWeight
	}
	if p.Age <= 0 || p.Age > maxAge {
		return ErrInvalidAge
	}
	if p.Gender != GenderMale && p.Gender != GenderFemale {
		return ErrInvalidGender
	}
	if !contains(activityLevels, p.ActivityLevel) {
		return ErrInvalidActivityLevel
	}
	if !contains(goals, p.Goal) {
		return ErrInvalidGoal
	}
	if !contains(preferences, p.Preference) {
		return ErrInvalidPreference
	}
	return nil
}

// HasTarget reports whether the profile store has computed daily goals yet.
func (p *UserProfile) HasTarget() bool {
	return p.TDEE > 0
}

func (p *UserProfile) Target() NutrientIntake {
	return NutrientIntake{
		Calories:      float64(p.TDEE),
		Protein:       float64(p.TargetProtein),
		Carbohydrates: float64(p.TargetCarbohydrates),
		Fat:           float64(p.TargetFat),
	}
}

// normalizeChoice maps case-insensitive input onto the canonical option so
// "lose weight" and "Lose Weight" are the same goal.
func normalizeChoice(value string, options []string) string {
	v := strings.TrimSpace(value)
	for _, o := range options {
		if strings.EqualFold(v, o) {
			return o
		}
	}
	return v
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
