package domain

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
)

var (
	ErrNoAnalysisInput        = errors.New("provide an image or manual nutrient values")
	ErrIncompleteManualIntake = errors.New("fill in all manual nutrient values: protein, carbohydrates and fat")
	ErrInvalidManualValue     = errors.New("manual nutrient values must be non-negative integers")
	ErrInvalidTimeZone        = errors.New("invalid time zone")
	ErrImageTooLarge          = errors.New("image exceeds the upload limit")
	ErrEmptyImage             = errors.New("image is empty")
)

// MaxImageBytes caps uploads forwarded to the analysis service.
const MaxImageBytes = 10 << 20

type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

func NewImageUpload(filename, contentType string, data []byte) (*ImageUpload, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	if len(data) > MaxImageBytes {
		return nil, ErrImageTooLarge
	}

	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = fmt.Sprintf("meal-%s.jpg", uuid.NewString())
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &ImageUpload{
		Filename:    name,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// ManualIntake is what a user types in instead of uploading a photo.
type ManualIntake struct {
	Protein       int `json:"protein"`
	Carbohydrates int `json:"carbohydrates"`
	Fat           int `json:"fat"`
}

// ParseManualIntake applies the form rules: all three fields empty means no
// manual input, a partial set is rejected, and every value must be a
// non-negative integer.
func ParseManualIntake(protein, carbohydrates, fat string) (*ManualIntake, error) {
	fields := []string{strings.TrimSpace(protein), strings.TrimSpace(carbohydrates), strings.TrimSpace(fat)}

	filled := 0
	for _, f := range fields {
		if f != "" {
			filled++
		}
	}
	if filled == 0 {
		return nil, nil
	}
	if filled < len(fields) {
		return nil, ErrIncompleteManualIntake
	}

	values := make([]int, len(fields))
	for i, f := range fields {
		v, err := parseWholeNumber(f)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}

	return &ManualIntake{
		Protein:       values[0],
		Carbohydrates: values[1],
		Fat:           values[2],
	}, nil
}

// parseWholeNumber accepts any numeric notation whose value is a whole
// number, so "1.0" and "1e2" pass while "1.5" does not.
func parseWholeNumber(s string) (int, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidManualValue
	}
	if v < 0 || v != math.Trunc(v) || v > MaxIntakeValue {
		return 0, ErrInvalidManualValue
	}
	return int(v), nil
}

func (m ManualIntake) Intake() NutrientIntake {
	p, c, f := float64(m.Protein), float64(m.Carbohydrates), float64(m.Fat)
	return NutrientIntake{
		Calories:      MacroCalories(p, c, f),
		Protein:       p,
		Carbohydrates: c,
		Fat:           f,
	}
}

type AnalysisRequest struct {
	Image    *ImageUpload
	Manual   *ManualIntake
	TimeZone string
}

func (r AnalysisRequest) Validate() error {
	if r.Image == nil && r.Manual == nil {
		return ErrNoAnalysisInput
	}
	if strings.TrimSpace(r.TimeZone) == "" {
		return ErrInvalidTimeZone
	}
	if _, err := LoadLocation(r.TimeZone); err != nil {
		return err
	}
	return nil
}

// AnalysisResult is what the analysis service reports for one meal: the meal
// itself, what was already logged today, and the daily goal.
type AnalysisResult struct {
	Current NutrientIntake `json:"intake_current"`
	Prior   NutrientIntake `json:"intake_prior"`
	Target  NutrientIntake `json:"intake_target"`
}

type MealRecord struct {
	Intake NutrientIntake
	Image  *ImageUpload
}

func (m MealRecord) Validate() error {
	return m.Intake.Validate()
}

// LoadLocation resolves an IANA zone name; empty means UTC.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimeZone, name)
	}
	return loc, nil
}
