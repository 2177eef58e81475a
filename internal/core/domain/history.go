package domain

import (
	"errors"
	"io"
	"time"
)

var (
	ErrNoHistory = errors.New("no diet history found")
)

const DateLayout = "2006-01-02"

type DietEntry struct {
	LoggedAt time.Time      `json:"logged_at"`
	Meal     string         `json:"meal"`
	Intake   NutrientIntake `json:"intake"`
	ImageURL string         `json:"img_url,omitempty"`
}

type HistoryMeal struct {
	DietEntry
	LocalTime string `json:"local_time"`
}

type HistoryDay struct {
	Date   string         `json:"date"`
	Meals  []HistoryMeal  `json:"meals"`
	Totals NutrientIntake `json:"totals"`
}

// GroupHistory buckets entries by calendar date in loc. Days keep the order in
// which they first appear, so a newest-first feed stays newest-first.
func GroupHistory(entries []DietEntry, loc *time.Location) []HistoryDay {
	if loc == nil {
		loc = time.UTC
	}

	days := make([]HistoryDay, 0)
	index := make(map[string]int)

	for _, e := range entries {
		local := e.LoggedAt.In(loc)
		key := local.Format(DateLayout)

		i, ok := index[key]
		if !ok {
			i = len(days)
			index[key] = i
			days = append(days, HistoryDay{Date: key, Meals: make([]HistoryMeal, 0, 1)})
		}

		days[i].Meals = append(days[i].Meals, HistoryMeal{
			DietEntry: e,
			LocalTime: local.Format("2006-01-02 15:04:05"),
		})
		days[i].Totals = days[i].Totals.Add(e.Intake)
	}

	return days
}

// HistoryExporter writes grouped history in a downloadable format.
type HistoryExporter interface {
	ContentType() string
	FileExtension() string
	Export(w io.Writer, days []HistoryDay) error
}
