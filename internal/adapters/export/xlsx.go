package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/comitanigiacomo/kanso-diet-web/internal/core/domain"
)

const (
	HistorySheet = "History"
	TotalsSheet  = "Daily Totals"
)

var (
	historyHeader = []interface{}{"Date", "Time", "Meal", "Calories", "Protein", "Carbohydrates", "Fat", "Image"}
	totalsHeader  = []interface{}{"Date", "Meals", "Calories", "Protein", "Carbohydrates", "Fat"}
)

type XLSXExporter struct{}

var _ domain.HistoryExporter = (*XLSXExporter)(nil)

func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *XLSXExporter) FileExtension() string {
	return "xlsx"
}

func (e *XLSXExporter) Export(w io.Writer, days []domain.HistoryDay) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", HistorySheet); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}
	if _, err := f.NewSheet(TotalsSheet); err != nil {
		return fmt.Errorf("export: create sheet: %w", err)
	}

	if err := writeHistory(f, days); err != nil {
		return err
	}
	if err := writeTotals(f, days); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func writeHistory(f *excelize.File, days []domain.HistoryDay) error {
	sw, err := f.NewStreamWriter(HistorySheet)
	if err != nil {
		return fmt.Errorf("export: open %s stream: %w", HistorySheet, err)
	}
	if err := sw.SetRow("A1", historyHeader); err != nil {
		return fmt.Errorf("export: write %s header: %w", HistorySheet, err)
	}

	row := 2
	for _, day := range days {
		for _, meal := range day.Meals {
			cell, err := rowStart(row)
			if err != nil {
				return err
			}
			values := []interface{}{
				day.Date,
				clockTime(meal.LocalTime),
				meal.Meal,
				meal.Intake.Calories,
				meal.Intake.Protein,
				meal.Intake.Carbohydrates,
				meal.Intake.Fat,
				meal.ImageURL,
			}
			if err := sw.SetRow(cell, values); err != nil {
				return fmt.Errorf("export: write row %d: %w", row, err)
			}
			row++
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("export: flush %s: %w", HistorySheet, err)
	}
	return nil
}

func writeTotals(f *excelize.File, days []domain.HistoryDay) error {
	sw, err := f.NewStreamWriter(TotalsSheet)
	if err != nil {
		return fmt.Errorf("export: open %s stream: %w", TotalsSheet, err)
	}
	if err := sw.SetRow("A1", totalsHeader); err != nil {
		return fmt.Errorf("export: write %s header: %w", TotalsSheet, err)
	}

	for i, day := range days {
		cell, err := rowStart(i + 2)
		if err != nil {
			return err
		}
		values := []interface{}{
			day.Date,
			len(day.Meals),
			day.Totals.Calories,
			day.Totals.Protein,
			day.Totals.Carbohydrates,
			day.Totals.Fat,
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("export: write totals row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("export: flush %s: %w", TotalsSheet, err)
	}
	return nil
}

// rowStart names the first cell of a row, e.g. "A2".
func rowStart(row int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return "", fmt.Errorf("export: cell name for row %d: %w", row, err)
	}
	return cell, nil
}

// clockTime keeps the HH:MM:SS part of a "2006-01-02 15:04:05" local time.
func clockTime(local string) string {
	if len(local) > len(domain.DateLayout)+1 {
		return local[len(domain.DateLayout)+1:]
	}
	return local
}
