// Package render draws the meal page charts as PNG images.
package render

import (
	"bytes"
	"fmt"
	"image/png"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/comitanigiacomo/kanso-diet-web/internal/core/domain"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 400

	colorPrior     = "#76b5c5"
	colorCurrent   = "#ffd56b"
	colorRemaining = "#76c893"
	colorTarget    = "#ff0000"
	colorText      = "#333333"
	colorGrid      = "#e5e5e5"
	colorEmptyRing = "#dddddd"

	tickStep = 0.2
	maxTicks = 12
)

var sliceColors = map[domain.Nutrient]string{
	domain.Protein:       colorPrior,
	domain.Carbohydrates: colorCurrent,
	domain.Fat:           colorRemaining,
}

// ChartRenderer is safe for concurrent use; every call builds its own context
// and font faces.
type ChartRenderer struct {
	width  int
	height int
	font   *truetype.Font
}

func NewChartRenderer(width, height int) (*ChartRenderer, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("render: failed to parse font: %w", err)
	}

	return &ChartRenderer{width: width, height: height, font: font}, nil
}

func (r *ChartRenderer) setFont(dc *gg.Context, size float64) {
	dc.SetFontFace(truetype.NewFace(r.font, &truetype.Options{Size: size}))
}

func (r *ChartRenderer) newCanvas() *gg.Context {
	dc := gg.NewContext(r.width, r.height)
	dc.SetHexColor("#ffffff")
	dc.Clear()
	return dc
}

// Summary draws one stacked horizontal bar per nutrient: prior, current and
// remaining, scaled to the summary's axis, with a dashed line at 100% of the
// target.
func (r *ChartRenderer) Summary(summary domain.IntakeSummary) ([]byte, error) {
	if !summary.Finite() {
		return nil, fmt.Errorf("render: %w", domain.ErrSummaryOutOfRange)
	}
	dc := r.newCanvas()

	const (
		marginLeft   = 120.0
		marginRight  = 90.0
		marginTop    = 44.0
		marginBottom = 36.0
	)

	w, h := float64(r.width), float64(r.height)
	plotW := w - marginLeft - marginRight
	plotH := h - marginTop - marginBottom
	if plotW <= 0 || plotH <= 0 {
		return nil, fmt.Errorf("render: canvas %dx%d too small for summary chart", r.width, r.height)
	}

	axisMax := summary.AxisMax
	if axisMax <= 0 {
		axisMax = domain.MinAxisMax
	}
	xOf := func(frac float64) float64 {
		return marginLeft + math.Min(frac, axisMax)/axisMax*plotW
	}

	r.drawLegend(dc, marginLeft, marginTop/2)

	r.setFont(dc, 12)
	step := tickStep
	if axisMax/step > maxTicks {
		step = math.Ceil(axisMax/(maxTicks*tickStep)) * tickStep
	}
	ticks := int(math.Floor(axisMax/step + 1e-9))
	for i := 0; i <= ticks; i++ {
		v := float64(i) * step
		x := xOf(v)
		dc.SetHexColor(colorGrid)
		dc.SetLineWidth(1)
		dc.DrawLine(x, marginTop, x, marginTop+plotH)
		dc.Stroke()

		dc.SetHexColor(colorText)
		dc.DrawStringAnchored(fmt.Sprintf("%.0f%%", v*100), x, marginTop+plotH+16, 0.5, 0.5)
	}

	rows := len(summary.Segments)
	if rows == 0 {
		return encode(dc)
	}
	rowH := plotH / float64(rows)
	barH := rowH * 0.6

	for i, seg := range summary.Segments {
		centerY := marginTop + rowH*(float64(i)+0.5)
		top := centerY - barH/2

		r.setFont(dc, 14)
		dc.SetHexColor(colorText)
		dc.DrawStringAnchored(seg.Nutrient.Label(), marginLeft-10, centerY, 1, 0.5)

		start := 0.0
		for _, part := range []struct {
			frac  float64
			color string
		}{
			{seg.PriorPct, colorPrior},
			{seg.CurrentPct, colorCurrent},
			{seg.RemainingPct, colorRemaining},
		} {
			if part.frac <= 0 {
				continue
			}
			x0, x1 := xOf(start), xOf(start+part.frac)
			start += part.frac
			if x1 <= x0 {
				continue
			}
			dc.SetHexColor(part.color)
			dc.DrawRectangle(x0, top, x1-x0, barH)
			dc.Fill()
		}
	}

	x100 := xOf(1)
	dc.SetHexColor(colorTarget)
	dc.SetLineWidth(2)
	dc.SetDash(5, 5)
	dc.DrawLine(x100, marginTop, x100, marginTop+plotH)
	dc.Stroke()
	dc.SetDash()

	r.setFont(dc, 12)
	for i, seg := range summary.Segments {
		centerY := marginTop + rowH*(float64(i)+0.5)
		dc.DrawStringAnchored(domain.FormatAmount(seg.Nutrient, seg.TargetAbs), x100+5, centerY, 0, 0.5)
	}

	return encode(dc)
}

func (r *ChartRenderer) drawLegend(dc *gg.Context, x, y float64) {
	r.setFont(dc, 13)
	for _, item := range []struct {
		label string
		color string
	}{
		{"Prior", colorPrior},
		{"Current", colorCurrent},
		{"Remaining", colorRemaining},
	} {
		dc.SetHexColor(item.color)
		dc.DrawRectangle(x, y-6, 12, 12)
		dc.Fill()

		dc.SetHexColor(colorText)
		dc.DrawStringAnchored(item.label, x+18, y, 0, 0.5)
		tw, _ := dc.MeasureString(item.label)
		x += 18 + tw + 24
	}
}

// Composition draws the meal's calories split by macronutrient as a doughnut
// with the total in the middle. An empty composition renders the placeholder
// text instead.
func (r *ChartRenderer) Composition(c domain.Composition) ([]byte, error) {
	dc := r.newCanvas()
	w, h := float64(r.width), float64(r.height)

	if c.Empty {
		r.setFont(dc, 20)
		dc.SetHexColor(colorTarget)
		placeholder := c.Placeholder
		if placeholder == "" {
			placeholder = domain.NoFoodIdentified
		}
		dc.DrawStringAnchored(placeholder, w/2, h/2, 0.5, 0.5)
		return encode(dc)
	}

	legendH := 28.0
	cx, cy := w/2, (h-legendH)/2
	outer := math.Min(w, h-legendH) * 0.42
	inner := outer * 0.55

	if c.TotalKcal <= 0 {
		dc.SetHexColor(colorEmptyRing)
		dc.DrawCircle(cx, cy, outer)
		dc.Fill()
	} else {
		angle := -math.Pi / 2
		for _, s := range c.Slices {
			if s.Share <= 0 {
				continue
			}
			sweep := s.Share * 2 * math.Pi
			dc.SetHexColor(sliceColors[s.Nutrient])
			dc.MoveTo(cx, cy)
			dc.DrawArc(cx, cy, outer, angle, angle+sweep)
			dc.ClosePath()
			dc.Fill()
			angle += sweep
		}
	}

	dc.SetHexColor("#ffffff")
	dc.DrawCircle(cx, cy, inner)
	dc.Fill()

	r.setFont(dc, math.Max(14, inner/3))
	dc.SetHexColor(colorText)
	dc.DrawStringAnchored(domain.FormatAmount(domain.Calories, c.TotalKcal), cx, cy, 0.5, 0.5)

	r.setFont(dc, 12)
	slot := w / float64(max(len(c.Slices), 1))
	for i, s := range c.Slices {
		x := slot*float64(i) + slot/2
		y := h - legendH/2

		dc.SetHexColor(sliceColors[s.Nutrient])
		dc.DrawRectangle(x-slot/2+10, y-6, 12, 12)
		dc.Fill()

		dc.SetHexColor(colorText)
		label := fmt.Sprintf("%s %s (%.0f%%)", s.Nutrient.Label(), domain.FormatAmount(s.Nutrient, s.Grams), s.Share*100)
		dc.DrawStringAnchored(label, x-slot/2+28, y, 0, 0.5)
	}

	return encode(dc)
}

func encode(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("render: failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
