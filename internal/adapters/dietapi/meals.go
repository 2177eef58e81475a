package dietapi

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/comitanigiacomo/kanso-diet-web/internal/core/domain"
)

// intakeResponse accepts nulls, which the backend sends for targets of users
// who never filled in a profile.
type intakeResponse struct {
	Calories      *float64 `json:"calories"`
	Protein       *float64 `json:"protein"`
	Carbohydrates *float64 `json:"carbohydrates"`
	Fat           *float64 `json:"fat"`
}

func (r intakeResponse) toDomain() domain.NutrientIntake {
	return domain.NutrientIntake{
		Calories:      deref(r.Calories),
		Protein:       deref(r.Protein),
		Carbohydrates: deref(r.Carbohydrates),
		Fat:           deref(r.Fat),
	}
}

type analysisResponse struct {
	Result struct {
		Current intakeResponse `json:"intake_current"`
		Prior   intakeResponse `json:"intake_prior"`
		Target  intakeResponse `json:"intake_target"`
	} `json:"result"`
}

type historyEntryResponse struct {
	Datetime      apiTime `json:"datetime"`
	Meal          string  `json:"meal"`
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
	ImgURL        *string `json:"img_url"`
}

type historyResponse struct {
	DietHistory []historyEntryResponse `json:"diet_history"`
}

func (c *Client) Analyze(ctx context.Context, token string, in domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	form := newMultipartForm()
	if in.Image != nil {
		form.file("food_img", in.Image)
	}
	if in.Manual != nil {
		form.field("manual_protein", strconv.Itoa(in.Manual.Protein))
		form.field("manual_carbohydrates", strconv.Itoa(in.Manual.Carbohydrates))
		form.field("manual_fat", strconv.Itoa(in.Manual.Fat))
	}
	form.field("time_zone", in.TimeZone)

	req, err := form.request(ctx, c, "/analyze", token)
	if err != nil {
		return nil, err
	}

	var resp analysisResponse
	if err := c.do(req, &resp, nil); err != nil {
		return nil, err
	}

	return &domain.AnalysisResult{
		Current: resp.Result.Current.toDomain(),
		Prior:   resp.Result.Prior.toDomain(),
		Target:  resp.Result.Target.toDomain(),
	}, nil
}

func (c *Client) SaveMeal(ctx context.Context, token string, meal domain.MealRecord) error {
	form := newMultipartForm()
	if meal.Image != nil {
		form.file("food_img", meal.Image)
	}
	// the history store declares these as integer form fields
	form.field("calories", formatInt(meal.Intake.Calories))
	form.field("protein", formatInt(meal.Intake.Protein))
	form.field("carbohydrates", formatInt(meal.Intake.Carbohydrates))
	form.field("fat", formatInt(meal.Intake.Fat))

	req, err := form.request(ctx, c, "/save_diet_history", token)
	if err != nil {
		return err
	}

	return c.do(req, nil, nil)
}

func (c *Client) ListHistory(ctx context.Context, token string) ([]domain.DietEntry, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/get_diet_history", token, nil)
	if err != nil {
		return nil, err
	}

	var resp historyResponse
	err = c.do(req, &resp, func(msg string) error {
		if strings.Contains(strings.ToLower(msg), "no diet history") {
			return domain.ErrNoHistory
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entries := make([]domain.DietEntry, 0, len(resp.DietHistory))
	for _, e := range resp.DietHistory {
		entries = append(entries, domain.DietEntry{
			LoggedAt: e.Datetime.Time,
			Meal:     e.Meal,
			Intake: domain.NutrientIntake{
				Calories:      e.Calories,
				Protein:       e.Protein,
				Carbohydrates: e.Carbohydrates,
				Fat:           e.Fat,
			},
			ImageURL: deref(e.ImgURL),
		})
	}
	return entries, nil
}

func formatInt(v float64) string {
	return strconv.FormatInt(int64(math.Round(v)), 10)
}

type multipartForm struct {
	buf    bytes.Buffer
	writer *multipart.Writer
	err    error
}

func newMultipartForm() *multipartForm {
	f := &multipartForm{}
	f.writer = multipart.NewWriter(&f.buf)
	return f
}

func (f *multipartForm) field(name, value string) {
	if f.err != nil {
		return
	}
	f.err = f.writer.WriteField(name, value)
}

func (f *multipartForm) file(name string, img *domain.ImageUpload) {
	if f.err != nil {
		return
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, name, img.Filename))
	h.Set("Content-Type", img.ContentType)

	part, err := f.writer.CreatePart(h)
	if err != nil {
		f.err = err
		return
	}
	_, f.err = part.Write(img.Data)
}

func (f *multipartForm) request(ctx context.Context, c *Client, endpoint, token string) (*http.Request, error) {
	if f.err == nil {
		f.err = f.writer.Close()
	}
	if f.err != nil {
		return nil, fmt.Errorf("diet api: encoding %s form: %w", endpoint, f.err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, endpoint, token, &f.buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", f.writer.FormDataContentType())
	return req, nil
}

// apiTime parses the backend's timestamps, which are naive UTC datetimes
// unless a zone is present.
type apiTime struct {
	time.Time
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (t *apiTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}

	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = parsed.UTC()
		return nil
	}
	for _, layout := range naiveLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("diet api: unrecognized datetime %q", s)
}
