package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/garnizeh/chronosflow/internal/calendar"
	"github.com/garnizeh/chronosflow/internal/studyplan"
)

type StudyPlanHandler struct {
	now func() time.Time
}

func NewStudyPlanHandler() *StudyPlanHandler {
	return &StudyPlanHandler{now: time.Now}
}

// formValue accepts a JSON string or number as the raw text of a form field.
type formValue string

func (f *formValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = formValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = formValue(n.String())
	return nil
}

type studyPlanRequest struct {
	TotalHours formValue `json:"total_hours"`
	Months     formValue `json:"months"`
	StartDate  formValue `json:"start_date"`
}

type studyPlanResponse struct {
	TotalHours float64          `json:"total_hours"`
	Months     int              `json:"months"`
	Plan       *studyPlanResult `json:"plan"`
}

type studyPlanResult struct {
	*studyplan.Plan
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	DailyLabel  string `json:"daily_label"`
	WeeklyLabel string `json:"weekly_label"`
}

// Calculate answers with the sanitized inputs and the plan, or a null plan
// when the range holds no days.
func (h *StudyPlanHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req studyPlanRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	in := studyplan.ParseInput(string(req.TotalHours), string(req.Months), string(req.StartDate), h.now())
	resp := studyPlanResponse{TotalHours: in.TotalHours, Months: in.Months}
	if plan, ok := studyplan.Calculate(in); ok {
		resp.Plan = &studyPlanResult{
			Plan:        plan,
			StartDate:   calendar.FormatDate(plan.StartDate),
			EndDate:     calendar.FormatDate(plan.EndDate),
			DailyLabel:  plan.DailyLabel(),
			WeeklyLabel: plan.WeeklyLabel(),
		}
	}
	writeJSON(w, resp, http.StatusOK)
}
