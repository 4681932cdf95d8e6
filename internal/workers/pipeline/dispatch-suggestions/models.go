// internal/workers/pipeline/dispatch-suggestions/models.go
package dispatchsuggestions

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"dining-concierge/internal/common/errors"
	"dining-concierge/internal/models"
)

// Outcome tags the result of one ProcessOne call.
type Outcome string

const (
	OutcomeIdle      Outcome = "Idle"
	OutcomeRejected  Outcome = "Rejected"
	OutcomeRetryable Outcome = "Retryable"
	OutcomeDelivered Outcome = "Delivered"
)

// Result is returned by every ProcessOne call. Err is set for Rejected and
// Retryable outcomes.
type Result struct {
	Outcome   Outcome
	MessageID string
	Hits      int
	Entries   int
	Err       error
}

// Output is the job variable set written on completion.
type Output struct {
	Outcome   string `json:"outcome"`
	MessageID string `json:"messageId,omitempty"`
	Hits      int    `json:"hits"`
	Entries   int    `json:"entries"`
	ErrorCode string `json:"errorCode,omitempty"`
}

func (r *Result) Output() *Output {
	out := &Output{
		Outcome:   string(r.Outcome),
		MessageID: r.MessageID,
		Hits:      r.Hits,
		Entries:   r.Entries,
	}
	if r.Err != nil {
		out.ErrorCode = string(errors.CodeOf(r.Err))
	}
	return out
}

// SuggestionRequest is a decoded work item with its numeric fields typed.
type SuggestionRequest struct {
	Cuisine        string
	Location       string
	DiningTime     string
	NumberOfPeople int
	DiningDate     *time.Time
	Email          string
}

// Older producers wrote short lower-case attribute names.
var attributeAliases = map[string][]string{
	models.SlotCuisine:        {"cuisine"},
	models.SlotLocation:       {"location"},
	models.SlotDiningTime:     {"time"},
	models.SlotNumberOfPeople: {"people"},
	models.SlotDiningDate:     {"date"},
	models.SlotEmail:          {"email"},
}

func lookup(attrs map[string]string, name string) (string, bool) {
	if v, ok := models.LookupAttribute(attrs, name); ok {
		return v, true
	}
	for _, alias := range attributeAliases[name] {
		if v, ok := models.LookupAttribute(attrs, alias); ok {
			return v, true
		}
	}
	return "", false
}

// DecodeRequest reads a work item from message attributes. Any failure is a
// MALFORMED_WORK_ITEM error.
func DecodeRequest(attrs map[string]string, loc *time.Location) (*SuggestionRequest, error) {
	required := []string{
		models.SlotCuisine,
		models.SlotLocation,
		models.SlotDiningTime,
		models.SlotNumberOfPeople,
	}
	values := make(map[string]string, len(required))
	var missing []string
	for _, name := range required {
		v, ok := lookup(attrs, name)
		if !ok || strings.TrimSpace(v) == "" {
			missing = append(missing, name)
			continue
		}
		values[name] = v
	}
	if len(missing) > 0 {
		return nil, errors.NewMalformedWorkItemError(fmt.Sprintf("missing attributes: %s", strings.Join(missing, ", ")))
	}

	people, err := strconv.Atoi(strings.TrimSpace(values[models.SlotNumberOfPeople]))
	if err != nil {
		return nil, errors.NewMalformedWorkItemError(fmt.Sprintf("NumberOfPeople %q is not an integer", values[models.SlotNumberOfPeople]))
	}

	req := &SuggestionRequest{
		Cuisine:        values[models.SlotCuisine],
		Location:       values[models.SlotLocation],
		DiningTime:     values[models.SlotDiningTime],
		NumberOfPeople: people,
	}

	if raw, ok := lookup(attrs, models.SlotDiningDate); ok && raw != "" {
		date, ok := models.ParseDiningDate(raw, loc)
		if !ok {
			return nil, errors.NewMalformedWorkItemError(fmt.Sprintf("DiningDate %q is not a date", raw))
		}
		req.DiningDate = &date
	}
	if email, ok := lookup(attrs, models.SlotEmail); ok {
		req.Email = email
	}

	return req, nil
}
