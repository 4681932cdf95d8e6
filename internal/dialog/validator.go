package dialog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"dining-concierge/internal/models"
)

const (
	msgUnknownLocation = "We do not have suggestions for %s, would you like suggestions for a different location? Try searching for New York?"
	msgUnknownCuisine  = "We do not have suggestions for %s, would you like suggestions for a different cuisine? Popular cuisines are Chinese, Lebanese, Japanese, Italian, or Mexican."
	msgBadDate         = "I did not understand that, what date would you like to dine?"
	msgPastDate        = "Sorry, you cannot choose a past date. What date would you like?"
	msgBadTimeLength   = "Please specify a valid time."
	msgBadTimeFormat   = "I did not understand the time. Please provide it in HH:MM format."
	msgOutsideHours    = "Our business hours are from 10 AM to 11 PM. Can you specify a time within this range?"
	msgBadPartySize    = "That does not look like a valid number %s, could you please repeat?"
	msgBadEmail        = "The email address %s seems incorrect. Could you please repeat?"
)

// The hour window is inclusive on both ends; 24 is accepted.
const (
	openingHour = 10
	closingHour = 24
)

// Validator checks a slot set against the dining domain rules. It reports at
// most one violation, in models.SlotOrder precedence.
type Validator struct {
	locations map[string]struct{}
	cuisines  map[string]struct{}
	loc       *time.Location
	now       func() time.Time
}

func NewValidator(cfg *Config) *Validator {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Validator{
		locations: toSet(cfg.Locations),
		cuisines:  toSet(cfg.Cuisines),
		loc:       loc,
		now:       time.Now,
	}
}

// WithClock replaces the clock used to decide what "today" is.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	v.now = now
	return v
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		set[strings.ToLower(value)] = struct{}{}
	}
	return set
}

// Validate returns the first violation found. Unset slots are never
// violations.
func (v *Validator) Validate(slots models.SlotSet) models.ValidationResult {
	checks := []struct {
		slot  string
		check func(string) string
	}{
		{models.SlotLocation, v.checkLocation},
		{models.SlotCuisine, v.checkCuisine},
		{models.SlotDiningDate, v.checkDate},
		{models.SlotDiningTime, checkTime},
		{models.SlotNumberOfPeople, checkPartySize},
		{models.SlotEmail, checkEmail},
	}

	for _, c := range checks {
		value := slots.Get(c.slot)
		if value == nil {
			continue
		}
		if msg := c.check(*value); msg != "" {
			return models.ValidationResult{
				IsValid:      false,
				ViolatedSlot: c.slot,
				Message:      models.PlainText(msg),
			}
		}
	}
	return models.ValidationResult{IsValid: true}
}

func (v *Validator) checkLocation(value string) string {
	if _, ok := v.locations[strings.ToLower(value)]; ok {
		return ""
	}
	return fmt.Sprintf(msgUnknownLocation, value)
}

func (v *Validator) checkCuisine(value string) string {
	if _, ok := v.cuisines[strings.ToLower(value)]; ok {
		return ""
	}
	return fmt.Sprintf(msgUnknownCuisine, value)
}

func (v *Validator) checkDate(value string) string {
	date, ok := models.ParseDiningDate(value, v.loc)
	if !ok {
		return msgBadDate
	}
	if date.Before(v.today()) {
		return msgPastDate
	}
	return ""
}

func (v *Validator) today() time.Time {
	now := v.now().In(v.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, v.loc)
}

func checkTime(value string) string {
	if len(value) != 5 {
		return msgBadTimeLength
	}
	if value[2] != ':' {
		return msgBadTimeFormat
	}
	hour, err := strconv.Atoi(value[:2])
	if err != nil {
		return msgBadTimeFormat
	}
	if _, err := strconv.Atoi(value[3:]); err != nil {
		return msgBadTimeFormat
	}
	if hour < openingHour || hour > closingHour {
		return msgOutsideHours
	}
	return ""
}

func checkPartySize(value string) string {
	if isDigits(value) {
		return ""
	}
	return fmt.Sprintf(msgBadPartySize, value)
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func checkEmail(value string) string {
	if strings.Contains(value, "@") {
		return ""
	}
	return fmt.Sprintf(msgBadEmail, value)
}
