package usecase

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/agencydesk/crm-api/internal/location"
)

var (
	nonDigitRe = regexp.MustCompile(`\D`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// tobaccoTruthy are the values coerced to true; anything else is false.
var tobaccoTruthy = map[string]bool{"yes": true, "true": true, "1": true, "y": true}

// dateLayouts are tried in order when parsing Effective Date and Birth Date.
var dateLayouts = []string{"2006-01-02", "01/02/2006", "1/2/2006", time.RFC3339}

// ValidateContactRow checks one raw record against the import rules and
// returns either the normalized contact or the reasons it was rejected.
//
// Checks run in a fixed order and the first failing check wins, with two
// exceptions: a completeness failure enumerates every missing field in one
// message, and the two date fields are validated independently so both errors
// surface together when both are bad.
func ValidateContactRow(row map[string]string, required []string, zips *location.Service) (*NormalizedContact, []string) {
	var missing []string
	for _, col := range required {
		if strings.TrimSpace(row[col]) == "" {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, []string{"Missing required fields: " + strings.Join(missing, ", ")}
	}

	originalEmail := strings.TrimSpace(row[ColEmail])
	email := strings.ToLower(originalEmail)
	if !emailRe.MatchString(email) {
		return nil, []string{fmt.Sprintf("Invalid email format: %s", originalEmail)}
	}

	phone := ""
	if raw := strings.TrimSpace(row[ColPhoneNumber]); raw != "" {
		digits := nonDigitRe.ReplaceAllString(raw, "")
		if len(digits) != 10 {
			return nil, []string{fmt.Sprintf("Invalid phone number: %s (must contain exactly 10 digits)", raw)}
		}
		phone = digits
	}

	zip := strings.TrimSpace(row[ColZipCode])
	state, ok := zips.StateFor(zip)
	if !ok {
		return nil, []string{fmt.Sprintf("Unknown ZIP code: %s", zip)}
	}

	gender := strings.ToUpper(strings.TrimSpace(row[ColGender]))
	if gender != "M" && gender != "F" {
		return nil, []string{fmt.Sprintf("Invalid gender: %s (expected M or F)", strings.TrimSpace(row[ColGender]))}
	}

	var dateErrs []string
	effectiveDate, err := normalizeDate(row[ColEffectiveDate])
	if err != nil {
		dateErrs = append(dateErrs, fmt.Sprintf("Invalid effective date: %s", err))
	}
	birthDate, err := normalizeDate(row[ColBirthDate])
	if err != nil {
		dateErrs = append(dateErrs, fmt.Sprintf("Invalid birth date: %s", err))
	}
	if len(dateErrs) > 0 {
		return nil, dateErrs
	}

	// No error path: unrecognized values coerce to false.
	tobacco := tobaccoTruthy[strings.ToLower(strings.TrimSpace(row[ColTobaccoUser]))]

	return &NormalizedContact{
		FirstName:      strings.TrimSpace(row[ColFirstName]),
		LastName:       strings.TrimSpace(row[ColLastName]),
		Email:          email,
		OriginalEmail:  originalEmail,
		CurrentCarrier: strings.TrimSpace(row[ColCurrentCarrier]),
		PlanType:       strings.TrimSpace(row[ColPlanType]),
		EffectiveDate:  effectiveDate,
		BirthDate:      birthDate,
		TobaccoUser:    tobacco,
		Gender:         gender,
		State:          state, // ZIP table wins over any state column
		ZipCode:        zip,
		PhoneNumber:    phone,
	}, nil
}

// normalizeDate parses a calendar date, rejects dates strictly in the future
// and returns the canonical YYYY-MM-DD form.
func normalizeDate(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	var parsed time.Time
	var err error
	for _, layout := range dateLayouts {
		parsed, err = time.Parse(layout, value)
		if err == nil {
			break
		}
	}
	if err != nil {
		return "", fmt.Errorf("%q is not a valid date", value)
	}
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if parsed.After(today) {
		return "", fmt.Errorf("%q is in the future", value)
	}
	return parsed.Format("2006-01-02"), nil
}
