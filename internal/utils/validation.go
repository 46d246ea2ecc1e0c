package utils

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// Alphanumeric, underscore, hyphen and dot cover every stop and vehicle id
	// the transit service hands out.
	validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

	// Route numbers are short and never carry separators.
	validRoutePattern = regexp.MustCompile(`^[a-zA-Z0-9]{1,8}$`)

	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

// ValidateID validates that an ID is safe and within reasonable limits
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}

	if len(id) > 100 {
		return errors.New("id too long (max 100 characters)")
	}

	if !validIDPattern.MatchString(id) {
		return errors.New("id contains invalid characters")
	}

	return nil
}

// ValidateRouteNumber validates a bare route number such as "504" or "52A".
func ValidateRouteNumber(route string) error {
	if route == "" {
		return errors.New("route cannot be empty")
	}
	if !validRoutePattern.MatchString(route) {
		return errors.New("route must be 1-8 letters or digits")
	}
	return nil
}

// ValidateLatitude validates latitude values
func ValidateLatitude(lat float64) error {
	if lat < -90.0 || lat > 90.0 {
		return errors.New("latitude must be between -90 and 90")
	}
	return nil
}

// ValidateLongitude validates longitude values
func ValidateLongitude(lon float64) error {
	if lon < -180.0 || lon > 180.0 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// SanitizeInput removes HTML tags and surrounding whitespace.
func SanitizeInput(input string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(input, ""))
}

// NormalizeStopInput turns free-form stop number input into a stop id, or
// returns an error when nothing usable is left.
func NormalizeStopInput(input string) (string, error) {
	id := strings.Join(strings.Fields(SanitizeInput(input)), "")
	if err := ValidateID(id); err != nil {
		return "", err
	}
	return id, nil
}
