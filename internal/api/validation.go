package api

import (
	"fmt"
	"time"

	"github.com/autobrief/autobrief/internal/models"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateDate checks the YYYY-MM-DD calendar date format.
func ValidateDate(date string) error {
	if date == "" {
		return ValidationError{Field: "date", Message: "Date is required"}
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ValidationError{Field: "date", Message: "Date must be YYYY-MM-DD"}
	}
	return nil
}

// ValidateTone checks a tone value, allowing empty (default applies).
func ValidateTone(tone string) error {
	if tone == "" {
		return nil
	}
	if !models.Tone(tone).Valid() {
		return ValidationError{Field: "tone", Message: "Tone must be one of friendly, casual, formal, professional"}
	}
	return nil
}

// ValidateFilter checks a filter value, allowing empty (default applies).
func ValidateFilter(filter string) error {
	if filter == "" {
		return nil
	}
	if !models.Filter(filter).Valid() {
		return ValidationError{Field: "filter", Message: "Filter must be one of all, blockers, achievements, meetings, code"}
	}
	return nil
}

// ValidateProvider checks a provider path segment.
func ValidateProvider(provider string) error {
	switch models.Provider(provider) {
	case models.ProviderGitHub, models.ProviderSlack, models.ProviderGoogleCalendar,
		models.ProviderJira, models.ProviderNotion:
		return nil
	}
	return ValidationError{Field: "provider", Message: "Unknown provider"}
}
