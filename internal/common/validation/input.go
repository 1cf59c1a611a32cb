package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	apperrors "knowledge-search/internal/common/errors"
	"knowledge-search/internal/models"
)

const (
	MaxQueryLength   = 500
	MaxDateRangeDays = 3650
	DateLayout       = "2006-01-02"
)

var (
	scriptBlockPattern  = regexp.MustCompile(`(?is)<script\b.*?</script\s*>`)
	htmlTagPattern      = regexp.MustCompile(`<[^>]*>`)
	eventHandlerPattern = regexp.MustCompile(`(?i)on\w+\s*=\s*["'][^"']*["']`)
	jsProtocolPattern   = regexp.MustCompile(`(?i)javascript:`)
	minDate             = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
)

// SanitizeQuery strips markup and script vectors from user input and caps
// its length.
func SanitizeQuery(input string) string {
	s := strings.TrimSpace(input)
	s = scriptBlockPattern.ReplaceAllString(s, "")
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = eventHandlerPattern.ReplaceAllString(s, "")
	s = jsProtocolPattern.ReplaceAllString(s, "")
	if r := []rune(s); len(r) > MaxQueryLength {
		s = string(r[:MaxQueryLength])
	}
	return s
}

// ValidateSearchQuery sanitizes query and rejects it when nothing is left.
func ValidateSearchQuery(query string) (string, error) {
	sanitized := SanitizeQuery(query)
	if sanitized == "" {
		return "", apperrors.NewValidationError("query", "Query cannot be empty")
	}
	return sanitized, nil
}

// ParseDate parses a YYYY-MM-DD date in UTC. Empty input yields nil.
func ParseDate(field, value string, now time.Time) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return nil, apperrors.NewValidationError(field, "Invalid date format")
	}
	if err := ValidateDate(field, t, now); err != nil {
		return nil, err
	}
	return &t, nil
}

// ValidateDate rejects dates in the future or before 1970.
func ValidateDate(field string, t, now time.Time) error {
	if t.After(now) {
		return apperrors.NewValidationError(field, "Date cannot be in the future")
	}
	if t.Before(minDate) {
		return apperrors.NewValidationError(field, "Date too far in the past")
	}
	return nil
}

// ValidateDateRange checks each bound and, when both are set, their order
// and span.
func ValidateDateRange(start, end *time.Time, now time.Time) error {
	if start != nil {
		if err := ValidateDate("startDate", *start, now); err != nil {
			return err
		}
	}
	if end != nil {
		if err := ValidateDate("endDate", *end, now); err != nil {
			return err
		}
	}
	if start == nil || end == nil {
		return nil
	}
	if start.After(*end) {
		return apperrors.NewValidationError("startDate", "Start date must be before end date")
	}
	if end.Sub(*start) > MaxDateRangeDays*24*time.Hour {
		return apperrors.NewValidationError("endDate", fmt.Sprintf("Date range too large. Maximum %d days allowed.", MaxDateRangeDays))
	}
	return nil
}

// ValidateCategory accepts empty, "All" or a known category.
func ValidateCategory(category string) (models.Category, error) {
	if category == "" {
		return models.CategoryAll, nil
	}
	c := models.Category(category)
	if !c.IsValid() {
		return "", apperrors.NewValidationError("category", "Invalid category selected")
	}
	return c, nil
}

// ValidateDateRangeName accepts empty or one of the named buckets.
func ValidateDateRangeName(name string) (models.DateRange, error) {
	switch d := models.DateRange(name); d {
	case "":
		return models.DateRangeAll, nil
	case models.DateRangeAll, models.DateRangeLast7Days, models.DateRangeLast30Days,
		models.DateRangeLast90Days, models.DateRangeLastYear:
		return d, nil
	}
	return "", apperrors.NewValidationError("dateRange", "Invalid date range selected")
}

// ValidateSortKey accepts empty (relevance) or a known key.
func ValidateSortKey(key string) (models.SortKey, error) {
	switch k := models.SortKey(key); k {
	case "":
		return models.SortRelevance, nil
	case models.SortRelevance, models.SortDate, models.SortPopularity:
		return k, nil
	}
	return "", apperrors.NewValidationError("sortBy", "Invalid sort option")
}

// ParseFilters builds SearchFilters from raw form values.
func ParseFilters(category, dateRange, startDate, endDate string, now time.Time) (models.SearchFilters, error) {
	var f models.SearchFilters
	var err error

	if f.Category, err = ValidateCategory(category); err != nil {
		return f, err
	}
	if f.DateRange, err = ValidateDateRangeName(dateRange); err != nil {
		return f, err
	}
	if f.StartDate, err = ParseDate("startDate", startDate, now); err != nil {
		return f, err
	}
	if f.EndDate, err = ParseDate("endDate", endDate, now); err != nil {
		return f, err
	}
	if err := ValidateDateRange(f.StartDate, f.EndDate, now); err != nil {
		return f, err
	}
	return f, nil
}

// ValidateFeedback checks the feedback type and trims free-text fields.
func ValidateFeedback(fb models.Feedback) (models.Feedback, error) {
	switch fb.Type {
	case models.FeedbackHelpful, models.FeedbackNotHelpful, models.FeedbackEdited, models.FeedbackSuggested:
	default:
		return fb, apperrors.NewValidationError("feedback.type", "Invalid feedback type")
	}
	fb.Reason = SanitizeQuery(fb.Reason)
	fb.Suggestion = SanitizeQuery(fb.Suggestion)
	fb.Query = SanitizeQuery(fb.Query)
	return fb, nil
}
