// Package access evaluates role-based visibility of articles and resolves
// the users and customers a session can act as.
package access

import (
	"fmt"
	"strings"

	"knowledge-search/internal/models"
)

// Denial reasons, in the order the rules are evaluated.
const (
	ReasonCategory      = "Category not authorized"
	ReasonRestrictedTag = "Contains restricted content"
	ReasonRestricted    = "Insufficient permission level"
	ReasonConfidential  = "Admin access required"
	ReasonDraft         = "Draft content not visible"
)

// Decision is the outcome of a single access check.
type Decision struct {
	Allowed bool
	Reason  string
}

// CanAccess applies the role rules in order; the first failing rule decides.
func CanAccess(user models.User, article models.Article) Decision {
	role := user.Role

	if !containsCategory(role.AllowedCategories, article.Category) {
		return Decision{Reason: ReasonCategory}
	}
	for _, tag := range article.Tags {
		if containsString(role.RestrictedTags, strings.ToLower(tag)) {
			return Decision{Reason: ReasonRestrictedTag}
		}
	}
	if article.AccessLevel == models.AccessRestricted && !role.CanViewRestricted {
		return Decision{Reason: ReasonRestricted}
	}
	if article.AccessLevel == models.AccessConfidential && role.Level < 4 {
		return Decision{Reason: ReasonConfidential}
	}
	if article.Status == models.StatusDraft && !role.CanViewDraft {
		return Decision{Reason: ReasonDraft}
	}
	return Decision{Allowed: true}
}

// FilterByPermissions keeps the articles user may see, preserving order.
func FilterByPermissions(user models.User, articles []models.Article) []models.Article {
	out := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		if CanAccess(user, a).Allowed {
			out = append(out, a)
		}
	}
	return out
}

// Summary projects the user's role for display.
func Summary(user models.User) models.PermissionSummary {
	restrictions := "No restrictions"
	if len(user.Role.RestrictedTags) > 0 {
		restrictions = fmt.Sprintf("Cannot view: %s", strings.Join(user.Role.RestrictedTags, ", "))
	}
	return models.PermissionSummary{
		UserID:            user.ID,
		UserName:          user.Name,
		Role:              user.Role.Name,
		Level:             user.Role.Level,
		Categories:        user.Role.AllowedCategories,
		Restrictions:      restrictions,
		CanViewDraft:      user.Role.CanViewDraft,
		CanViewRestricted: user.Role.CanViewRestricted,
	}
}

// Check builds the checkPermissions projection.
func Check(user models.User) models.PermissionCheck {
	return models.PermissionCheck{
		UserID:            user.ID,
		Role:              user.Role.Name,
		AccessLevel:       user.Role.ID,
		Level:             user.Role.Level,
		AllowedCategories: user.Role.AllowedCategories,
		RestrictedContent: len(user.Role.RestrictedTags) > 0,
	}
}

func containsCategory(list []models.Category, c models.Category) bool {
	for _, v := range list {
		if v == c {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
