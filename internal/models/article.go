package models

import "time"

// Category is the fixed article category enumeration.
type Category string

const (
	CategoryAll       Category = "All"
	CategoryAccount   Category = "Account"
	CategoryTechnical Category = "Technical"
	CategoryBilling   Category = "Billing"
	CategorySecurity  Category = "Security"
	CategoryGeneral   Category = "General"
)

// Categories lists every concrete category in display order.
var Categories = []Category{
	CategoryAccount,
	CategoryTechnical,
	CategoryBilling,
	CategorySecurity,
	CategoryGeneral,
}

// IsValid reports whether c is a concrete category or All.
func (c Category) IsValid() bool {
	if c == CategoryAll {
		return true
	}
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type AccessLevel string

const (
	AccessPublic       AccessLevel = "public"
	AccessInternal     AccessLevel = "internal"
	AccessRestricted   AccessLevel = "restricted"
	AccessConfidential AccessLevel = "confidential"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Article is an immutable knowledge base entry.
type Article struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Content        string      `json:"content"`
	Category       Category    `json:"category"`
	Tags           []string    `json:"tags"`
	RelevanceScore int         `json:"relevanceScore"`
	ViewCount      int         `json:"viewCount"`
	CreatedDate    time.Time   `json:"createdDate"`
	LastUpdated    time.Time   `json:"lastUpdated"`
	AccessLevel    AccessLevel `json:"accessLevel"`
	Status         Status      `json:"status"`
}

// ReferenceTime is the timestamp date filters compare against:
// LastUpdated if set, else CreatedDate. ok is false when neither is set.
func (a Article) ReferenceTime() (t time.Time, ok bool) {
	if !a.LastUpdated.IsZero() {
		return a.LastUpdated, true
	}
	if !a.CreatedDate.IsZero() {
		return a.CreatedDate, true
	}
	return time.Time{}, false
}

// ArticleIDs projects a list of articles onto their ids.
func ArticleIDs(articles []Article) []string {
	ids := make([]string, len(articles))
	for i, a := range articles {
		ids[i] = a.ID
	}
	return ids
}
