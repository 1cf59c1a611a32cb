package models

// RoleID identifies a role. It doubles as the user's permission level token.
type RoleID string

const (
	RoleSupportAgent    RoleID = "support_agent"
	RoleSeniorAgent     RoleID = "senior_agent"
	RoleKnowledgeAuthor RoleID = "knowledge_author"
	RoleAdmin           RoleID = "admin"
)

type Role struct {
	ID                RoleID     `json:"id"`
	Name              string     `json:"name"`
	Level             int        `json:"level"`
	AllowedCategories []Category `json:"allowedCategories"`
	RestrictedTags    []string   `json:"restrictedTags"`
	CanViewDraft      bool       `json:"canViewDraft"`
	CanViewRestricted bool       `json:"canViewRestricted"`
}

type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	Department string `json:"department"`
}

// PermissionSummary is a display projection of a user's role.
type PermissionSummary struct {
	UserID            string     `json:"userId"`
	UserName          string     `json:"userName"`
	Role              string     `json:"role"`
	Level             int        `json:"level"`
	Categories        []Category `json:"categories"`
	Restrictions      string     `json:"restrictions"`
	CanViewDraft      bool       `json:"canViewDraft"`
	CanViewRestricted bool       `json:"canViewRestricted"`
}

// PermissionCheck is the result of checkPermissions.
type PermissionCheck struct {
	UserID            string     `json:"userId"`
	Role              string     `json:"role"`
	AccessLevel       RoleID     `json:"accessLevel"`
	Level             int        `json:"level"`
	AllowedCategories []Category `json:"allowedCategories"`
	RestrictedContent bool       `json:"restrictedContent"`
}
