package access

import (
	"testing"

	"knowledge-search/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userWith(role models.Role) models.User {
	return models.User{ID: "u", Name: "Test", Role: role}
}

func TestCanAccess(t *testing.T) {
	public := models.Article{ID: "p", Category: models.CategoryAccount, Tags: []string{"guide"}, AccessLevel: models.AccessPublic, Status: models.StatusPublished}
	security := models.Article{ID: "s", Category: models.CategorySecurity, AccessLevel: models.AccessPublic, Status: models.StatusPublished}
	tagged := models.Article{ID: "t", Category: models.CategoryGeneral, Tags: []string{"Internal"}, AccessLevel: models.AccessPublic, Status: models.StatusPublished}
	restricted := models.Article{ID: "r", Category: models.CategoryGeneral, AccessLevel: models.AccessRestricted, Status: models.StatusPublished}
	confidential := models.Article{ID: "c", Category: models.CategoryGeneral, AccessLevel: models.AccessConfidential, Status: models.StatusPublished}
	draft := models.Article{ID: "d", Category: models.CategoryGeneral, AccessLevel: models.AccessPublic, Status: models.StatusDraft}

	tests := []struct {
		name    string
		role    models.Role
		article models.Article
		allowed bool
		reason  string
	}{
		{"agent sees public", SupportAgent, public, true, ""},
		{"agent blocked by category", SupportAgent, security, false, ReasonCategory},
		{"agent blocked by tag case-insensitively", SupportAgent, tagged, false, ReasonRestrictedTag},
		{"senior sees internal tag", SeniorAgent, tagged, true, ""},
		{"agent blocked by restricted level", SupportAgent, restricted, false, ReasonRestricted},
		{"senior sees restricted", SeniorAgent, restricted, true, ""},
		{"author blocked by confidential", KnowledgeAuthor, confidential, false, ReasonConfidential},
		{"admin sees confidential", Admin, confidential, true, ""},
		{"senior blocked by draft", SeniorAgent, draft, false, ReasonDraft},
		{"author sees draft", KnowledgeAuthor, draft, true, ""},
		{"author sees security", KnowledgeAuthor, security, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CanAccess(userWith(tt.role), tt.article)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestCanAccess_RuleOrder(t *testing.T) {
	// category is checked before tags, level and status
	a := models.Article{Category: models.CategorySecurity, Tags: []string{"executive"}, AccessLevel: models.AccessConfidential, Status: models.StatusDraft}
	assert.Equal(t, ReasonCategory, CanAccess(userWith(SupportAgent), a).Reason)

	a.Category = models.CategoryGeneral
	assert.Equal(t, ReasonRestrictedTag, CanAccess(userWith(SupportAgent), a).Reason)
}

func TestFilterByPermissions(t *testing.T) {
	articles := []models.Article{
		{ID: "1", Category: models.CategoryAccount, AccessLevel: models.AccessPublic, Status: models.StatusPublished},
		{ID: "2", Category: models.CategorySecurity, AccessLevel: models.AccessPublic, Status: models.StatusPublished},
		{ID: "3", Category: models.CategoryBilling, AccessLevel: models.AccessPublic, Status: models.StatusPublished},
	}
	got := FilterByPermissions(userWith(SupportAgent), articles)
	assert.Equal(t, []string{"1", "3"}, models.ArticleIDs(got))

	got = FilterByPermissions(userWith(Admin), articles)
	assert.Len(t, got, 3)
}

func TestSummary(t *testing.T) {
	dir := NewDirectory()
	agent, err := dir.User("user-001")
	require.NoError(t, err)

	s := Summary(agent)
	assert.Equal(t, "user-001", s.UserID)
	assert.Equal(t, "Alex Johnson", s.UserName)
	assert.Equal(t, "Support Agent", s.Role)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, "Cannot view: internal, confidential, executive", s.Restrictions)
	assert.False(t, s.CanViewDraft)

	admin, _ := dir.User("user-004")
	assert.Equal(t, "No restrictions", Summary(admin).Restrictions)
}

func TestCheck(t *testing.T) {
	dir := NewDirectory()
	author, _ := dir.User("user-003")

	c := Check(author)
	assert.Equal(t, "user-003", c.UserID)
	assert.Equal(t, "Knowledge Author", c.Role)
	assert.Equal(t, models.RoleKnowledgeAuthor, c.AccessLevel)
	assert.Equal(t, 3, c.Level)
	assert.Contains(t, c.AllowedCategories, models.CategorySecurity)
	assert.True(t, c.RestrictedContent)

	admin, _ := dir.User("user-004")
	assert.False(t, Check(admin).RestrictedContent)
}

func TestDirectory_Session(t *testing.T) {
	dir := NewDirectory()

	s, err := dir.Session("", "")
	require.NoError(t, err)
	assert.Equal(t, "user-001", s.User.ID)
	assert.Equal(t, "cust-001", s.Customer.ID)
	assert.Equal(t, models.TierPremierBanking, s.Customer.Tier)

	s, err = dir.Session("user-002", "cust-003")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSeniorAgent, s.User.Role.ID)
	assert.Equal(t, models.TierBusinessBanking, s.Customer.Tier)

	_, err = dir.Session("user-999", "")
	assert.Error(t, err)
	_, err = dir.Session("", "cust-999")
	assert.Error(t, err)

	assert.Len(t, dir.Users(), 4)
	assert.Len(t, dir.Customers(), 3)
}
