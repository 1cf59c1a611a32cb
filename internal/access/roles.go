package access

import "knowledge-search/internal/models"

var baseCategories = []models.Category{
	models.CategoryGeneral,
	models.CategoryAccount,
	models.CategoryBilling,
	models.CategoryTechnical,
}

var allCategories = []models.Category{
	models.CategoryGeneral,
	models.CategoryAccount,
	models.CategoryBilling,
	models.CategoryTechnical,
	models.CategorySecurity,
}

var (
	SupportAgent = models.Role{
		ID:                models.RoleSupportAgent,
		Name:              "Support Agent",
		Level:             1,
		AllowedCategories: baseCategories,
		RestrictedTags:    []string{"internal", "confidential", "executive"},
	}
	SeniorAgent = models.Role{
		ID:                models.RoleSeniorAgent,
		Name:              "Senior Agent",
		Level:             2,
		AllowedCategories: baseCategories,
		RestrictedTags:    []string{"executive"},
		CanViewRestricted: true,
	}
	KnowledgeAuthor = models.Role{
		ID:                models.RoleKnowledgeAuthor,
		Name:              "Knowledge Author",
		Level:             3,
		AllowedCategories: allCategories,
		RestrictedTags:    []string{"executive"},
		CanViewDraft:      true,
		CanViewRestricted: true,
	}
	Admin = models.Role{
		ID:                models.RoleAdmin,
		Name:              "Administrator",
		Level:             4,
		AllowedCategories: allCategories,
		RestrictedTags:    []string{},
		CanViewDraft:      true,
		CanViewRestricted: true,
	}
)

var defaultUsers = []models.User{
	{ID: "user-001", Name: "Alex Johnson", Email: "alex.johnson@company.com", Role: SupportAgent, Department: "Customer Support"},
	{ID: "user-002", Name: "Sarah Chen", Email: "sarah.chen@company.com", Role: SeniorAgent, Department: "Technical Support"},
	{ID: "user-003", Name: "Michael Torres", Email: "michael.torres@company.com", Role: KnowledgeAuthor, Department: "Knowledge Management"},
	{ID: "user-004", Name: "Emily Davis", Email: "emily.davis@company.com", Role: Admin, Department: "IT Administration"},
}

var defaultCustomers = []models.Customer{
	{ID: "cust-001", Name: "John Smith", AccountNumber: "****4521", Tier: models.TierPremierBanking, Since: "2018", Phone: "+1 (555) 123-4567", RecentIssue: "Password reset request"},
	{ID: "cust-002", Name: "Maria Garcia", AccountNumber: "****8832", Tier: models.TierPrivateClient, Since: "2015", Phone: "+1 (555) 987-6543", RecentIssue: "Wire transfer inquiry"},
	{ID: "cust-003", Name: "David Lee", AccountNumber: "****2209", Tier: models.TierBusinessBanking, Since: "2020", Phone: "+1 (555) 456-7890", RecentIssue: "API integration help"},
}

// Tenant is the enterprise the console is deployed for.
var Tenant = models.Tenant{ID: "tenant-jpmorgan", Name: "JP Morgan Chase", Industry: "Financial Services"}
