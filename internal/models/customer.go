package models

// Tier is a customer's banking tier. Answer phrasing depends on it.
type Tier string

const (
	TierPremierBanking  Tier = "Premier Banking"
	TierPrivateClient   Tier = "Private Client"
	TierBusinessBanking Tier = "Business Banking"
)

// Customer is the end customer an agent is helping.
type Customer struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AccountNumber string `json:"accountNumber"`
	Tier          Tier   `json:"tier"`
	Since         string `json:"since"`
	Phone         string `json:"phone"`
	RecentIssue   string `json:"recentIssue"`
}

type Tenant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Industry string `json:"industry"`
}
