package catalog

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"knowledge-search/internal/models"
)

// DefaultSeed keeps generated view counts, scores and dates stable across runs.
const DefaultSeed int64 = 42

const articlesPerCategory = 20

const filler = " Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua. Ut enim ad minim veniam, quis nostrud exercitation ullamco."

type template struct {
	title   string
	summary string
}

var templates = map[models.Category][]template{
	models.CategoryAccount: {
		{"Resetting Password", "How to safely reset your account password via email or SMS."},
		{"Updating Profile", "Change your display name, avatar, and contact preferences."},
		{"Deactivating Account", "Steps to temporarily or permanently close your account."},
		{"Link Social Layouts", "Connect Google, Facebook, or Apple ID for easier login."},
		{"Privacy Settings", "Manage who can see your activity and personal data."},
		{"Account Recovery Options", "Setting up backup email addresses and security questions for account recovery."},
		{"Email Verification Process", "How to verify your email address and resend verification links."},
		{"Username Change Policy", "Guidelines and restrictions for changing your account username."},
		{"Account Security Dashboard", "Overview of security status, recent activity, and device management."},
	},
	models.CategoryTechnical: {
		{"Connection Issues", "Troubleshooting common timeout and latency errors."},
		{"Browser Compatibility", "Recommended browsers and clearing cache/cookies."},
		{"API Rate Limits", "Understanding 429 errors and optimization strategies."},
		{"Mobile App Crash", "Steps to resolve unexpected crashes on iOS and Android."},
		{"Integration Setup", "Guide to generating API keys and webhooks."},
		{"Database Connection Pooling", "Optimizing connection pool settings for high-traffic applications."},
		{"SSL Certificate Installation", "Installing and renewing SSL certificates for secure connections."},
		{"Load Balancer Configuration", "Setting up and troubleshooting load balancers for distributed systems."},
		{"Webhook Retry Logic", "Understanding webhook delivery failures and automatic retry mechanisms."},
	},
	models.CategoryBilling: {
		{"Invoice Explanation", "breakdown of taxes, fees, and service charges."},
		{"Payment Methods", "Adding or removing credit cards and bank accounts."},
		{"Refund Policy", "Conditions under which you are eligible for a refund."},
		{"Upgrading Plan", "Compare tiers and switch to a higher capacity plan."},
		{"Billing Contacts", "Assigning a dedicated email for financial correspondence."},
		{"Usage-Based Billing", "Understanding metered billing cycles and overage charges."},
		{"Annual vs Monthly Plans", "Cost comparison and savings when choosing annual billing."},
		{"Tax Documentation", "Accessing tax forms, W-9, and VAT exemption certificates."},
		{"Credit Balance Management", "How credits are applied and monitoring your account balance."},
	},
	models.CategorySecurity: {
		{"2FA Setup", "Enabling two-factor authentication for enhanced protection."},
		{"Suspicious Activity", "What to do if you notice unrecognized logins."},
		{"Password Policy", "Organization requirements for password complexity."},
		{"Session Managment", "Reviewing active sessions and remotely logging out."},
		{"Audit Logs", "Accessing and exporting security audit trails."},
		{"API Key Rotation", "Best practices for rotating API keys and maintaining security."},
		{"IP Whitelisting", "Restricting access to your account from approved IP addresses only."},
		{"Data Encryption Standards", "Understanding encryption at rest and in transit for sensitive data."},
		{"Security Incident Response", "Procedures for reporting and responding to security breaches."},
	},
	models.CategoryGeneral: {
		{"Getting Started", "A quick tour of the main dashboard features."},
		{"Community Guidelines", "Rules for interacting in the public forums."},
		{"Feature Request", "How to submit ideas for new product features."},
		{"Support Hours", "When our team is available to help you live."},
		{"Office Locations", "Physical addresses and mailing information."},
		{"Keyboard Shortcuts", "Complete list of keyboard shortcuts to improve productivity."},
		{"Mobile App Download", "Where to download official mobile apps for iOS and Android."},
		{"Service Status Page", "Checking real-time system status and planned maintenance windows."},
		{"Export Your Data", "How to request a complete export of your account data."},
	},
}

var accessCycle = []models.AccessLevel{
	models.AccessPublic,
	models.AccessPublic,
	models.AccessPublic,
	models.AccessInternal,
	models.AccessRestricted,
}

// GenerateArticles produces 20 articles per category with ids "1".."100".
// The same seed and now always yield the same corpus.
func GenerateArticles(now time.Time, seed int64) []models.Article {
	rng := rand.New(rand.NewSource(seed))
	now = now.UTC()

	articles := make([]models.Article, 0, len(models.Categories)*articlesPerCategory)
	id := 1
	for _, category := range models.Categories {
		tpls := templates[category]
		for i := 1; i <= articlesPerCategory; i++ {
			tpl := tpls[(i-1)%len(tpls)]

			title := tpl.title
			if i > len(tpls) {
				title = fmt.Sprintf("%s - Part %d", tpl.title, (i+len(tpls)-1)/len(tpls))
			}

			access := accessCycle[i%len(accessCycle)]
			status := models.StatusPublished
			if i%10 == 0 {
				status = models.StatusDraft
			}

			tags := []string{
				strings.ToLower(string(category)),
				"guide",
				"help",
				strings.ToLower(strings.Fields(tpl.title)[0]),
			}
			if access == models.AccessRestricted {
				tags = append(tags, "internal")
			}
			if category == models.CategorySecurity && i%3 == 0 {
				tags = append(tags, "confidential")
			}

			viewCount := rng.Intn(5000) + 100
			relevance := rng.Intn(40) + 60
			date := now.AddDate(0, 0, -rng.Intn(365))

			articles = append(articles, models.Article{
				ID:             strconv.Itoa(id),
				Title:          title,
				Content:        tpl.summary + filler,
				Category:       category,
				Tags:           tags,
				RelevanceScore: relevance,
				ViewCount:      viewCount,
				CreatedDate:    date,
				LastUpdated:    date,
				AccessLevel:    access,
				Status:         status,
			})
			id++
		}
	}
	return articles
}
