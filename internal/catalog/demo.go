package catalog

import (
	"time"

	"knowledge-search/internal/models"
)

// createdOffsets cycle through the timeline of demo articles that carry no
// fixed dates. lastUpdated trails created by one day.
var createdOffsets = []int{1, 3, 5, 20}

type timeline struct {
	now   time.Time
	index int
}

func (t *timeline) next() (created, updated time.Time) {
	offset := createdOffsets[t.index%len(createdOffsets)]
	t.index++
	updatedOffset := offset - 1
	if updatedOffset < 0 {
		updatedOffset = 0
	}
	return daysAgo(t.now, offset), daysAgo(t.now, updatedOffset)
}

func daysAgo(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, -days)
}

// DemoArticles returns the hand-authored articles used by the scripted
// scenarios and the RBAC walkthrough.
func DemoArticles(now time.Time) []models.Article {
	now = now.UTC()
	tl := &timeline{now: now}

	withTimeline := func(a models.Article) models.Article {
		a.CreatedDate, a.LastUpdated = tl.next()
		return a
	}

	return []models.Article{
		{
			ID:             "1001",
			Title:          "How to Reset Customer Password",
			Content:        "Standard procedure for resetting customer passwords via the admin panel. Ensure identity verification first. Ask for last 4 digits of SSN.",
			Category:       models.CategoryAccount,
			Tags:           []string{"guide", "password", "support"},
			RelevanceScore: 95,
			ViewCount:      1200,
			CreatedDate:    daysAgo(now, 5),
			LastUpdated:    daysAgo(now, 1),
			AccessLevel:    models.AccessPublic,
			Status:         models.StatusPublished,
		},
		withTimeline(models.Article{
			ID:             "1002",
			Title:          "Advanced Server Diagnostics",
			Content:        "Internal guide for diagnosing 500 errors on the payment gateway. Check logs at /var/log/payment-service. Restart service if memory > 90%.",
			Category:       models.CategoryTechnical,
			Tags:           []string{"troubleshooting", "internal", "server"},
			RelevanceScore: 92,
			ViewCount:      350,
			AccessLevel:    models.AccessInternal,
			Status:         models.StatusPublished,
		}),
		withTimeline(models.Article{
			ID:             "1003",
			Title:          "Q4 Product Roadmap (DRAFT)",
			Content:        "Upcoming features for Q4 include AI Search v2, new billing dashboard, and mobile app refresh. DO NOT SHARE EXTERNALLY.",
			Category:       models.CategoryGeneral,
			Tags:           []string{"roadmap", "planning", "draft"},
			RelevanceScore: 88,
			ViewCount:      10,
			AccessLevel:    models.AccessRestricted,
			Status:         models.StatusDraft,
		}),
		withTimeline(models.Article{
			ID:             "1004",
			Title:          "Executive Security Audit 2024",
			Content:        "CONFIDENTIAL: Results of the annual penetration test. Critical vulnerabilities found in legacy auth module. Remediation plan attached.",
			Category:       models.CategorySecurity,
			Tags:           []string{"audit", "confidential", "executive"},
			RelevanceScore: 99,
			ViewCount:      5,
			AccessLevel:    models.AccessConfidential,
			Status:         models.StatusPublished,
		}),
		{
			ID:             "2001",
			Title:          "Password Reset Runbook",
			Content:        "Step-by-step reference for handling end-user password resets across SSO and native login flows. Covers verification, reset initiation, and confirmation messaging.",
			Category:       models.CategoryAccount,
			Tags:           []string{"demo", "password", "reset"},
			RelevanceScore: 98,
			ViewCount:      2400,
			CreatedDate:    daysAgo(now, 8),
			LastUpdated:    daysAgo(now, 3),
			AccessLevel:    models.AccessPublic,
			Status:         models.StatusPublished,
		},
		withTimeline(models.Article{
			ID:             "2002",
			Title:          "Outlook Sync Troubleshooting Checklist",
			Content:        "Definitive checklist for aligning Outlook desktop profiles with the internal knowledge base connector. Includes plug-in install steps and escalation paths.",
			Category:       models.CategoryGeneral,
			Tags:           []string{"demo", "outlook", "sync"},
			RelevanceScore: 94,
			ViewCount:      1800,
			AccessLevel:    models.AccessPublic,
			Status:         models.StatusPublished,
		}),
		withTimeline(models.Article{
			ID:             "2003",
			Title:          "Enterprise Security Policy Compendium",
			Content:        "Comprehensive policy reference for handling regulated data, admin access reviews, and escalation paths for privileged users.",
			Category:       models.CategorySecurity,
			Tags:           []string{"demo", "policy", "internal"},
			RelevanceScore: 97,
			ViewCount:      220,
			AccessLevel:    models.AccessInternal,
			Status:         models.StatusPublished,
		}),
		withTimeline(models.Article{
			ID:             "2004",
			Title:          "Knowledge Sync Connector Release Notes",
			Content:        "Version-by-version changelog for the Outlook knowledge sync plug-in, including deployment prerequisites and rollback guidance.",
			Category:       models.CategoryGeneral,
			Tags:           []string{"demo", "sync", "release"},
			RelevanceScore: 91,
			ViewCount:      960,
			AccessLevel:    models.AccessPublic,
			Status:         models.StatusPublished,
		}),
		withTimeline(models.Article{
			ID:             "2005",
			Title:          "Security Policy Overview (Public Extract)",
			Content:        "Summarized security expectations for frontline roles covering acceptable use, password hygiene, and incident escalation paths. Links to full documents for authorized users.",
			Category:       models.CategoryGeneral,
			Tags:           []string{"demo", "security", "overview"},
			RelevanceScore: 88,
			ViewCount:      1450,
			AccessLevel:    models.AccessPublic,
			Status:         models.StatusPublished,
		}),
		withTimeline(models.Article{
			ID:             "2006",
			Title:          "Real-Time Market Data Limitations",
			Content:        "Explains why live stock quotes are not stored in the knowledge base and directs agents to approved financial data sources.",
			Category:       models.CategoryGeneral,
			Tags:           []string{"demo", "finance", "guidance"},
			RelevanceScore: 82,
			ViewCount:      1100,
			AccessLevel:    models.AccessPublic,
			Status:         models.StatusPublished,
		}),
		withTimeline(models.Article{
			ID:             "2007",
			Title:          "Security Architecture Playbook",
			Content:        "Internal-only breakdown of enterprise security controls, privileged access reviews, and remediation procedures for elevated agents.",
			Category:       models.CategorySecurity,
			Tags:           []string{"demo", "policy", "restricted"},
			RelevanceScore: 94,
			ViewCount:      410,
			AccessLevel:    models.AccessRestricted,
			Status:         models.StatusPublished,
		}),
		withTimeline(models.Article{
			ID:             "2008",
			Title:          "Security Policy Draft Addendum",
			Content:        "Draft appendix covering upcoming security policy changes that requires Knowledge Author review before publication.",
			Category:       models.CategorySecurity,
			Tags:           []string{"demo", "policy", "draft"},
			RelevanceScore: 90,
			ViewCount:      60,
			AccessLevel:    models.AccessInternal,
			Status:         models.StatusDraft,
		}),
		withTimeline(models.Article{
			ID:             "2009",
			Title:          "Executive Security Compliance Report (Confidential)",
			Content:        "CONFIDENTIAL: Board-level security compliance report covering SOC 2, ISO 27001 audit results, and executive risk assessments. Admin access only.",
			Category:       models.CategorySecurity,
			Tags:           []string{"demo", "policy", "confidential", "executive"},
			RelevanceScore: 99,
			ViewCount:      12,
			AccessLevel:    models.AccessConfidential,
			Status:         models.StatusPublished,
		}),
		withTimeline(models.Article{
			ID:             "2013",
			Title:          "Updating Payment Methods",
			Content:        "Step-by-step guide to update your payment method. Navigate to Account Settings > Billing > Payment Methods. Click \"Add Payment Method\" to add a new card or bank account. To update existing methods, click the edit icon next to the payment method. For security, you may need to verify your identity. Supported payment types include credit cards, debit cards, and ACH bank transfers.",
			Category:       models.CategoryBilling,
			Tags:           []string{"demo", "billing", "payment", "update"},
			RelevanceScore: 95,
			ViewCount:      3200,
			AccessLevel:    models.AccessPublic,
			Status:         models.StatusPublished,
		}),
		withTimeline(models.Article{
			ID:             "2014",
			Title:          "Payment Method Security Best Practices",
			Content:        "Important security guidelines for managing payment methods. Always use secure connections when updating payment information. Enable two-factor authentication for billing changes. Review your payment methods regularly and remove unused cards. Monitor your billing statements for unauthorized charges. Contact support immediately if you notice suspicious activity.",
			Category:       models.CategoryBilling,
			Tags:           []string{"demo", "billing", "security", "payment"},
			RelevanceScore: 92,
			ViewCount:      1850,
			AccessLevel:    models.AccessPublic,
			Status:         models.StatusPublished,
		}),
		withTimeline(models.Article{
			ID:             "2015",
			Title:          "Troubleshooting Payment Method Issues",
			Content:        "Common payment method issues and solutions. If card verification fails, check that billing address matches card details. Expired cards must be updated before processing payments. Some banks may block international transactions - contact your bank to authorize. If payments are declined, verify sufficient funds and correct CVV. For persistent issues, try a different payment method or contact support.",
			Category:       models.CategoryBilling,
			Tags:           []string{"demo", "billing", "troubleshooting", "payment"},
			RelevanceScore: 91,
			ViewCount:      2100,
			AccessLevel:    models.AccessPublic,
			Status:         models.StatusPublished,
		}),
		withTimeline(models.Article{
			ID:             "2010",
			Title:          "Mobile App Crash Troubleshooting Guide",
			Content:        "Comprehensive guide to diagnosing and resolving mobile app crashes on iOS and Android. Start by checking app version, clearing cache, and ensuring latest OS updates are installed. For iOS: force quit and restart. For Android: clear app data under Settings > Apps. If crashes persist after device restart, try uninstalling and reinstalling the app.",
			Category:       models.CategoryTechnical,
			Tags:           []string{"demo", "mobile", "crash", "troubleshooting"},
			RelevanceScore: 96,
			ViewCount:      2850,
			AccessLevel:    models.AccessPublic,
			Status:         models.StatusPublished,
		}),
		withTimeline(models.Article{
			ID:             "2011",
			Title:          "iOS App Memory Management Best Practices",
			Content:        "Understanding and preventing iOS app crashes due to memory issues. Common causes include memory leaks, background process overload, and insufficient device memory. Recommended steps: close background apps, restart device, check available storage (Settings > General > iPhone Storage), and ensure iOS version compatibility.",
			Category:       models.CategoryTechnical,
			Tags:           []string{"demo", "mobile", "ios", "memory"},
			RelevanceScore: 93,
			ViewCount:      1680,
			AccessLevel:    models.AccessPublic,
			Status:         models.StatusPublished,
		}),
		withTimeline(models.Article{
			ID:             "2012",
			Title:          "Android App Stability Issues Resolution",
			Content:        "Step-by-step guide for resolving Android app stability and crash issues. Check for conflicting apps, update Google Play Services, clear app cache and data, verify sufficient device storage, and ensure Android OS is up to date. For persistent issues, try booting in safe mode to identify third-party app conflicts.",
			Category:       models.CategoryTechnical,
			Tags:           []string{"demo", "mobile", "android", "stability"},
			RelevanceScore: 94,
			ViewCount:      2240,
			AccessLevel:    models.AccessPublic,
			Status:         models.StatusPublished,
		}),
	}
}
