// internal/adapters/ai/generate-answer/intent.go
package generateanswer

import (
	"fmt"
	"strings"

	"knowledge-search/internal/models"
)

// Intent selects the answer template.
type Intent int

const (
	IntentDefault Intent = iota
	IntentPassword
	IntentMobile
	IntentAccount
	IntentBilling
	IntentOutlook
	IntentTechnical
	IntentSecurity
	IntentMarket
)

var intentNames = map[Intent]string{
	IntentDefault:   "default",
	IntentPassword:  "password",
	IntentMobile:    "mobile",
	IntentAccount:   "account",
	IntentBilling:   "billing",
	IntentOutlook:   "outlook",
	IntentTechnical: "technical",
	IntentSecurity:  "security",
	IntentMarket:    "market",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return fmt.Sprintf("Intent(%d)", int(i))
}

// ParseIntent resolves a template name. Unknown names fall back to default.
func ParseIntent(name string) (Intent, bool) {
	for intent, n := range intentNames {
		if n == name {
			return intent, true
		}
	}
	return IntentDefault, false
}

// keywordRules are checked in order against the normalized query.
var keywordRules = []struct {
	intent   Intent
	keywords []string
}{
	{IntentPassword, []string{"password", "reset"}},
	{IntentMobile, []string{"mobile", "app crash", "crashing"}},
	{IntentAccount, []string{"account", "login"}},
	{IntentBilling, []string{"billing", "payment"}},
	{IntentOutlook, []string{"outlook", "sync"}},
	{IntentTechnical, []string{"error", "issue", "problem"}},
}

// DetectIntent applies the keyword heuristics; first rule with a hit wins.
func DetectIntent(normalized string) Intent {
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(normalized, kw) {
				return rule.intent
			}
		}
	}
	return IntentDefault
}

func isPremium(tier models.Tier) bool {
	return tier == models.TierPremierBanking || tier == models.TierPrivateClient
}

// Render produces the answer text for intent, personalized by the
// customer's tier.
func Render(intent Intent, customer models.Customer) string {
	switch intent {
	case IntentPassword:
		switch customer.Tier {
		case models.TierPremierBanking:
			return "To reset the password, navigate to Settings > Security > Password Reset. Click 'Reset Password' and follow the email verification process. " +
				"As a Premier customer, you also have the option to contact your dedicated relationship manager for immediate assistance. " +
				"The new password must be at least 8 characters with one uppercase letter and one number."
		case models.TierPrivateClient:
			return "To reset the password, navigate to Settings > Security > Password Reset. Click 'Reset Password' and follow the email verification process. " +
				"For Private Client members, our concierge team is available 24/7 for password assistance. " +
				"The new password must be at least 8 characters with one uppercase letter and one number."
		}
		return "To reset your password, navigate to Settings > Security > Password Reset. Click 'Reset Password' and follow the email verification process. " +
			"For security, the new password must be at least 8 characters with one uppercase letter and one number."

	case IntentAccount:
		text := "Account-related issues can be resolved through the Account Management portal. " +
			"Common solutions include verifying email, clearing browser cache, or contacting support for locked accounts."
		if customer.Tier == models.TierBusinessBanking {
			text += " For business accounts, additional verification steps may be required for security compliance."
		}
		return text

	case IntentBilling:
		text := "For billing inquiries, access your Billing Dashboard to view invoices, update payment methods, or dispute charges. "
		if isPremium(customer.Tier) {
			return text + "Premium tier customers receive priority processing with refunds typically completed within 2-3 business days."
		}
		return text + "Refund requests typically process within 5-7 business days."

	case IntentMobile:
		text := "To resolve mobile app crashes, start by ensuring you have the latest app version installed. Clear the app cache and restart your device. " +
			"For iOS: Force quit the app by swiping up from the app switcher, then reopen. For Android: Go to Settings > Apps > [App Name] > Clear Cache. " +
			"If crashes persist, try uninstalling and reinstalling the app. "
		if isPremium(customer.Tier) {
			text += "Premium tier customers can contact our dedicated mobile support team at 1-800-PREMIUM for immediate assistance."
		} else {
			text += "For persistent issues, contact our support team."
		}
		return text + " Ensure your device has sufficient storage and is running a compatible OS version."

	case IntentTechnical:
		return "Technical issues often relate to browser compatibility or network settings. Try clearing cache, disabling extensions, or using an incognito window. " +
			"If the issue persists, check our system status page."

	case IntentOutlook:
		return "To sync with Outlook, open the Outlook desktop app, go to File > Add Account. Enter your company email and select 'Exchange' as the account type. " +
			"Note that this integration is managed by your IT department and might require additional plugins."

	case IntentSecurity:
		return "Enterprise security policies outline how privileged data is handled, how admin access reviews are performed, and when incidents must be escalated. " +
			"Always follow the least-privilege principle and reference the approved policy library for the latest controls."

	case IntentMarket:
		return "Live market data is not stored within the knowledge base for compliance reasons. " +
			"Reference the approved financial data providers listed in the knowledge article for real-time stock quotes."

	case IntentDefault:
		return defaultAnswer
	}
	return defaultAnswer
}

const defaultAnswer = "Based on the available knowledge base articles, here is a synthesized answer to your query. " +
	"Please review the cited sources for detailed information and step-by-step instructions."
