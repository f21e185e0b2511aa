package triage

// Keyword tables for the deterministic triage fallbacks. Matching is
// substring-based over lower-cased text, so stems like "frustrat" catch
// several word forms.

var positiveWords = []string{
	"good", "great", "excellent", "amazing", "wonderful", "fantastic",
	"pleased", "happy", "satisfied", "thank", "thanks", "resolved",
	"appreciate", "helpful", "awesome", "perfect", "love", "best",
}

var negativeWords = []string{
	"bad", "poor", "terrible", "awful", "horrible", "disappointed",
	"frustrat", "annoying", "issue", "problem", "error", "fail",
	"broken", "crash", "not working", "doesn't work", "unusable",
	"angry", "upset", "hate", "worst", "slow", "bug", "difficult",
}

// categoryKeywords is ordered: ties between equal keyword counts resolve to
// the earlier entry.
var categoryKeywords = []struct {
	Name     string
	Keywords []string
}{
	{"Hardware", []string{
		"computer", "laptop", "desktop", "monitor", "keyboard", "mouse",
		"printer", "hardware", "device", "screen", "battery", "charger",
		"broken", "physical",
	}},
	{"Software", []string{
		"software", "program", "application", "app", "install", "update",
		"upgrade", "crash", "bug", "error", "license", "office", "windows",
		"mac", "pdf", "document", "reader", "adobe", "file", "browser",
		"chrome", "firefox", "edge", "safari", "open", "view", "display",
		"render",
	}},
	{"Network", []string{
		"network", "internet", "wifi", "connection", "connect", "ethernet",
		"router", "modem", "speed", "slow", "access", "vpn", "download",
		"upload",
	}},
	{"Account", []string{
		"account", "password", "login", "access", "permission", "reset",
		"locked", "credential", "username", "user", "authenticate",
	}},
	{"Email", []string{
		"email", "mail", "outlook", "gmail", "message", "spam", "phishing",
		"inbox", "send", "receive", "compose",
	}},
	{"Security", []string{
		"security", "virus", "malware", "suspicious", "hack", "breach",
		"phish", "authentication", "privacy", "encrypt", "firewall",
	}},
}

// DefaultCategory is returned when no keyword matches at all.
const (
	DefaultCategory   = "General"
	DefaultConfidence = 0.6
	MaxConfidence     = 0.95
)

var criticalKeywords = []string{
	"urgent", "emergency", "critical", "immediately",
	"security breach", "hack", "data loss", "unable to work",
	"production down", "system down", "complete failure",
}

var highKeywords = []string{
	"broken", "not working", "failed", "error",
	"asap", "important", "serious", "affecting work",
	"preventing", "significant issue", "major problem",
}

var mediumKeywords = []string{
	"problem", "issue", "bug", "fault", "doesn't work correctly",
	"intermittent", "slow", "delayed", "inconvenient",
}

var businessImpactTerms = []string{
	"all users", "everyone", "company wide", "production",
	"customer", "deadline", "revenue", "urgent", "meeting",
	"presentation", "unable to continue",
}

// EscalationDepartments is the fixed list the escalation suggester chooses
// from when the conversation turn budget is exhausted.
var EscalationDepartments = []string{
	"IT Support", "Development", "HR", "Finance", "Network Team", "Security Team",
}

// DefaultEscalationDepartment is used when no better handoff target is known.
const DefaultEscalationDepartment = "IT Support"
