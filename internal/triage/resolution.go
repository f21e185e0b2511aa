package triage

import "strings"

// resolutionPhrases mark a user comment as confirming the issue is fixed.
var resolutionPhrases = []string{
	"it's resolved", "its resolved", "it is resolved", "issue is resolved",
	"problem is resolved", "it's fixed", "its fixed", "it is fixed",
	"issue is fixed", "problem is fixed", "that worked", "that fixed it",
	"working now", "works now", "all good now", "you can close",
	"please close", "close the ticket", "no longer an issue", "solved",
}

// ResolutionIntent is the deterministic stand-in for the provider-backed
// resolution detector: true when the comment contains any phrase a user
// typically writes once their problem is gone.
func ResolutionIntent(text string) bool {
	text = strings.ToLower(text)
	for _, p := range resolutionPhrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
