package ai

import (
	"fmt"
	"strings"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/triage"
)

const suggestFieldsPrompt = `You are an IT helpdesk triage assistant. Analyze the ticket below and respond with a single JSON object, nothing else.

Ticket title: %s
Ticket description: %s

Respond with exactly this JSON shape:
{
  "category": "<one of: Hardware, Software, Network, Account, Email, Security, General>",
  "category_confidence": <number between 0 and 1>,
  "priority": "<one of: low, medium, high, critical>",
  "sentiment_score": <number between -1 and 1>
}`

const initialResponsePrompt = `You are a friendly IT helpdesk assistant. A user just opened the ticket below. Write a short first reply: acknowledge the problem, give one or two concrete troubleshooting steps they can try right now, and tell them a human will follow up if needed. Plain text, no markdown headings.

Ticket %s
Title: %s
Description: %s
Category: %s
Priority: %s`

const conversationReplyPrompt = `You are an IT helpdesk assistant continuing a support conversation. Reply to the user's latest message with the next troubleshooting step. Be specific and brief. Plain text only.

Ticket %s
Title: %s
Description: %s

Conversation so far:
%s`

const escalationPrompt = `You are an IT helpdesk assistant. Automated troubleshooting for the ticket below has not resolved the issue and it must be handed to a human team. Respond with a single JSON object, nothing else:
{
  "message": "<a short, polite note to the user explaining the ticket is being escalated to a specialist team>",
  "department": "<one of: %s>"
}

Ticket %s
Title: %s
Description: %s

Conversation so far:
%s`

const resolutionDetectPrompt = `Does the following message from an IT helpdesk user indicate that their issue is now resolved and the ticket can be closed? Answer with exactly one word: YES or NO.

Message: %s`

func renderTranscript(comments []domain.TicketComment, authors map[string]string) string {
	var b strings.Builder
	for _, c := range comments {
		name := authors[c.AuthorID]
		if name == "" {
			name = "User"
		}
		fmt.Fprintf(&b, "%s: %s\n", name, c.Body)
	}
	return b.String()
}

// Deterministic message templates used when no provider is reachable. The
// conversation must keep moving even with the AI offline.

func FallbackInitialResponse(t *domain.Ticket) string {
	return fmt.Sprintf(
		"Thank you for reporting this issue (ticket %s). We have logged it and our team will take a look shortly. "+
			"In the meantime, a restart of the affected application or device resolves many common problems and is worth trying.",
		t.Code)
}

func FallbackConversationReply(t *domain.Ticket) string {
	return fmt.Sprintf(
		"Thanks for the update on ticket %s. We are still looking into it. "+
			"If anything changed since your last message, please describe what you tried and what happened.",
		t.Code)
}

func FallbackEscalationMessage(t *domain.Ticket) string {
	return fmt.Sprintf(
		"We were unable to resolve ticket %s through automated troubleshooting, so it has been escalated to our %s team. "+
			"A specialist will review the full conversation and follow up with you directly.",
		t.Code, triage.DefaultEscalationDepartment)
}

// ClosingConfirmation is posted as the assistant's final comment when the
// requester confirms the issue is resolved.
func ClosingConfirmation(code string) string {
	return fmt.Sprintf(
		"Great to hear the issue is resolved! Ticket %s has been closed. "+
			"If the problem comes back, you can reopen the ticket at any time.",
		code)
}
