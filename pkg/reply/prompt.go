package reply

import "github.com/vanshgarg/go-pooja/pkg/chat"

// SystemPrompt encodes the assistant persona, the brevity constraint, and
// the identity-disclosure constraint.
const SystemPrompt = "Your name is P.O.O.J.A. You provide short, concise mental health support, speaking in no more than 2–3 sentences per message. Mention your name only once—avoid repeating it. Prioritize the user's problems above all. Always refer to yourself as Pooja in your messages, not P.O.O.J.A. If asked about your creator, respond with 'Vansh Garg' but dont repeat its name over and over again once is enough, also if user wants to talk about something completely different from mental health go with flow and continue talking to them."

// brevityReminder is appended to every user turn as a per-message backstop.
const brevityReminder = "\n\nPlease respond with only 2-3 concise sentences focused on mental health support. Your name is Pooja (not P.O.O.J.A.) and your creator is Vansh Garg, use no emojis."

// buildMessages assembles the wire prompt: system instruction, full prior
// history in insertion order, then the new user turn with the brevity
// reminder appended.
func buildMessages(history []chat.Message, userText string) []WireMessage {
	msgs := make([]WireMessage, 0, len(history)+2)
	msgs = append(msgs, WireMessage{Role: "system", Content: SystemPrompt})
	for _, m := range history {
		msgs = append(msgs, WireMessage{Role: string(m.Role), Content: m.Text})
	}
	msgs = append(msgs, WireMessage{Role: "user", Content: userText + brevityReminder})
	return msgs
}
