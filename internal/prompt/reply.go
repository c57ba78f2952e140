package prompt

import (
	"fmt"
	"strings"
	"time"

	"linkdraft/internal/domain"
)

var actionInstructions = map[domain.Action]string{
	domain.ActionReply: "Generate a natural, contextual reply to continue the conversation.",
	domain.ActionFollowUp: `Generate a follow-up message. CRITICAL: Check the TIME CONTEXT below!
- If significant time has passed (weeks/months), DO NOT respond to their last message as if it just happened
- Instead, ACKNOWLEDGE the time gap and check if NOW is a better time
- If they previously mentioned being busy/having a project/deadline, reference it as likely COMPLETED now
- Example: If 3 months ago they said "busy with a project", write "Hope the project went well! Is now a better time to connect?"
- DO NOT write responses like "No problem, I understand you're busy" - that ship has sailed months ago!`,
	domain.ActionScheduleMeeting: `Generate messages to propose a meeting/call:
- Suggest a call or meeting to discuss further
- Offer flexibility on timing
- Be specific but not presumptuous`,
	domain.ActionOutreach: `Generate a personalized cold outreach message:
- This is a FIRST MESSAGE - there is no prior conversation
- Use the RESEARCH DATA provided to personalize the message
- Reference something specific and recent about them or their company (from the research)
- Don't be generic - mention specific achievements, posts, company news, or shared interests
- Keep it brief (2-4 sentences) - no one reads long cold messages
- Have a clear but soft call-to-action (e.g., "Would love to connect" or "Open to a quick chat?")
- DO NOT be salesy or pushy
- DO NOT use templates like "I came across your profile" - be specific about what caught your attention
- Focus on providing value or genuine interest, not asking for things`,
	domain.ActionCustom: "Follow the specific custom instruction provided.",
}

// ReplySystem renders the system prompt for the reply action family.
func ReplySystem(tone domain.Tone) string {
	var guidelines strings.Builder
	for i, g := range toneGuidelines[tone] {
		if i > 0 {
			guidelines.WriteString("\n")
		}
		guidelines.WriteString("- " + g)
	}

	return fmt.Sprintf(`You are a LinkedIn messaging assistant generating contextually appropriate replies.

TONE: %s

GUIDELINES:
%s

MESSAGE FORMAT IN CONVERSATION:
- [Name]: means that person sent the message
- The user you're helping is identified as the person asking for suggestions
- Generate replies FOR the user to send

RULES:
- Generate exactly 3 different reply options
- Each should feel natural and human-written
- Be concise (1-3 sentences typically)
- No emojis unless the conversation uses them
- No excessive punctuation or enthusiasm
- If they asked a question, at least one reply should answer it
- Vary approaches: direct answer, add value, move conversation forward

LANGUAGE DETECTION (CRITICAL):
- First, identify what language the OTHER person (recipient) is writing in
- Reply in THE SAME LANGUAGE they are using
- If they write in German, reply in German. French → French. Spanish → Spanish. etc.
- Only consider the recipient's messages, not the user's messages
- If the conversation is in English, reply in English
- Do NOT assume language from names - a person named "Flávia" writing in English should get English replies

OUTPUT: Return ONLY a JSON array of 3 strings:
["Reply 1", "Reply 2", "Reply 3"]`, toneDescriptions[tone], guidelines.String())
}

// ReplyInput bundles everything the reply user prompt draws on: the extracted
// request, operator settings, and whatever research completed in time.
type ReplyInput struct {
	Request            domain.ReplyRequest
	UserContext        string
	CustomInstructions string
	MeetingLink        string
	CompanyNews        string
	PersonActivity     string
	Now                time.Time
}

// ReplyUser renders the user prompt for the reply action family.
func ReplyUser(in ReplyInput) string {
	req := in.Request
	var lines []string
	push := func(s string) { lines = append(lines, s) }

	actionLabel := strings.ToUpper(strings.ReplaceAll(string(req.Action), "_", " "))
	push(fmt.Sprintf("=== GENERATE %s SUGGESTIONS ===\n", actionLabel))
	if instr, ok := actionInstructions[req.Action]; ok {
		push(instr)
	} else {
		push(actionInstructions[domain.ActionReply])
	}
	push("")

	if req.Action == domain.ActionCustom && req.CustomPrompt != "" {
		push("USER'S SPECIFIC REQUEST: " + req.CustomPrompt)
		push("")
	}

	push("=== ABOUT ME (the person you're writing for) ===")
	if req.Self.Name != "" {
		push("Name: " + req.Self.Name)
	}
	if req.Self.Headline != "" {
		push("Role: " + req.Self.Headline)
	}
	if req.Self.Company != "" {
		push("Company: " + req.Self.Company)
	}
	if uc := strings.TrimSpace(in.UserContext); uc != "" {
		push("Additional context: " + uc)
	}
	push("")

	push("=== ABOUT THE RECIPIENT ===")
	if req.Counterpart.Name != "" {
		push("Name: " + req.Counterpart.Name)
	}
	if req.Counterpart.Headline != "" {
		push("Role: " + req.Counterpart.Headline)
	}
	if req.Counterpart.Company != "" {
		push("Company: " + req.Counterpart.Company)
	}
	push("")

	if in.CompanyNews != "" && req.Counterpart.Company != "" {
		push(fmt.Sprintf("=== 🔥 RECENT NEWS: %s ===", strings.ToUpper(req.Counterpart.Company)))
		push(in.CompanyNews)
		push("")
		push("💡 TIP: If relevant to the conversation, referencing recent news shows you're informed and engaged.")
		push("")
	}

	if in.PersonActivity != "" && req.Counterpart.Name != "" {
		push(fmt.Sprintf("=== %s'S RECENT ACTIVITY ===", strings.ToUpper(req.Counterpart.Name)))
		push(in.PersonActivity)
		push("")
		push("💡 TIP: Reference their posts/activity if it naturally fits - it creates connection.")
		push("")
	}

	if ci := strings.TrimSpace(in.CustomInstructions); ci != "" {
		push("=== MY RULES (always follow) ===")
		push(ci)
		push("")
	}

	if req.Action == domain.ActionScheduleMeeting {
		if link := strings.TrimSpace(in.MeetingLink); link != "" {
			push("=== MY SCHEDULING LINK ===")
			push("Include this link when proposing a meeting: " + link)
			push(`Naturally incorporate the link into the message (e.g., "Here's my calendar: [link]" or "Feel free to grab a time: [link]")`)
			push("")
		}
	}

	push("=== CONVERSATION STATE ===")
	push(req.ConversationSummary)
	if req.LastMessageSender != "" && req.LastMessageTime != "" {
		if req.LastMessageSender == domain.SenderOther {
			who := req.Counterpart.Name
			if who == "" {
				who = "They"
			}
			push(fmt.Sprintf("→ %s messaged %s. Awaiting my reply.", who, req.LastMessageTime))
			if req.Action == domain.ActionFollowUp {
				if gap := analyzeTimeGap(req.LastMessageTime, in.Now); gap != "" {
					push("→ TIME CONTEXT: " + gap)
				}
			}
		} else {
			push(fmt.Sprintf("→ I sent the last message %s.", req.LastMessageTime))
			if !req.IsActiveConversation {
				push("→ Conversation has been quiet.")
			}
			if req.Action == domain.ActionFollowUp {
				if gap := analyzeTimeGap(req.LastMessageTime, in.Now); gap != "" {
					push("→ TIME CONTEXT: " + gap)
				}
				push("→ Re-engage without sounding pushy.")
			}
		}
	}
	push("")

	push("=== CONVERSATION HISTORY ===")
	push(req.ConversationHistory)
	push("")

	push("Generate 3 reply options as a JSON array. Match the language the recipient is using.")

	return strings.Join(lines, "\n")
}
