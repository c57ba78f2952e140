package prompt

import (
	"fmt"
	"strings"

	"linkdraft/internal/domain"
	"linkdraft/internal/language"
)

const outreachBrief = `Generate a personalized cold outreach message for LinkedIn.
This is a FIRST MESSAGE - there is no prior conversation history.

CRITICAL REQUIREMENTS:
1. **Lead with SPECIFIC research** - Reference something concrete: a specific post they wrote, a recent company announcement, a talk they gave, a challenge they might face
2. **Show you did your homework** - Don't say "I saw your profile" - say "Your post about [specific topic] resonated with me because..."
3. **Connect to their world** - Frame your outreach around THEIR priorities and challenges, not yours
4. **Keep it brief** - 2-4 sentences max. No one reads long cold messages.
5. **Soft CTA** - "Would love to exchange ideas" or "Open to a quick chat?" NOT "Let me show you a demo"
6. **Sound human** - Write like a real person, not a sales template

AVOID:
- "I came across your profile" (too generic)
- "I'm reaching out because" (boring opener)
- Long paragraphs about your company
- Multiple questions
- Overly formal language
- Mentioning research you didn't actually do
- Referencing a job description as their CURRENT work if they've moved on (always check if their headline matches the job description - if not, it's likely from a past role!)`

// OutreachInput bundles the profile pair, research output, and settings for
// the cold-outreach prompt.
type OutreachInput struct {
	Request              domain.OutreachRequest
	CompanyResearch      string
	PersonResearch       string
	RecentNews           string
	UserContext          string
	CustomInstructions   string
	OutreachInstructions string
	Tone                 domain.Tone
}

// OutreachUser renders the single-shot outreach prompt. There is no separate
// system prompt; the extended-thinking call carries everything in one message.
func OutreachUser(in OutreachInput) string {
	self, counterpart := in.Request.Self, in.Request.Counterpart
	var lines []string
	push := func(s string) { lines = append(lines, s) }

	profileText := strings.TrimSpace(strings.Join([]string{
		counterpart.Headline, counterpart.RoleDescription, counterpart.Company,
	}, " "))
	detected := language.FromProfile(profileText)

	push("=== GENERATE PERSONALIZED OUTREACH MESSAGE ===")
	push("")
	push(outreachBrief)
	push("")

	if in.Request.CustomPrompt != "" {
		push("SPECIFIC REQUEST: " + in.Request.CustomPrompt)
		push("")
	}

	push("=== ABOUT ME (the person sending the message) ===")
	if self.Name != "" {
		push("Name: " + self.Name)
	}
	if self.Headline != "" {
		push("Role: " + self.Headline)
	}
	if self.Company != "" {
		push("Company: " + self.Company)
	}
	if uc := strings.TrimSpace(in.UserContext); uc != "" {
		push("Background: " + uc)
	}
	push("")

	push("=== ABOUT THE RECIPIENT ===")
	if counterpart.Name != "" {
		push("Name: " + counterpart.Name)
	}
	if counterpart.Headline != "" {
		push("Role: " + counterpart.Headline)
	}
	if counterpart.Company != "" {
		push("Company: " + counterpart.Company)
	}
	if counterpart.RoleDescription != "" {
		headline := counterpart.Headline
		if headline == "" {
			headline = "unknown"
		}
		push("")
		push("**Job Description from LinkedIn profile:**")
		push(counterpart.RoleDescription)
		push("")
		push(fmt.Sprintf(`⚠️ IMPORTANT: This job description may be from a PAST role, not their current position!
   - Their headline says: "%s"
   - Only reference this job description if it clearly matches their CURRENT role in the headline
   - If the headline mentions a different company/role, this description is likely outdated - DO NOT reference it as their current work
   - When in doubt, focus on their headline and company, not the job description`, headline))
	}
	push("")

	if in.RecentNews != "" && counterpart.Company != "" {
		push(fmt.Sprintf("=== 🔥 RECENT NEWS: %s (LAST 1-3 MONTHS) ===", strings.ToUpper(counterpart.Company)))
		push(in.RecentNews)
		push("")
		push("⚡ IMPORTANT: If there is recent news above, strongly consider referencing it in your outreach!")
		push("   Recent news is the BEST conversation starter - it shows you did your homework.")
		push("")
	}

	if in.PersonResearch != "" {
		label := strings.ToUpper(counterpart.Name)
		if label == "" {
			label = "RECIPIENT"
		}
		push(fmt.Sprintf("=== RESEARCH: %s ===", label))
		push(in.PersonResearch)
		push("")
	}

	if in.CompanyResearch != "" && counterpart.Company != "" {
		push(fmt.Sprintf("=== COMPANY BACKGROUND: %s ===", strings.ToUpper(counterpart.Company)))
		push(in.CompanyResearch)
		push("")
	}

	if oi := strings.TrimSpace(in.OutreachInstructions); oi != "" {
		push("=== OUTREACH INSTRUCTIONS (follow carefully) ===")
		push(oi)
		push("")
	}

	if ci := strings.TrimSpace(in.CustomInstructions); ci != "" {
		push("=== ADDITIONAL RULES ===")
		push(ci)
		push("")
	}

	push("TONE: " + toneShortDescriptions[in.Tone])
	push("")

	if detected != "English" {
		push(fmt.Sprintf("LANGUAGE: Write the message in %s - the recipient's profile is in %s.", detected, detected))
		push("")
	}

	closing := `Generate 3 different outreach message options as a JSON array: ["Option 1", "Option 2", "Option 3"]

Each option MUST take a different angle:
- **Option 1**: Lead with something about THEM personally (their post, talk, article, achievement)
- **Option 2**: Lead with something about their COMPANY (recent news, growth, challenges)
- **Option 3**: Lead with a shared interest, mutual connection, or industry insight

Each message should be 2-4 sentences and feel genuinely personalized based on the research above.`
	if detected != "English" {
		closing += fmt.Sprintf(" Write ALL messages in %s.", detected)
	}
	push(closing)

	return strings.Join(lines, "\n")
}
