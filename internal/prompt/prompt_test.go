package prompt

import (
	"strings"
	"testing"
	"time"

	"linkdraft/internal/domain"
)

func TestReplySystemTone(t *testing.T) {
	sys := ReplySystem(domain.ToneCasual)
	if !strings.Contains(sys, "relaxed and conversational") {
		t.Error("casual tone description missing")
	}
	if !strings.Contains(sys, "- Keep it conversational") {
		t.Error("casual guidelines missing")
	}
	if !strings.Contains(sys, `["Reply 1", "Reply 2", "Reply 3"]`) {
		t.Error("output format line missing")
	}
}

func baseReplyInput(action domain.Action) ReplyInput {
	return ReplyInput{
		Request: domain.ReplyRequest{
			ConversationHistory: "[Conversation between Alex Kim and Jordan Lee]\n\n[Jordan Lee] (2d ago): Hey!",
			ConversationSummary: "Jordan Lee sent the last message (2d ago). Awaiting your reply.",
			Self:                domain.UserProfile{Name: "Alex Kim", Headline: "Platform Engineer at Initech"},
			Counterpart:         domain.UserProfile{Name: "Jordan Lee", Headline: "Engineering Manager at Acme Corp", Company: "Acme Corp"},
			LastMessageSender:   domain.SenderOther,
			LastMessageTime:     "2d ago",
			Action:              action,
		},
		Now: time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestReplyUserSectionOrder(t *testing.T) {
	in := baseReplyInput(domain.ActionReply)
	in.UserContext = "We sell developer tooling."
	in.CustomInstructions = "Never use exclamation marks."
	in.CompanyNews = "- [Mar 1] Acme raised a Series B"
	in.PersonActivity = "- Posted about platform migrations"
	got := ReplyUser(in)

	sections := []string{
		"=== GENERATE REPLY SUGGESTIONS ===",
		"=== ABOUT ME (the person you're writing for) ===",
		"=== ABOUT THE RECIPIENT ===",
		"=== 🔥 RECENT NEWS: ACME CORP ===",
		"=== JORDAN LEE'S RECENT ACTIVITY ===",
		"=== MY RULES (always follow) ===",
		"=== CONVERSATION STATE ===",
		"=== CONVERSATION HISTORY ===",
		"Generate 3 reply options as a JSON array.",
	}
	last := -1
	for _, s := range sections {
		idx := strings.Index(got, s)
		if idx < 0 {
			t.Fatalf("section %q missing from prompt:\n%s", s, got)
		}
		if idx < last {
			t.Fatalf("section %q out of order", s)
		}
		last = idx
	}

	if !strings.Contains(got, "→ Jordan Lee messaged 2d ago. Awaiting my reply.") {
		t.Error("conversation state line missing")
	}
	if strings.Contains(got, "TIME CONTEXT") {
		t.Error("time context must not appear for plain replies")
	}
}

func TestReplyUserFollowUpTimeGap(t *testing.T) {
	in := baseReplyInput(domain.ActionFollowUp)
	in.Request.LastMessageTime = "3 months ago (Dec 5)"
	got := ReplyUser(in)

	if !strings.Contains(got, "→ TIME CONTEXT: 3+ months have passed") {
		t.Errorf("expected 3+ month advisory, got:\n%s", got)
	}
}

func TestReplyUserSchedulingLink(t *testing.T) {
	in := baseReplyInput(domain.ActionScheduleMeeting)
	in.MeetingLink = "https://cal.example/alex"
	got := ReplyUser(in)
	if !strings.Contains(got, "=== MY SCHEDULING LINK ===") ||
		!strings.Contains(got, "https://cal.example/alex") {
		t.Error("scheduling link section missing")
	}

	// The link only belongs to the scheduling action.
	in2 := baseReplyInput(domain.ActionReply)
	in2.MeetingLink = "https://cal.example/alex"
	if strings.Contains(ReplyUser(in2), "MY SCHEDULING LINK") {
		t.Error("scheduling link leaked into plain reply")
	}
}

func TestReplyUserQuietConversation(t *testing.T) {
	in := baseReplyInput(domain.ActionFollowUp)
	in.Request.LastMessageSender = domain.SenderSelf
	in.Request.LastMessageTime = "20d ago"
	in.Request.IsActiveConversation = false
	got := ReplyUser(in)

	if !strings.Contains(got, "→ I sent the last message 20d ago.") {
		t.Error("self last-message line missing")
	}
	if !strings.Contains(got, "→ Conversation has been quiet.") {
		t.Error("quiet marker missing")
	}
	if !strings.Contains(got, "→ Re-engage without sounding pushy.") {
		t.Error("re-engage line missing")
	}
	// 20 days is under every advisory threshold.
	if strings.Contains(got, "TIME CONTEXT") {
		t.Error("unexpected time context for 20 days")
	}
}

func TestAnalyzeTimeGap(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"5m ago", ""},
		{"3h ago", ""},
		{"yesterday", ""},
		{"just now", ""},
		{"10d ago", ""},
		{"45d ago", gapOneToTwoMonths},
		{"about 2 weeks ago", ""},
		{"about 5 weeks ago", gapAboutAMonth},
		{"2 months ago (Jan 8)", gapAboutNMonths(2)},
		{"4 months ago (Nov 2)", gapThreePlusMonths},
		{"1 months ago", gapOneToTwoMonths},
		// 95 days back from Mar 10 lands in early December.
		{"dec 5", gapThreePlusMonths},
		{"feb 20", ""},
		{"unparseable words", ""},
	}
	for _, c := range cases {
		if got := analyzeTimeGap(c.in, now); got != c.want {
			t.Errorf("analyzeTimeGap(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestOutreachUser(t *testing.T) {
	in := OutreachInput{
		Request: domain.OutreachRequest{
			Self: domain.UserProfile{Name: "Alex Kim", Company: "Initech"},
			Counterpart: domain.UserProfile{
				Name:            "Jordan Lee",
				Headline:        "Engineering Manager at Acme Corp",
				Company:         "Acme Corp",
				RoleDescription: "Lead a team of twelve engineers building the data platform.",
			},
		},
		CompanyResearch:      "They build warehouse robotics.",
		PersonResearch:       "Spoke at PlatformConf about migration pain.",
		RecentNews:           "- [Feb 12] Acme acquired Roadrunner Ltd",
		OutreachInstructions: "Mention our shared Berlin meetup scene.",
		Tone:                 domain.ToneFriendly,
	}
	got := OutreachUser(in)

	for _, want := range []string{
		"=== GENERATE PERSONALIZED OUTREACH MESSAGE ===",
		"This is a FIRST MESSAGE",
		"**Job Description from LinkedIn profile:**",
		"⚠️ IMPORTANT: This job description may be from a PAST role",
		"=== 🔥 RECENT NEWS: ACME CORP (LAST 1-3 MONTHS) ===",
		"=== RESEARCH: JORDAN LEE ===",
		"=== COMPANY BACKGROUND: ACME CORP ===",
		"=== OUTREACH INSTRUCTIONS (follow carefully) ===",
		"TONE: warm and personable while still professional",
		"**Option 2**: Lead with something about their COMPANY",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("outreach prompt missing %q", want)
		}
	}
	if strings.Contains(got, "LANGUAGE:") {
		t.Error("no language directive expected for an English profile")
	}
}

func TestOutreachUserLanguageDirective(t *testing.T) {
	in := OutreachInput{
		Request: domain.OutreachRequest{
			Counterpart: domain.UserProfile{
				Name:     "Lena Vogel",
				Headline: "Beraterin für die digitale Transformation und das moderne Arbeiten",
			},
		},
		Tone: domain.ToneProfessional,
	}
	got := OutreachUser(in)
	if !strings.Contains(got, "LANGUAGE: Write the message in German") {
		t.Errorf("expected German directive:\n%s", got)
	}
	if !strings.Contains(got, "Write ALL messages in German.") {
		t.Error("closing language reminder missing")
	}
}

func TestCommentPrompts(t *testing.T) {
	sys := CommentSystem()
	if !strings.Contains(sys, `No "Great post!", "Love this!", "This is so true!" - these are banned`) {
		t.Error("banned phrases missing from comment system prompt")
	}

	in := CommentInput{
		Request: domain.CommentRequest{
			Post: domain.PostContext{
				AuthorName:     "Sam Rivera",
				AuthorHeadline: "Product Lead at Northwind",
				Content:        "We just shipped our biggest release of the year.",
				Kind:           domain.PostImage,
			},
			Action: domain.ActionCommentCongratulate,
		},
		UserContext: "I build deployment tooling.",
	}
	got := CommentUser(in)

	for _, want := range []string{
		"=== GENERATE CONGRATULATE COMMENT ===",
		"Generate a casual congrats one-liner:",
		"=== ABOUT ME (the commenter) ===",
		"Author: Sam Rivera",
		"Post Type: image",
		"=== POST CONTENT ===",
		"Generate 3 casual one-liner comments (max 10-15 words each) as a JSON array.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("comment prompt missing %q", want)
		}
	}
}
