package provider

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"linkdraft/internal/domain"
)

// Researcher runs the web-search-backed enrichment calls. Every method is
// best-effort: failures are logged and reported as an empty string so the
// generation pipelines degrade to prompts without research rather than erroring.
type Researcher struct {
	svc    domain.CompletionService
	logger *slog.Logger
	now    func() time.Time
}

func NewResearcher(svc domain.CompletionService, logger *slog.Logger) *Researcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Researcher{svc: svc, logger: logger, now: time.Now}
}

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// dateRange returns the current month name, current year and previous month
// name, used to anchor search queries to fresh results.
func (r *Researcher) dateRange() (currentMonth string, currentYear int, lastMonth string) {
	now := r.now()
	currentMonth = monthNames[now.Month()-1]
	currentYear = now.Year()
	lastMonth = monthNames[now.AddDate(0, -1, 0).Month()-1]
	return
}

// personContext joins name, parenthesized headline and company into one line.
func personContext(name, headline, company string) string {
	parts := []string{name}
	if headline != "" {
		parts = append(parts, "("+headline+")")
	}
	if company != "" {
		parts = append(parts, "at "+company)
	}
	return strings.Join(parts, " ")
}

func (r *Researcher) invoke(ctx context.Context, what string, req domain.InvokeRequest) string {
	content, err := r.svc.Invoke(ctx, req)
	if err != nil {
		r.logger.Warn("research call failed", "what", what, "error", err)
		return ""
	}
	return content
}

// FetchCompanyNews does a quick recent-news lookup for reply enrichment.
// Returns "" when nothing recent was found.
func (r *Researcher) FetchCompanyNews(ctx context.Context, companyName string) string {
	currentMonth, currentYear, lastMonth := r.dateRange()

	prompt := fmt.Sprintf(`Search for recent news about "%s" company from the last 1-3 months (%s - %s %d).

DO THESE SEARCHES:
1. "%s news %s %d"
2. "%s announcement funding launch %d"

Find: funding rounds, product launches, partnerships, acquisitions, leadership changes, or major milestones.

OUTPUT FORMAT (be concise - 3-4 bullet points max):
- [Date] What happened (source)

If no recent news found, say "No recent news found."`,
		companyName, lastMonth, currentMonth, currentYear,
		companyName, currentMonth, currentYear,
		companyName, currentYear)

	content := r.invoke(ctx, "company_news", domain.InvokeRequest{
		Prompt:         prompt,
		MaxTokens:      8000,
		ThinkingBudget: 5000,
		WebSearch:      true,
		MaxSearchUses:  5,
	})
	if content == "" || strings.Contains(strings.ToLower(content), "no recent news") {
		return ""
	}
	return content
}

// FetchPersonActivity looks up recent public activity by a person for reply
// enrichment. Returns "" when nothing specific was found.
func (r *Researcher) FetchPersonActivity(ctx context.Context, name, headline, company string) string {
	_, currentYear, _ := r.dateRange()

	prompt := fmt.Sprintf(`Search for recent activity by %s.

DO THESE SEARCHES:
1. "%s LinkedIn"
2. "%s %s %d"

Find: Recent posts, articles, podcast appearances, conference talks, or notable achievements.

OUTPUT FORMAT (be concise - 2-3 bullet points max):
- What they've been talking about or doing recently

If nothing specific found, say "No recent activity found."`,
		personContext(name, headline, company),
		name,
		name, company, currentYear)

	content := r.invoke(ctx, "person_activity", domain.InvokeRequest{
		Prompt:         prompt,
		MaxTokens:      8000,
		ThinkingBudget: 5000,
		WebSearch:      true,
		MaxSearchUses:  4,
	})
	if content == "" || strings.Contains(strings.ToLower(content), "no recent activity found") {
		return ""
	}
	return content
}

// SearchRecentNews is the deeper dated-news pass used by outreach generation.
func (r *Researcher) SearchRecentNews(ctx context.Context, companyName string) string {
	currentMonth, currentYear, lastMonth := r.dateRange()

	prompt := fmt.Sprintf(`Find the MOST RECENT news about "%s" company from the last 1-3 months (%s - %s %d).

DO THESE SPECIFIC SEARCHES:
1. Search: "%s news %s %d"
2. Search: "%s announcement %d"
3. Search: "%s funding OR raised OR investment %d"
4. Search: "%s launch OR launched OR release %d"
5. Search: "%s partnership OR partner OR acquisition %d"
6. Search: "%s hiring OR expansion OR growth %d"

For each search, look for NEWS ARTICLES from reputable sources (TechCrunch, Forbes, Bloomberg, Reuters, industry publications, company press releases).

REPORT ONLY:
- **Date** of the news (be specific: "January 15, 2025" not just "recently")
- **Source** (where you found it)
- **What happened** (1-2 sentences)

If you find NO recent news (last 3 months), say "No recent news found" and briefly mention the most recent news you CAN find, even if older.

FORMAT:
📰 RECENT NEWS (Last 1-3 months):
- [Date] [Source]: What happened
- [Date] [Source]: What happened

🕐 OLDER NEWS (if no recent news):
- [Date] [Source]: What happened`,
		companyName, lastMonth, currentMonth, currentYear,
		companyName, currentMonth, currentYear,
		companyName, currentYear,
		companyName, currentYear,
		companyName, currentYear,
		companyName, currentYear,
		companyName, currentYear)

	return r.invoke(ctx, "recent_news", domain.InvokeRequest{
		Prompt:         prompt,
		MaxTokens:      16000,
		ThinkingBudget: 8000,
		WebSearch:      true,
		MaxSearchUses:  10,
	})
}

// ResearchCompany produces the outreach company briefing. userContext, when
// set, steers the research toward how the sender's company could help.
func (r *Researcher) ResearchCompany(ctx context.Context, companyName, userContext string) string {
	contextSection := ""
	if userContext != "" {
		contextSection = fmt.Sprintf("\n\nCONTEXT: I work at a company that %s. Find information that would help me understand if/how we could help them.", userContext)
	}

	prompt := fmt.Sprintf(`Research "%s" company. I need specific, actionable information to craft a personalized cold outreach message.%s

SEARCH STRATEGY - Do multiple searches:
1. Search: "%s company products services" - understand what they do
2. Search: "%s news 2024 2025" - find recent announcements
3. Search: "%s challenges problems" - find pain points
4. Search: "%s hiring jobs" - understand growth areas and needs
5. Search: "%s competitors" - understand their market

EXTRACT AND REPORT:
1. **What They Do**: Core products/services in plain language
2. **Recent News** (last 6 months): Funding, launches, partnerships, acquisitions, leadership changes
3. **Pain Points & Challenges**: What problems might they be facing? (scaling, hiring, tech debt, competition, etc.)
4. **Growth Areas**: Where are they investing? What roles are they hiring for?
5. **Tech Stack** (if relevant): What technologies do they use?
6. **Conversation Hooks**: Specific recent events or achievements I could reference

Be SPECIFIC. Don't give generic statements. I need concrete details I can reference in my outreach.`,
		companyName, contextSection,
		companyName, companyName, companyName, companyName, companyName)

	return r.invoke(ctx, "company_research", domain.InvokeRequest{
		Prompt:         prompt,
		MaxTokens:      16000,
		ThinkingBudget: 10000,
		WebSearch:      true,
		MaxSearchUses:  8,
	})
}

// ResearchPerson produces the outreach person briefing. jobDescription often
// comes from an experience section that may describe a past role, so the
// prompt warns the model to cross-check it against the headline.
func (r *Researcher) ResearchPerson(ctx context.Context, name, headline, company, jobDescription string) string {
	jobContext := ""
	if jobDescription != "" {
		headlineLabel := headline
		if headlineLabel == "" {
			headlineLabel = "unknown"
		}
		jobContext = fmt.Sprintf("\n\nJOB DESCRIPTION (from LinkedIn profile):\n%s\n\n⚠️ NOTE: This job description may be from a PAST position, not their current role. Their headline is \"%s\". Only reference this description if it clearly matches their current role in the headline. If it seems to be from a past job, ignore it.", jobDescription, headlineLabel)
	}

	prompt := fmt.Sprintf(`Research %s. I need specific information to write a personalized cold outreach message.%s

SEARCH STRATEGY - Do multiple targeted searches:
1. Search: "%s LinkedIn" - find their profile and recent posts
2. Search: "%s %s" - find mentions with their company
3. Search: "%s podcast OR interview OR conference OR speaking" - find thought leadership
4. Search: "%s article OR blog OR post" - find content they've created

EXTRACT AND REPORT:
1. **Recent LinkedIn Activity**: What have they posted about recently? What topics do they engage with?
2. **Thought Leadership**: Podcasts, conference talks, articles, or interviews they've done
3. **Career Highlights**: Notable achievements, awards, promotions, or career moves
4. **Topics They Care About**: Based on their content, what are they passionate about?
5. **Communication Style**: How do they write? Formal? Casual? Technical? Inspirational?
6. **Specific Hooks**: Concrete things I can reference (a specific post, talk, article, achievement)

IMPORTANT:
- Be SPECIFIC. Give me exact titles of posts, talks, or articles if you find them.
- If you can't find much about this person, say so clearly and suggest what might work as an angle based on their role/headline.
- Don't make things up - only report what you actually find.`,
		personContext(name, headline, company), jobContext,
		name,
		name, company,
		name,
		name)

	return r.invoke(ctx, "person_research", domain.InvokeRequest{
		Prompt:         prompt,
		MaxTokens:      16000,
		ThinkingBudget: 10000,
		WebSearch:      true,
		MaxSearchUses:  8,
	})
}
