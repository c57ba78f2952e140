package extract

import (
	"regexp"
	"strings"

	"linkdraft/internal/dom"
	"linkdraft/internal/domain"
	"linkdraft/internal/selector"
)

var (
	photoPrefixRe  = regexp.MustCompile(`(?i)^photo\s*(of)?\s*`)
	degreeSuffixRe = regexp.MustCompile(`\s*·\s*(1st|2nd|3rd|\d+).*$`)
	companyAtRe    = regexp.MustCompile(`(?i)(?:at|@)\s+(.+?)(?:\s*[|•·-]|$)`)
	leadingDigitRe = regexp.MustCompile(`^\d`)
	monthPrefixRe  = regexp.MustCompile(`(?i)^(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)`)

	pillStripper = strings.NewReplacer("×", "", "✕", "", "✖", "")

	mAnyClassed     = dom.MustCompile(`[class]`)
	mLockupTitle    = dom.MustCompile(`[class*=title]`)
	mLockupSubtitle = dom.MustCompile(`[class*=subtitle]`)
	mProfileLink    = dom.MustCompile(`a[href*=/in/]`)
	mH2             = dom.MustCompile(`h2`)
	mH3             = dom.MustCompile(`h3`)
	mParagraph      = dom.MustCompile(`p`)
	mSpan           = dom.MustCompile(`span`)
	mDiv            = dom.MustCompile(`div`)
	mSection        = dom.MustCompile(`section`)
	mBoldSpan       = dom.MustCompile(`.t-bold span[aria-hidden=true]`)
	mStrong         = dom.MustCompile(`strong`)
	mBold           = dom.MustCompile(`b`)
	mAnchoredName   = dom.MustCompile(`a`)
	mLinkPartial    = dom.MustCompile(`[class*=profile-link]`)
)

var headlineKeywords = []string{
	" at ", "Manager", "Director", "Engineer", "Architect", "Founder", "CEO", "VP",
}

var jobVerbs = []string{
	"Lead", "Manage", "Develop", "Support", "Drive", "Build", "Create", "Responsible",
}

// SelfProfile resolves the signed-in user's identity from ambient chrome: nav
// photo alt text first (most stable), then the feed identity card and rail
// card. The alt text carries a "Photo of" prefix on some layouts.
func (e *Extractor) SelfProfile() domain.UserProfile {
	var p domain.UserProfile

	if node := e.res.Resolve(selector.CurrentUserPhoto, nil); node != nil {
		if alt := strings.TrimSpace(node.AttrOr("alt", "")); len(alt) > 2 {
			p.Name = strings.TrimSpace(photoPrefixRe.ReplaceAllString(alt, ""))
		}
	}
	if p.Name == "" {
		if node := e.res.Resolve(selector.CurrentUserName, nil); node != nil {
			p.Name = node.Text()
		}
	}

	if node := e.res.Resolve(selector.IdentityHeadline, nil); node != nil {
		p.Headline = node.Text()
	}
	if p.Headline != "" {
		if parts := strings.Split(p.Headline, " at "); len(parts) > 1 {
			p.Company = strings.TrimSpace(parts[1])
		}
	}

	return p
}

// CounterpartProfile resolves the person on the other side of the thread.
// The message input box anchors the search: everything is scoped to the
// compose surface that actually contains it, so profile pages visible in the
// background cannot contaminate the result.
func (e *Extractor) CounterpartProfile() domain.UserProfile {
	var p domain.UserProfile

	var compose *dom.Node
	if input := e.res.Resolve(selector.MessageInput, nil); input != nil {
		compose = e.closestConcept(input, selector.ComposeSurface)
	}

	if compose != nil {
		p.Name = e.nameFromPill(compose)
		e.fillFromLockup(compose, &p)
		if p.Name == "" {
			e.nameFromLinks(compose, &p)
		}
		if p.Name == "" {
			p.Name = e.nameFromHeaders(compose)
		}
		if p.Headline == "" {
			p.Headline = headlineFromTextPattern(compose)
		}
	}

	if p.Name == "" {
		if header := e.res.Resolve(selector.ConversationHeader, nil); header != nil {
			for _, m := range []*dom.Matcher{mAnchoredName, mH2, mSpan} {
				if n := header.Find(m); n != nil && n.Text() != "" {
					p.Name = n.Text()
					break
				}
			}
		}
	}

	if p.ProfileURL == "" {
		if link := e.res.Resolve(selector.RecipientLink, nil); link != nil {
			if href := link.AttrOr("href", ""); href != "" {
				p.ProfileURL = href
				if p.Name == "" {
					p.Name = link.Text()
				}
			}
		}
	}

	if p.Headline == "" {
		if node := e.res.Resolve(selector.RecipientHeadline, nil); node != nil {
			p.Headline = node.Text()
		}
	}

	if p.Headline != "" {
		if m := companyAtRe.FindStringSubmatch(p.Headline); m != nil {
			p.Company = strings.TrimSpace(m[1])
		}
	}
	if p.Company == "" {
		p.Company = e.companyFromProfile()
	}
	p.RoleDescription = e.roleDescriptionFromProfile()

	if p.Name == "" {
		e.logger.Debug("counterpart name unresolved")
	}
	return p
}

// nameFromPill scans the compose surface for the recipient pill, the blue
// chip a new-message dialog shows for the addressee.
func (e *Extractor) nameFromPill(compose *dom.Node) string {
	for _, el := range compose.FindAll(mAnyClassed) {
		classes := el.AttrOr("class", "")
		if !strings.Contains(classes, "pill") ||
			strings.Contains(classes, "nav") || strings.Contains(classes, "tab") {
			continue
		}
		text := strings.TrimSpace(pillStripper.Replace(el.Text()))
		if len(text) > 2 && len(text) < 100 &&
			text != "Posts" && text != "About" && text != "Activity" {
			return text
		}
	}
	return ""
}

// fillFromLockup reads the entity lockup card (photo, name, headline, link).
func (e *Extractor) fillFromLockup(compose *dom.Node, p *domain.UserProfile) {
	for _, el := range compose.FindAll(mAnyClassed) {
		classes := el.AttrOr("class", "")
		if !strings.Contains(classes, "lockup") && !strings.Contains(classes, "entity") {
			continue
		}

		if p.Name == "" {
			if title := el.Find(mLockupTitle); title != nil {
				name := strings.TrimSpace(degreeSuffixRe.ReplaceAllString(title.Text(), ""))
				if len(name) > 2 && len(name) < 100 {
					p.Name = name
				}
			}
		}
		if p.Headline == "" {
			if sub := el.Find(mLockupSubtitle); sub != nil && sub.Text() != "" {
				p.Headline = sub.Text()
			}
		}
		if p.ProfileURL == "" {
			if link := el.Find(mProfileLink); link != nil {
				p.ProfileURL = link.AttrOr("href", "")
			}
		}

		if p.Name != "" && p.Headline != "" {
			return
		}
	}
}

func (e *Extractor) nameFromLinks(compose *dom.Node, p *domain.UserProfile) {
	for _, link := range compose.FindAll(mProfileLink) {
		text := link.Text()
		if len(text) > 2 && len(text) < 100 &&
			text != "View" && text != "See" && text != "Posts" {
			p.Name = strings.TrimSpace(degreeSuffixRe.ReplaceAllString(text, ""))
			p.ProfileURL = link.AttrOr("href", "")
			return
		}
	}
}

func (e *Extractor) nameFromHeaders(compose *dom.Node) string {
	headers := append(compose.FindAll(mH2), compose.FindAll(mH3)...)
	for _, h := range headers {
		text := h.Text()
		if len(text) > 2 && len(text) < 100 &&
			text != "New message" && text != "Posts" && text != "About" {
			return strings.TrimSpace(degreeSuffixRe.ReplaceAllString(text, ""))
		}
	}
	return ""
}

func headlineFromTextPattern(compose *dom.Node) string {
	candidates := append(compose.FindAll(mParagraph), compose.FindAll(mSpan)...)
	for _, el := range candidates {
		text := el.Text()
		if len(text) <= 20 || len(text) >= 200 {
			continue
		}
		for _, kw := range headlineKeywords {
			if strings.Contains(text, kw) {
				return text
			}
		}
	}
	return ""
}

// companyFromProfile scans a visible profile page's experience section for
// the current company name. Duration strings, dates, and tenure markers are
// filtered out since they share markup with the names.
func (e *Extractor) companyFromProfile() string {
	for _, m := range e.res.Table().Matchers(selector.ExperienceCompany) {
		for _, el := range e.res.Doc().Root.FindAll(m) {
			if text := el.Text(); looksLikeCompany(text) {
				return text
			}
		}
	}

	sec := e.res.Resolve(selector.ExperienceSection, nil)
	if sec == nil {
		return ""
	}
	container := sec.Closest(mSection)
	if container == nil {
		container = sec
	}
	bold := container.FindAll(mBoldSpan)
	bold = append(bold, container.FindAll(mStrong)...)
	bold = append(bold, container.FindAll(mBold)...)
	for _, el := range bold {
		text := el.Text()
		if len(text) > 2 && len(text) < 80 &&
			!strings.Contains(text, "Experience") && !strings.Contains(text, "Present") &&
			!leadingDigitRe.MatchString(text) && !monthPrefixRe.MatchString(text) {
			return text
		}
	}
	return ""
}

func looksLikeCompany(text string) bool {
	return len(text) > 1 && len(text) < 100 &&
		!strings.Contains(text, "Present") && !strings.Contains(text, "·") &&
		!strings.Contains(text, "yr") && !strings.Contains(text, "mo") &&
		!leadingDigitRe.MatchString(text) && !monthPrefixRe.MatchString(text)
}

// roleDescriptionFromProfile pulls the counterpart's current job description
// off a visible profile page when one is on screen.
func (e *Extractor) roleDescriptionFromProfile() string {
	for _, m := range e.res.Table().Matchers(selector.ExperienceDescription) {
		for _, el := range e.res.Doc().Root.FindAll(m) {
			if text := el.Text(); len(text) > 50 && len(text) < 3000 {
				return text
			}
		}
	}

	sec := e.res.Resolve(selector.ExperienceSection, nil)
	if sec == nil {
		return ""
	}
	container := sec.Closest(mSection)
	if container == nil {
		container = sec
	}
	candidates := container.FindAll(mSpan)
	candidates = append(candidates, container.FindAll(mParagraph)...)
	candidates = append(candidates, container.FindAll(mDiv)...)
	for _, el := range candidates {
		text := el.Text()
		if len(text) <= 100 || len(text) >= 2000 {
			continue
		}
		for _, verb := range jobVerbs {
			if strings.Contains(text, verb) {
				return text
			}
		}
	}
	return ""
}

// inferSelfName guesses the signed-in user's name when the nav chrome is not
// in the snapshot: in a two-party thread the one sender who is not the
// counterpart must be us. With zero or several non-counterpart senders the
// guess would be arbitrary, so self stays unresolved.
func (e *Extractor) inferSelfName(counterpart string) string {
	if counterpart == "" {
		return ""
	}
	thread := e.res.Resolve(selector.MessageThread, nil)
	if thread == nil {
		return ""
	}

	seen := make(map[string]bool)
	var senders []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			senders = append(senders, name)
		}
	}
	for _, group := range e.res.ResolveAll(selector.MessageGroup, thread) {
		if el := e.res.Resolve(selector.MessageGroupSender, group); el != nil {
			add(el.Text())
		}
	}
	for _, el := range thread.FindAll(mLinkPartial) {
		add(el.Text())
	}

	counterLower := strings.ToLower(counterpart)
	counterFirst := firstToken(counterLower)
	var candidates []string
	for _, sender := range senders {
		senderLower := strings.ToLower(sender)
		if strings.Contains(senderLower, counterLower) || strings.Contains(counterLower, senderLower) {
			continue
		}
		if firstToken(senderLower) == counterFirst {
			continue
		}
		candidates = append(candidates, sender)
	}
	if len(candidates) == 1 {
		return candidates[0]
	}
	return ""
}

// isSelfSender classifies a sender name against the two known identities.
// Exact and first-name matches against the self name win; matches against the
// counterpart rule self out; when both identities are known and the sender
// matches neither pattern, the self side is assumed.
func isSelfSender(senderName, selfName, counterpartName string) bool {
	if senderName == "" {
		return false
	}
	sender := strings.ToLower(strings.TrimSpace(senderName))

	if selfName != "" {
		self := strings.ToLower(strings.TrimSpace(selfName))
		if sender == self {
			return true
		}
		if ft := firstToken(sender); ft == firstToken(self) && len(ft) > 2 {
			return true
		}
		if strings.Contains(sender, self) || strings.Contains(self, sender) {
			return true
		}
	}

	if counterpartName != "" {
		counter := strings.ToLower(strings.TrimSpace(counterpartName))
		if sender == counter {
			return false
		}
		if ft := firstToken(sender); ft == firstToken(counter) && len(ft) > 2 {
			return false
		}
		if strings.Contains(sender, counter) || strings.Contains(counter, sender) {
			return false
		}
	}

	return selfName != "" && counterpartName != ""
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
