package extract

import (
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"linkdraft/internal/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

const messagingPage = `<html><body>
<nav class="global-nav">
  <img class="global-nav__me-photo" alt="Photo of Alex Kim">
</nav>
<div class="msg-overlay-conversation-bubble">
  <div class="msg-entity-lockup">
    <span class="msg-entity-lockup__title">Jordan Lee · 1st</span>
    <span class="msg-entity-lockup__subtitle">Engineering Manager at Acme Corp</span>
    <a href="https://www.linkedin.com/in/jordanlee/">profile</a>
  </div>
  <div class="msg-s-message-list-container">
    <div class="msg-s-message-list__time-heading">Today</div>
    <div class="msg-s-message-group">
      <span class="msg-s-message-group__name">Jordan Lee</span>
      <time class="msg-s-message-group__timestamp">10:02 AM</time>
      <p class="msg-s-event-listitem__body">Thanks for connecting! Email me at jordan@acme.com</p>
    </div>
    <div class="msg-s-message-group">
      <span class="msg-s-message-group__name">Alex Kim</span>
      <p class="msg-s-event-listitem__body">Will do, talk soon.</p>
    </div>
  </div>
  <div class="msg-form__contenteditable" contenteditable="true" role="textbox"></div>
</div>
</body></html>`

func TestConversationExtraction(t *testing.T) {
	ex, err := FromHTML(messagingPage, nil, quietLogger())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ex.now = func() time.Time {
		return time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	}

	ctx := ex.Conversation()

	if ctx.Self.Name != "Alex Kim" {
		t.Errorf("self name = %q", ctx.Self.Name)
	}
	if ctx.Counterpart.Name != "Jordan Lee" {
		t.Errorf("counterpart name = %q", ctx.Counterpart.Name)
	}
	if ctx.Counterpart.Headline != "Engineering Manager at Acme Corp" {
		t.Errorf("counterpart headline = %q", ctx.Counterpart.Headline)
	}
	if ctx.Counterpart.Company != "Acme Corp" {
		t.Errorf("counterpart company = %q", ctx.Counterpart.Company)
	}
	if ctx.Counterpart.ProfileURL != "https://www.linkedin.com/in/jordanlee/" {
		t.Errorf("counterpart url = %q", ctx.Counterpart.ProfileURL)
	}

	if ctx.MessageCount != 2 {
		t.Fatalf("message count = %d", ctx.MessageCount)
	}
	first, last := ctx.Messages[0], ctx.Messages[1]
	if first.Sender != domain.SenderOther || first.SenderName != "Jordan Lee" {
		t.Errorf("first message attribution: %+v", first)
	}
	if last.Sender != domain.SenderSelf || last.SenderName != "Alex Kim" {
		t.Errorf("last message attribution: %+v", last)
	}
	if first.Content != "Thanks for connecting! Email me at [EMAIL]" {
		t.Errorf("content not sanitized: %q", first.Content)
	}
	// "Today" separator plus a bare clock time resolves against the
	// separator date.
	if !first.IsRecent || first.RelativeTime != "just now" {
		t.Errorf("first message time: %q recent=%v", first.RelativeTime, first.IsRecent)
	}

	if ctx.LastMessageSender != domain.SenderSelf {
		t.Errorf("last sender = %q", ctx.LastMessageSender)
	}
	if !strings.HasPrefix(ctx.FormattedMessages, "[Conversation between Alex Kim and Jordan Lee]") {
		t.Errorf("transcript header: %q", ctx.FormattedMessages)
	}
	if !strings.Contains(ctx.FormattedMessages, "[Jordan Lee] (just now): Thanks for connecting!") {
		t.Errorf("transcript body: %q", ctx.FormattedMessages)
	}
	if !strings.Contains(ctx.Summary, "You sent the last message") ||
		!strings.Contains(ctx.Summary, "2 messages (1 from you, 1 from Jordan Lee)") ||
		!strings.Contains(ctx.Summary, "Active conversation.") {
		t.Errorf("summary: %q", ctx.Summary)
	}
}

func TestSelfInferredFromConversation(t *testing.T) {
	// Same thread, but no nav chrome in the snapshot: the sender who is not
	// the counterpart must be the signed-in user.
	page := strings.Replace(messagingPage,
		`<img class="global-nav__me-photo" alt="Photo of Alex Kim">`, "", 1)
	ex, err := FromHTML(page, nil, quietLogger())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	ctx := ex.Conversation()
	if ctx.Self.Name != "Alex Kim" {
		t.Errorf("inferred self name = %q", ctx.Self.Name)
	}
	if ctx.Messages[1].Sender != domain.SenderSelf {
		t.Errorf("attribution after inference: %+v", ctx.Messages[1])
	}
}

func TestSelfInferenceAmbiguousStaysUnresolved(t *testing.T) {
	// No nav chrome and two senders besides the counterpart: picking either
	// would be a coin flip, so self must stay unresolved.
	page := strings.Replace(messagingPage,
		`<img class="global-nav__me-photo" alt="Photo of Alex Kim">`, "", 1)
	page = strings.Replace(page,
		`<div class="msg-s-message-group">
      <span class="msg-s-message-group__name">Alex Kim</span>`,
		`<div class="msg-s-message-group">
      <span class="msg-s-message-group__name">Sam Park</span>
      <p class="msg-s-event-listitem__body">Looping in here.</p>
    </div>
    <div class="msg-s-message-group">
      <span class="msg-s-message-group__name">Alex Kim</span>`, 1)
	ex, err := FromHTML(page, nil, quietLogger())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	ctx := ex.Conversation()
	if ctx.Self.Name != "" {
		t.Errorf("ambiguous candidates: self should be unresolved, got %q", ctx.Self.Name)
	}
	if ctx.Counterpart.Name != "Jordan Lee" {
		t.Errorf("counterpart name = %q", ctx.Counterpart.Name)
	}
}

func TestIsSelfSender(t *testing.T) {
	cases := []struct {
		sender, self, counterpart string
		want                      bool
	}{
		{"Alex Kim", "Alex Kim", "Jordan Lee", true},
		{"Alex", "Alex Kim", "Jordan Lee", true},
		{"Jordan Lee", "Alex Kim", "Jordan Lee", false},
		{"Jordan", "Alex Kim", "Jordan Lee", false},
		{"", "Alex Kim", "Jordan Lee", false},
		// Unknown sender with both identities known defaults to self.
		{"Dr. Somebody Else", "Alex Kim", "Jordan Lee", true},
		// Without a self name nothing can be claimed.
		{"Dr. Somebody Else", "", "Jordan Lee", false},
	}
	for _, c := range cases {
		if got := isSelfSender(c.sender, c.self, c.counterpart); got != c.want {
			t.Errorf("isSelfSender(%q, %q, %q) = %v, want %v",
				c.sender, c.self, c.counterpart, got, c.want)
		}
	}
}

func TestFlatItemFallback(t *testing.T) {
	page := `<html><body>
<div class="msg-s-message-list-container">
  <li class="msg-s-message-list__event">
    <p class="msg-s-event-listitem__body">Hello there</p>
  </li>
  <li class="msg-s-message-list__event msg-s-message-list__event--self-sent">
    <p class="msg-s-event-listitem__body">Hi, nice to hear from you</p>
  </li>
</div>
</body></html>`
	ex, err := FromHTML(page, nil, quietLogger())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	ctx := ex.Conversation()
	if ctx.MessageCount != 2 {
		t.Fatalf("message count = %d", ctx.MessageCount)
	}
	if ctx.Messages[0].Sender != domain.SenderOther {
		t.Errorf("first message should be other: %+v", ctx.Messages[0])
	}
	if ctx.Messages[1].Sender != domain.SenderSelf {
		t.Errorf("self-sent class not honored: %+v", ctx.Messages[1])
	}
	if ctx.Messages[1].SenderName != "Me" {
		t.Errorf("self display fallback = %q", ctx.Messages[1].SenderName)
	}
}

func TestEmptyThread(t *testing.T) {
	ex, err := FromHTML(`<html><body><div id="app"></div></body></html>`, nil, quietLogger())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ctx := ex.Conversation()
	if ctx.MessageCount != 0 {
		t.Fatalf("expected empty conversation, got %d", ctx.MessageCount)
	}
	if ctx.FormattedMessages != "No messages in conversation yet." {
		t.Errorf("empty transcript = %q", ctx.FormattedMessages)
	}
	if ctx.Summary != "New conversation - no messages yet." {
		t.Errorf("empty summary = %q", ctx.Summary)
	}
}

const feedPage = `<html><body>
<div class="feed-shared-update-v2">
  <div class="update-components-actor__name"><span aria-hidden="true">Sam Rivera</span></div>
  <div class="update-components-actor__description">Product Lead at Northwind</div>
  <div class="feed-shared-update-v2__description">Excited to share that our team shipped the new release today.</div>
  <div class="feed-shared-image"></div>
  <div class="comments-comment-box"></div>
</div>
</body></html>`

func TestPostExtraction(t *testing.T) {
	ex, err := FromHTML(feedPage, nil, quietLogger())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	post, ok := ex.Post()
	if !ok {
		t.Fatal("expected post to extract")
	}
	if post.AuthorName != "Sam Rivera" {
		t.Errorf("author = %q", post.AuthorName)
	}
	if post.AuthorHeadline != "Product Lead at Northwind" {
		t.Errorf("headline = %q", post.AuthorHeadline)
	}
	if !strings.HasPrefix(post.Content, "Excited to share") {
		t.Errorf("content = %q", post.Content)
	}
	if post.Kind != domain.PostImage {
		t.Errorf("kind = %q", post.Kind)
	}
}

func TestPostMediaOnlyPlaceholder(t *testing.T) {
	page := `<html><body>
<div class="feed-shared-update-v2">
  <video></video>
  <div class="comments-comment-box"></div>
</div>
</body></html>`
	ex, err := FromHTML(page, nil, quietLogger())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	post, ok := ex.Post()
	if !ok {
		t.Fatal("expected media post to extract")
	}
	if post.Content != "[video post]" || post.Kind != domain.PostVideo {
		t.Errorf("placeholder = %q kind = %q", post.Content, post.Kind)
	}
}

func TestPostTextMissingContent(t *testing.T) {
	page := `<html><body>
<div class="feed-shared-update-v2"><div class="comments-comment-box"></div></div>
</body></html>`
	ex, err := FromHTML(page, nil, quietLogger())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, ok := ex.Post(); ok {
		t.Fatal("text post without content should not extract")
	}
}
