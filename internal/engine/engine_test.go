package engine

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"linkdraft/internal/domain"
	"linkdraft/internal/metrics"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeService answers research calls (web search on) with canned briefings and
// generation calls with a canned suggestion payload.
type fakeService struct {
	generation string
	research   string
	err        error
	invoked    []domain.InvokeRequest
}

func (f *fakeService) Invoke(_ context.Context, req domain.InvokeRequest) (string, error) {
	f.invoked = append(f.invoked, req)
	if f.err != nil {
		return "", f.err
	}
	if req.WebSearch {
		return f.research, nil
	}
	return f.generation, nil
}

type memStore map[string]string

func (m memStore) Get(_ context.Context, key string) (string, error) { return m[key], nil }
func (m memStore) Set(_ context.Context, key, value string) error    { m[key] = value; return nil }
func (m memStore) List(_ context.Context) (map[string]string, error) { return m, nil }

func newTestEngine(svc *fakeService, store memStore) *Engine {
	return New(Config{
		Provider: svc,
		Settings: store,
		Logger:   testLogger(),
	})
}

const suggestionsJSON = `["Thanks, this looks great. I will review it tomorrow.", "Appreciate the update, let us sync on Thursday.", "Sounds good, sending over the details now."]`

func replyReq() domain.ReplyRequest {
	return domain.ReplyRequest{
		ConversationHistory: "[Conversation between Alex and Jordan]\n\nJordan Lee (just now): Did you see the draft?",
		ConversationSummary: "Jordan Lee sent the last message (just now). Awaiting your reply.",
		Self:                domain.UserProfile{Name: "Alex Kim"},
		Counterpart:         domain.UserProfile{Name: ""},
		Action:              domain.ActionReply,
	}
}

func TestGenerateReplyPipeline(t *testing.T) {
	svc := &fakeService{generation: suggestionsJSON}
	eng := newTestEngine(svc, memStore{domain.KeyAPIKey: "sk-test", domain.KeyTone: "casual"})

	result := eng.GenerateReply(context.Background(), replyReq())
	if result.Err != nil {
		t.Fatalf("unexpected failure: %v", result.Err)
	}
	if len(result.Suggestions) != 3 {
		t.Fatalf("got %d suggestions, want 3", len(result.Suggestions))
	}
	if len(svc.invoked) != 1 {
		t.Fatalf("want 1 provider call, got %d", len(svc.invoked))
	}
	req := svc.invoked[0]
	if req.MaxTokens != 1024 {
		t.Errorf("max tokens = %d, want 1024", req.MaxTokens)
	}
	if req.System == "" {
		t.Error("reply call should carry a system prompt")
	}
	if !strings.Contains(req.Prompt, "CONVERSATION HISTORY") {
		t.Error("user prompt missing conversation history section")
	}
}

func TestGenerateReplyBalancesActiveGauge(t *testing.T) {
	before := metrics.ActiveGenerations.Value()
	eng := newTestEngine(&fakeService{generation: suggestionsJSON}, memStore{domain.KeyAPIKey: "k"})
	if result := eng.GenerateReply(context.Background(), replyReq()); result.Err != nil {
		t.Fatalf("unexpected failure: %v", result.Err)
	}
	// Failed runs go through the same finish path.
	eng.GenerateReply(context.Background(), domain.ReplyRequest{})
	if after := metrics.ActiveGenerations.Value(); after != before {
		t.Errorf("in-flight gauge leaked: before %d, after %d", before, after)
	}
}

func TestGenerateReplyMissingAPIKey(t *testing.T) {
	eng := newTestEngine(&fakeService{generation: suggestionsJSON}, memStore{})
	result := eng.GenerateReply(context.Background(), replyReq())
	if result.Err == nil || result.Err.Kind != domain.FailConfiguration {
		t.Fatalf("want configuration failure, got %v", result.Err)
	}
	if len(result.Suggestions) != 0 {
		t.Errorf("failed run must carry no suggestions")
	}
}

func TestGenerateReplyEmptyHistory(t *testing.T) {
	eng := newTestEngine(&fakeService{generation: suggestionsJSON}, memStore{domain.KeyAPIKey: "k"})
	req := replyReq()
	req.ConversationHistory = "No messages in conversation yet."
	result := eng.GenerateReply(context.Background(), req)
	if result.Err == nil || result.Err.Kind != domain.FailExtraction {
		t.Fatalf("want extraction failure, got %v", result.Err)
	}
}

func TestGenerateReplyResearchAttached(t *testing.T) {
	svc := &fakeService{generation: suggestionsJSON, research: "- [March 3] Series B raised (TechCrunch)"}
	eng := newTestEngine(svc, memStore{domain.KeyAPIKey: "k"})

	req := replyReq()
	req.Counterpart = domain.UserProfile{Name: "Jordan Lee", Company: "Acme Corp"}
	result := eng.GenerateReply(context.Background(), req)
	if result.Err != nil {
		t.Fatalf("unexpected failure: %v", result.Err)
	}
	// Two research calls plus the generation call.
	if len(svc.invoked) != 3 {
		t.Fatalf("want 3 provider calls, got %d", len(svc.invoked))
	}
	final := svc.invoked[len(svc.invoked)-1]
	if !strings.Contains(final.Prompt, "Series B raised") {
		t.Error("research findings missing from generation prompt")
	}
}

func TestGenerateReplyParseSentinel(t *testing.T) {
	svc := &fakeService{generation: "Unable to generate suggestions. Please try again."}
	eng := newTestEngine(svc, memStore{domain.KeyAPIKey: "k"})
	result := eng.GenerateReply(context.Background(), replyReq())
	if result.Err == nil || result.Err.Kind != domain.FailParse {
		t.Fatalf("want parse failure, got %v", result.Err)
	}
}

func TestGenerateReplyProviderFailurePassthrough(t *testing.T) {
	svc := &fakeService{err: domain.NewFailure(domain.FailUnauthorized, "Invalid API key.")}
	eng := newTestEngine(svc, memStore{domain.KeyAPIKey: "bad"})
	result := eng.GenerateReply(context.Background(), replyReq())
	if result.Err == nil || result.Err.Kind != domain.FailUnauthorized {
		t.Fatalf("want unauthorized failure, got %v", result.Err)
	}
}

func TestGenerateOutreachRequiresRecipient(t *testing.T) {
	eng := newTestEngine(&fakeService{generation: suggestionsJSON}, memStore{domain.KeyAPIKey: "k"})
	result := eng.GenerateOutreach(context.Background(), domain.OutreachRequest{})
	if result.Err == nil || result.Err.Kind != domain.FailExtraction {
		t.Fatalf("want extraction failure, got %v", result.Err)
	}
}

func TestGenerateOutreachResearchEchoed(t *testing.T) {
	svc := &fakeService{generation: suggestionsJSON, research: "briefing text"}
	eng := newTestEngine(svc, memStore{domain.KeyAPIKey: "k"})

	result := eng.GenerateOutreach(context.Background(), domain.OutreachRequest{
		Self:        domain.UserProfile{Name: "Alex Kim"},
		Counterpart: domain.UserProfile{Name: "Jordan Lee", Company: "Acme Corp"},
	})
	if result.Err != nil {
		t.Fatalf("unexpected failure: %v", result.Err)
	}
	if result.Research == nil {
		t.Fatal("research missing from result")
	}
	if result.Research.CompanyBackground == "" || result.Research.PersonActivity == "" || result.Research.RecentNews == "" {
		t.Errorf("research incomplete: %+v", result.Research)
	}
	// Three research calls plus the generation call.
	if len(svc.invoked) != 4 {
		t.Fatalf("want 4 provider calls, got %d", len(svc.invoked))
	}
	final := svc.invoked[len(svc.invoked)-1]
	if final.MaxTokens != 16000 || final.ThinkingBudget != 10000 {
		t.Errorf("outreach budgets wrong: %+v", final)
	}
	if final.System != "" {
		t.Error("outreach call should not carry a system prompt")
	}
}

func TestGenerateCommentPipeline(t *testing.T) {
	svc := &fakeService{generation: `["so true honestly", "the second point is underrated", "curious how you handled this?"]`}
	eng := newTestEngine(svc, memStore{domain.KeyAPIKey: "k"})

	result := eng.GenerateComment(context.Background(), domain.CommentRequest{
		Post:   domain.PostContext{AuthorName: "Sam Rivera", Content: "Shipped our new pipeline today.", Kind: domain.PostText},
		Action: domain.ActionCommentSupportive,
	})
	if result.Err != nil {
		t.Fatalf("unexpected failure: %v", result.Err)
	}
	if len(result.Suggestions) != 3 {
		t.Fatalf("got %d suggestions, want 3", len(result.Suggestions))
	}
}

func TestGenerateCommentRequiresContent(t *testing.T) {
	eng := newTestEngine(&fakeService{}, memStore{domain.KeyAPIKey: "k"})
	result := eng.GenerateComment(context.Background(), domain.CommentRequest{Action: domain.ActionCommentSupportive})
	if result.Err == nil || result.Err.Kind != domain.FailExtraction {
		t.Fatalf("want extraction failure, got %v", result.Err)
	}
}

func TestRateLimiterWindow(t *testing.T) {
	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	now := base
	rl := newRateLimiter(10, time.Minute)
	rl.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		if !rl.canMakeRequest() {
			t.Fatalf("request %d should be allowed", i+1)
		}
		rl.record()
	}
	if rl.canMakeRequest() {
		t.Fatal("11th request should be rejected")
	}
	wait := rl.timeUntilReset()
	if wait <= 0 || wait > time.Minute {
		t.Fatalf("wait = %v, want within (0, 60s]", wait)
	}

	// Advance past the window; everything ages out.
	now = base.Add(61 * time.Second)
	if !rl.canMakeRequest() {
		t.Fatal("requests should be allowed after the window passes")
	}
	if rl.timeUntilReset() != 0 {
		t.Fatalf("reset wait should be 0 after window, got %v", rl.timeUntilReset())
	}
}

func TestEngineRateLimitRejection(t *testing.T) {
	svc := &fakeService{generation: suggestionsJSON}
	eng := newTestEngine(svc, memStore{domain.KeyAPIKey: "k"})

	for i := 0; i < 10; i++ {
		if result := eng.GenerateReply(context.Background(), replyReq()); result.Err != nil {
			t.Fatalf("run %d failed: %v", i+1, result.Err)
		}
	}
	result := eng.GenerateReply(context.Background(), replyReq())
	if result.Err == nil || result.Err.Kind != domain.FailRateLimited {
		t.Fatalf("want rate limited failure, got %v", result.Err)
	}
	if !strings.Contains(result.Err.Message, "Rate limit reached") {
		t.Errorf("unexpected message %q", result.Err.Message)
	}
}
