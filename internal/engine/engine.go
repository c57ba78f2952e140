// Package engine orchestrates the generation pipelines. Each run flows
// rate-limit check, credential check, context validation, research join,
// prompt build, completion call, parse. Failures stay soft: the Result
// carries a *domain.Failure and an empty suggestion list, never a panic.
package engine

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"linkdraft/internal/bus"
	"linkdraft/internal/domain"
	"linkdraft/internal/metrics"
	"linkdraft/internal/parse"
	"linkdraft/internal/prompt"
	"linkdraft/internal/provider"
)

const (
	limiterMaxRequests = 10
	limiterWindow      = 60 * time.Second

	replyResearchTimeout    = 30 * time.Second
	outreachResearchTimeout = 60 * time.Second

	replyMaxTokens         = 1024
	commentMaxTokens       = 1024
	outreachMaxTokens      = 16000
	outreachThinkingBudget = 10000
)

// Engine runs the three generation pipelines against a completion service.
type Engine struct {
	provider domain.CompletionService
	settings domain.SettingsStore
	research *provider.Researcher
	bus      *bus.EventBus
	logger   *slog.Logger
	limiter  *rateLimiter
	now      func() time.Time
}

type Config struct {
	Provider domain.CompletionService
	Settings domain.SettingsStore
	Research *provider.Researcher
	Bus      *bus.EventBus
	Logger   *slog.Logger
}

func New(cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Research == nil {
		cfg.Research = provider.NewResearcher(cfg.Provider, cfg.Logger)
	}
	if cfg.Bus == nil {
		cfg.Bus = bus.NewEventBus(cfg.Logger)
	}
	return &Engine{
		provider: cfg.Provider,
		settings: cfg.Settings,
		research: cfg.Research,
		bus:      cfg.Bus,
		logger:   cfg.Logger,
		limiter:  newRateLimiter(limiterMaxRequests, limiterWindow),
		now:      time.Now,
	}
}

// setting reads one key, treating store errors as absent values.
func (e *Engine) setting(ctx context.Context, key string) string {
	value, err := e.settings.Get(ctx, key)
	if err != nil {
		e.logger.Warn("read setting", "key", key, "error", err)
		return ""
	}
	return value
}

func (e *Engine) checkLimiter(runID, kind string) *domain.Failure {
	if e.limiter.canMakeRequest() {
		return nil
	}
	wait := int(math.Ceil(e.limiter.timeUntilReset().Seconds()))
	metrics.RateLimitRejects.Inc()
	e.bus.Emit(bus.Event{
		Type:    bus.EventRateLimitRejected,
		Source:  "engine",
		Payload: map[string]any{"run_id": runID, "kind": kind, "wait_seconds": wait},
	})
	return domain.NewFailure(domain.FailRateLimited,
		"Rate limit reached. Please wait %d seconds before trying again.", wait)
}

func (e *Engine) apiKey(ctx context.Context) (string, *domain.Failure) {
	key := e.setting(ctx, domain.KeyAPIKey)
	if key == "" {
		return "", domain.NewFailure(domain.FailConfiguration,
			"API key not configured. Please set the api_key setting first.")
	}
	return key, nil
}

func (e *Engine) fail(runID, kind string, f *domain.Failure) domain.Result {
	e.logger.Warn("pipeline failed", "run_id", runID, "kind", kind,
		"failure", string(f.Kind), "message", f.Message)
	if f.Kind == domain.FailExtraction {
		metrics.ExtractionMisses.Inc()
		e.bus.Emit(bus.Event{
			Type:    bus.EventExtractionMiss,
			Source:  "engine",
			Payload: map[string]any{"run_id": runID, "kind": kind},
		})
	}
	metrics.GenerationErrors.Inc()
	e.finish(runID, kind, false)
	return domain.Result{Suggestions: []string{}, Err: f}
}

func (e *Engine) start(runID, kind string) {
	metrics.GenerationsTotal.Inc()
	metrics.ActiveGenerations.Inc()
	e.bus.Emit(bus.Event{
		Type:    bus.EventPipelineStarted,
		Source:  "engine",
		Payload: map[string]any{"run_id": runID, "kind": kind},
	})
}

func (e *Engine) finish(runID, kind string, ok bool) {
	metrics.ActiveGenerations.Dec()
	e.bus.Emit(bus.Event{
		Type:    bus.EventPipelineFinished,
		Source:  "engine",
		Payload: map[string]any{"run_id": runID, "kind": kind, "ok": ok},
	})
}

// GenerateReply produces up to three reply suggestions for an extracted
// conversation. Light research (company news, person activity) runs in
// parallel with a hard deadline; whatever misses the join is dropped.
func (e *Engine) GenerateReply(ctx context.Context, req domain.ReplyRequest) domain.Result {
	runID := uuid.NewString()
	started := e.now()
	e.start(runID, "reply")

	if f := e.checkLimiter(runID, "reply"); f != nil {
		return e.fail(runID, "reply", f)
	}
	if _, f := e.apiKey(ctx); f != nil {
		return e.fail(runID, "reply", f)
	}
	if req.ConversationHistory == "" || req.ConversationHistory == "No messages in conversation yet." {
		return e.fail(runID, "reply", domain.NewFailure(domain.FailExtraction,
			"No messages found in the conversation. Open a chat thread with messages first."))
	}

	tone := domain.ParseTone(e.setting(ctx, domain.KeyTone))
	userContext := e.setting(ctx, domain.KeyUserContext)
	customInstructions := e.setting(ctx, domain.KeyCustomInstructions)
	meetingLink := e.setting(ctx, domain.KeyMeetingLink)

	var companyNews, personActivity string
	researchCtx, cancel := context.WithTimeout(ctx, replyResearchTimeout)
	g, gctx := errgroup.WithContext(researchCtx)
	if req.Counterpart.Company != "" {
		g.Go(func() error {
			companyNews = e.research.FetchCompanyNews(gctx, req.Counterpart.Company)
			return nil
		})
	}
	if req.Counterpart.Name != "" {
		g.Go(func() error {
			personActivity = e.research.FetchPersonActivity(gctx,
				req.Counterpart.Name, req.Counterpart.Headline, req.Counterpart.Company)
			return nil
		})
	}
	g.Wait()
	cancel()

	e.limiter.record()
	metrics.APIRequestsTotal.Inc()

	content, err := e.provider.Invoke(ctx, domain.InvokeRequest{
		System:    prompt.ReplySystem(tone),
		MaxTokens: replyMaxTokens,
		Prompt: prompt.ReplyUser(prompt.ReplyInput{
			Request:            req,
			UserContext:        userContext,
			CustomInstructions: customInstructions,
			MeetingLink:        meetingLink,
			CompanyNews:        companyNews,
			PersonActivity:     personActivity,
			Now:                e.now(),
		}),
	})
	if err != nil {
		f := domain.AsFailure(err)
		e.bus.Emit(bus.Event{Type: bus.EventProviderError, Source: "engine",
			Payload: map[string]any{"run_id": runID, "failure": string(f.Kind)}})
		return e.fail(runID, "reply", f)
	}

	suggestions := parse.Suggestions(content, parse.MessageBounds)
	if parse.Failed(suggestions) {
		return e.fail(runID, "reply", domain.NewFailure(domain.FailParse,
			"Could not generate suggestions. Please try again."))
	}

	metrics.GenerationLatency.Observe(e.now().Sub(started).Seconds())
	e.bus.Emit(bus.Event{Type: bus.EventSuggestionGenerated, Source: "engine",
		Payload: map[string]any{"run_id": runID, "kind": "reply", "count": len(suggestions)}})
	e.finish(runID, "reply", true)
	e.logger.Info("reply generated", "run_id", runID, "suggestions", len(suggestions),
		"elapsed", e.now().Sub(started))
	return domain.Result{Suggestions: suggestions}
}

// GenerateOutreach produces cold outreach drafts backed by deep research.
// The three research tasks share a 60 second join deadline and the completed
// briefings are echoed back in the Result for operator inspection.
func (e *Engine) GenerateOutreach(ctx context.Context, req domain.OutreachRequest) domain.Result {
	runID := uuid.NewString()
	started := e.now()
	e.start(runID, "outreach")

	if f := e.checkLimiter(runID, "outreach"); f != nil {
		return e.fail(runID, "outreach", f)
	}
	if _, f := e.apiKey(ctx); f != nil {
		return e.fail(runID, "outreach", f)
	}
	if req.Counterpart.Name == "" {
		return e.fail(runID, "outreach", domain.NewFailure(domain.FailExtraction,
			"Could not identify the recipient. Please ensure you have a conversation open."))
	}

	tone := domain.ParseTone(e.setting(ctx, domain.KeyTone))
	userContext := e.setting(ctx, domain.KeyUserContext)
	customInstructions := e.setting(ctx, domain.KeyCustomInstructions)
	outreachInstructions := e.setting(ctx, domain.KeyOutreachInstructions)

	var companyResearch, personResearch, recentNews string
	researchStart := e.now()
	researchCtx, cancel := context.WithTimeout(ctx, outreachResearchTimeout)
	g, gctx := errgroup.WithContext(researchCtx)
	if req.Counterpart.Company != "" {
		g.Go(func() error {
			companyResearch = e.research.ResearchCompany(gctx, req.Counterpart.Company, userContext)
			return nil
		})
		g.Go(func() error {
			recentNews = e.research.SearchRecentNews(gctx, req.Counterpart.Company)
			return nil
		})
	}
	g.Go(func() error {
		personResearch = e.research.ResearchPerson(gctx, req.Counterpart.Name,
			req.Counterpart.Headline, req.Counterpart.Company, req.Counterpart.RoleDescription)
		return nil
	})
	g.Wait()
	cancel()
	metrics.ResearchTotal.Inc()
	metrics.ResearchLatency.Observe(e.now().Sub(researchStart).Seconds())
	e.bus.Emit(bus.Event{Type: bus.EventResearchCompleted, Source: "engine",
		Payload: map[string]any{
			"run_id":      runID,
			"has_company": companyResearch != "",
			"has_person":  personResearch != "",
			"has_news":    recentNews != "",
		}})

	e.limiter.record()
	metrics.APIRequestsTotal.Inc()

	content, err := e.provider.Invoke(ctx, domain.InvokeRequest{
		MaxTokens:      outreachMaxTokens,
		ThinkingBudget: outreachThinkingBudget,
		Prompt: prompt.OutreachUser(prompt.OutreachInput{
			Request:              req,
			CompanyResearch:      companyResearch,
			PersonResearch:       personResearch,
			RecentNews:           recentNews,
			UserContext:          userContext,
			CustomInstructions:   customInstructions,
			OutreachInstructions: outreachInstructions,
			Tone:                 tone,
		}),
	})
	if err != nil {
		f := domain.AsFailure(err)
		e.bus.Emit(bus.Event{Type: bus.EventProviderError, Source: "engine",
			Payload: map[string]any{"run_id": runID, "failure": string(f.Kind)}})
		return e.fail(runID, "outreach", f)
	}

	research := &domain.Research{
		CompanyBackground: companyResearch,
		RecentNews:        recentNews,
		PersonActivity:    personResearch,
	}

	suggestions := parse.Suggestions(content, parse.MessageBounds)
	if parse.Failed(suggestions) {
		return e.fail(runID, "outreach", domain.NewFailure(domain.FailParse,
			"Could not generate outreach suggestions. Please try again."))
	}

	metrics.GenerationLatency.Observe(e.now().Sub(started).Seconds())
	e.bus.Emit(bus.Event{Type: bus.EventSuggestionGenerated, Source: "engine",
		Payload: map[string]any{"run_id": runID, "kind": "outreach", "count": len(suggestions)}})
	e.finish(runID, "outreach", true)
	e.logger.Info("outreach generated", "run_id", runID, "suggestions", len(suggestions),
		"elapsed", e.now().Sub(started))
	return domain.Result{Suggestions: suggestions, Research: research}
}

// GenerateComment produces short comment drafts for a feed post. Comments are
// cheap single calls with no research and no local rate limiting.
func (e *Engine) GenerateComment(ctx context.Context, req domain.CommentRequest) domain.Result {
	runID := uuid.NewString()
	started := e.now()
	e.start(runID, "comment")

	if _, f := e.apiKey(ctx); f != nil {
		return e.fail(runID, "comment", f)
	}
	if req.Post.Content == "" {
		return e.fail(runID, "comment", domain.NewFailure(domain.FailExtraction,
			"Could not extract post content. Please try again."))
	}

	userContext := e.setting(ctx, domain.KeyUserContext)
	customInstructions := e.setting(ctx, domain.KeyCustomInstructions)

	metrics.APIRequestsTotal.Inc()
	content, err := e.provider.Invoke(ctx, domain.InvokeRequest{
		System:    prompt.CommentSystem(),
		MaxTokens: commentMaxTokens,
		Prompt: prompt.CommentUser(prompt.CommentInput{
			Request:            req,
			UserContext:        userContext,
			CustomInstructions: customInstructions,
		}),
	})
	if err != nil {
		f := domain.AsFailure(err)
		e.bus.Emit(bus.Event{Type: bus.EventProviderError, Source: "engine",
			Payload: map[string]any{"run_id": runID, "failure": string(f.Kind)}})
		return e.fail(runID, "comment", f)
	}

	suggestions := parse.Suggestions(content, parse.CommentBounds)
	if parse.Failed(suggestions) {
		return e.fail(runID, "comment", domain.NewFailure(domain.FailParse,
			"Could not generate comments. Please try again."))
	}

	metrics.GenerationLatency.Observe(e.now().Sub(started).Seconds())
	e.bus.Emit(bus.Event{Type: bus.EventSuggestionGenerated, Source: "engine",
		Payload: map[string]any{"run_id": runID, "kind": "comment", "count": len(suggestions)}})
	e.finish(runID, "comment", true)
	return domain.Result{Suggestions: suggestions}
}
