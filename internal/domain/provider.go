package domain

import "context"

// InvokeRequest describes one call to the completion service.
type InvokeRequest struct {
	System         string // optional system prompt
	Prompt         string // user prompt
	MaxTokens      int
	ThinkingBudget int  // 0 disables extended thinking
	WebSearch      bool // attach the server-side web_search tool
	MaxSearchUses  int
}

// CompletionService is the outbound boundary to the remote text-completion
// API. Implementations return *Failure errors so callers can map failures to
// user-facing categories without inspecting status codes.
type CompletionService interface {
	Invoke(ctx context.Context, req InvokeRequest) (string, error)
}

// SettingsStore is the operator-facing key-value configuration capability.
// Absent keys yield "" and a nil error.
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	List(ctx context.Context) (map[string]string, error)
}

// Keys consumed from the settings store.
const (
	KeyAPIKey               = "api_key"
	KeyTone                 = "tone"
	KeyUserContext          = "user_context"
	KeyCustomInstructions   = "custom_instructions"
	KeyOutreachInstructions = "outreach_instructions"
	KeyMeetingLink          = "meeting_link"
	KeyGatewayAddr          = "gateway_addr"
)
