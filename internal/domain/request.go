package domain

// ReplyRequest carries the extracted conversation context for the reply,
// follow-up, schedule-meeting and custom actions.
type ReplyRequest struct {
	ConversationHistory  string      `json:"conversationHistory"`
	ConversationSummary  string      `json:"conversationSummary"`
	Self                 UserProfile `json:"currentUser"`
	Counterpart          UserProfile `json:"recipient"`
	LastMessageSender    Sender      `json:"lastMessageSender,omitempty"`
	LastMessageTime      string      `json:"lastMessageTime,omitempty"`
	IsActiveConversation bool        `json:"isActiveConversation"`
	Action               Action      `json:"actionType"`
	CustomPrompt         string      `json:"customPrompt,omitempty"`
}

// OutreachRequest carries the profile pair for a cold first message.
type OutreachRequest struct {
	Self         UserProfile `json:"currentUser"`
	Counterpart  UserProfile `json:"recipient"`
	CustomPrompt string      `json:"customPrompt,omitempty"`
}

// CommentRequest carries a feed post and the comment sub-type.
type CommentRequest struct {
	Post         PostContext `json:"post"`
	Action       Action      `json:"commentType"`
	CustomPrompt string      `json:"customPrompt,omitempty"`
}

// Research holds whatever optional lookups completed before the join deadline.
// Missing fields were unavailable or too slow and are simply omitted.
type Research struct {
	CompanyBackground string `json:"company,omitempty"`
	RecentNews        string `json:"recentNews,omitempty"`
	PersonActivity    string `json:"person,omitempty"`
}

// Result is the outcome of one generation pipeline. Err is always a soft
// failure: Suggestions is empty and the message is surfaced to the operator.
type Result struct {
	Suggestions []string  `json:"suggestions"`
	Research    *Research `json:"research,omitempty"`
	Err         *Failure  `json:"-"`
}
