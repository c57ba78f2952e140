package domain

// Sender identifies which side of a conversation authored a message.
type Sender string

const (
	SenderSelf  Sender = "self"
	SenderOther Sender = "other"
)

// UserProfile holds whatever identity fields extraction managed to resolve.
// Every field is optional; consumers must tolerate empty values.
type UserProfile struct {
	Name            string `json:"name,omitempty"`
	Headline        string `json:"headline,omitempty"`
	ProfileURL      string `json:"profileUrl,omitempty"`
	Company         string `json:"company,omitempty"`
	RoleDescription string `json:"roleDescription,omitempty"`
}

// Message is a single normalized message extracted from a thread, oldest-first
// in any sequence it appears in.
type Message struct {
	Sender       Sender `json:"sender"`
	SenderName   string `json:"senderName"`
	Content      string `json:"content"`
	RawTimestamp string `json:"timestamp,omitempty"`
	RelativeTime string `json:"relativeTime,omitempty"`
	IsRecent     bool   `json:"isRecent"`
}

// ConversationContext is the full extracted model of an on-screen thread.
// Built fresh on every trigger; never cached across runs.
type ConversationContext struct {
	Messages          []Message   `json:"messages"`
	FormattedMessages string      `json:"formattedMessages"`
	Self              UserProfile `json:"currentUser"`
	Counterpart       UserProfile `json:"recipient"`
	MessageCount      int         `json:"messageCount"`
	LastMessageTime   string      `json:"lastMessageTime,omitempty"`
	LastMessageSender Sender      `json:"lastMessageSender,omitempty"`
	Summary           string      `json:"summary"`
}

// PostKind classifies a feed post by its dominant media.
type PostKind string

const (
	PostText        PostKind = "text"
	PostImage       PostKind = "image"
	PostVideo       PostKind = "video"
	PostArticle     PostKind = "article"
	PostCelebration PostKind = "celebration"
)

// PostContext is the extracted model of a feed post being commented on.
type PostContext struct {
	AuthorName     string   `json:"authorName,omitempty"`
	AuthorHeadline string   `json:"authorHeadline,omitempty"`
	Content        string   `json:"postContent"`
	Kind           PostKind `json:"postType"`
}
