package domain

// Action is the enumerated intent behind a generation request.
type Action string

const (
	ActionReply           Action = "reply"
	ActionFollowUp        Action = "follow_up"
	ActionScheduleMeeting Action = "schedule_meeting"
	ActionOutreach        Action = "outreach"
	ActionCustom          Action = "custom"

	ActionCommentSupportive   Action = "comment_supportive"
	ActionCommentInsightful   Action = "comment_insightful"
	ActionCommentQuestion     Action = "comment_question"
	ActionCommentCongratulate Action = "comment_congratulate"
	ActionCommentCustom       Action = "comment_custom"
)

// IsComment reports whether the action belongs to the comment family.
func (a Action) IsComment() bool {
	switch a {
	case ActionCommentSupportive, ActionCommentInsightful, ActionCommentQuestion,
		ActionCommentCongratulate, ActionCommentCustom:
		return true
	}
	return false
}

// CommentType is the comment-family suffix ("supportive", "custom", ...),
// or "" for non-comment actions.
func (a Action) CommentType() string {
	if !a.IsComment() {
		return ""
	}
	return string(a)[len("comment_"):]
}

// Tone selects the voice used for generated text.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneFriendly     Tone = "friendly"
	ToneCasual       Tone = "casual"
)

// ParseTone returns a valid tone, falling back to professional.
func ParseTone(s string) Tone {
	switch Tone(s) {
	case ToneFriendly:
		return ToneFriendly
	case ToneCasual:
		return ToneCasual
	default:
		return ToneProfessional
	}
}
