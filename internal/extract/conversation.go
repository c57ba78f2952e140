package extract

import (
	"fmt"
	"strings"

	"linkdraft/internal/dom"
	"linkdraft/internal/domain"
	"linkdraft/internal/selector"
)

var mEventItem = dom.MustCompile(`.msg-s-event-listitem`)

// transcriptWindow caps how much history goes into a prompt.
const transcriptWindow = 15

// Conversation extracts the full thread model: participants, messages with
// normalized timestamps, the formatted transcript, and the state summary.
func (e *Extractor) Conversation() domain.ConversationContext {
	counterpart := e.CounterpartProfile()
	self := e.SelfProfile()
	if self.Name == "" {
		self.Name = e.inferSelfName(counterpart.Name)
	}

	messages := e.messages(self, counterpart)

	ctx := domain.ConversationContext{
		Messages:          messages,
		FormattedMessages: FormatTranscript(messages, self, counterpart),
		Self:              self,
		Counterpart:       counterpart,
		MessageCount:      len(messages),
		Summary:           summarize(messages, counterpart),
	}
	if len(messages) > 0 {
		last := messages[len(messages)-1]
		ctx.LastMessageTime = last.RelativeTime
		ctx.LastMessageSender = last.Sender
	}

	e.logger.Debug("conversation extracted",
		"self", self.Name,
		"counterpart", counterpart.Name,
		"messages", len(messages),
		"last_sender", ctx.LastMessageSender)
	return ctx
}

// messages walks the thread. Message groups are preferred: each group carries
// one sender heading for a run of bubbles, which is the most reliable
// attribution the markup offers. The flat per-item walk is the fallback for
// layouts without grouping.
func (e *Extractor) messages(self, counterpart domain.UserProfile) []domain.Message {
	thread := e.res.Resolve(selector.MessageThread, nil)
	if thread == nil {
		e.logger.Debug("message thread not found")
		return nil
	}

	now := e.now()
	seps := collectDateSeparators(e.res, thread, now)

	var messages []domain.Message
	for _, group := range e.res.ResolveAll(selector.MessageGroup, thread) {
		var senderName string
		if el := e.res.Resolve(selector.MessageGroupSender, group); el != nil {
			senderName = el.Text()
		}

		isSelf := isSelfSender(senderName, self.Name, counterpart.Name)
		displayName := displayNameFor(isSelf, senderName, self, counterpart)
		dateCtx, hasCtx := dateContextFor(group, seps)

		for _, contentEl := range e.res.ResolveAll(selector.MessageContent, group) {
			content := contentEl.Text()
			if content == "" {
				continue
			}

			ts, ok := resolveStamp(e.res, group, dateCtx, hasCtx, now)
			if !ok {
				scope := contentEl.Closest(mEventItem)
				if scope == nil {
					scope = contentEl
				}
				ts, _ = resolveStamp(e.res, scope, dateCtx, hasCtx, now)
			}

			messages = append(messages, domain.Message{
				Sender:       senderFor(isSelf),
				SenderName:   displayName,
				Content:      Sanitize(content),
				RawTimestamp: ts.raw,
				RelativeTime: ts.relative,
				IsRecent:     ts.recent,
			})
		}
	}
	if len(messages) > 0 {
		return messages
	}

	for _, item := range e.res.ResolveAll(selector.MessageItem, thread) {
		contentEl := e.res.Resolve(selector.MessageContent, item)
		if contentEl == nil {
			continue
		}
		content := contentEl.Text()
		if content == "" {
			continue
		}

		selfMarked := false
		for _, m := range e.res.Table().Matchers(selector.SelfMessage) {
			if item.Matches(m) || item.Closest(m) != nil || item.Find(m) != nil {
				selfMarked = true
				break
			}
		}

		var senderName string
		if el := e.res.Resolve(selector.MessageSender, item); el != nil {
			senderName = el.Text()
		}
		isSelf := selfMarked || isSelfSender(senderName, self.Name, counterpart.Name)
		displayName := displayNameFor(isSelf, senderName, self, counterpart)

		dateCtx, hasCtx := dateContextFor(item, seps)
		ts, _ := resolveStamp(e.res, item, dateCtx, hasCtx, now)

		messages = append(messages, domain.Message{
			Sender:       senderFor(isSelf),
			SenderName:   displayName,
			Content:      Sanitize(content),
			RawTimestamp: ts.raw,
			RelativeTime: ts.relative,
			IsRecent:     ts.recent,
		})
	}
	return messages
}

func senderFor(isSelf bool) domain.Sender {
	if isSelf {
		return domain.SenderSelf
	}
	return domain.SenderOther
}

func displayNameFor(isSelf bool, senderName string, self, counterpart domain.UserProfile) string {
	if isSelf {
		if self.Name != "" {
			return self.Name
		}
		return "Me"
	}
	if senderName != "" {
		return senderName
	}
	if counterpart.Name != "" {
		return counterpart.Name
	}
	return "Them"
}

// FormatTranscript renders the last messages as the bracketed transcript the
// prompt builders embed. Sender changes get a blank line so turns read
// clearly.
func FormatTranscript(messages []domain.Message, self, counterpart domain.UserProfile) string {
	if len(messages) == 0 {
		return "No messages in conversation yet."
	}

	myName := self.Name
	if myName == "" {
		myName = "ME"
	}
	theirName := counterpart.Name
	if theirName == "" {
		theirName = "THEM"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[Conversation between %s and %s]\n\n", myName, theirName)

	window := messages
	if len(window) > transcriptWindow {
		window = window[len(window)-transcriptWindow:]
	}

	var lastSender domain.Sender
	for i, msg := range window {
		if i > 0 && msg.Sender != lastSender {
			b.WriteString("\n")
		}
		label := theirName
		if msg.Sender == domain.SenderSelf {
			label = myName
		}
		if msg.RelativeTime != "" {
			fmt.Fprintf(&b, "[%s] (%s): %s\n", label, msg.RelativeTime, msg.Content)
		} else {
			fmt.Fprintf(&b, "[%s]: %s\n", label, msg.Content)
		}
		lastSender = msg.Sender
	}

	return strings.TrimRight(b.String(), "\n")
}

// summarize renders the conversation-state line used by prompts and the UI.
func summarize(messages []domain.Message, counterpart domain.UserProfile) string {
	if len(messages) == 0 {
		return "New conversation - no messages yet."
	}

	theirName := counterpart.Name
	if theirName == "" {
		theirName = "The other person"
	}

	last := messages[len(messages)-1]
	var b strings.Builder
	if last.Sender == domain.SenderOther {
		b.WriteString(theirName + " sent the last message")
		if last.RelativeTime != "" {
			fmt.Fprintf(&b, " (%s)", last.RelativeTime)
		}
		b.WriteString(". Awaiting your reply. ")
	} else {
		b.WriteString("You sent the last message")
		if last.RelativeTime != "" {
			fmt.Fprintf(&b, " (%s)", last.RelativeTime)
		}
		b.WriteString(". ")
	}

	mine, theirs, recent := 0, 0, 0
	for _, m := range messages {
		if m.Sender == domain.SenderSelf {
			mine++
		} else {
			theirs++
		}
		if m.IsRecent {
			recent++
		}
	}
	fmt.Fprintf(&b, "Conversation has %d messages (%d from you, %d from %s).",
		len(messages), mine, theirs, theirName)
	if recent > 0 {
		b.WriteString(" Active conversation.")
	}

	return b.String()
}
