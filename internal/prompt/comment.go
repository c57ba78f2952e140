package prompt

import (
	"fmt"
	"strings"

	"linkdraft/internal/domain"
	"linkdraft/internal/language"
)

var commentTypeInstructions = map[string]string{
	"supportive": `Generate a casual, supportive one-liner:
- Quick and genuine reaction
- Like texting a friend about something cool they shared`,
	"insightful": `Generate a casual one-liner that adds a quick thought:
- Brief perspective or "same here" vibe
- Conversational, not preachy`,
	"question": `Generate a casual curious question:
- Quick genuine question, like asking a friend
- Not formal or interview-style`,
	"congratulate": `Generate a casual congrats one-liner:
- Quick celebratory reaction
- Like high-fiving a colleague`,
	"custom": "Follow the specific custom instruction provided, but keep it casual and brief.",
}

// CommentSystem renders the system prompt for comment generation. Comments
// get their own register: short, specific, and aggressively de-corporate.
func CommentSystem() string {
	return `You generate casual LinkedIn comment one-liners.

STYLE: Casual, conversational, like texting a work friend. NOT corporate-speak.

RULES:
- Generate exactly 3 options
- ONE LINE ONLY. Max 10-15 words. Seriously, keep it short.
- Sound like a real person, not a LinkedIn influencer
- No emojis (unless the post has them)
- No hashtags
- No "Great post!", "Love this!", "This is so true!" - these are banned
- No "This resonates with me" or "I couldn't agree more" - too formal
- Be specific to what they actually said
- Match their energy - if they're casual, be casual
- IMPORTANT: Match the language of the post. If the post is in German, comment in German. Same for any other language.

GOOD EXAMPLES:
- "ha, learned this the hard way last quarter"
- "the second point is underrated tbh"
- "we ran into the same thing, ended up just rebuilding it"
- "curious how you handled the timeline on this?"

BAD EXAMPLES (don't do these):
- "What a fantastic insight! This really resonates with my experience in the industry."
- "Congratulations on this well-deserved achievement! Your hard work is truly inspiring."
- "Great post! Thanks for sharing your valuable perspective."

OUTPUT: Return ONLY a JSON array: ["comment 1", "comment 2", "comment 3"]`
}

// CommentInput bundles the post context and settings for the comment prompt.
type CommentInput struct {
	Request            domain.CommentRequest
	UserContext        string
	CustomInstructions string
}

// CommentUser renders the user prompt for comment generation.
func CommentUser(in CommentInput) string {
	post := in.Request.Post
	commentType := in.Request.Action.CommentType()
	var lines []string
	push := func(s string) { lines = append(lines, s) }

	push(fmt.Sprintf("=== GENERATE %s COMMENT ===\n", strings.ToUpper(commentType)))
	if instr, ok := commentTypeInstructions[commentType]; ok {
		push(instr)
	} else {
		push(commentTypeInstructions["supportive"])
	}
	push("")

	if commentType == "custom" && in.Request.CustomPrompt != "" {
		push("CUSTOM INSTRUCTION: " + in.Request.CustomPrompt)
		push("")
	}

	if uc := strings.TrimSpace(in.UserContext); uc != "" {
		push("=== ABOUT ME (the commenter) ===")
		push(uc)
		push("")
	}

	if ci := strings.TrimSpace(in.CustomInstructions); ci != "" {
		push("=== MY RULES (always follow these) ===")
		push(ci)
		push("")
	}

	push("=== POST DETAILS ===")
	if post.AuthorName != "" {
		push("Author: " + post.AuthorName)
	}
	if post.AuthorHeadline != "" {
		push("Author Role: " + post.AuthorHeadline)
	}
	if post.Kind != domain.PostText {
		push("Post Type: " + string(post.Kind))
	}
	push("")
	push("=== POST CONTENT ===")
	push(post.Content)
	push("")

	detected := language.FromPost(post.Content)
	if detected != "English" {
		push("=== LANGUAGE ===")
		push(fmt.Sprintf("The post is in %s. You MUST write ALL comments in %s.", detected, detected))
		push("")
	}

	closing := "Generate 3 casual one-liner comments (max 10-15 words each) as a JSON array."
	if detected != "English" {
		closing += fmt.Sprintf(" Write ALL comments in %s.", detected)
	}
	push(closing)

	return strings.Join(lines, "\n")
}
