// Package prompt assembles the system and user prompts for every generation
// action. Section order is deliberate: instructions first, identities next,
// research in the middle, the transcript last, and the output-format line at
// the very end where models weight it most.
package prompt

import "linkdraft/internal/domain"

var toneDescriptions = map[domain.Tone]string{
	domain.ToneProfessional: "formal and business-appropriate, using proper grammar and professional language",
	domain.ToneFriendly:     "warm and personable while still being appropriate for professional networking",
	domain.ToneCasual:       "relaxed and conversational, like messaging a colleague you know well",
}

var toneGuidelines = map[domain.Tone][]string{
	domain.ToneProfessional: {
		"Use complete sentences with proper punctuation",
		"Avoid contractions when possible",
		"Be respectful and courteous",
		"Focus on value and professionalism",
	},
	domain.ToneFriendly: {
		"Use a warm, approachable tone",
		"Contractions are fine",
		"Show genuine interest",
		"Be personable but professional",
	},
	domain.ToneCasual: {
		"Keep it conversational",
		"Short, punchy sentences are okay",
		"Feel free to use light humor if appropriate",
		"Match their energy level",
	},
}

// Outreach prompts use a compressed variant of the tone wording.
var toneShortDescriptions = map[domain.Tone]string{
	domain.ToneProfessional: "formal and business-appropriate",
	domain.ToneFriendly:     "warm and personable while still professional",
	domain.ToneCasual:       "relaxed and conversational",
}
