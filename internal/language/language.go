// Package language guesses the dominant language of extracted text so
// generated drafts come back in the language the other person writes in.
// Detection is a frequency count of common function words; it only needs to
// separate the handful of languages the word lists cover, and defaults to
// English on any weak signal.
package language

import "regexp"

const defaultLanguage = "English"

// matchThreshold is the minimum word hits before a non-English call is made.
const matchThreshold = 3

type pattern struct {
	lang string
	re   *regexp.Regexp
}

// profilePatterns scores profile and headline text, which reads formally.
var profilePatterns = []pattern{
	{"German", regexp.MustCompile(`(?i)\b(und|der|die|das|ist|für|mit|bei|von|auf|nicht|ein|eine|auch|als|nach|werden|oder|haben|sich|wird|sind|wurde|können|mehr|über|zum|zur)\b`)},
	{"French", regexp.MustCompile(`(?i)\b(et|le|la|les|de|du|des|est|pour|avec|dans|sur|pas|un|une|que|qui|nous|vous|sont|cette|peut|plus|être|fait|aussi)\b`)},
	{"Spanish", regexp.MustCompile(`(?i)\b(el|la|los|las|de|del|en|que|es|para|con|por|un|una|son|está|más|como|pero|sus|sobre|tiene|puede|hace|este|esta)\b`)},
	{"Dutch", regexp.MustCompile(`(?i)\b(de|het|een|van|en|in|is|op|te|voor|met|zijn|dat|wordt|ook|aan|door|naar|maar|bij|uit|om|kan|niet|worden)\b`)},
	{"Italian", regexp.MustCompile(`(?i)\b(il|la|di|che|è|per|un|una|sono|con|non|da|del|della|più|come|anche|questo|questa|essere|fatto|può|suoi|sua)\b`)},
	{"Portuguese", regexp.MustCompile(`(?i)\b(o|a|os|as|de|da|do|que|é|para|um|uma|com|por|são|está|mais|como|mas|seu|sua|pode|também|sobre|este|esta)\b`)},
}

// postPatterns scores post and comment text, so the lists also carry common
// greetings and thanks.
var postPatterns = []pattern{
	{"German", regexp.MustCompile(`(?i)\b(und|der|die|das|ist|für|mit|bei|von|auf|nicht|ein|eine|auch|als|nach|werden|oder|haben|sich|wird|sind|wurde|können|mehr|über|zum|zur|hallo|grüße|vielen|dank|bitte|gerne|freuen)\b`)},
	{"French", regexp.MustCompile(`(?i)\b(et|le|la|les|de|du|des|est|pour|avec|dans|sur|pas|un|une|que|qui|nous|vous|sont|cette|peut|plus|être|fait|aussi|bonjour|merci|cordialement)\b`)},
	{"Spanish", regexp.MustCompile(`(?i)\b(el|la|los|las|de|del|en|que|es|para|con|por|un|una|son|está|más|como|pero|sus|sobre|tiene|puede|hola|gracias|buenas)\b`)},
	{"Dutch", regexp.MustCompile(`(?i)\b(de|het|een|van|en|in|is|op|te|voor|met|zijn|dat|wordt|ook|aan|door|naar|maar|bij|uit|om|kan|niet|worden|bedankt|groeten)\b`)},
	{"Italian", regexp.MustCompile(`(?i)\b(il|la|di|che|è|per|un|una|sono|con|non|da|del|della|più|come|anche|questo|questa|essere|ciao|grazie|buongiorno)\b`)},
	{"Portuguese", regexp.MustCompile(`(?i)\b(o|a|os|as|de|da|do|que|é|para|um|uma|com|por|são|está|mais|como|mas|seu|sua|pode|olá|obrigado|obrigada)\b`)},
}

func detect(text string, patterns []pattern) string {
	if text == "" {
		return defaultLanguage
	}
	best := defaultLanguage
	bestCount := 0
	for _, p := range patterns {
		count := len(p.re.FindAllString(text, -1))
		if count > bestCount {
			best = p.lang
			bestCount = count
		}
	}
	if bestCount >= matchThreshold {
		return best
	}
	return defaultLanguage
}

// FromProfile detects the language of profile text (headline, about, role).
func FromProfile(text string) string { return detect(text, profilePatterns) }

// FromPost detects the language of a feed post or comment thread.
func FromPost(text string) string { return detect(text, postPatterns) }
