package language

import "testing"

func TestFromProfile(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"", "English"},
		{"Senior Software Engineer at a fintech startup", "English"},
		{"und der die das ist für", "German"},
		{"Responsable du développement pour les équipes avec une vision", "French"},
		{"Ingeniero de software con experiencia en sistemas para empresas", "Spanish"},
		// Two hits are below threshold; stays English.
		{"und der laptop", "English"},
	}
	for _, c := range cases {
		if got := FromProfile(c.text); got != c.want {
			t.Errorf("FromProfile(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}

func TestFromPost(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"The quick brown fox jumps over the lazy dog", "English"},
		{"Hallo zusammen, vielen Dank für die Unterstützung", "German"},
		{"Bonjour et merci pour cette belle aventure avec vous", "French"},
	}
	for _, c := range cases {
		if got := FromPost(c.text); got != c.want {
			t.Errorf("FromPost(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}
