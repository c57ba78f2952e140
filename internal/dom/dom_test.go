package dom

import "testing"

const sampleHTML = `<html><body>
<div class="msg-s-message-list other-class">
  <div class="msg-s-message-group" data-sender-type="self">
    <span class="msg-s-message-group__name">Jordan Lee</span>
    <p class="msg-s-event-listitem__body">hello there</p>
    <time datetime="2025-10-01T10:00:00Z">10:00 AM</time>
  </div>
  <div class="msg-s-message-group">
    <span class="msg-s-message-group__name">Alex Kim</span>
    <p class="msg-s-event-listitem__body">hi!</p>
  </div>
</div>
<a href="https://www.linkedin.com/in/alex-kim">Alex Kim</a>
</body></html>`

func mustParse(t *testing.T, page string, detached ...string) *Document {
	t.Helper()
	doc, err := Parse(page, detached...)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestFindByClass(t *testing.T) {
	doc := mustParse(t, sampleHTML)
	n := doc.Root.Find(MustCompile(".msg-s-message-list"))
	if n == nil {
		t.Fatal("expected thread container")
	}
	groups := n.FindAll(MustCompile(".msg-s-message-group"))
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
}

func TestAttrSubstringMatch(t *testing.T) {
	doc := mustParse(t, sampleHTML)
	groups := doc.Root.FindAll(MustCompile(`[class*=msg-s-message-group]`))
	// matches the groups themselves plus their __name spans
	if len(groups) != 4 {
		t.Fatalf("expected 4 substring matches, got %d", len(groups))
	}
}

func TestDescendantChain(t *testing.T) {
	doc := mustParse(t, sampleHTML)
	n := doc.Root.Find(MustCompile(".msg-s-message-group time"))
	if n == nil {
		t.Fatal("expected time inside group")
	}
	if v, _ := n.Attr("datetime"); v != "2025-10-01T10:00:00Z" {
		t.Fatalf("unexpected datetime %q", v)
	}
}

func TestAttrExactAndHref(t *testing.T) {
	doc := mustParse(t, sampleHTML)
	if doc.Root.Find(MustCompile(`[data-sender-type=self]`)) == nil {
		t.Fatal("expected data-sender-type=self node")
	}
	link := doc.Root.Find(MustCompile(`a[href*=/in/]`))
	if link == nil || link.Text() != "Alex Kim" {
		t.Fatalf("expected profile link, got %v", link)
	}
}

func TestClosestAndMatches(t *testing.T) {
	doc := mustParse(t, sampleHTML)
	body := doc.Root.Find(MustCompile(".msg-s-event-listitem__body"))
	if body == nil {
		t.Fatal("expected body node")
	}
	group := body.Closest(MustCompile(".msg-s-message-group"))
	if group == nil {
		t.Fatal("expected enclosing group")
	}
	if !group.Matches(MustCompile("div.msg-s-message-group")) {
		t.Fatal("group should match its own selector")
	}
}

func TestDocumentOrderPositions(t *testing.T) {
	doc := mustParse(t, sampleHTML)
	groups := doc.Root.FindAll(MustCompile(".msg-s-message-group"))
	if groups[0].Pos() >= groups[1].Pos() {
		t.Fatalf("positions not increasing: %d vs %d", groups[0].Pos(), groups[1].Pos())
	}
}

func TestDetachedSubtrees(t *testing.T) {
	doc := mustParse(t, `<html><body><p>nothing here</p></body></html>`,
		`<div class="msg-overlay-conversation-bubble"><span class="pill">Sam Doe</span></div>`)
	if doc.Root.Find(MustCompile(".pill")) != nil {
		t.Fatal("pill must not appear in the primary tree")
	}
	if len(doc.Detached) != 1 {
		t.Fatalf("expected 1 detached subtree, got %d", len(doc.Detached))
	}
	if doc.Detached[0].Find(MustCompile(".pill")) == nil {
		t.Fatal("expected pill in detached subtree")
	}
}

func TestCompileRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "[unclosed", "..", "div>span"} {
		if _, err := Compile(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestTextTrimsWhitespace(t *testing.T) {
	doc := mustParse(t, `<html><body><h2>  New message
	</h2></body></html>`)
	h := doc.Root.Find(MustCompile("h2"))
	if h.Text() != "New message" {
		t.Fatalf("unexpected text %q", h.Text())
	}
}
