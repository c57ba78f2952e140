package dom

import (
	"fmt"
	"strings"
)

// Matcher is one compiled structural pattern. The supported grammar is the
// subset the selector tables actually use: tag names, #id, .class,
// [attr], [attr=v], [attr*=v], [attr^=v], [attr$=v], compound simple
// selectors, and the descendant combinator.
type Matcher struct {
	raw   string
	chain []compound // descendant chain, subject last
}

type compound struct {
	tag   string
	conds []cond
}

type cond struct {
	attr string
	op   byte // 'h' present, '=' exact, '*' substring, '^' prefix, '$' suffix, 'w' whitespace-word
	val  string
}

// Compile parses a selector string. Invalid patterns fail here so tables are
// validated at load time, never during a query.
func Compile(sel string) (*Matcher, error) {
	fields := strings.Fields(sel)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty selector")
	}
	m := &Matcher{raw: sel}
	for _, f := range fields {
		c, err := compileCompound(f)
		if err != nil {
			return nil, fmt.Errorf("selector %q: %w", sel, err)
		}
		m.chain = append(m.chain, c)
	}
	return m, nil
}

// MustCompile is Compile for static tables.
func MustCompile(sel string) *Matcher {
	m, err := Compile(sel)
	if err != nil {
		panic(err)
	}
	return m
}

// String returns the source selector text.
func (m *Matcher) String() string { return m.raw }

func compileCompound(s string) (compound, error) {
	var c compound
	i := 0
	readName := func() string {
		start := i
		for i < len(s) && (isNameByte(s[i])) {
			i++
		}
		return s[start:i]
	}
	for i < len(s) {
		switch s[i] {
		case '.':
			i++
			name := readName()
			if name == "" {
				return c, fmt.Errorf("empty class at %q", s)
			}
			c.conds = append(c.conds, cond{attr: "class", op: 'w', val: name})
		case '#':
			i++
			name := readName()
			if name == "" {
				return c, fmt.Errorf("empty id at %q", s)
			}
			c.conds = append(c.conds, cond{attr: "id", op: '=', val: name})
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return c, fmt.Errorf("unterminated attribute at %q", s)
			}
			body := s[i+1 : i+end]
			i += end + 1
			cc, err := compileAttr(body)
			if err != nil {
				return c, err
			}
			c.conds = append(c.conds, cc)
		default:
			if !isNameByte(s[i]) {
				return c, fmt.Errorf("unexpected %q in %q", s[i], s)
			}
			if c.tag != "" || len(c.conds) > 0 {
				return c, fmt.Errorf("misplaced tag name in %q", s)
			}
			c.tag = strings.ToLower(readName())
		}
	}
	if c.tag == "" && len(c.conds) == 0 {
		return c, fmt.Errorf("empty compound in %q", s)
	}
	return c, nil
}

func compileAttr(body string) (cond, error) {
	for _, op := range []struct {
		tok string
		b   byte
	}{{"*=", '*'}, {"^=", '^'}, {"$=", '$'}, {"=", '='}} {
		if idx := strings.Index(body, op.tok); idx > 0 {
			val := strings.Trim(body[idx+len(op.tok):], `"'`)
			return cond{attr: strings.TrimSpace(body[:idx]), op: op.b, val: val}, nil
		}
	}
	name := strings.TrimSpace(body)
	if name == "" {
		return cond{}, fmt.Errorf("empty attribute selector")
	}
	return cond{attr: name, op: 'h'}, nil
}

func isNameByte(b byte) bool {
	return b == '-' || b == '_' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// matches reports whether n is a subject of the full descendant chain.
func (m *Matcher) matches(n *Node) bool {
	last := len(m.chain) - 1
	if !m.chain[last].matches(n) {
		return false
	}
	anc := n.Parent()
	for i := last - 1; i >= 0; i-- {
		for {
			if anc == nil {
				return false
			}
			if m.chain[i].matches(anc) {
				anc = anc.Parent()
				break
			}
			anc = anc.Parent()
		}
	}
	return true
}

func (c compound) matches(n *Node) bool {
	if n.Tag() == "" {
		return false
	}
	if c.tag != "" && n.Tag() != c.tag {
		return false
	}
	for _, cc := range c.conds {
		v, ok := n.Attr(cc.attr)
		if !ok {
			return false
		}
		switch cc.op {
		case 'h':
			// presence is enough
		case '=':
			if v != cc.val {
				return false
			}
		case '*':
			if !strings.Contains(v, cc.val) {
				return false
			}
		case '^':
			if !strings.HasPrefix(v, cc.val) {
				return false
			}
		case '$':
			if !strings.HasSuffix(v, cc.val) {
				return false
			}
		case 'w':
			if !hasWord(v, cc.val) {
				return false
			}
		}
	}
	return true
}

func hasWord(list, word string) bool {
	for _, w := range strings.Fields(list) {
		if w == word {
			return true
		}
	}
	return false
}
