package paste

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gubarz/stepnotes/internal/markup"
)

var droppedAtoms = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Style:    true,
	atom.Script:   true,
	atom.Meta:     true,
	atom.Title:    true,
	atom.Link:     true,
	atom.Template: true,
	atom.Noscript: true,
}

var blockAtoms = map[atom.Atom]bool{
	atom.P:          true,
	atom.Div:        true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Blockquote: true,
	atom.Section:    true,
	atom.Article:    true,
	atom.Header:     true,
	atom.Footer:     true,
	atom.Table:      true,
	atom.Tr:         true,
	atom.Dl:         true,
	atom.Dt:         true,
	atom.Dd:         true,
	atom.Figure:     true,
	atom.Pre:        true,
}

// listFrame is one open <ul> or <ol>.
type listFrame struct {
	ordered bool
	next    int
}

// folder flattens an HTML tree into dialect lines.
type folder struct {
	buf       []byte
	lists     []listFrame
	markerEnd int
	pre       int
}

// foldHTML reports false when src has no text outside styles and comments.
func foldHTML(src string) (string, bool) {
	if strings.TrimSpace(src) == "" {
		return "", false
	}
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return "", false
	}

	f := &folder{markerEnd: -1}
	f.walk(doc)
	out := string(f.buf)
	if strings.TrimSpace(out) == "" {
		return "", false
	}
	return out, true
}

func (f *folder) walk(n *html.Node) {
	switch n.Type {
	case html.CommentNode, html.DoctypeNode:
		return
	case html.TextNode:
		f.text(n.Data)
		return
	case html.ElementNode:
		if droppedAtoms[n.DataAtom] || n.Data == "xml" {
			return
		}
		switch n.DataAtom {
		case atom.Br:
			f.newline()
			return
		case atom.Hr:
			f.endLine()
			f.buf = append(f.buf, markup.DividerText+"\n"...)
			return
		case atom.Ul, atom.Ol:
			f.endLine()
			f.lists = append(f.lists, listFrame{ordered: n.DataAtom == atom.Ol, next: listStart(n)})
			f.children(n)
			f.lists = f.lists[:len(f.lists)-1]
			f.endLine()
			return
		case atom.Li:
			f.endLine()
			f.buf = append(f.buf, f.marker()...)
			f.markerEnd = len(f.buf)
			f.children(n)
			f.finishLine()
			return
		case atom.Td, atom.Th:
			f.children(n)
			f.text(" ")
			return
		}
		if blockAtoms[n.DataAtom] {
			if n.DataAtom == atom.Pre {
				f.pre++
				defer func() { f.pre-- }()
			}
			f.endLine()
			f.children(n)
			f.endLine()
			return
		}
	}
	f.children(n)
}

func (f *folder) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		f.walk(c)
	}
}

func (f *folder) marker() string {
	if len(f.lists) == 0 {
		return markup.BulletMarker
	}
	level := markup.ClampIndent(len(f.lists) - 1)
	top := &f.lists[len(f.lists)-1]
	if !top.ordered {
		return markup.BulletPrefix(level)
	}
	n := top.next
	top.next++
	return markup.NumberPrefix(level, n)
}

func listStart(n *html.Node) int {
	for _, a := range n.Attr {
		if a.Key == "start" {
			if v, err := strconv.Atoi(strings.TrimSpace(a.Val)); err == nil {
				return v
			}
		}
	}
	return 1
}

func (f *folder) text(s string) {
	if f.pre > 0 {
		f.buf = append(f.buf, s...)
		return
	}
	s = collapseSpace(s)
	if s == "" {
		return
	}
	if f.atLineStart() || f.buf[len(f.buf)-1] == ' ' {
		s = strings.TrimLeft(s, " ")
	}
	f.buf = append(f.buf, s...)
}

func (f *folder) atLineStart() bool {
	return len(f.buf) == 0 || f.buf[len(f.buf)-1] == '\n'
}

// fresh is true at a line start or right after a list marker.
func (f *folder) fresh() bool {
	return f.atLineStart() || len(f.buf) == f.markerEnd
}

func (f *folder) newline() {
	for len(f.buf) > 0 && f.buf[len(f.buf)-1] == ' ' {
		f.buf = f.buf[:len(f.buf)-1]
	}
	f.buf = append(f.buf, '\n')
}

func (f *folder) endLine() {
	if !f.fresh() {
		f.newline()
	}
}

func (f *folder) finishLine() {
	if !f.atLineStart() {
		f.newline()
	}
	f.markerEnd = -1
}

// collapseSpace folds HTML whitespace runs into single spaces.
func collapseSpace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			if !space {
				b.WriteByte(' ')
			}
			space = true
		default:
			b.WriteRune(r)
			space = false
		}
	}
	return b.String()
}
