package menu

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Tree is a read-only view of a parsed menu page, or of one scoped region of
// it. A region is a run of sibling nodes; searches cover the nodes themselves
// and all of their descendants, in document order.
type Tree struct {
	roots *goquery.Selection
}

// NewTree wraps a parsed document. A nil document yields a nil Tree.
func NewTree(doc *goquery.Document) *Tree {
	if doc == nil {
		return nil
	}
	return &Tree{roots: doc.Selection}
}

// Parse reads an HTML document into a Tree.
func Parse(r io.Reader) (*Tree, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return NewTree(doc), nil
}

// ParseString parses an HTML string into a Tree.
func ParseString(s string) (*Tree, error) {
	return Parse(strings.NewReader(s))
}

// FindAll returns every node in the tree matching selector, in document order.
func (t *Tree) FindAll(selector string) *goquery.Selection {
	var nodes []*html.Node
	t.roots.Each(func(_ int, root *goquery.Selection) {
		if root.Is(selector) {
			nodes = append(nodes, root.Nodes...)
		}
		nodes = append(nodes, root.Find(selector).Nodes...)
	})
	return t.selection(nodes)
}

// selection wraps nodes in a new selection. The root selection's backing
// array is never reused, so the tree is left as it was.
func (t *Tree) selection(nodes []*html.Node) *goquery.Selection {
	sel := t.roots.Slice(0, 0)
	sel.Nodes = nil
	return sel.AddNodes(nodes...)
}

// Text returns the whole tree's text, line structure preserved.
func (t *Tree) Text() string {
	return Text(t.roots)
}

// Scope narrows the tree to the region that starts at the first content
// node (matching selector, DefaultAnchorSelector when empty) whose text
// contains scope caselessly, and runs through that node's following siblings.
// When the node is the last of its siblings the region starts at its closest
// ancestor that has following siblings. ok is false when no content node
// names scope.
func (t *Tree) Scope(scope, selector string) (*Tree, bool) {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return t, true
	}

	var start *html.Node
	for _, n := range t.FindAll(or(selector, DefaultAnchorSelector)).Nodes {
		if containsFold(nodeText(n), scope) {
			start = n
			break
		}
	}
	if start == nil {
		return nil, false
	}

	for nextElement(start) == nil && !slices.Contains(t.roots.Nodes, start) {
		p := start.Parent
		if p == nil || p.Type != html.ElementNode || p.Data == "body" || p.Data == "html" {
			break
		}
		start = p
	}

	nodes := []*html.Node{start}
	for n := nextElement(start); n != nil; n = nextElement(n) {
		nodes = append(nodes, n)
	}
	return &Tree{roots: t.selection(nodes)}, true
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	writeText(&b, n)
	return cleanLines(b.String())
}

func nextElement(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}
