package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"skynet/src/core/knowledge"
)

// ParsedArticle holds the text extracted from one publication page,
// keyed by canonical section.
type ParsedArticle struct {
	Abstract         string
	Sections         map[string]string
	Funding          string
	Acknowledgements string
}

// sectionAliases maps heading fragments to canonical section tags.
// Matching is substring based and stops at the first hit, so the order
// of entries matters.
var sectionAliases = []struct {
	canon string
	keys  []string
}{
	{"abstract", []string{"abstract", "summary"}},
	{"introduction", []string{"introduction", "background"}},
	{"methods", []string{"methods", "materials", "materials and methods", "methodology", "protocol", "procedures"}},
	{"results", []string{"results", "findings"}},
	{"discussion", []string{"discussion"}},
	{"conclusion", []string{"conclusion", "conclusions", "general outcomes", "outcomes"}},
	{"acknowledgements", []string{"acknowledgements", "acknowledgments"}},
	{"funding", []string{"funding statement", "funding", "financial support", "funding sources", "grants", "sponsor"}},
	{"references", []string{"references", "bibliography", "reference list"}},
}

var fundingPattern = regexp.MustCompile(`(?i)\b(fund|funding|supported by|grant|award)\b`)

// CanonicalSection normalizes a heading to its canonical section tag,
// falling back to "other" when no alias matches.
func CanonicalSection(title string) string {
	t := strings.ToLower(title)
	for _, alias := range sectionAliases {
		for _, key := range alias.keys {
			if strings.Contains(t, key) {
				return alias.canon
			}
		}
	}
	return "other"
}

// ParseArticle extracts the abstract, the body sections under h2/h3
// headings, and funding and acknowledgement sentences from a PMC article
// page. Pages without recognizable structure land whole under "other".
func ParseArticle(source string) (*ParsedArticle, error) {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	parsed := &ParsedArticle{Sections: make(map[string]string)}

	if ab := findNode(doc, isAbstractNode); ab != nil {
		parsed.Abstract = abstractText(ab)
	}

	main := findNode(doc, func(n *html.Node) bool { return isElement(n, "article") })
	if main == nil {
		main = doc
	}

	sections := make(map[string][]string)
	for _, header := range collectNodes(main, isHeading) {
		var texts []string
		for sib := header.NextSibling; sib != nil; sib = sib.NextSibling {
			if isHeading(sib) {
				break
			}
			if isBodyNode(sib) {
				if t := nodeText(sib); t != "" {
					texts = append(texts, t)
				}
			}
		}
		if len(texts) == 0 {
			continue
		}
		canon := CanonicalSection(nodeText(header))
		sections[canon] = append(sections[canon], texts...)
	}
	for canon, texts := range sections {
		parsed.Sections[canon] = strings.Join(texts, " ")
	}

	fullText := nodeText(doc)
	if parsed.Abstract == "" && len(parsed.Sections) == 0 && fullText != "" {
		parsed.Sections["other"] = fullText
	}

	sentences := knowledge.SplitSentences(fullText)
	parsed.Funding = pickSentences(sentences, func(s string) bool {
		return fundingPattern.MatchString(s)
	})
	parsed.Acknowledgements = pickSentences(sentences, func(s string) bool {
		return strings.Contains(strings.ToLower(s), "acknowledg")
	})

	return parsed, nil
}

// pickSentences joins the first three sentences the predicate accepts.
func pickSentences(sentences []string, match func(string) bool) string {
	var picked []string
	for _, s := range sentences {
		if !match(s) {
			continue
		}
		picked = append(picked, s)
		if len(picked) == 3 {
			break
		}
	}
	return strings.Join(picked, " ")
}

func isElement(n *html.Node, name string) bool {
	return n != nil && n.Type == html.ElementNode && n.Data == name
}

func isHeading(n *html.Node) bool {
	return isElement(n, "h2") || isElement(n, "h3")
}

func isBodyNode(n *html.Node) bool {
	switch {
	case isElement(n, "p"), isElement(n, "div"), isElement(n, "section"),
		isElement(n, "ul"), isElement(n, "ol"):
		return true
	}
	return false
}

func isAbstractNode(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if n.Data == "abstract" {
		return true
	}
	for _, attr := range n.Attr {
		if attr.Key == "class" && strings.Contains(strings.ToLower(attr.Val), "abstract") {
			return true
		}
	}
	return false
}

// abstractText prefers the paragraph children of an abstract block over
// its raw text, which often carries the heading label.
func abstractText(ab *html.Node) string {
	var texts []string
	for _, p := range collectNodes(ab, func(n *html.Node) bool { return isElement(n, "p") }) {
		if t := nodeText(p); t != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) > 0 {
		return strings.Join(texts, " ")
	}
	return nodeText(ab)
}

// findNode returns the first node in document order the predicate
// accepts, or nil.
func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

func collectNodes(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if match(node) {
			out = append(out, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// nodeText flattens a subtree to whitespace-normalized text, skipping
// script and style blocks.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style" || node.Data == "noscript") {
			return
		}
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			b.WriteByte(' ')
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
