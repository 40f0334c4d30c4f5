// Package snapshot turns a page's HTML into a compact diagnostic snapshot.
package snapshot

import (
	"errors"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

var ErrNoBody = errors.New("no <body> in document")

type CleanConfig struct {
	TagsToRemove  []string
	AttrsToRemove []string
	// AttrPrefixesToKeep wins over the on*/data-* prefix removal.
	AttrPrefixesToKeep []string
	MaxOutputSize      int
}

// DefaultCleanConfig keeps what helps to debug a selector (ids, classes,
// data-test hooks, aria labels) and drops everything else that is noise.
var DefaultCleanConfig = CleanConfig{
	TagsToRemove: []string{
		"script", "style", "noscript", "svg", "iframe",
		"link", "meta", "head", "title",
	},
	AttrsToRemove: []string{
		"style", "srcset", "sizes", "loading", "decoding", "fetchpriority", "tabindex",
	},
	AttrPrefixesToKeep: []string{"data-test", "aria-"},
	MaxOutputSize:      200_000,
}

// Clean returns the cleaned <body> of rawHTML. Password input values are
// redacted.
func Clean(rawHTML string, cfg *CleanConfig) (string, error) {
	if cfg == nil {
		cfg = &DefaultCleanConfig
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", err
	}

	body := findBodyNode(doc)
	if body == nil {
		return "", ErrNoBody
	}

	cleanNode(body, cfg)

	return truncateHTML(renderNode(body), cfg.MaxOutputSize), nil
}

func findBodyNode(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBodyNode(c); b != nil {
			return b
		}
	}
	return nil
}

func cleanNode(n *html.Node, cfg *CleanConfig) {
	if n.Type == html.CommentNode {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		return
	}
	if n.Type != html.ElementNode {
		return
	}

	if slices.Contains(cfg.TagsToRemove, n.Data) {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		return
	}

	n.Attr = filterAttributes(n.Attr, cfg)
	if n.Data == "input" && isPassword(n) {
		redactValue(n)
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		cleanNode(c, cfg)
		c = next
	}
}

func filterAttributes(attrs []html.Attribute, cfg *CleanConfig) []html.Attribute {
	var kept []html.Attribute
	for _, attr := range attrs {
		if shouldRemoveAttr(attr.Key, cfg) {
			continue
		}
		kept = append(kept, attr)
	}
	return kept
}

func shouldRemoveAttr(key string, cfg *CleanConfig) bool {
	if slices.Contains(cfg.AttrsToRemove, key) {
		return true
	}
	for _, prefix := range cfg.AttrPrefixesToKeep {
		if strings.HasPrefix(key, prefix) {
			return false
		}
	}
	return strings.HasPrefix(key, "data-") || strings.HasPrefix(key, "on")
}

func isPassword(n *html.Node) bool {
	for _, attr := range n.Attr {
		if attr.Key == "type" && strings.EqualFold(attr.Val, "password") {
			return true
		}
	}
	return false
}

func redactValue(n *html.Node) {
	for i := range n.Attr {
		if n.Attr[i].Key == "value" {
			n.Attr[i].Val = "[redacted]"
		}
	}
}

func renderNode(n *html.Node) string {
	var sb strings.Builder
	_ = html.Render(&sb, n)
	return sb.String()
}

func truncateHTML(htmlStr string, maxSize int) string {
	if maxSize > 0 && len(htmlStr) > maxSize {
		return htmlStr[:maxSize] + "\n<!-- snapshot truncated -->"
	}
	return htmlStr
}
