package domain

import "fmt"

// Issue is a newsletter issue submitted for publication. It is an ephemeral
// input: the delivery it triggers is the only durable trace.
type Issue struct {
	Title       string
	HTMLContent string
	TextContent string
}

// NewIssue validates the issue payload. Every field must be non-empty;
// both an HTML and a plain-text rendition are required so that every mail
// client gets a readable body.
func NewIssue(title, html, text string) (Issue, error) {
	if title == "" {
		return Issue{}, fmt.Errorf("title is required")
	}
	if html == "" {
		return Issue{}, fmt.Errorf("html_content is required")
	}
	if text == "" {
		return Issue{}, fmt.Errorf("text_content is required")
	}
	return Issue{Title: title, HTMLContent: html, TextContent: text}, nil
}
