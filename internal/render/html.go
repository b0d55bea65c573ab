package render

import (
	"bytes"
	"fmt"
	"html"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in descriptions and comments is dropped by goldmark's default
// renderer. The cover image is the only markup Document emits itself and is
// re-attached after rendering.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
	goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
)

var coverPattern = regexp.MustCompile(`<img src="([^"<>]*)" alt="Image not found" />$`)

// HTML renders a preview document to a standalone HTML page titled title.
func HTML(title, doc string) (string, error) {
	var cover string
	if m := coverPattern.FindStringSubmatchIndex(doc); m != nil {
		cover = doc[m[2]:m[3]]
		doc = doc[:m[0]]
	}

	var body bytes.Buffer
	if err := markdown.Convert([]byte(doc), &body); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	if cover != "" {
		fmt.Fprintf(&body, "<p><img src=\"%s\" alt=\"Image not found\" /></p>\n", html.EscapeString(cover))
	}
	return fmt.Sprintf("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(title), body.String()), nil
}
