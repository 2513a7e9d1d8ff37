// Package export renders a tool result outside the TUI: to a file, to
// stdout, or to the terminal clipboard.
package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/cj3636/gtaz/internal/gitops"
)

// Format represents the desired export format.
type Format string

const (
	// FormatHTML emits an HTML document for the result.
	FormatHTML Format = "html"
	// FormatMarkdown emits a Markdown code block.
	FormatMarkdown Format = "markdown"
	// FormatANSI emits an ANSI-colored string.
	FormatANSI Format = "ansi"
)

// ParseFormat maps a flag value to a Format. The empty string selects
// Markdown.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(raw) {
	case "", string(FormatMarkdown), "md":
		return FormatMarkdown, nil
	case string(FormatHTML), "htm":
		return FormatHTML, nil
	case string(FormatANSI), "text":
		return FormatANSI, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", raw)
	}
}

// Options control how a result is exported.
type Options struct {
	// Title will be shown in HTML/Markdown outputs when provided.
	Title string
}

// Render returns the result in the requested format. Failed results
// render their error text so an export never silently drops a failure.
func Render(res gitops.Result, format Format, opts Options) (string, error) {
	switch strings.ToLower(string(format)) {
	case string(FormatHTML):
		return renderHTML(res, opts), nil
	case string(FormatMarkdown), "md":
		return renderMarkdown(res, opts), nil
	case string(FormatANSI), "text":
		return renderANSI(res, opts), nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
}

func body(res gitops.Result) string {
	if !res.Success {
		return "error: " + res.Err
	}
	return res.Output
}

func renderMarkdown(res gitops.Result, opts Options) string {
	var b strings.Builder

	if opts.Title != "" {
		b.WriteString("# ")
		b.WriteString(opts.Title)
		b.WriteString("\n\n")
	}

	fence := "```"
	if res.ToolID == gitops.ToolDiff && res.Success {
		fence = "```diff"
	}

	b.WriteString(fence + "\n")
	b.WriteString(body(res))
	b.WriteString("\n```\n")
	return b.String()
}

func renderANSI(res gitops.Result, opts Options) string {
	var b strings.Builder
	if opts.Title != "" {
		fmt.Fprintf(&b, "%s\n\n", opts.Title)
	}

	reset := "\u001b[0m"
	for _, line := range strings.Split(body(res), "\n") {
		fmt.Fprintf(&b, "%s%s%s\n", ansiColor(res, line), line, reset)
	}
	return b.String()
}

func renderHTML(res gitops.Result, opts Options) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\">")
	b.WriteString("<style>body{background:#0f111a;color:#e5e7eb;font-family:Menlo,Consolas,monospace;}" +
		"pre{white-space:pre-wrap;word-wrap:break-word;}" +
		".added{background:#12281a;color:#8dd39e;}" +
		".removed{background:#2b1313;color:#f19999;}" +
		".plain{color:#cbd5e1;}" +
		".error{background:#2b1313;color:#f19999;font-weight:bold;}" +
		"h1{font-size:18px;margin-bottom:12px;}" +
		"</style></head><body>")

	title := opts.Title
	if title == "" {
		title = fmt.Sprintf("gtaz: %s", res.ToolID)
	}
	b.WriteString(fmt.Sprintf("<h1>%s</h1>\n<pre>", html.EscapeString(title)))

	for _, line := range strings.Split(body(res), "\n") {
		fmt.Fprintf(&b, "<div class=\"%s\">%s</div>\n", htmlClass(res, line), html.EscapeString(line))
	}

	b.WriteString("</pre></body></html>")
	return b.String()
}

func ansiColor(res gitops.Result, line string) string {
	if !res.Success {
		return "\u001b[31m"
	}
	if res.ToolID == gitops.ToolDiff {
		switch {
		case strings.HasPrefix(line, "+"):
			return "\u001b[32m"
		case strings.HasPrefix(line, "-"):
			return "\u001b[31m"
		case strings.HasPrefix(line, "@@"):
			return "\u001b[36m"
		}
	}
	return "\u001b[37m"
}

func htmlClass(res gitops.Result, line string) string {
	if !res.Success {
		return "error"
	}
	if res.ToolID == gitops.ToolDiff {
		switch {
		case strings.HasPrefix(line, "+"):
			return "added"
		case strings.HasPrefix(line, "-"):
			return "removed"
		}
	}
	return "plain"
}
