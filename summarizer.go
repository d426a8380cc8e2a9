package docsum

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Separator is the default export field separator. Summaries must never
// contain the separator the export uses.
const Separator = "|"

// FallbackMaxLen caps fallback summaries, in runes.
const FallbackMaxLen = 300

// NoContentSummary is the fallback for input without any text.
const NoContentSummary = "(no content)"

// Summary is the result of summarizing page content.
type Summary struct {
	Text string

	// Degraded is true when Text was derived locally by FallbackSummary.
	Degraded bool
}

// Summarizer condenses page content into a short technical synopsis.
type Summarizer interface {
	// Summarize never fails: when the backend is unusable it returns
	// a degraded summary derived from content alone.
	Summarize(ctx context.Context, content string) Summary
}

// TextGenerator is a text generation backend.
type TextGenerator interface {
	// Generate returns the model's response to prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// Ping performs a liveness probe against the backend.
	Ping(ctx context.Context) error
}

// BuildSummaryPrompt wraps page content in the summarization instructions.
// An empty sep means Separator.
func BuildSummaryPrompt(content, sep string) string {
	if sep == "" {
		sep = Separator
	}
	var sb strings.Builder
	sb.WriteString("Provide a concise summary of the following documentation content.\n")
	sb.WriteString("Focus only on the key technical points and implementation details.\n")
	sb.WriteString("The summary will be added to a spreadsheet for analysis, so avoid any introductions, conclusions, or general statements.\n")
	sb.WriteString("Keep the summary technical and specific. The summary must not contain the ")
	sb.WriteString(sep)
	sb.WriteString(" character because it is used as a separator in the spreadsheet.\n\n")
	sb.WriteString("Content:\n")
	sb.WriteString(content)
	return sb.String()
}

// FallbackSummary derives a summary from content without any external call:
// the first non-blank line, truncated to FallbackMaxLen runes.
// The result is never empty and never contains sep.
func FallbackSummary(content, sep string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if out := SanitizeSummary(truncateRunes(line, FallbackMaxLen), sep); out != "" {
			return out
		}
	}
	return SanitizeSummary(NoContentSummary, sep)
}

// SanitizeSummary trims s and replaces every occurrence of sep. An empty
// sep means Separator.
func SanitizeSummary(s, sep string) string {
	if sep == "" {
		sep = Separator
	}
	return strings.TrimSpace(strings.ReplaceAll(s, sep, separatorReplacement(sep)))
}

// separatorReplacement stands in for sep inside summaries.
func separatorReplacement(sep string) string {
	switch {
	case sep == "|":
		return "/"
	case sep == ",":
		return ";"
	case strings.Contains(sep, "/"):
		return " "
	default:
		return "/"
	}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "..."
}
