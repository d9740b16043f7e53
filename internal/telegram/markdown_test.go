package telegram_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	tg "github.com/dearie-app/deariebot/internal/telegram"
)

func TestSplitMessageShortTextIsUntouched(t *testing.T) {
	parts := tg.SplitMessage("hello", 100)
	require.Equal(t, []string{"hello"}, parts)
}

func TestSplitMessagePrefersNewlines(t *testing.T) {
	text := strings.Repeat("a", 60) + "\n" + strings.Repeat("b", 60)
	parts := tg.SplitMessage(text, 100)

	require.Len(t, parts, 2)
	require.Equal(t, strings.Repeat("a", 60)+"\n", parts[0])
	require.Equal(t, strings.Repeat("b", 60), parts[1])
}

func TestSplitMessageMultibyteWithLateNewline(t *testing.T) {
	// Hangul is 3 bytes per rune, so a byte-based newline offset would
	// point far past the rune slice here.
	text := strings.Repeat("가", 98) + "\n" + strings.Repeat("나", 10)
	parts := tg.SplitMessage(text, 100)

	require.Len(t, parts, 2)
	require.Equal(t, strings.Repeat("가", 98)+"\n", parts[0])
	require.Equal(t, strings.Repeat("나", 10), parts[1])
	for _, p := range parts {
		require.LessOrEqual(t, utf8.RuneCountInString(p), 100)
	}
}

func TestSplitMessageMultibyteRespectsMaxLen(t *testing.T) {
	text := strings.Repeat("슬픈 하루였다. ", 40)
	parts := tg.SplitMessage(text, 100)

	for _, p := range parts {
		require.LessOrEqual(t, utf8.RuneCountInString(p), 100)
	}
	require.Equal(t, text, strings.Join(parts, ""))
}

func TestSplitMessageRespectsMaxLen(t *testing.T) {
	text := strings.Repeat("x", 250)
	parts := tg.SplitMessage(text, 100)

	require.Len(t, parts, 3)
	for _, p := range parts {
		require.LessOrEqual(t, utf8.RuneCountInString(p), 100)
	}
	require.Equal(t, text, strings.Join(parts, ""))
}

func TestFixMarkdownClosesCodeBlock(t *testing.T) {
	fixed := tg.FixMarkdown("look:\n```go\nfmt.Println(1)")
	require.Equal(t, 2, strings.Count(fixed, "```"))
}

func TestFixMarkdownClosesInlineCode(t *testing.T) {
	fixed := tg.FixMarkdown("use `ls to list files")
	require.Equal(t, 2, strings.Count(fixed, "`"))
}

func TestFixMarkdownLeavesBalancedTextAlone(t *testing.T) {
	text := "all `good` here\n```\nblock\n```"
	require.Equal(t, text, tg.FixMarkdown(text))
}
