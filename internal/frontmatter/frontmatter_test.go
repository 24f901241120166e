package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontMatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	meta, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, meta)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontMatter_SplitsMetaAndBody(t *testing.T) {
	input := []byte("---\ntitle: Hello\n---\n# Title\n")

	meta, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Hello\n"), meta)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	input := []byte("---\ntitle: Hello\n# Title\n")

	_, _, had, _, err := Split(input)
	require.Error(t, err)
	require.False(t, had)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_CRLF_SplitsMetaAndBody(t *testing.T) {
	input := []byte("---\r\ntitle: Hello\r\n---\r\n# Title\r\n")

	meta, body, had, style, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "\r\n", style.Newline)
	require.Equal(t, []byte("title: Hello\r\n"), meta)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestSplit_EmptyFrontMatterBlock_SplitsAsHadWithEmptyMeta(t *testing.T) {
	input := []byte("---\n---\n# Title\n")

	meta, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, meta)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_ClosingDelimiterAtEOF_NoTrailingNewline(t *testing.T) {
	input := []byte("---\ntitle: Hello\n---")

	meta, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Hello\n"), meta)
	require.Empty(t, body)
}

func TestParseYAML_EmptyInput_ReturnsEmptyMap(t *testing.T) {
	fields, err := ParseYAML(nil)
	require.NoError(t, err)
	require.Empty(t, fields)
}

func TestRoundTrip_ParseThenSerialize_PreservesFields(t *testing.T) {
	meta := []byte("categories:\n  - engineering\n  - security\ndate: \"2026-01-01 10:00:00 +0000\"\ntitle: Hello World\n")

	fields, err := ParseYAML(meta)
	require.NoError(t, err)

	out, err := SerializeYAML(fields, Style{Newline: "\n"})
	require.NoError(t, err)

	reparsed, err := ParseYAML(out)
	require.NoError(t, err)
	require.Equal(t, fields, reparsed)
}

func TestSerializeYAML_SortsKeysDeterministically(t *testing.T) {
	fields := map[string]any{"zebra": "z", "alpha": "a", "mid": "m"}

	first, err := SerializeYAML(fields, Style{})
	require.NoError(t, err)
	second, err := SerializeYAML(fields, Style{})
	require.NoError(t, err)
	require.Equal(t, first, second)

	require.Less(t, indexOf(first, "alpha"), indexOf(first, "mid"))
	require.Less(t, indexOf(first, "mid"), indexOf(first, "zebra"))
}

func TestJoin_ReassemblesSplitDocument(t *testing.T) {
	input := []byte("---\ntitle: Hello\n---\nBody text.\n")

	meta, body, had, style, err := Split(input)
	require.NoError(t, err)
	require.Equal(t, input, Join(meta, body, had, style))
}

func indexOf(haystack []byte, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if string(haystack[i:i+len(needle)]) == needle {
			return i
		}
	}
	return -1
}
