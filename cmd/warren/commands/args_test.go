package commands

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warrenlabs/warren/pkg/tracker"
)

func TestParseKind_Aliases(t *testing.T) {
	cases := map[string]tracker.Kind{
		"task":     tracker.KindTask,
		"tasks":    tracker.KindTask,
		"bug":      tracker.KindBugFix,
		"bugs":     tracker.KindBugFix,
		"bug_fix":  tracker.KindBugFix,
		"feature":  tracker.KindFeature,
		"features": tracker.KindFeature,
	}
	for arg, want := range cases {
		kind, err := parseKind(arg)
		require.NoError(t, err)
		assert.Equal(t, want, kind)
	}
}

func TestParseKind_Unknown(t *testing.T) {
	_, err := parseKind("chore")
	assert.Error(t, err)
}

func TestParseKindID(t *testing.T) {
	kind, id, err := parseKindID([]string{"task", "42.1"})
	require.NoError(t, err)
	assert.Equal(t, tracker.KindTask, kind)
	assert.Equal(t, tracker.EntityID{Num: 42, Sub: 1}, id)

	_, _, err = parseKindID([]string{"task", "not-an-id"})
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly-10", truncate("exactly-10", 10))
	assert.Equal(t, "a very ...", truncate("a very long string", 10))
}

func TestTruncate_MultiByteTitles(t *testing.T) {
	// Cutting must count runes, never split a multi-byte character.
	got := truncate("héllo wörld éverywhere", 10)
	assert.Equal(t, "héllo w...", got)
	assert.True(t, utf8.ValidString(got))

	got = truncate("日本語のタイトルが長すぎる場合", 10)
	assert.Equal(t, "日本語のタイト...", got)
	assert.True(t, utf8.ValidString(got))

	assert.Equal(t, "héllo", truncate("héllo", 10))
}

func TestFormatDeps(t *testing.T) {
	assert.Equal(t, "-", formatDeps(nil))
	assert.Equal(t, "1, 2.3", formatDeps([]tracker.EntityID{{Num: 1}, {Num: 2, Sub: 3}}))
}
