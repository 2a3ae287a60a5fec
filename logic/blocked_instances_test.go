package logic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghostodon/shared"
)

func TestBlockedInstances(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "blocked.txt")
	require.Nil(t, os.WriteFile(fn, []byte("# comment\n\nBad.Example\nspam.test\n"), 0644))
	bi := NewBlockedInstances(&shared.Config{BlockedInstancesFile: fn})

	vals := []struct {
		origin  string
		blocked bool
	}{
		{"bad.example", true},
		{"https://bad.example/", true},
		{"social.bad.example", true},
		{"notbad.example", false},
		{"HTTPS://SPAM.TEST", true},
		{"mastodon.social", false},
	}
	for _, v := range vals {
		isBlocked, err := bi.IsBlocked(v.origin)
		assert.Nil(t, err, v.origin)
		assert.Equal(t, v.blocked, isBlocked, v.origin)
	}
}

func TestBlockedInstancesWithoutFile(t *testing.T) {
	isBlocked, err := NewBlockedInstances(&shared.Config{}).IsBlocked("bad.example")
	assert.Nil(t, err)
	assert.False(t, isBlocked)

	missing := &shared.Config{BlockedInstancesFile: filepath.Join(t.TempDir(), "nope.txt")}
	isBlocked, err = NewBlockedInstances(missing).IsBlocked("bad.example")
	assert.Nil(t, err)
	assert.False(t, isBlocked)
}
