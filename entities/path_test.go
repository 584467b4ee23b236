package entities

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandPath(t *testing.T) {
	result := ExpandPath("~//burek", "")
	assert.NotContains(t, result, "~")
	assert.NotContains(t, result, "//")
	assert.Contains(t, result, "burek")

	t.Setenv("NODECTL_TEST_DIR", "/volumes")
	assert.Equal(t, filepath.Clean("/volumes/alice/admin.macaroon"), ExpandPath("$NODECTL_TEST_DIR/alice/admin.macaroon", "/ignored"))

	assert.Equal(t, filepath.Join("/network", "alice", "tls.cert"), ExpandPath("alice/./tls.cert", "/network"))
	assert.Equal(t, "alice/tls.cert", ExpandPath("alice/tls.cert", ""))
	assert.Equal(t, "", ExpandPath("", "/network"))
}
