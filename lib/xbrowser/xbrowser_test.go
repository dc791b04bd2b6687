package xbrowser

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oss.terrastruct.com/xos"
)

func TestOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	env := xos.NewEnv(nil)
	env.Setenv("BROWSER", "0")
	assert.NoError(t, Open(ctx, env, "http://localhost:0"))

	// $BROWSER receives the url as its only argument.
	out := filepath.Join(t.TempDir(), "url")
	env.Setenv("BROWSER", "printf %s >"+out+" ")
	require.NoError(t, Open(ctx, env, "http://localhost:1234"))
	assert.FileExists(t, out)

	env.Setenv("BROWSER", "false-browser-that-does-not-exist")
	assert.Error(t, Open(ctx, env, "http://localhost:1234"))
}
