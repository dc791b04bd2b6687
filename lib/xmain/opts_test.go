package xmain

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oss.terrastruct.com/cmdlog"
	"oss.terrastruct.com/xos"
)

func TestOptsEnvDefaults(t *testing.T) {
	t.Parallel()

	env := xos.NewEnv(nil)
	env.Setenv("FLOWCANVAS_GRID", "25")
	env.Setenv("FLOWCANVAS_DEBUG", "true")

	o := NewOpts(env, cmdlog.Log(env, io.Discard), []string{"--snap-threshold", "4", "render"})
	grid, err := o.Float64("FLOWCANVAS_GRID", "grid", "", 10, "grid size")
	require.NoError(t, err)
	snap, err := o.Float64("FLOWCANVAS_SNAP_THRESHOLD", "snap-threshold", "", 8, "snap threshold")
	require.NoError(t, err)
	debug, err := o.Bool("FLOWCANVAS_DEBUG", "debug", "d", false, "debug logs")
	require.NoError(t, err)

	require.NoError(t, o.Flags.Parse(o.Args))
	assert.Equal(t, 25., *grid)
	assert.Equal(t, 4., *snap)
	assert.True(t, *debug)
	assert.Equal(t, []string{"render"}, o.Flags.Args())
	assert.Contains(t, o.Help(), "$FLOWCANVAS_GRID")
}

func TestOptsBadEnv(t *testing.T) {
	t.Parallel()

	env := xos.NewEnv(nil)
	env.Setenv("FLOWCANVAS_GRID", "wide")
	o := NewOpts(env, cmdlog.Log(env, io.Discard), nil)
	_, err := o.Float64("FLOWCANVAS_GRID", "grid", "", 10, "grid size")
	assert.Error(t, err)
}

func TestHumanPath(t *testing.T) {
	t.Parallel()

	ms := &State{PWD: "/home/user/diagrams"}
	assert.Equal(t, "flow.json", ms.HumanPath("/home/user/diagrams/flow.json"))
	assert.Equal(t, "sub/flow.json", ms.HumanPath("/home/user/diagrams/sub/flow.json"))
	assert.Equal(t, "/tmp/flow.json", ms.HumanPath("/tmp/flow.json"))
	assert.Equal(t, "-", ms.HumanPath("-"))
	assert.Equal(t, "flow.json", (&State{}).HumanPath("flow.json"))
}
