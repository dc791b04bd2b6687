package diff

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestdata(t *testing.T) {
	t.Parallel()
	if os.Getenv("TESTDATA_ACCEPT") != "" {
		t.Skip("TESTDATA_ACCEPT accepts every mismatch")
	}

	path := filepath.Join(t.TempDir(), "testdata", "scene")

	// The first run records the expectation.
	require.NoError(t, Testdata(path, ".svg", []byte("<svg></svg>\n")))
	b, err := os.ReadFile(path + ".exp.svg")
	require.NoError(t, err)
	assert.Equal(t, "<svg></svg>\n", string(b))

	require.NoError(t, Testdata(path, ".svg", []byte("<svg></svg>\n")))
	assert.NoFileExists(t, path+".got.svg")

	err = Testdata(path, ".svg", []byte("<svg><g></g></svg>\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TESTDATA_ACCEPT")
	assert.FileExists(t, path+".got.svg")
}
