package apk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect_NotAnAPKReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-an.apk")
	require.NoError(t, os.WriteFile(path, []byte("this is not a zip"), 0o644))

	_, err := Inspect(path)
	assert.Error(t, err)
}

func TestInspect_MissingFileReturnsError(t *testing.T) {
	_, err := Inspect(filepath.Join(t.TempDir(), "absent.apk"))
	assert.Error(t, err)
}
