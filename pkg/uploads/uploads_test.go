package uploads

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveWritesFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "case_images")
	store, err := NewDiskStore(root)
	require.NoError(t, err)

	path, err := store.Save("abc123_evidence.png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, filepath.ToSlash(filepath.Join(root, "abc123_evidence.png")), path)

	data, err := os.ReadFile(filepath.Join(root, "abc123_evidence.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestNewDiskStoreCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "uploads")
	_, err := NewDiskStore(root)
	require.NoError(t, err)

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
