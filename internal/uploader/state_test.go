package uploader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Immutable(t *testing.T) {
	a := SelectedFile{ID: "a", Name: "a.txt"}
	b := SelectedFile{ID: "b", Name: "b.txt"}

	s0 := NewState(a)
	s1 := s0.Select(b)
	s2 := s1.WithProgress("a", ProgressStarted)
	s3 := s2.WithUploaded(Uploaded{FileID: "a", Name: "a.txt"})

	assert.Len(t, s0.Selection(), 1)
	assert.Len(t, s1.Selection(), 2)
	assert.Equal(t, 0, s1.Progress("a"))
	assert.Equal(t, ProgressStarted, s2.Progress("a"))
	assert.Empty(t, s2.Uploaded())
	assert.Len(t, s3.Uploaded(), 1)
}

func TestState_RemoveByID(t *testing.T) {
	a := SelectedFile{ID: "a", Name: "same.txt"}
	b := SelectedFile{ID: "b", Name: "same.txt"}

	s := NewState(a, b).WithProgress("a", 30).WithProgress("b", 100)
	removed := s.Remove("a")

	require.Len(t, removed.Selection(), 1)
	assert.Equal(t, "b", removed.Selection()[0].ID)
	assert.Equal(t, 0, removed.Progress("a"))
	assert.Equal(t, 100, removed.Progress("b"))

	assert.Len(t, s.Selection(), 2)
	assert.Equal(t, 30, s.Progress("a"))
}

func TestState_SelectionIsCopy(t *testing.T) {
	s := NewState(SelectedFile{ID: "a"})
	sel := s.Selection()
	sel[0].ID = "mutated"

	assert.Equal(t, "a", s.Selection()[0].ID)
}

func TestNewSelectedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pic.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o600))

	f, err := NewSelectedFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, f.ID)
	assert.Equal(t, "pic.png", f.Name)
	assert.Equal(t, int64(16), f.Size)
	assert.Equal(t, "image/png", f.ContentType)

	other, err := NewSelectedFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, f.ID, other.ID)
}

func TestNewSelectedFile_Errors(t *testing.T) {
	_, err := NewSelectedFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	_, err = NewSelectedFile(t.TempDir())
	assert.ErrorContains(t, err, "is a directory")
}
