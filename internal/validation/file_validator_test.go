package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLoadable(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"sales.csv", true},
		{"report.XLSX", true},
		{"records.json", true},
		{"notes.txt", false},
		{"archive.pdf", false},
		{"noext", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLoadable(tt.name))
		})
	}
}

func TestValidateInputDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte("[]"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("x"), 0644))

	v := NewFileValidator(nil)
	count, err := v.ValidateInputDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestValidateInputDirectory_Missing(t *testing.T) {
	v := NewFileValidator(nil)
	_, err := v.ValidateInputDirectory(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestValidateInputDirectory_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.csv")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	v := NewFileValidator(nil)
	_, err := v.ValidateInputDirectory(file)
	assert.Error(t, err)
}

func TestValidateOutputDirectory(t *testing.T) {
	v := NewFileValidator(nil)
	target := filepath.Join(t.TempDir(), "reports", "nested")

	require.NoError(t, v.ValidateOutputDirectory(target))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
