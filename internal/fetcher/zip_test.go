package fetcher

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestZip(t *testing.T, members map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range members {
		member, err := w.Create(name)
		require.NoError(t, err)
		_, err = member.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

func TestExtractFromZip(t *testing.T) {
	zipPath := writeTestZip(t, map[string]string{
		"readme.txt":        "ignore",
		"Betriebspunkt.csv": "Name,E,N\n",
	})

	destDir := t.TempDir()
	dest, err := ExtractFromZip(zipPath, ".csv", destDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "Betriebspunkt.csv"), dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "Name,E,N\n", string(data))
}

func TestExtractFromZipNoMatch(t *testing.T) {
	zipPath := writeTestZip(t, map[string]string{"readme.txt": "x"})

	_, err := ExtractFromZip(zipPath, ".csv", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .csv member")
}
