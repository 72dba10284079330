package builder

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestExtractZip(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "tools.zip")
	writeTestZip(t, archive, map[string]string{
		"cmdline-tools/bin/sdkmanager": "#!/bin/sh\n",
		"cmdline-tools/NOTICE.txt":     "notice",
	})

	dest := filepath.Join(dir, "out")
	require.NoError(t, extractArchive(archive, dest))

	data, err := os.ReadFile(filepath.Join(dest, "cmdline-tools", "bin", "sdkmanager"))
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\n", string(data))
	assert.FileExists(t, filepath.Join(dest, "cmdline-tools", "NOTICE.txt"))
}

func TestExtractZipRejectsSlip(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "evil.zip")
	writeTestZip(t, archive, map[string]string{"../evil.txt": "payload"})

	err := extractArchive(archive, filepath.Join(dir, "out"))
	assert.ErrorContains(t, err, "escapes destination")
	assert.NoFileExists(t, filepath.Join(dir, "evil.txt"))
}

func TestExtractTarGz(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "jdk.tar.gz")

	f, err := os.Create(archive)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	content := []byte("java binary")
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "jdk-17/bin/java",
		Mode:     0o755,
		Size:     int64(len(content)),
		Typeflag: tar.TypeReg,
	}))
	_, err = tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	dest := filepath.Join(dir, "out")
	require.NoError(t, extractArchive(archive, dest))

	info, err := os.Stat(filepath.Join(dest, "jdk-17", "bin", "java"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestExtractUnknownFormat(t *testing.T) {
	err := extractArchive("tools.rar", t.TempDir())
	assert.ErrorContains(t, err, "unsupported archive format")
}
