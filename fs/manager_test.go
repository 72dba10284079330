package fs

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"README.md", "README.md"},
		{"  app/src/main/AndroidManifest.xml ", filepath.Join("app", "src", "main", "AndroidManifest.xml")},
		{"/etc/passwd", filepath.Join("etc", "passwd")},
		{"///deep/leading", filepath.Join("deep", "leading")},
		{`\windows\style`, filepath.Join("windows", "style")},
		{"../../escape.txt", "escape.txt"},
		{"a/../../b/c.txt", filepath.Join("a", "b", "c.txt")},
		{"./dot/./file", filepath.Join("dot", "file")},
		{"", ""},
		{"..", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Sanitize(tc.in), "input %q", tc.in)
	}
}

func TestWriteStaysInsideBase(t *testing.T) {
	m := NewMemManager()
	base := filepath.Join("/", "out")

	for _, rel := range []string{"/leading.txt", `\leading2.txt`, "../up.txt", "../../up2.txt"} {
		abs, err := m.Write(base, rel, "content")
		require.NoError(t, err, "input %q", rel)
		assert.True(t, strings.HasPrefix(abs, base+string(filepath.Separator)),
			"path %q escaped base for input %q", abs, rel)
	}
}

func TestWriteCreatesParents(t *testing.T) {
	m := NewMemManager()

	abs, err := m.Write("/out", "app/src/main/res/values/strings.xml", "<resources/>")
	require.NoError(t, err)

	content, err := m.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, "<resources/>", content)
	assert.True(t, m.IsDir(filepath.Join("/out", "app", "src", "main", "res", "values")))
}

func TestWriteOverwrites(t *testing.T) {
	m := NewMemManager()

	_, err := m.Write("/out", "file.txt", "first")
	require.NoError(t, err)
	abs, err := m.Write("/out", "file.txt", "second")
	require.NoError(t, err)

	content, err := m.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, "second", content)
}

func TestWriteRejectsEmptyPath(t *testing.T) {
	m := NewMemManager()

	_, err := m.Write("/out", "   ", "content")
	assert.Error(t, err)
	_, err = m.Write("/out", "..", "content")
	assert.Error(t, err)
}
