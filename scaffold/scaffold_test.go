package scaffold

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"droidsmith/fs"
	"droidsmith/logger"
	"droidsmith/progress"
)

func newTestGenerator(t *testing.T) (*Generator, *fs.Manager) {
	t.Helper()
	files := fs.NewMemManager()
	gen := NewGenerator(files, DefaultVersions(), logger.Nop())
	return gen, files
}

func TestGenerateWritesSkeleton(t *testing.T) {
	gen, files := newTestGenerator(t)
	require.NoError(t, files.EnsureDir("/out"))

	path, err := gen.Generate("My Notes App", "A simple notes app", "/out", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/out", "My Notes App"), path)

	for _, rel := range []string{
		"settings.gradle",
		"build.gradle",
		"gradle.properties",
		filepath.Join("app", "build.gradle"),
		filepath.Join("app", "src", "main", "AndroidManifest.xml"),
		filepath.Join("app", "src", "main", "res", "layout", "activity_main.xml"),
		filepath.Join("app", "src", "main", "res", "values", "strings.xml"),
		"README.md",
	} {
		assert.True(t, files.Exists(filepath.Join(path, rel)), "missing %s", rel)
	}

	activity := filepath.Join(path, "app", "src", "main", "java",
		"com", "example", "mynotesapp", "MainActivity.kt")
	assert.True(t, files.Exists(activity))
}

func TestGenerateRejectsExistingProject(t *testing.T) {
	gen, files := newTestGenerator(t)
	require.NoError(t, files.EnsureDir("/out"))

	_, err := gen.Generate("App", "desc", "/out", nil)
	require.NoError(t, err)

	_, err = gen.Generate("App", "desc", "/out", nil)
	assert.ErrorContains(t, err, "already exists")
}

func TestGenerateValidation(t *testing.T) {
	gen, files := newTestGenerator(t)
	require.NoError(t, files.EnsureDir("/out"))

	_, err := gen.Generate("  ", "desc", "/out", nil)
	assert.ErrorContains(t, err, "name cannot be empty")

	_, err = gen.Generate("App", " ", "/out", nil)
	assert.ErrorContains(t, err, "description cannot be empty")

	_, err = gen.Generate("App", "desc", "/missing", nil)
	assert.ErrorContains(t, err, "output directory does not exist")
}

func TestGenerateKeywordExtras(t *testing.T) {
	gen, files := newTestGenerator(t)
	require.NoError(t, files.EnsureDir("/out"))

	path, err := gen.Generate("Tracker", "A list app with a database and a REST api", "/out", nil)
	require.NoError(t, err)

	pkgDir := filepath.Join(path, "app", "src", "main", "java", "com", "example", "tracker")
	assert.True(t, files.Exists(filepath.Join(pkgDir, "data", "Item.kt")))
	assert.True(t, files.Exists(filepath.Join(pkgDir, "data", "AppDatabase.kt")))
	assert.True(t, files.Exists(filepath.Join(pkgDir, "network", "ApiService.kt")))
	assert.True(t, files.Exists(filepath.Join(pkgDir, "ui", "ItemAdapter.kt")))
}

func TestGenerateEmitsSteps(t *testing.T) {
	gen, files := newTestGenerator(t)
	require.NoError(t, files.EnsureDir("/out"))

	var steps []string
	cb := func(step, message string, status progress.Status) {
		if status == progress.StatusDone {
			steps = append(steps, step)
		}
	}

	_, err := gen.Generate("App", "desc", "/out", cb)
	require.NoError(t, err)
	assert.Equal(t, []string{"create_structure", "gradle_files", "app_code", "readme"}, steps)
}

func TestSanitizeProjectName(t *testing.T) {
	assert.Equal(t, "My App", SanitizeProjectName("My App!"))
	assert.Equal(t, "MyAndroidApp", SanitizeProjectName("!!!"))
	assert.Equal(t, "Notes_2", SanitizeProjectName("  Notes_2  "))
}
