package builder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"droidsmith/logger"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := New(Config{ToolsDir: t.TempDir()}, logger.Nop())
	require.NoError(t, err)
	return b
}

func TestNewCreatesLayout(t *testing.T) {
	b := newTestBuilder(t)
	for _, dir := range []string{b.jdkDir, b.androidDir, b.gradleDir, b.logsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	assert.Equal(t, filepath.Join(b.logsDir, "builder.log"), b.LogPath())
}

func TestNewRequiresToolsDir(t *testing.T) {
	_, err := New(Config{}, logger.Nop())
	assert.ErrorContains(t, err, "tools directory is required")
}

func TestFindNewestAPK(t *testing.T) {
	b := newTestBuilder(t)
	project := t.TempDir()
	apkDir := filepath.Join(project, "app", "build", "outputs", "apk", "debug")
	require.NoError(t, os.MkdirAll(apkDir, 0o755))

	older := filepath.Join(apkDir, "app-debug.apk")
	newer := filepath.Join(apkDir, "app-flavor-debug.apk")
	require.NoError(t, os.WriteFile(older, []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(newer, []byte("new"), 0o644))

	base := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, base, base))
	require.NoError(t, os.Chtimes(newer, base.Add(time.Minute), base.Add(time.Minute)))

	apk, err := b.findNewestAPK(project)
	require.NoError(t, err)
	assert.Equal(t, newer, apk)
}

func TestFindNewestAPKNoArtifact(t *testing.T) {
	b := newTestBuilder(t)
	_, err := b.findNewestAPK(t.TempDir())
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}

func TestRunGradleNoCandidates(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	b := newTestBuilder(t)
	project := t.TempDir()

	err := b.runGradle(context.Background(), project, []string{"--no-daemon", "help"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all gradle commands failed")
	assert.Contains(t, err.Error(), "gradle")
	assert.Contains(t, err.Error(), b.LogPath())
}

func TestRunGradleMissingProject(t *testing.T) {
	b := newTestBuilder(t)
	err := b.runGradle(context.Background(), filepath.Join(t.TempDir(), "nope"), []string{"help"})
	assert.ErrorContains(t, err, "project directory does not exist")
}

func TestRunGradleCancelled(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	b := newTestBuilder(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := b.runGradle(ctx, t.TempDir(), []string{"help"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEnsureJDKUsesSystemJava(t *testing.T) {
	binDir := t.TempDir()
	java := filepath.Join(binDir, "java")
	require.NoError(t, os.WriteFile(java, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	t.Setenv("PATH", binDir)

	b := newTestBuilder(t)
	require.NoError(t, b.ensureJDK(context.Background()))
	assert.NotEmpty(t, b.javaHome)
}

func TestFindLocalJDK(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	b := newTestBuilder(t)

	home := filepath.Join(b.jdkDir, "jdk-17.0.11+9")
	require.NoError(t, os.MkdirAll(filepath.Join(home, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "bin", "java"),
		[]byte("#!/bin/sh\nexit 0\n"), 0o755))

	assert.Equal(t, home, b.findLocalJDK())
	require.NoError(t, b.ensureJDK(context.Background()))
	assert.Equal(t, home, b.javaHome)
}

func TestEnsureGradleUsesLocalInstall(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	b := newTestBuilder(t)

	bin := filepath.Join(b.gradleDir, "gradle-8.5", "bin")
	require.NoError(t, os.MkdirAll(bin, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bin, "gradle"),
		[]byte("#!/bin/sh\nexit 0\n"), 0o755))

	// No network calls happen when the install is already present.
	require.NoError(t, b.ensureGradle(context.Background()))
	assert.Equal(t, filepath.Join(bin, "gradle"), b.localGradleBin())
}

func TestSDKRootHonorsEnvOverride(t *testing.T) {
	external := t.TempDir()
	t.Setenv("ANDROID_SDK_ROOT", external)

	b := newTestBuilder(t)
	assert.Equal(t, external, b.sdkRoot())
}

func TestSDKRootDefaultsToManagedDir(t *testing.T) {
	t.Setenv("ANDROID_SDK_ROOT", "")
	t.Setenv("ANDROID_HOME", "")

	b := newTestBuilder(t)
	assert.Equal(t, b.androidDir, b.sdkRoot())
}

func TestSDKManagerDetection(t *testing.T) {
	b := newTestBuilder(t)
	assert.Empty(t, b.sdkManagerPath(b.androidDir))

	bin := filepath.Join(b.androidDir, "cmdline-tools", "latest", "bin")
	require.NoError(t, os.MkdirAll(bin, 0o755))
	manager := filepath.Join(bin, "sdkmanager")
	require.NoError(t, os.WriteFile(manager, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	assert.Equal(t, manager, b.sdkManagerPath(b.androidDir))
}

func TestDownloadSkipsExisting(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte("archive-bytes"))
	}))
	defer srv.Close()

	b := newTestBuilder(t)
	dest := filepath.Join(t.TempDir(), "tool.zip")

	require.NoError(t, b.download(context.Background(), srv.URL, dest))
	require.NoError(t, b.download(context.Background(), srv.URL, dest))
	assert.Equal(t, 1, requests)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "archive-bytes", string(data))
}

func TestDownloadBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	b := newTestBuilder(t)
	dest := filepath.Join(t.TempDir(), "tool.zip")
	err := b.download(context.Background(), srv.URL, dest)
	assert.ErrorContains(t, err, "404")
	assert.NoFileExists(t, dest)
}

func TestBuildEnvOverlay(t *testing.T) {
	b := newTestBuilder(t)
	b.javaHome = "/opt/jdk"

	env := b.buildEnv("/opt/sdk")
	assert.Contains(t, env, "JAVA_HOME=/opt/jdk")
	assert.Contains(t, env, "ANDROID_SDK_ROOT=/opt/sdk")
	assert.Contains(t, env, "ANDROID_HOME=/opt/sdk")

	var path string
	for _, kv := range env {
		if len(kv) > 5 && kv[:5] == "PATH=" {
			path = kv
		}
	}
	assert.Contains(t, path, filepath.Join("/opt/jdk", "bin"))
	assert.Contains(t, path, filepath.Join("/opt/sdk", "platform-tools"))
}

func TestSecurePathRejectsEscape(t *testing.T) {
	_, err := securePath("/tmp/dest", "../outside.txt")
	assert.ErrorContains(t, err, "escapes destination")

	path, err := securePath("/tmp/dest", "inner/file.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/dest", "inner", "file.txt"), path)
}
