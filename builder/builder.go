// Package builder bootstraps the Android build toolchain (JDK, SDK command
// line tools, Gradle) under a managed directory and drives Gradle builds
// against scaffolded projects. Downloads are idempotent: anything already
// present is detected and reused.
package builder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"droidsmith/progress"
)

var (
	// ErrUnsupportedPlatform is returned when no toolchain artifact exists
	// for the current OS and architecture.
	ErrUnsupportedPlatform = errors.New("builder: unsupported platform")

	// ErrArtifactNotFound is returned when a build reports success but no
	// APK can be located in the project's output directory.
	ErrArtifactNotFound = errors.New("builder: no APK produced")
)

// Config controls where the toolchain lives and which versions are managed.
type Config struct {
	ToolsDir            string
	GradleVersion       string
	CmdlineToolsVersion string
	SDKPackages         []string
}

// Builder owns one toolchain directory. It is safe for sequential use; a
// single build or bootstrap runs at a time.
type Builder struct {
	toolsDir   string
	jdkDir     string
	androidDir string
	gradleDir  string
	logsDir    string
	logPath    string

	gradleVersion       string
	cmdlineToolsVersion string
	sdkPackages         []string

	javaHome string
	logger   *zerolog.Logger
	http     *http.Client
}

// New creates a builder rooted at cfg.ToolsDir, creating the directory
// layout on first use.
func New(cfg Config, logger *zerolog.Logger) (*Builder, error) {
	if cfg.ToolsDir == "" {
		return nil, fmt.Errorf("tools directory is required")
	}
	if cfg.GradleVersion == "" {
		cfg.GradleVersion = "8.5"
	}
	if cfg.CmdlineToolsVersion == "" {
		cfg.CmdlineToolsVersion = "11076708"
	}
	if len(cfg.SDKPackages) == 0 {
		cfg.SDKPackages = []string{
			"platform-tools",
			"platforms;android-34",
			"build-tools;34.0.0",
		}
	}

	b := &Builder{
		toolsDir:            cfg.ToolsDir,
		jdkDir:              filepath.Join(cfg.ToolsDir, "jdk"),
		androidDir:          filepath.Join(cfg.ToolsDir, "android-sdk"),
		gradleDir:           filepath.Join(cfg.ToolsDir, "gradle"),
		logsDir:             filepath.Join(cfg.ToolsDir, "logs"),
		gradleVersion:       cfg.GradleVersion,
		cmdlineToolsVersion: cfg.CmdlineToolsVersion,
		sdkPackages:         cfg.SDKPackages,
		logger:              logger,
		http:                &http.Client{Timeout: 30 * time.Minute},
	}
	b.logPath = filepath.Join(b.logsDir, "builder.log")

	for _, dir := range []string{b.toolsDir, b.jdkDir, b.androidDir, b.gradleDir, b.logsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating tools directory %s: %w", dir, err)
		}
	}
	return b, nil
}

// LogPath is the append-only session log all tool output is mirrored to.
func (b *Builder) LogPath() string { return b.logPath }

// EnsureTools makes the full toolchain available, in dependency order: the
// JDK first (the SDK manager needs it), then the Android SDK, then Gradle.
// Each step detects an existing installation before downloading anything.
func (b *Builder) EnsureTools(ctx context.Context, step progress.StepFunc) error {
	b.logf("=== ensure tools ===")

	progress.EmitStep(step, "jdk", "Checking for a Java runtime", progress.StatusStart)
	if err := b.ensureJDK(ctx); err != nil {
		progress.EmitStep(step, "jdk", err.Error(), progress.StatusError)
		return fmt.Errorf("JDK setup failed: %w", err)
	}
	progress.EmitStep(step, "jdk", "Java runtime ready", progress.StatusDone)

	progress.EmitStep(step, "sdk", "Setting up the Android SDK", progress.StatusStart)
	if err := b.ensureSDK(ctx); err != nil {
		progress.EmitStep(step, "sdk", err.Error(), progress.StatusError)
		return fmt.Errorf("Android SDK setup failed: %w", err)
	}
	progress.EmitStep(step, "sdk", "Android SDK ready", progress.StatusDone)

	progress.EmitStep(step, "gradle", "Setting up Gradle", progress.StatusStart)
	if err := b.ensureGradle(ctx); err != nil {
		progress.EmitStep(step, "gradle", err.Error(), progress.StatusError)
		return fmt.Errorf("Gradle setup failed: %w", err)
	}
	progress.EmitStep(step, "gradle", "Gradle ready", progress.StatusDone)

	return nil
}

// GradleSync runs a lightweight Gradle invocation against the project so
// dependency resolution problems surface before a full build.
func (b *Builder) GradleSync(ctx context.Context, projectPath string, step progress.StepFunc) error {
	progress.EmitStep(step, "sync", "Resolving project dependencies", progress.StatusStart)
	if err := b.runGradle(ctx, projectPath, []string{"--no-daemon", "help"}); err != nil {
		progress.EmitStep(step, "sync", err.Error(), progress.StatusError)
		return err
	}
	progress.EmitStep(step, "sync", "Project dependencies resolved", progress.StatusDone)
	return nil
}

// AssembleDebug builds the debug APK and returns the newest artifact path.
func (b *Builder) AssembleDebug(ctx context.Context, projectPath string, step progress.StepFunc) (string, error) {
	progress.EmitStep(step, "assemble", "Building debug APK", progress.StatusStart)
	if err := b.runGradle(ctx, projectPath, []string{"--no-daemon", "assembleDebug"}); err != nil {
		progress.EmitStep(step, "assemble", err.Error(), progress.StatusError)
		return "", err
	}

	apk, err := b.findNewestAPK(projectPath)
	if err != nil {
		progress.EmitStep(step, "assemble", err.Error(), progress.StatusError)
		return "", err
	}

	b.logf("build succeeded: %s", apk)
	progress.EmitStep(step, "assemble", "APK ready: "+apk, progress.StatusDone)
	return apk, nil
}

// findNewestAPK locates the freshest debug APK under the project's standard
// Gradle output directory. Multiple matches (flavored builds) resolve to the
// most recently modified file.
func (b *Builder) findNewestAPK(projectPath string) (string, error) {
	pattern := filepath.Join(projectPath, "app", "build", "outputs", "apk", "debug", "*.apk")
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return "", fmt.Errorf("error searching for APK: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w under %s", ErrArtifactNotFound, filepath.Dir(pattern))
	}

	newest := matches[0]
	newestMod := time.Time{}
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		if info.ModTime().After(newestMod) {
			newest = m
			newestMod = info.ModTime()
		}
	}
	return newest, nil
}
