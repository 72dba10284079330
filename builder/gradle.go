package builder

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ensureGradle resolves a usable Gradle: on PATH, previously installed under
// the tools directory, or freshly downloaded from services.gradle.org.
func (b *Builder) ensureGradle(ctx context.Context) error {
	if path, err := exec.LookPath(gradleBinary()); err == nil {
		b.logf("using system gradle: %s", path)
		return nil
	}
	if b.localGradleBin() != "" {
		b.logf("using managed gradle: %s", b.localGradleBin())
		return nil
	}

	url := fmt.Sprintf("https://services.gradle.org/distributions/gradle-%s-bin.zip", b.gradleVersion)
	archive := filepath.Join(b.gradleDir, filepath.Base(url))
	b.logf("downloading Gradle from %s", url)
	if err := b.download(ctx, url, archive); err != nil {
		return fmt.Errorf("error downloading Gradle: %w", err)
	}
	if err := extractArchive(archive, b.gradleDir); err != nil {
		return fmt.Errorf("error extracting Gradle: %w", err)
	}

	if b.localGradleBin() == "" {
		return fmt.Errorf("Gradle archive extracted but no gradle binary found under %s", b.gradleDir)
	}
	b.logf("installed gradle: %s", b.localGradleBin())
	return nil
}

// localGradleBin returns the managed installation's gradle binary, empty
// when not installed.
func (b *Builder) localGradleBin() string {
	bin := filepath.Join(b.gradleDir, "gradle-"+b.gradleVersion, "bin", gradleBinary())
	if isExecutableFile(bin) {
		return bin
	}
	return ""
}

func gradleBinary() string {
	if runtime.GOOS == "windows" {
		return "gradle.bat"
	}
	return "gradle"
}

func wrapperScript() string {
	if runtime.GOOS == "windows" {
		return "gradlew.bat"
	}
	return "gradlew"
}

// gradleCandidates lists the commands to try, in preference order: system
// gradle, the managed installation, then the project's own wrapper.
func (b *Builder) gradleCandidates(projectPath string) []string {
	var candidates []string
	if path, err := exec.LookPath(gradleBinary()); err == nil {
		candidates = append(candidates, path)
	}
	if local := b.localGradleBin(); local != "" {
		candidates = append(candidates, local)
	}
	wrapper := filepath.Join(projectPath, wrapperScript())
	if isExecutableFile(wrapper) {
		candidates = append(candidates, wrapper)
	}
	if len(candidates) == 0 {
		// Nothing resolvable; keep names for the error message.
		candidates = []string{gradleBinary(), wrapperScript()}
	}
	return candidates
}

// runGradle tries each candidate command until one exits zero. All output
// goes to the session log; a candidate's non-zero exit moves on to the next.
func (b *Builder) runGradle(ctx context.Context, projectPath string, args []string) error {
	if info, err := os.Stat(projectPath); err != nil || !info.IsDir() {
		return fmt.Errorf("project directory does not exist: %s", projectPath)
	}

	candidates := b.gradleCandidates(projectPath)
	var lastErr error
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}

		cmd := exec.CommandContext(ctx, candidate, args...)
		cmd.Dir = projectPath
		cmd.Env = b.buildEnv(b.sdkRoot())

		label := fmt.Sprintf("%s %s", candidate, strings.Join(args, " "))
		if err := b.runLogged(cmd, label); err != nil {
			lastErr = err
			b.logf("candidate failed, trying next: %s", candidate)
			continue
		}
		return nil
	}

	return fmt.Errorf("all gradle commands failed (%s); last error: %w; see %s",
		strings.Join(candidates, ", "), lastErr, b.logPath)
}

// runLogged executes a prepared command with stdout and stderr appended to
// the session log.
func (b *Builder) runLogged(cmd *exec.Cmd, label string) error {
	b.logf("$ %s", label)

	logFile, err := os.OpenFile(b.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err == nil {
		defer logFile.Close()
		cmd.Stdout = logFile
		cmd.Stderr = logFile
	}

	if err := cmd.Run(); err != nil {
		b.logf("command failed: %s: %v", label, err)
		return fmt.Errorf("%s: %w", label, err)
	}
	return nil
}
