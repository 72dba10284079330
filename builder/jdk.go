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

// Temurin 17 GA archives, keyed by GOOS/GOARCH.
var jdkURLs = map[string]string{
	"linux/amd64":   "https://github.com/adoptium/temurin17-binaries/releases/download/jdk-17.0.11%2B9/OpenJDK17U-jdk_x64_linux_hotspot_17.0.11_9.tar.gz",
	"linux/arm64":   "https://github.com/adoptium/temurin17-binaries/releases/download/jdk-17.0.11%2B9/OpenJDK17U-jdk_aarch64_linux_hotspot_17.0.11_9.tar.gz",
	"darwin/amd64":  "https://github.com/adoptium/temurin17-binaries/releases/download/jdk-17.0.11%2B9/OpenJDK17U-jdk_x64_mac_hotspot_17.0.11_9.tar.gz",
	"darwin/arm64":  "https://github.com/adoptium/temurin17-binaries/releases/download/jdk-17.0.11%2B9/OpenJDK17U-jdk_aarch64_mac_hotspot_17.0.11_9.tar.gz",
	"windows/amd64": "https://github.com/adoptium/temurin17-binaries/releases/download/jdk-17.0.11%2B9/OpenJDK17U-jdk_x64_windows_hotspot_17.0.11_9.zip",
}

// ensureJDK resolves a usable Java installation: a java binary already on
// PATH, a previously installed JDK under the tools directory, or a fresh
// Temurin 17 download.
func (b *Builder) ensureJDK(ctx context.Context) error {
	if path, err := exec.LookPath("java"); err == nil {
		b.logf("using system java: %s", path)
		b.javaHome = javaHomeFromBinary(path)
		return nil
	}

	if home := b.findLocalJDK(); home != "" {
		b.logf("using managed JDK: %s", home)
		b.javaHome = home
		return nil
	}

	key := runtime.GOOS + "/" + runtime.GOARCH
	url, ok := jdkURLs[key]
	if !ok {
		return fmt.Errorf("%w: no JDK archive for %s", ErrUnsupportedPlatform, key)
	}

	archive := filepath.Join(b.jdkDir, filepath.Base(url))
	b.logf("downloading JDK from %s", url)
	if err := b.download(ctx, url, archive); err != nil {
		return fmt.Errorf("error downloading JDK: %w", err)
	}
	if err := extractArchive(archive, b.jdkDir); err != nil {
		return fmt.Errorf("error extracting JDK: %w", err)
	}

	home := b.findLocalJDK()
	if home == "" {
		return fmt.Errorf("JDK archive extracted but no java binary found under %s", b.jdkDir)
	}
	b.logf("installed JDK: %s", home)
	b.javaHome = home
	return nil
}

// findLocalJDK scans the managed JDK directory for an installation root
// containing bin/java. On macOS the archive nests the root one level deeper
// under Contents/Home.
func (b *Builder) findLocalJDK() string {
	entries, err := os.ReadDir(b.jdkDir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		if !strings.HasPrefix(name, "jdk") && !strings.HasPrefix(name, "jre") &&
			!strings.Contains(name, "temurin") {
			continue
		}
		root := filepath.Join(b.jdkDir, entry.Name())
		for _, candidate := range []string{
			root,
			filepath.Join(root, "Contents", "Home"),
		} {
			if isExecutableFile(filepath.Join(candidate, "bin", javaBinary())) {
				return candidate
			}
		}
	}
	return ""
}

// javaHomeFromBinary derives JAVA_HOME from a java binary path, following
// one level of symlink indirection if possible.
func javaHomeFromBinary(binPath string) string {
	resolved, err := filepath.EvalSymlinks(binPath)
	if err == nil {
		binPath = resolved
	}
	return filepath.Dir(filepath.Dir(binPath))
}

func javaBinary() string {
	if runtime.GOOS == "windows" {
		return "java.exe"
	}
	return "java"
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
