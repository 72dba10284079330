package builder

import (
	"os"
	"path/filepath"
	"strings"
)

// buildEnv overlays the toolchain locations onto the current environment so
// Gradle and sdkmanager find the managed JDK and SDK without any shell
// profile setup.
func (b *Builder) buildEnv(sdkRoot string) []string {
	env := os.Environ()

	var pathPrepends []string
	if b.javaHome != "" {
		env = setEnv(env, "JAVA_HOME", b.javaHome)
		pathPrepends = append(pathPrepends, filepath.Join(b.javaHome, "bin"))
	}
	env = setEnv(env, "ANDROID_SDK_ROOT", sdkRoot)
	env = setEnv(env, "ANDROID_HOME", sdkRoot)
	pathPrepends = append(pathPrepends,
		filepath.Join(sdkRoot, "platform-tools"),
		filepath.Join(sdkRoot, "cmdline-tools", "latest", "bin"),
	)
	if local := b.localGradleBin(); local != "" {
		pathPrepends = append(pathPrepends, filepath.Dir(local))
	}

	path := os.Getenv("PATH")
	newPath := strings.Join(append(pathPrepends, path), string(os.PathListSeparator))
	return setEnv(env, "PATH", newPath)
}

// setEnv replaces or appends key=value in an environ slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
