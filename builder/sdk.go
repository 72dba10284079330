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

// ensureSDK makes the Android command line tools available and installs the
// configured SDK packages. License acceptance and package installation run
// every time; sdkmanager itself makes both idempotent.
func (b *Builder) ensureSDK(ctx context.Context) error {
	sdkRoot := b.sdkRoot()

	manager := b.sdkManagerPath(sdkRoot)
	if manager == "" {
		if err := b.installCmdlineTools(ctx, sdkRoot); err != nil {
			return err
		}
		manager = b.sdkManagerPath(sdkRoot)
		if manager == "" {
			return fmt.Errorf("command line tools extracted but sdkmanager not found under %s", sdkRoot)
		}
	}

	if err := b.acceptLicenses(ctx, manager, sdkRoot); err != nil {
		return err
	}
	return b.installPackages(ctx, manager, sdkRoot)
}

// sdkRoot honors an externally managed SDK when ANDROID_SDK_ROOT or
// ANDROID_HOME points at one, otherwise uses the managed directory.
func (b *Builder) sdkRoot() string {
	for _, env := range []string{"ANDROID_SDK_ROOT", "ANDROID_HOME"} {
		if root := os.Getenv(env); root != "" {
			if info, err := os.Stat(root); err == nil && info.IsDir() {
				b.logf("using external Android SDK from %s: %s", env, root)
				return root
			}
		}
	}
	return b.androidDir
}

func (b *Builder) sdkManagerPath(sdkRoot string) string {
	name := "sdkmanager"
	if runtime.GOOS == "windows" {
		name = "sdkmanager.bat"
	}
	path := filepath.Join(sdkRoot, "cmdline-tools", "latest", "bin", name)
	if isExecutableFile(path) {
		return path
	}
	return ""
}

func cmdlineToolsURL(version string) (string, error) {
	var platform string
	switch runtime.GOOS {
	case "linux":
		platform = "linux"
	case "darwin":
		platform = "mac"
	case "windows":
		platform = "win"
	default:
		return "", fmt.Errorf("%w: no command line tools for %s", ErrUnsupportedPlatform, runtime.GOOS)
	}
	return fmt.Sprintf("https://dl.google.com/android/repository/commandlinetools-%s-%s_latest.zip",
		platform, version), nil
}

// installCmdlineTools downloads the command line tools zip and relocates the
// nested cmdline-tools directory into the layout sdkmanager expects
// (<root>/cmdline-tools/latest/...).
func (b *Builder) installCmdlineTools(ctx context.Context, sdkRoot string) error {
	url, err := cmdlineToolsURL(b.cmdlineToolsVersion)
	if err != nil {
		return err
	}

	archive := filepath.Join(sdkRoot, filepath.Base(url))
	b.logf("downloading Android command line tools from %s", url)
	if err := b.download(ctx, url, archive); err != nil {
		return fmt.Errorf("error downloading command line tools: %w", err)
	}

	tmp := filepath.Join(sdkRoot, "cmdline-tools-extract")
	if err := extractArchive(archive, tmp); err != nil {
		return fmt.Errorf("error extracting command line tools: %w", err)
	}
	defer os.RemoveAll(tmp)

	latest := filepath.Join(sdkRoot, "cmdline-tools", "latest")
	if err := os.MkdirAll(filepath.Dir(latest), 0o755); err != nil {
		return err
	}

	nested := filepath.Join(tmp, "cmdline-tools")
	if _, err := os.Stat(nested); err != nil {
		nested = tmp
	}
	if err := os.Rename(nested, latest); err != nil {
		return fmt.Errorf("error installing command line tools: %w", err)
	}
	b.logf("installed command line tools: %s", latest)
	return nil
}

// acceptLicenses answers yes to every license prompt. The input is bounded:
// sdkmanager asks once per unaccepted license, of which there are only ever
// a handful.
func (b *Builder) acceptLicenses(ctx context.Context, manager, sdkRoot string) error {
	b.logf("accepting SDK licenses")
	cmd := exec.CommandContext(ctx, manager, "--licenses", "--sdk_root="+sdkRoot)
	cmd.Env = b.buildEnv(sdkRoot)
	cmd.Stdin = strings.NewReader(strings.Repeat("y\n", 50))
	return b.runLogged(cmd, "sdkmanager --licenses")
}

func (b *Builder) installPackages(ctx context.Context, manager, sdkRoot string) error {
	args := append([]string{"--sdk_root=" + sdkRoot}, b.sdkPackages...)
	b.logf("installing SDK packages: %s", strings.Join(b.sdkPackages, " "))
	cmd := exec.CommandContext(ctx, manager, args...)
	cmd.Env = b.buildEnv(sdkRoot)
	cmd.Stdin = strings.NewReader(strings.Repeat("y\n", 50))
	if err := b.runLogged(cmd, "sdkmanager install"); err != nil {
		return fmt.Errorf("error installing SDK packages: %w", err)
	}
	return nil
}
