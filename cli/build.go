package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"droidsmith/builder"
	"droidsmith/config"
	"droidsmith/logger"
	"droidsmith/progress"
)

// runBuild drives the toolchain bootstrap and Gradle build, streaming step
// lines to stdout. No TUI: build output is long and append-only.
func runBuild(f buildFlags) error {
	cfg, err := config.Load(f.config)
	if err != nil {
		return err
	}

	b, err := builder.New(builder.Config{
		ToolsDir:            cfg.ToolsDir,
		GradleVersion:       cfg.GradleVersion,
		CmdlineToolsVersion: cfg.CmdlineToolsVersion,
		SDKPackages:         cfg.SDKPackages,
	}, logger.Get())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	step := func(step, message string, status progress.Status) {
		switch status {
		case progress.StatusStart:
			fmt.Printf("... %s\n", message)
		case progress.StatusDone:
			fmt.Printf("  ✓ %s\n", message)
		case progress.StatusError:
			fmt.Printf("  ! %s\n", message)
		}
	}

	if err := b.EnsureTools(ctx, step); err != nil {
		return fmt.Errorf("%w (full output: %s)", err, b.LogPath())
	}
	if err := b.GradleSync(ctx, f.project, step); err != nil {
		return fmt.Errorf("%w (full output: %s)", err, b.LogPath())
	}
	if f.syncOnly {
		fmt.Println("Sync complete.")
		return nil
	}

	apk, err := b.AssembleDebug(ctx, f.project, step)
	if err != nil {
		return fmt.Errorf("%w (full output: %s)", err, b.LogPath())
	}

	fmt.Printf("\nDebug APK: %s\n", apk)
	return nil
}
