package cli

import (
	"fmt"

	"droidsmith/config"
	"droidsmith/fs"
	"droidsmith/logger"
	"droidsmith/progress"
	"droidsmith/scaffold"
)

// runScaffold writes a project skeleton directly, with no model involved.
func runScaffold(f scaffoldFlags) error {
	cfg, err := config.Load(f.config)
	if err != nil {
		return err
	}

	outputDir := cfg.OutputDir
	if f.output != "" {
		outputDir = f.output
	}

	files := fs.NewOsManager()
	if err := files.EnsureDir(outputDir); err != nil {
		return err
	}

	gen := scaffold.NewGenerator(files, scaffold.DefaultVersions(), logger.Get())
	step := func(step, message string, status progress.Status) {
		if status == progress.StatusDone {
			fmt.Printf("  ✓ %s\n", message)
		}
		if status == progress.StatusError {
			fmt.Printf("  ! %s\n", message)
		}
	}

	path, err := gen.Generate(f.name, f.describe, outputDir, step)
	if err != nil {
		return err
	}
	fmt.Printf("\nProject created: %s\n", path)
	return nil
}
