// Package cli wires the cobra command tree and the interactive generation
// TUI together.
package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "droidsmith",
	Short: "Droidsmith turns a plain-language app idea into an Android project",
	Long: `Droidsmith is a desktop tool that turns a natural-language description of an
app into a scaffolded Android Studio project using a locally hosted language
model, and can bootstrap the Android toolchain to build it.`,
}

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate project files from a description",
	Run: func(cmd *cobra.Command, args []string) {
		flags, err := parseGenFlags(cmd)
		if err != nil {
			fmt.Printf("Error parsing flags: %v\n", err)
			os.Exit(1)
		}

		model, err := newGenerateModel(flags)
		if err != nil {
			fmt.Printf("Error initializing model: %v\n", err)
			os.Exit(1)
		}

		p := tea.NewProgram(model)
		if _, err := p.Run(); err != nil {
			fmt.Printf("Error running program: %v\n", err)
			os.Exit(1)
		}
	},
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Bootstrap the Android toolchain and build a project's debug APK",
	Run: func(cmd *cobra.Command, args []string) {
		flags, err := parseBuildFlags(cmd)
		if err != nil {
			fmt.Printf("Error parsing flags: %v\n", err)
			os.Exit(1)
		}
		if err := runBuild(flags); err != nil {
			fmt.Printf("Build failed: %v\n", err)
			os.Exit(1)
		}
	},
}

var scaffoldCmd = &cobra.Command{
	Use:   "scaffold",
	Short: "Write a minimal Android project skeleton without any model calls",
	Run: func(cmd *cobra.Command, args []string) {
		flags, err := parseScaffoldFlags(cmd)
		if err != nil {
			fmt.Printf("Error parsing flags: %v\n", err)
			os.Exit(1)
		}
		if err := runScaffold(flags); err != nil {
			fmt.Printf("Scaffold failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(scaffoldCmd)

	genCmd.Flags().StringP("request", "r", "", "App description; skips the interactive prompt")
	genCmd.Flags().StringP("output", "o", "", "Directory to write generated files into")
	genCmd.Flags().StringP("config", "c", "", "Path to custom configuration file")

	buildCmd.Flags().StringP("project", "p", "", "Path to the Android project to build")
	buildCmd.Flags().StringP("config", "c", "", "Path to custom configuration file")
	buildCmd.Flags().Bool("sync-only", false, "Resolve dependencies without building the APK")
	buildCmd.MarkFlagRequired("project")

	scaffoldCmd.Flags().StringP("name", "n", "", "Project name")
	scaffoldCmd.Flags().StringP("describe", "d", "", "One-line project description")
	scaffoldCmd.Flags().StringP("output", "o", "", "Directory to place the project in")
	scaffoldCmd.Flags().StringP("config", "c", "", "Path to custom configuration file")
	scaffoldCmd.MarkFlagRequired("name")
	scaffoldCmd.MarkFlagRequired("describe")
}

type genFlags struct {
	request string
	output  string
	config  string
}

func parseGenFlags(cmd *cobra.Command) (genFlags, error) {
	request, err := cmd.Flags().GetString("request")
	if err != nil {
		return genFlags{}, err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return genFlags{}, err
	}
	config, err := cmd.Flags().GetString("config")
	if err != nil {
		return genFlags{}, err
	}
	return genFlags{request: request, output: output, config: config}, nil
}

type buildFlags struct {
	project  string
	config   string
	syncOnly bool
}

func parseBuildFlags(cmd *cobra.Command) (buildFlags, error) {
	project, err := cmd.Flags().GetString("project")
	if err != nil {
		return buildFlags{}, err
	}
	config, err := cmd.Flags().GetString("config")
	if err != nil {
		return buildFlags{}, err
	}
	syncOnly, err := cmd.Flags().GetBool("sync-only")
	if err != nil {
		return buildFlags{}, err
	}
	return buildFlags{project: project, config: config, syncOnly: syncOnly}, nil
}

type scaffoldFlags struct {
	name     string
	describe string
	output   string
	config   string
}

func parseScaffoldFlags(cmd *cobra.Command) (scaffoldFlags, error) {
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return scaffoldFlags{}, err
	}
	describe, err := cmd.Flags().GetString("describe")
	if err != nil {
		return scaffoldFlags{}, err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return scaffoldFlags{}, err
	}
	config, err := cmd.Flags().GetString("config")
	if err != nil {
		return scaffoldFlags{}, err
	}
	return scaffoldFlags{name: name, describe: describe, output: output, config: config}, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
