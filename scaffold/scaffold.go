// Package scaffold writes a minimal, buildable Android Studio project
// skeleton: Gradle descriptors, manifest, a main activity, and resources.
package scaffold

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"droidsmith/fs"
	"droidsmith/progress"
)

// Versions pins the toolchain and dependency versions baked into the
// generated Gradle files.
type Versions struct {
	MinSDK     int
	TargetSDK  int
	CompileSDK int
	Kotlin     string
	AGP        string
	Room       string
	Retrofit   string
	Material   string
}

// DefaultVersions returns the scaffold's pinned versions.
func DefaultVersions() Versions {
	return Versions{
		MinSDK:     24,
		TargetSDK:  34,
		CompileSDK: 34,
		Kotlin:     "1.9.24",
		AGP:        "8.5.2",
		Room:       "2.6.1",
		Retrofit:   "2.9.0",
		Material:   "1.12.0",
	}
}

// Generator scaffolds Android projects through the safe materializer.
type Generator struct {
	files    *fs.Manager
	versions Versions
	logger   *zerolog.Logger
}

// NewGenerator creates a scaffold generator.
func NewGenerator(files *fs.Manager, versions Versions, logger *zerolog.Logger) *Generator {
	return &Generator{files: files, versions: versions, logger: logger}
}

var nameSanitizeRe = regexp.MustCompile(`[^A-Za-z0-9_ ]+`)

// SanitizeProjectName strips characters that break Gradle or manifest
// identifiers, falling back to a default name when nothing survives.
func SanitizeProjectName(name string) string {
	cleaned := strings.TrimSpace(nameSanitizeRe.ReplaceAllString(name, ""))
	if cleaned == "" {
		return "MyAndroidApp"
	}
	return cleaned
}

// Generate writes a complete project skeleton under outputDir and returns
// the project path. Validation failures are fatal and leave no partial
// work. Step events use keys create_structure, gradle_files, app_code and
// readme with start/done/error statuses.
func (g *Generator) Generate(projectName, description, outputDir string, step progress.StepFunc) (string, error) {
	if strings.TrimSpace(projectName) == "" {
		return "", fmt.Errorf("project name cannot be empty")
	}
	if strings.TrimSpace(description) == "" {
		return "", fmt.Errorf("project description cannot be empty")
	}
	if outputDir == "" || !g.files.IsDir(outputDir) {
		return "", fmt.Errorf("output directory does not exist: %s", outputDir)
	}

	name := SanitizeProjectName(projectName)
	projectPath := filepath.Join(outputDir, name)
	if g.files.Exists(projectPath) {
		return "", fmt.Errorf("project directory already exists: %s", projectPath)
	}

	pkg := packageName(name)

	progress.EmitStep(step, "create_structure", "Creating project structure", progress.StatusStart)
	if err := g.createStructure(projectPath); err != nil {
		progress.EmitStep(step, "create_structure", err.Error(), progress.StatusError)
		return "", err
	}
	progress.EmitStep(step, "create_structure", "Creating project structure", progress.StatusDone)

	progress.EmitStep(step, "gradle_files", "Generating Gradle and settings files", progress.StatusStart)
	if err := g.writeGradleFiles(projectPath, name); err != nil {
		progress.EmitStep(step, "gradle_files", err.Error(), progress.StatusError)
		return "", err
	}
	progress.EmitStep(step, "gradle_files", "Generating Gradle and settings files", progress.StatusDone)

	progress.EmitStep(step, "app_code", "Generating app source and resources", progress.StatusStart)
	if err := g.writeAppCode(projectPath, name, pkg, description); err != nil {
		progress.EmitStep(step, "app_code", err.Error(), progress.StatusError)
		return "", err
	}
	progress.EmitStep(step, "app_code", "Generating app source and resources", progress.StatusDone)

	progress.EmitStep(step, "readme", "Creating README", progress.StatusStart)
	if _, err := g.files.Write(projectPath, "README.md", readme(name, description)); err != nil {
		progress.EmitStep(step, "readme", err.Error(), progress.StatusError)
		return "", err
	}
	progress.EmitStep(step, "readme", "Creating README", progress.StatusDone)

	return projectPath, nil
}

func packageName(name string) string {
	return "com.example." + strings.ToLower(strings.ReplaceAll(name, " ", ""))
}

func (g *Generator) createStructure(projectPath string) error {
	srcMain := filepath.Join(projectPath, "app", "src", "main")
	dirs := []string{
		filepath.Join(srcMain, "java"),
		filepath.Join(srcMain, "res", "layout"),
		filepath.Join(srcMain, "res", "values"),
		filepath.Join(srcMain, "res", "drawable"),
		filepath.Join(srcMain, "res", "mipmap-hdpi"),
		filepath.Join(srcMain, "res", "mipmap-mdpi"),
		filepath.Join(srcMain, "res", "mipmap-xhdpi"),
		filepath.Join(srcMain, "res", "mipmap-xxhdpi"),
		filepath.Join(srcMain, "res", "mipmap-xxxhdpi"),
	}
	for _, dir := range dirs {
		if err := g.files.EnsureDir(dir); err != nil {
			return fmt.Errorf("error creating directory %s: %w", dir, err)
		}
	}
	return nil
}

func (g *Generator) writeGradleFiles(projectPath, name string) error {
	files := map[string]string{
		"settings.gradle":   settingsGradle(name),
		"build.gradle":      rootBuildGradle(g.versions),
		"gradle.properties": gradleProperties(),
		"gradlew":           gradlewScript(),
	}
	for rel, content := range files {
		if _, err := g.files.Write(projectPath, rel, content); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) writeAppCode(projectPath, name, pkg, description string) error {
	srcMain := filepath.Join("app", "src", "main")
	pkgDir := filepath.Join(srcMain, "java", filepath.Join(strings.Split(pkg, ".")...))

	files := map[string]string{
		filepath.Join("app", "build.gradle"):                         appBuildGradle(pkg, g.versions),
		filepath.Join(srcMain, "AndroidManifest.xml"):                androidManifest(name),
		filepath.Join(pkgDir, "MainActivity.kt"):                     mainActivity(pkg, name),
		filepath.Join(srcMain, "res", "layout", "activity_main.xml"): activityMainLayout(name),
		filepath.Join(srcMain, "res", "values", "strings.xml"):       stringsXML(name),
		filepath.Join(srcMain, "res", "values", "colors.xml"):        colorsXML(),
		filepath.Join(srcMain, "res", "values", "themes.xml"):        themesXML(name),
	}

	// Extras keyed off the description, mirroring what a user asking for a
	// data-backed or networked app expects to find in the skeleton.
	lower := strings.ToLower(description)
	if containsAny(lower, "database", "room", "data", "model") {
		files[filepath.Join(pkgDir, "data", "Item.kt")] = roomModel(pkg)
		files[filepath.Join(pkgDir, "data", "AppDatabase.kt")] = roomDatabase(pkg)
	}
	if containsAny(lower, "api", "network", "http", "retrofit") {
		files[filepath.Join(pkgDir, "network", "ApiService.kt")] = apiService(pkg)
	}
	if containsAny(lower, "list", "recycler", "adapter") {
		files[filepath.Join(pkgDir, "ui", "ItemAdapter.kt")] = itemAdapter(pkg)
	}

	for rel, content := range files {
		if _, err := g.files.Write(projectPath, rel, content); err != nil {
			return err
		}
	}
	return nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
