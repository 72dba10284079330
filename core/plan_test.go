package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlanWrappedInProse(t *testing.T) {
	raw := `Sure! Here is the plan you asked for:

{"steps": ["step one", "step two"], "files": [{"path": "app/src/main/AndroidManifest.xml", "purpose": "manifest"}], "summary": "A notes app"}

Let me know if you need anything else.`

	plan, err := ParsePlan(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"step one", "step two"}, plan.Steps)
	require.Len(t, plan.Files, 1)
	assert.Equal(t, "app/src/main/AndroidManifest.xml", plan.Files[0].Path)
	assert.Equal(t, "A notes app", plan.Summary)
}

func TestParsePlanBareJSON(t *testing.T) {
	plan, err := ParsePlan(`{"steps": [], "files": [], "summary": "empty"}`)
	require.NoError(t, err)
	assert.Equal(t, "empty", plan.Summary)
}

func TestParsePlanNoJSON(t *testing.T) {
	_, err := ParsePlan("I could not produce a plan, sorry.")
	assert.Error(t, err)
}

func TestFallbackPlanDeterministic(t *testing.T) {
	plan := FallbackPlan("  a counter app  ")
	assert.Equal(t, "a counter app", plan.Summary)
	require.Len(t, plan.Files, 1)
	assert.Equal(t, "README.md", plan.Files[0].Path)
	assert.Len(t, plan.Steps, 4)

	empty := FallbackPlan("   ")
	assert.Equal(t, "Simple Android application", empty.Summary)
}

func TestLanguageHint(t *testing.T) {
	cases := map[string]string{
		"README.md":           "markdown",
		"MainActivity.kt":     "kotlin",
		"build.gradle.KTS":    "kotlin",
		"Main.java":           "java",
		"AndroidManifest.xml": "xml",
		"plan.json":           "json",
		"build.gradle":        "groovy",
		"gradle.properties":   "properties",
		"script.py":           "python",
		"notes.txt":           "text",
		"LICENSE":             "text",
		"archive.unknown":     "text",
	}
	for path, want := range cases {
		assert.Equal(t, want, LanguageHint(path), path)
	}
}
