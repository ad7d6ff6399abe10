package report_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmrimawi/patroid/extract"
	"github.com/dmrimawi/patroid/pattern"
	"github.com/dmrimawi/patroid/relation"
	"github.com/dmrimawi/patroid/report"
	"github.com/dmrimawi/patroid/subpattern"
)

func TestBuildAttributesOccurrenceToEntryPoint(t *testing.T) {
	occurrences := map[string][]pattern.Occurrence{
		pattern.Singleton: {
			{Pattern: pattern.Singleton, Witnesses: map[string]any{"SASS": subpattern.SASS{X: "Registry"}}},
		},
	}
	manifest := &extract.ManifestInfo{EntryPoints: []extract.EntryPoint{
		{Name: "MainActivity", Category: "LAUNCHER", Classes: []relation.ClassID{"Registry"}},
		{Name: "SettingsActivity", Category: "DEFAULT", Classes: []relation.ClassID{"Other"}},
	}}

	runID := uuid.New()
	r := report.Build(runID, "demo-project", occurrences, manifest)

	require.Len(t, r.ByEntryPoint["MainActivity"], 1)
	assert.Empty(t, r.ByEntryPoint["SettingsActivity"])
	assert.Equal(t, runID, r.RunID)
	assert.Equal(t, "demo-project", r.Project)
}

func TestBuildWithNilManifestLeavesByEntryPointEmpty(t *testing.T) {
	r := report.Build(uuid.New(), "demo-project", map[string][]pattern.Occurrence{}, nil)
	assert.Empty(t, r.ByEntryPoint)
}
