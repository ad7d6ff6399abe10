package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmrimawi/patroid/apperr"
	"github.com/dmrimawi/patroid/extract/manifest"
	"github.com/dmrimawi/patroid/relation"
)

const sampleManifest = `<?xml version="1.0"?>
<manifest>
  <application>
    <activity name="com.example.MainActivity">
      <intent-filter>
        <category name="android.intent.category.LAUNCHER"/>
      </intent-filter>
    </activity>
    <activity name="com.example.SettingsActivity">
      <intent-filter>
        <category name="android.intent.category.DEFAULT"/>
      </intent-filter>
    </activity>
  </application>
</manifest>`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "AndroidManifest.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseAssignsCategories(t *testing.T) {
	path := writeManifest(t, sampleManifest)
	info, err := manifest.Parse(path, relation.New(nil, nil, nil, nil))
	require.NoError(t, err)
	require.Len(t, info.EntryPoints, 2)
	assert.Equal(t, "LAUNCHER", info.EntryPoints[0].Category)
	assert.Equal(t, "DEFAULT", info.EntryPoints[1].Category)
}

func TestParseComputesReachableClosureOverCycle(t *testing.T) {
	path := writeManifest(t, sampleManifest)
	g := relation.New(nil,
		[]relation.AssociationEdge{
			{Holder: "com.example.MainActivity", Target: "com.example.Helper"},
			{Holder: "com.example.Helper", Target: "com.example.MainActivity"},
			{Holder: "com.example.Helper", Target: "com.example.Util"},
		},
		nil, nil,
	)
	info, err := manifest.Parse(path, g)
	require.NoError(t, err)
	assert.ElementsMatch(t, []relation.ClassID{"com.example.Helper", "com.example.Util"}, info.EntryPoints[0].Classes)
}

func TestParseMissingFileReturnsNoManifestError(t *testing.T) {
	_, err := manifest.Parse(filepath.Join(t.TempDir(), "missing.xml"), relation.New(nil, nil, nil, nil))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NoManifest))
}
