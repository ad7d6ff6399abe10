package lspserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmrimawi/patroid/pattern"
	"github.com/dmrimawi/patroid/relation"
	"github.com/dmrimawi/patroid/subpattern"
)

func TestURIPathRoundTrip(t *testing.T) {
	path := "/home/dev/project/src/Widget.java"
	uri := pathToURI(path)

	got, err := uriToPath(uri)
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestURIToPathRejectsNonFileScheme(t *testing.T) {
	_, err := uriToPath("http://example.com/Widget.java")
	assert.Error(t, err)
}

func TestClassOfUsesBaseFileName(t *testing.T) {
	assert.Equal(t, relation.ClassID("Widget"), classOf("/home/dev/project/src/Widget.java"))
}

func TestOccurrenceTouchesMatchesWitnessClass(t *testing.T) {
	occ := pattern.Occurrence{
		Pattern: pattern.Singleton,
		Witnesses: map[string]any{
			"x": subpattern.SASS{X: "Registry"},
		},
	}
	assert.True(t, occurrenceTouches(occ, "Registry"))
	assert.False(t, occurrenceTouches(occ, "Other"))
}

func TestProjectRootPicksLongestMatchingWorkspaceRoot(t *testing.T) {
	s := &Server{roots: []string{"/home/dev", "/home/dev/project"}}
	assert.Equal(t, "/home/dev/project", s.projectRoot("/home/dev/project/src/Widget.java"))
}

func TestProjectRootFallsBackToFileDirectory(t *testing.T) {
	s := &Server{}
	assert.Equal(t, "/home/dev/project/src", s.projectRoot("/home/dev/project/src/Widget.java"))
}
