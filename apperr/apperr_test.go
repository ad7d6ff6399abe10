package apperr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmrimawi/patroid/apperr"
)

func TestIsMatchesWrappedKind(t *testing.T) {
	cause := errors.New("boom")
	err := apperr.Wrap(apperr.NoManifest, "no AndroidManifest.xml", cause)
	assert.True(t, apperr.Is(err, apperr.NoManifest))
	assert.False(t, apperr.Is(err, apperr.NoSources))
	assert.ErrorIs(t, err, cause)
}

func TestExitCodeIsBinary(t *testing.T) {
	assert.Equal(t, 0, apperr.ExitCode(nil))
	assert.Equal(t, 1, apperr.ExitCode(apperr.New(apperr.InputMissing, "no input")))
	assert.Equal(t, 1, apperr.ExitCode(errors.New("anything else")))
}

func TestIsReturnsFalseForPlainErrors(t *testing.T) {
	assert.False(t, apperr.Is(errors.New("plain"), apperr.InternalError))
}
