package cli

import (
	"fmt"
	"os"

	"github.com/dmrimawi/patroid/apperr"
)

// ExitWithError prints err and terminates the process with the exit code
// apperr.ExitCode assigns it: 0 is never reached here since this is only
// called on a non-nil error, so every call exits 1.
func ExitWithError(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(apperr.ExitCode(err))
}
