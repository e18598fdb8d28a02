//go:build !windows

// Package dialog shows blocking user-facing error dialogs.
package dialog

import (
	"fmt"
	"os"
)

// Fatal prints the error to stderr; there is no native dialog here.
func Fatal(title, text string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", title, text)
}
