//go:build !statsview

package statsview

import "io"

// Launch does nothing without the statsview build tag.
func Launch(io.Writer) {}

// Available returns true if a statsview is available to launch.
func Available() bool {
	return false
}
