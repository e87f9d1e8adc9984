package cli

import (
	"fmt"
	"io"
	"strings"

	"alto-client/internal/ports/output"
)

// Compile-time check to ensure Navigator implements the output port
var _ output.Navigator = (*Navigator)(nil)

// Navigator struct - tells the user which command replaces the page they were sent to
type Navigator struct {
	out io.Writer
}

// NewNavigator func
func NewNavigator(out io.Writer) *Navigator {
	return &Navigator{out: out}
}

// RedirectToLogin func
func (n *Navigator) RedirectToLogin(path string) {
	command := "alto " + strings.TrimPrefix(path, "/")
	fmt.Fprintf(n.out, "You are not signed in or your session has expired. Run `%s` to continue.\n", command)
}
