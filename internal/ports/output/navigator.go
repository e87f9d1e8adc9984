package output

// Navigator interface - Output port
// Leaves the current screen for the login screen when authentication is lost.
type Navigator interface {
	RedirectToLogin(path string)
}
