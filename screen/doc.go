// Package screen is documented at the top of screen.go; see New for the
// construction entry point and Screen.Write for feeding PTY output.
package screen
