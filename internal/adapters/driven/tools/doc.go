// Package tools adapts external programs (editor, typst, git, the platform
// opener) to driven ports. Every program is started through a Runner so
// that tests can replace process execution.
package tools
