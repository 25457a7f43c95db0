// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services never spawn processes or touch the network directly:
// editors, the typesetter, version control and HTTP are all reached
// through driven ports.
package services
