// Package memory provides in-memory implementations of driven ports.
// They back tests and runs where nothing should touch the disk.
package memory
