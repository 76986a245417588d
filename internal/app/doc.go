// Package app holds process-level wiring shared by every command: runtime
// configuration and logger construction.
package app
