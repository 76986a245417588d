// Package cli defines the forge command tree. Each subcommand loads model
// documents, delegates to the commands package, and renders the result;
// no calculation logic lives here.
package cli
