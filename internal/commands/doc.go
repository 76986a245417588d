// Package commands implements the operations the CLI exposes: calculation
// passes, validation, audits, spreadsheet export and import, scenario
// comparison, variance analysis, and the numerical what-if commands. Each
// command is a plain function over loaded models so tests and other
// frontends can call them directly.
package commands
