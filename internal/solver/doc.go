// Package solver provides the numerical root-finding layer: bisection for
// goal-seek and break-even, grid generation for sensitivity runs, and
// Newton-Raphson for the rate-solving inside the time-value-of-money
// functions. Every loop is bounded and cancellable; failure modes are
// distinct, named conditions so callers can tell "no root in bounds" from
// "ran out of budget".
package solver
