// Package driving defines the interfaces through which external
// actors (CLI commands, tests) invoke the core.
//
// These are the "driving" or "primary" ports in hexagonal
// architecture. Core services implement them.
//
// # Import Rules
//
//   - Can Import: domain and driven port packages only
//   - Cannot Import: Any adapter package
package driving
