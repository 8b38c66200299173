// Package domain defines the core business entities for reviewlens.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawRecord: An unvalidated record as decoded from the source
//   - Review: The canonical review document after processing
//   - Condition: A typed filter predicate over document fields
//   - Config: Immutable pipeline and query configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
