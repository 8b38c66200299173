// Package services implements the driving port interfaces.
// Services contain the core business logic: the record pipeline
// (validate, clean, dedup, enrich), the query engine and the sample
// exporter. They orchestrate calls to driven ports (adapters).
package services
