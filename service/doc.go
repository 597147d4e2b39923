// Package service defines the console API surface the cache layer fetches
// through: one small interface per resource family, all methods taking a
// context and returning kyc types or an error.
//
// Implementations are expected to be thin transports. The cache layer never
// needs more than these contracts, so tests and examples run against
// servicetest.Fake while production wires an HTTP client behind the same
// interfaces.
package service
