// Package mocks provides hand-written test doubles for the interfaces used
// across the API. Each mock exposes optional Fn fields for per-test behavior
// plus default-value fields used when no Fn is set.
package mocks
