// Package middleware wraps ports.ScopeStore implementations with encryption
// at rest and masking of sensitive values.
package middleware
