// Package file provides a ScopeStore keeping session snapshots as JSON files.
package file
