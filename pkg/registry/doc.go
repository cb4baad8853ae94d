// Package registry maps actor kinds, as written in flow files, to factories.
package registry
