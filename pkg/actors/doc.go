// Package actors provides the primitive actors flows are built from:
// sources, transformers, sinks and standalones that work on tokens and on the
// enclosing scope's variables and storage.
package actors
