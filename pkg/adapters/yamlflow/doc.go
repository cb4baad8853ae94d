/*
Package yamlflow reads and writes flows as YAML documents.

A document is a tree of nodes:

	kind: Flow
	name: Counter
	children:
	  - kind: ForLoop
	    name: Loop
	    options: {start: 1, end: 3}
	  - kind: Display
	    name: Show

Kinds are resolved with a registry.Registry and options are decoded onto
the actor's tagged fields.
*/
package yamlflow
