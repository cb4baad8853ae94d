/*
Package canopy runs trees of actors that pass tokens between sources,
transformers and sinks.

Control actors decide how their children are executed: in sequence, as a
nested sub-flow, in parallel branches, inside a local variable and storage
scope, or loaded from another flow file. Every actor resolves variables and
storage through the nearest enclosing scope.

# Usage

Flows are usually written in YAML and loaded from disk. The engine restores
the root scope of a session before a run and persists it afterwards.

	package main

	import (
		"context"
		"log"
		"os"

		"github.com/aretw0/canopy"
	)

	func main() {
		eng, err := canopy.New("flows/main.yaml", canopy.WithOutput(os.Stdout))
		if err != nil {
			log.Fatal(err)
		}

		res, err := eng.Run(context.Background(), "session-123", map[string]string{"who": "world"})
		if err != nil {
			log.Fatal(err)
		}
		log.Println("variables:", res.Variables)
	}

Trees can also be built in Go with package dsl, or assembled directly from
the actors in packages control and actors.
*/
package canopy
