/*
Package dsl provides a fluent Go builder for actor trees.

It produces the same node trees as YAML flow files, so anything built here
can be written back with yamlflow.Encode or served by a memory loader.

Example usage:

	b := dsl.New()
	b.Add("main", dsl.Flow("Counter",
		dsl.Actor("InitVariable", "Init").Set("variable", "count").Set("value", "0"),
		dsl.Actor("ForLoop", "Loop").Set("end", 3),
		dsl.Actor("IncVariable", "Inc").Set("variable", "count"),
		dsl.Actor("Display", "Out"),
	))

	loader, err := b.Build(registry.NewStandard())
	// ... pass loader to canopy.New("main", canopy.WithLoader(loader))
*/
package dsl
