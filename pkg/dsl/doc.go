/*
Package dsl provides a fluent builder for constructing trees in Go code.

It is the programmatic counterpart to outline files, useful for tests, embedding and
generated trees.

Example usage:

	b := dsl.New()
	b.Root("features").Label("Features").
		Leaves("core", "cli").
		Child("docs").Label("Documentation").
		Leaves("guide", "api")

	tree, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	eng, _ := tristate.New("")
	eng.Attach(tree)
	eng.Initialize(ctx, tree.RootNodes()...)
*/
package dsl
