/*
Package tristate adds three-valued checkbox semantics (Unchecked, Checked, Mixed) to any
hierarchical tree and keeps parents and children consistent under arbitrary edits.

# Concept

The engine walks trees through the ports.TreeNode interface. Each node carries its own
boolean checked flag plus a derived tri-state value. Toggling a node forces every
descendant to match it and then resolves ancestors bottom-up: a parent is Checked only
when it is checked itself and all its children are Checked; any partial coverage reads
as Mixed.

Two styles are supported:

  - Standard: a parent's checked flag is only ever changed by the user. A parent that
    was never checked reads Mixed even when all of its children are checked.
  - Installer: a parent's checked flag follows its children, the way software
    installers present feature trees.

Trees built with Build or Open are attached to the engine: flipping a node's flag with
node.SetChecked runs the propagation pass through the tree's change notification, and
writes made by the pass itself are suppressed by a re-entrancy latch.

# Usage

	eng, err := tristate.New("", tristate.WithStyle(domain.StyleInstaller))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	tree, err := eng.Build(ctx, domain.Outline{
		ID:    "features",
		Label: "Features",
		Children: []domain.Outline{
			{ID: "core", Label: "Core"},
			{ID: "docs", Label: "Documentation"},
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	core, _ := tree.Lookup("core")
	eng.Toggle(ctx, core)

	root, _ := tree.Lookup("features")
	fmt.Println(root.State()) // mixed

Outlines can also be read from disk: New with a directory path opens it as a Loam
document repository, a single YAML or JSON file is read directly, and Open loads an
outline by ID.
*/
package tristate
