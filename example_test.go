package tristate_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/tristate"
	"github.com/aretw0/tristate/pkg/domain"
)

func features() domain.Outline {
	return domain.Outline{
		ID:    "features",
		Label: "Features",
		Children: []domain.Outline{
			{ID: "core", Label: "Core"},
			{ID: "docs", Label: "Documentation"},
		},
	}
}

// ExampleEngine_Toggle shows the Installer style: the parent follows its children.
func ExampleEngine_Toggle() {
	engine, err := tristate.New("", tristate.WithStyle(domain.StyleInstaller))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	tree, err := engine.Build(ctx, features())
	if err != nil {
		log.Fatal(err)
	}
	root, _ := tree.Lookup("features")

	for _, id := range []string{"core", "docs"} {
		n, _ := tree.Lookup(id)
		engine.Toggle(ctx, n)
		fmt.Printf("after %s: %s (checked=%v)\n", id, root.State(), root.Checked())
	}

	// Output:
	// after core: mixed (checked=false)
	// after docs: checked (checked=true)
}

// ExampleEngine_Attach shows a host that flips flags directly; the tree's change
// notification runs the propagation pass.
func ExampleEngine_Attach() {
	engine, err := tristate.New("")
	if err != nil {
		log.Fatal(err)
	}

	tree, err := engine.Build(context.Background(), features())
	if err != nil {
		log.Fatal(err)
	}
	root, _ := tree.Lookup("features")
	docs, _ := tree.Lookup("docs")

	root.SetChecked(true)
	fmt.Println(root.State(), docs.State())

	docs.SetChecked(false)
	fmt.Println(root.State(), docs.State())

	// Output:
	// checked checked
	// mixed unchecked
}
