/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: schema.go
Description: schema command. Prints the schema tree inferred from one sample file.
*/

package commands

import (
	"fmt"

	"github.com/kleascm/structgen/pkg/inference"
	"github.com/kleascm/structgen/pkg/render"
	"github.com/kleascm/structgen/pkg/schema"
	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"
)

// RunSchema executes the schema command
func RunSchema(cmd *cobra.Command, args []string) error {
	root, err := inferFile(cmd, args[0])
	if err != nil {
		return err
	}

	tree, err := SchemaTree(root, render.GoTarget())
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), tree.String())
	return nil
}

// SchemaTree lays out a schema tree with each field labelled by its target type
func SchemaTree(root *schema.Node, target render.Target) (treeprint.Tree, error) {
	label := root.Name()
	if root.ArraySource() {
		label = target.SequencePrefix + label
	}
	tree := treeprint.NewWithRoot(label)
	if err := addFields(tree, root, target); err != nil {
		return nil, err
	}
	return tree, nil
}

func addFields(tree treeprint.Tree, n *schema.Node, target render.Target) error {
	for _, f := range n.Fields() {
		typ, err := target.TypeName(f.Type)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", n.Name(), f.Key, err)
		}

		switch {
		case f.Type.Record() != nil:
			if err := addFields(tree.AddMetaBranch(typ, f.Key), f.Type.Record(), target); err != nil {
				return err
			}
		case f.Type.Kind == schema.KindDynamicSequence:
			tree.AddMetaNode(typ, fmt.Sprintf("%s (%s)", f.Key, f.Type.Reason))
		default:
			tree.AddMetaNode(typ, f.Key)
		}
	}
	return nil
}

// inferFile loads and infers one sample using the configured inference settings
func inferFile(cmd *cobra.Command, path string) (*schema.Node, error) {
	if err := LoadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg, err := InferenceConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	inferrer, err := inference.New(cfg)
	if err != nil {
		return nil, err
	}

	name, _ := cmd.Flags().GetString("name")
	doc, err := loadDocument(path, name)
	if err != nil {
		return nil, err
	}
	return inferrer.Infer(doc.Value, doc.Name, doc.ArraySource)
}
