package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/flowlint/internal/model"
	"github.com/alfredjeanlab/flowlint/internal/schema"
)

var expandCmd = &cobra.Command{
	Use:     "expand <file>",
	Short:   "Convert a compact graph to the full editor schema",
	GroupID: "lint",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readDocument(args[0], cmd)
		if err != nil {
			return err
		}
		if schema.IsFull(doc) {
			return fmt.Errorf("%s is already in the full schema", args[0])
		}
		g, err := model.DecodeGraph(doc)
		if err != nil {
			return err
		}
		if g == nil {
			return fmt.Errorf("%s: graph must be an object", args[0])
		}
		reg, err := loadRegistry(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), schema.Expand(g, reg))
	},
}

var projectCmd = &cobra.Command{
	Use:     "project <file>",
	Short:   "Convert a full editor graph to the compact schema",
	GroupID: "lint",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readDocument(args[0], cmd)
		if err != nil {
			return err
		}
		full, err := schema.DecodeFull(doc)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), schema.Project(full))
	},
}

// readDocument reads path (or stdin for "-") and converts YAML to JSON.
func readDocument(path string, cmd *cobra.Command) ([]byte, error) {
	data, err := readInput(path, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	return schema.YAMLToJSON(data)
}
