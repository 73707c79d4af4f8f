package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/flowlint/internal/client"
	"github.com/alfredjeanlab/flowlint/internal/model"
)

var typesCmd = &cobra.Command{
	Use:     "types",
	Short:   "List the node types the registry knows",
	GroupID: "lint",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		if category != "" && !model.Category(category).IsValid() {
			return fmt.Errorf("unknown category %q", category)
		}

		contracts, err := listContracts(cmd.Context())
		if err != nil {
			return err
		}
		contracts = filterByCategory(contracts, model.Category(category))

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), contracts)
		}
		printContractTable(cmd.OutOrStdout(), contracts)
		return nil
	},
}

var typeCmd = &cobra.Command{
	Use:     "type <type>",
	Short:   "Show the contract of one node type",
	GroupID: "lint",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getContract(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), c)
		}
		printContract(cmd.OutOrStdout(), c)
		return nil
	},
}

func init() {
	typesCmd.Flags().String("category", "", "only list types in this category (input, compute, trade, output)")
}

func listContracts(ctx context.Context) ([]model.NodeTypeContract, error) {
	if c := remoteClient(); c != nil {
		defer c.Close()
		return c.ListNodeTypes(ctx)
	}
	reg, err := loadRegistry(ctx)
	if err != nil {
		return nil, err
	}
	return reg.Contracts(), nil
}

func getContract(ctx context.Context, typ string) (*model.NodeTypeContract, error) {
	if c := remoteClient(); c != nil {
		defer c.Close()
		contract, err := c.GetNodeType(ctx, typ)
		if client.IsNotFound(err) {
			return nil, fmt.Errorf("unknown node type %q", typ)
		}
		return contract, err
	}
	reg, err := loadRegistry(ctx)
	if err != nil {
		return nil, err
	}
	contract, ok := reg.Contract(typ)
	if !ok {
		return nil, fmt.Errorf("unknown node type %q", typ)
	}
	return &contract, nil
}

func filterByCategory(contracts []model.NodeTypeContract, category model.Category) []model.NodeTypeContract {
	if category == "" {
		return contracts
	}
	var out []model.NodeTypeContract
	for _, c := range contracts {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out
}
