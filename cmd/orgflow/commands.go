package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coderman400/AIArchitect/internal/tools"
	"github.com/coderman400/AIArchitect/workflow"
)

func newEncodeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <tree>",
		Short: "Lay out a workflow tree as a React Flow graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := tools.LoadDetail(args[0])
			if err != nil {
				return err
			}
			return a.write(cmd.OutOrStdout(), workflow.Encode(d, nil))
		},
	}
}

func newDecodeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <graph>",
		Short: "Rebuild a workflow tree from a React Flow graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := tools.LoadGraph(args[0])
			if err != nil {
				return err
			}
			d, err := workflow.Decode(g)
			if err != nil {
				return err
			}
			return a.write(cmd.OutOrStdout(), d)
		},
	}
}

func newPatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "patch <original> <updated>",
		Short: "Carry annotations from the original tree onto an edited tree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			original, err := tools.LoadDetail(args[0])
			if err != nil {
				return fmt.Errorf("original: %w", err)
			}
			updated, err := tools.LoadDetail(args[1])
			if err != nil {
				return fmt.Errorf("updated: %w", err)
			}
			return a.write(cmd.OutOrStdout(), workflow.Patch(original, updated))
		},
	}
}

func newValidateCommand(a *app) *cobra.Command {
	var (
		repair bool
		name   string
	)

	cmd := &cobra.Command{
		Use:   "validate <tree>",
		Short: "Validate a workflow tree against the schema",
		Long: `Validate a workflow tree strictly. With --repair, a tree that fails
validation is repaired once and printed along with the applied fixes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := tools.ReadDocument(args[0])
			if err != nil {
				return err
			}

			if !repair {
				if _, err := workflow.UnmarshalDetail(data); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "valid")
				return nil
			}

			d, fixes, err := workflow.Parse(data, name)
			for _, f := range fixes {
				fmt.Fprintln(cmd.ErrOrStderr(), "fix:", f)
			}
			if err != nil {
				return err
			}
			a.logger.Info("workflow repaired", "file", args[0], "fixes", len(fixes))
			return a.write(cmd.OutOrStdout(), d)
		},
	}

	cmd.Flags().BoolVar(&repair, "repair", false, "repair the tree when strict validation fails")
	cmd.Flags().StringVar(&name, "name", "workflow", "fallback workflow name used by repair")
	return cmd
}

func newMCPCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the workflow operations as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tools.New(version, a.logger).Serve(cmd.Context(), os.Stdin, os.Stdout)
		},
	}
}
