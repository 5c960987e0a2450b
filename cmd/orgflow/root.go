package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

type app struct {
	format string
	logger *slog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{
		logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
	}

	root := &cobra.Command{
		Use:   "orgflow",
		Short: "Work with organizational workflow trees and graphs",
		Long: `orgflow converts workflow trees (JSON or YAML) to React Flow graphs and back,
merges edited trees with their annotated originals, and validates trees
against the workflow schema.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.format != formatJSON && a.format != formatYAML {
				return fmt.Errorf("unsupported output format %q", a.format)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.format, "output", "o", formatJSON, "output format (json or yaml)")

	root.AddCommand(
		newEncodeCommand(a),
		newDecodeCommand(a),
		newPatchCommand(a),
		newValidateCommand(a),
		newShowCommand(a),
		newMCPCommand(a),
	)

	return root
}

// write renders v in the selected output format.
func (a *app) write(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	if a.format == formatYAML {
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}
