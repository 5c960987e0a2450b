package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/coderman400/AIArchitect/internal/tools"
	"github.com/coderman400/AIArchitect/workflow"
)

const indentWidth = 2

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	actorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	typeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func newShowCommand(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <tree>",
		Short: "Render a workflow tree in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := tools.LoadDetail(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render(d))
			return nil
		},
	}
}

// render draws the tree one step per line, nested by depth.
func render(d workflow.Detail) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(d.Name))
	if len(d.Actors) > 0 {
		b.WriteString(" " + mutedStyle.Render("("+strings.Join(d.Actors, ", ")+")"))
	}
	b.WriteString("\n")

	d.Walk(func(s *workflow.Step, depth int) bool {
		b.WriteString(strings.Repeat(" ", (depth+1)*indentWidth))
		b.WriteString("- ")
		if s.Actor != "" {
			b.WriteString(actorStyle.Render(s.Actor) + ": ")
		}
		b.WriteString(s.Action)
		if s.Type != "" {
			b.WriteString(" " + typeStyle.Render("["+s.Type+"]"))
		}
		if len(s.Inputs) > 0 {
			b.WriteString(" " + mutedStyle.Render("in: "+strings.Join(s.Inputs, ", ")))
		}
		if len(s.Outputs) > 0 {
			b.WriteString(" " + mutedStyle.Render("out: "+strings.Join(s.Outputs, ", ")))
		}
		b.WriteString("\n")
		return true
	})

	return b.String()
}
