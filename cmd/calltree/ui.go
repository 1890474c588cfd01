package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"calltree/internal/render"
	"calltree/internal/ui"
)

var uiCmd = &cobra.Command{
	Use:   "ui [flags] [file.ct]",
	Short: "Open the interactive tracer workbench",
	Long:  `Open a terminal UI with a code editor, a call expression field and a live call tree panel`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runUI,
}

func init() {
	uiCmd.Flags().String("call", "", "initial call expression")
	uiCmd.Flags().String("style", "connector", "tree style (connector|indent)")
}

func runUI(cmd *cobra.Command, args []string) error {
	call, err := cmd.Flags().GetString("call")
	if err != nil {
		return fmt.Errorf("failed to get call flag: %w", err)
	}
	styleName, err := cmd.Flags().GetString("style")
	if err != nil {
		return fmt.Errorf("failed to get style flag: %w", err)
	}
	style, err := render.ParseStyle(styleName)
	if err != nil {
		return err
	}

	code := ""
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read script: %w", err)
		}
		code = string(data)
	}

	program := tea.NewProgram(ui.New(code, call, style), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("ui failed: %w", err)
	}
	return nil
}
