package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"calltree/internal/render"
	"calltree/internal/script"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive tracing session",
	Long: `Start an interactive session. Definitions persist across lines; every
expression is evaluated immediately. Commands:
  :tree    print the call tree captured so far
  :reset   clear definitions, output and trace state
  :quit    leave the session`,
	RunE: runRepl,
}

func runRepl(cmd *cobra.Command, _ []string) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := replHistoryPath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if historyPath == "" {
			return
		}
		if f, err := os.Create(historyPath); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}
	}()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "calltree repl (:tree shows the trace, :reset clears it, :quit exits)")

	session := script.NewSession()
	printed := 0
	for {
		input, err := line.Prompt("ct> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch input {
		case ":quit", ":q":
			return nil
		case ":reset":
			session.Reset()
			printed = 0
			continue
		case ":tree":
			fmt.Fprint(out, render.Render(session.Table(), render.StyleConnector, nil))
			continue
		}

		value, produced, err := session.EvalLine(input)
		// Flush whatever the guest printed since the last prompt, even
		// when the evaluation failed.
		if all := session.Output(); len(all) > printed {
			fmt.Fprint(out, all[printed:])
			printed = len(all)
		}
		if err != nil {
			fmt.Fprintf(out, "error: %s\n", err)
			continue
		}
		if produced {
			fmt.Fprintln(out, value.Format())
		}
	}
}

func replHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".calltree_history")
}
