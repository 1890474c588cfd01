package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"calltree/internal/script"
	"calltree/internal/wire"
)

var exportCmd = &cobra.Command{
	Use:   "export [flags] <file.ct>",
	Short: "Run a script and export the trace table for external renderers",
	Long:  `Run a script and serialize the captured node table to NDJSON or msgpack for consumption by a presentation layer`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().String("call", "", "call expression to evaluate (overrides the manifest)")
	exportCmd.Flags().StringP("output", "o", "-", "output path (format detected from extension, '-' for stdout NDJSON)")
	exportCmd.Flags().String("format", "", "wire format (ndjson|msgpack), overrides extension detection")
}

func runExport(cmd *cobra.Command, args []string) error {
	path, call, _, err := resolveRunInput(cmd, args)
	if err != nil {
		return err
	}
	outPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	formatName, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	format := wire.DetectFormat(outPath)
	if formatName != "" {
		format, err = wire.ParseFormat(formatName)
		if err != nil {
			return err
		}
	}

	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	session := script.NewSession()
	if err := session.Run(string(code)); err != nil {
		return fmt.Errorf("script error: %w", err)
	}
	if _, err := session.EvalCall(call); err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if outPath != "" && outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to open export output: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := wire.Export(session.Table(), out, format); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	return nil
}
