package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"calltree/internal/layout"
	"calltree/internal/observ"
	"calltree/internal/render"
	"calltree/internal/script"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] <file.ct>",
	Short: "Run a script, trace marked functions and print the call tree",
	Long:  `Run a script file, evaluate a call expression against its definitions and print the result, the captured output and the rendered call tree`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExecution,
}

func init() {
	runCmd.Flags().String("call", "", "call expression to evaluate (overrides the manifest)")
	runCmd.Flags().String("style", "connector", "tree style (connector|indent)")
	runCmd.Flags().Bool("coords", false, "print layout coordinates instead of text rendering")
	runCmd.Flags().Bool("timings", false, "print per-phase timings after the run")
}

// resolveRunInput combines positional args, flags and an optional
// calltree.toml manifest into the script path and call expression.
func resolveRunInput(cmd *cobra.Command, args []string) (path, call string, spacing layout.Spacing, err error) {
	call, err = cmd.Flags().GetString("call")
	if err != nil {
		return "", "", spacing, fmt.Errorf("failed to get call flag: %w", err)
	}
	if len(args) > 0 {
		path = args[0]
	}

	manifest, ok, err := loadProjectManifest(".")
	if err != nil {
		return "", "", spacing, err
	}
	if ok {
		if path == "" {
			path = manifest.Config.Run.Main
		}
		if call == "" {
			call = manifest.Config.Run.Call
		}
		spacing = manifest.Config.Layout.spacing()
	}

	if path == "" {
		return "", "", spacing, fmt.Errorf("no script file given and no calltree.toml with a [run] main entry found")
	}
	if call == "" {
		return "", "", spacing, fmt.Errorf("no call expression: pass --call or set [run] call in calltree.toml")
	}
	return path, call, spacing, nil
}

func runExecution(cmd *cobra.Command, args []string) error {
	path, call, spacing, err := resolveRunInput(cmd, args)
	if err != nil {
		return err
	}
	styleName, err := cmd.Flags().GetString("style")
	if err != nil {
		return fmt.Errorf("failed to get style flag: %w", err)
	}
	style, err := render.ParseStyle(styleName)
	if err != nil {
		return err
	}
	coords, err := cmd.Flags().GetBool("coords")
	if err != nil {
		return fmt.Errorf("failed to get coords flag: %w", err)
	}

	timings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	timer := observ.NewTimer()

	phase := timer.Begin("exec")
	session := script.NewSession()
	if err := session.Run(string(code)); err != nil {
		return fmt.Errorf("script error: %w", err)
	}
	timer.End(phase, path)

	phase = timer.Begin("eval")
	result, evalErr := session.EvalCall(call)
	timer.End(phase, call)
	if out := session.Output(); out != "" {
		fmt.Fprintln(cmd.OutOrStdout(), "output:")
		fmt.Fprint(cmd.OutOrStdout(), out)
	}
	if evalErr != nil {
		// Partial output above is kept; the failure itself is surfaced.
		return fmt.Errorf("evaluation failed: %w", evalErr)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "result: %s\n\n", result.Format())

	// Layout and render only read the finished table, so they can run
	// concurrently.
	table := session.Table()
	var placed layout.Result
	var text string
	phase = timer.Begin("layout")
	renderPhase := timer.Begin("render")
	g, _ := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		placed = layout.New(spacing).Compute(table)
		timer.End(phase, fmt.Sprintf("%d nodes", len(placed.Nodes)))
		return nil
	})
	g.Go(func() error {
		text = render.Render(table, style, nil)
		timer.End(renderPhase, style.String())
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if coords {
		printCoords(cmd, placed)
	} else {
		fmt.Fprint(cmd.OutOrStdout(), text)
	}
	if timings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	return nil
}

func printCoords(cmd *cobra.Command, placed layout.Result) {
	if len(placed.Nodes) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), render.NoTracedCalls)
		return
	}
	for _, p := range placed.Nodes {
		fmt.Fprintf(cmd.OutOrStdout(), "#%d depth=%d (%.2f, %.2f, %.2f) %s\n",
			p.Node.ID, p.Depth, p.Pos.X, p.Pos.Y, p.Pos.Z, p.Node.Func)
	}
	for _, e := range placed.Edges {
		fmt.Fprintf(cmd.OutOrStdout(), "edge #%d -> #%d\n", e.Parent, e.Child)
	}
}
