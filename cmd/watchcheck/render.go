package main

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"watchcheck/internal/diag"
	"watchcheck/internal/diagfmt"
	"watchcheck/internal/fixture"
	"watchcheck/internal/suite"
)

var renderCmd = &cobra.Command{
	Use:   "render <script>",
	Short: "Write the trace a conforming watch session would record for a script",
	Long: `render replays a script through the recording host and stores the result
as a trace snapshot. Verify settings come from --suite when given.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringP("out", "o", "", "snapshot path (default: script path with .mp extension)")
	renderCmd.Flags().String("suite", "", "suite directory whose [verify] settings apply")
	renderCmd.Flags().String("newline", "", "newline sequence (lf|crlf), overrides the suite")
	renderCmd.Flags().String("cwd", "", "program directory, overrides the suite")
	renderCmd.Flags().Bool("suppress-clears", false, "record no screen clears")
	renderCmd.Flags().Bool("explain", false, "print the expected errors with source context")
}

func runRender(cmd *cobra.Command, args []string) error {
	scriptPath := args[0]
	fsys := afero.NewOsFs()

	var cfg fixture.VerifyConfig
	suiteDir, err := cmd.Flags().GetString("suite")
	if err != nil {
		return err
	}
	if suiteDir != "" {
		s, err := fixture.LoadSuite(fsys, suiteDir)
		if err != nil {
			return err
		}
		cfg = s.Config.Verify
	}
	if err := applyRenderOverrides(cmd, &cfg); err != nil {
		return err
	}

	sf, err := fixture.LoadScript(fsys, scriptPath)
	if err != nil {
		return err
	}
	store := fixture.NewStore(fsys)
	snap, err := suite.Render(sf, cfg, store)
	if err != nil {
		return fmt.Errorf("%s: %w", scriptPath, err)
	}

	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	if out == "" {
		out = strings.TrimSuffix(scriptPath, path.Ext(scriptPath)) + ".mp"
	}
	if err := store.Put(out, snap); err != nil {
		return err
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d outputs, %d clears, id %s)\n", out, len(snap.Outputs), len(snap.ScreenClears), snap.ID)
	}

	explain, err := cmd.Flags().GetBool("explain")
	if err != nil || !explain {
		return err
	}
	built, err := sf.Build(cfg.Cwd)
	if err != nil {
		return err
	}
	colored, err := useColor(cmd)
	if err != nil {
		return err
	}
	return explainErrors(cmd.OutOrStdout(), built, colored)
}

// explainErrors prints the diagnostics among the expected errors. Raw
// expectations have no source location and are printed as is.
func explainErrors(w io.Writer, built *fixture.Built, colored bool) error {
	var ds []diag.Diagnostic
	for _, e := range built.Errors {
		if e.Diagnostic == nil {
			fmt.Fprintf(w, "raw: %q\n", e.Raw)
			continue
		}
		ds = append(ds, *e.Diagnostic)
	}
	return diagfmt.Pretty(w, ds, diagfmt.PrettyOpts{
		Color:    colored,
		PathMode: diagfmt.PathModeRelative,
		Cwd:      built.Program.CurrentDirectory(),
		Width:    terminalWidth(),
	})
}

func applyRenderOverrides(cmd *cobra.Command, cfg *fixture.VerifyConfig) error {
	if nl, err := cmd.Flags().GetString("newline"); err != nil {
		return err
	} else if nl != "" {
		if _, err := fixture.ParseNewLine(nl); err != nil {
			return err
		}
		cfg.NewLine = nl
	}
	if cwd, err := cmd.Flags().GetString("cwd"); err != nil {
		return err
	} else if cwd != "" {
		cfg.Cwd = cwd
	}
	suppress, err := cmd.Flags().GetBool("suppress-clears")
	if err != nil {
		return err
	}
	if suppress {
		cfg.SuppressClears = true
	}
	_, err = cfg.Codes()
	return err
}
