package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"watchcheck/internal/fixture"
	"watchcheck/internal/observ"
	"watchcheck/internal/suite"
	"watchcheck/internal/trace"
)

var errCasesFailed = errors.New("verification failed")

var verifyCmd = &cobra.Command{
	Use:   "verify [dir]",
	Short: "Verify every case of a suite against its recorded trace",
	Long: `verify loads <dir>/watchcheck.toml and checks each [[case]] script against
its trace snapshot. The command fails when any case fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().Int("jobs", 0, "cases verified concurrently (0 = GOMAXPROCS)")
	verifyCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	verifyCmd.Flags().Bool("suppress-clears", false, "skip screen clear checks for every case")
	verifyCmd.Flags().Bool("dump-trace", false, "print the trace ring after a failed run")
}

func runVerify(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	colored, err := useColor(cmd)
	if err != nil {
		return err
	}
	tracer, cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	suppress, err := cmd.Flags().GetBool("suppress-clears")
	if err != nil {
		return err
	}
	dumpTrace, err := cmd.Flags().GetBool("dump-trace")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	fsys := afero.NewOsFs()
	loadPhase := timer.Begin("load")
	s, err := fixture.LoadSuite(fsys, dir)
	timer.End(loadPhase, "")
	if err != nil {
		return err
	}

	runner := &suite.Runner{
		FS:             fsys,
		Suite:          s,
		Store:          fixture.NewStore(fsys),
		Jobs:           jobs,
		SuppressClears: suppress,
		Timer:          timer,
	}

	var results []suite.Result
	if progressView(mode, quiet, len(s.Config.Cases)) {
		results, err = runSuiteWithUI(cmd.Context(), s.Path, runner)
	} else {
		results, err = runner.Run(cmd.Context())
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printResults(out, results, quiet, colored)
	if timings {
		fmt.Fprint(out, timer.Summary())
	}

	failed := suite.Failed(results)
	if len(failed) == 0 {
		return nil
	}
	if dumpTrace {
		if ring, ok := ringOf(tracer); ok {
			if err := ring.Dump(cmd.ErrOrStderr(), trace.FormatText); err != nil {
				fmt.Fprintf(os.Stderr, "trace: dump error: %v\n", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: %d failure events\n", len(ring.Failures()))
		}
	}
	return fmt.Errorf("%w: %d of %d cases", errCasesFailed, len(failed), len(results))
}

func printResults(out io.Writer, results []suite.Result, quiet, colored bool) {
	pass := labelColor(color.FgGreen, colored).Sprint("PASS")
	fail := labelColor(color.FgRed, colored).Sprint("FAIL")
	broken := labelColor(color.FgYellow, colored).Sprint("ERROR")

	for _, r := range results {
		switch r.Status {
		case suite.StatusPassed:
			if !quiet {
				fmt.Fprintf(out, "%s %s (%.1f ms)\n", pass, r.Case, toMillis(r.Elapsed))
			}
		case suite.StatusFailed:
			fmt.Fprintf(out, "%s %s\n%s\n", fail, r.Case, indent(r.Err.Error(), "    "))
		default:
			fmt.Fprintf(out, "%s %s: %v\n", broken, r.Case, r.Err)
		}
	}
	if !quiet {
		fmt.Fprintf(out, "%d cases, %d failed\n", len(results), len(suite.Failed(results)))
	}
}

func labelColor(attr color.Attribute, enabled bool) *color.Color {
	c := color.New(attr, color.Bold)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
