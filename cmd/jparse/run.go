// Copyright (C) 2025 The jparse authors. All Rights Reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"jparse"
	"jparse/ast"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] file.json...",
	Short: "Validate JSON files",
	Long: `Run parses each file and reports whether it contains a single valid
JSON document.  Files are processed concurrently unless --sequential is set.`,
	Args:         cobra.MinimumNArgs(1),
	RunE:         runRun,
	SilenceUsage: true,
}

func init() {
	runCmd.Flags().BoolP("verbose", "v", false, "show detailed statistics and timing information")
	runCmd.Flags().BoolP("tokens", "t", false, "write the token stream to a side file")
	runCmd.Flags().BoolP("sequential", "s", false, "process files sequentially using one worker")
	runCmd.Flags().Int("jobs", 0, "number of files processed concurrently (0 = GOMAXPROCS)")
	runCmd.Flags().Int("max-depth", 0, "maximum nesting depth (0 = configured default)")
}

// runSettings are the flag and config values resolved for one invocation.
type runSettings struct {
	verbose    bool
	tokens     bool
	jobs       int
	maxDepth   int
	singleFile bool
}

// A fileResult reports the outcome of processing one input file.
type fileResult struct {
	path       string
	size       int64
	tokenCount int64
	lexTime    time.Duration
	parseTime  time.Duration
	err        error // nil when the file holds valid JSON
}

func (r *fileResult) valid() bool { return r.err == nil }

var errInvalidInput = errors.New("one or more files are not valid JSON")

func runRun(cmd *cobra.Command, args []string) error {
	set, err := resolveSettings(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if workers := workerCount(set, len(args)); workers == 1 {
		fmt.Fprintf(out, "Processing %d files sequentially\n", len(args))
	} else {
		fmt.Fprintf(out, "Processing %d files in parallel using %d threads\n", len(args), workers)
	}

	results := processFiles(args, set)

	var valid, invalid []string
	for i := range results {
		reportResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), &results[i], set)
		if results[i].valid() {
			valid = append(valid, results[i].path)
		} else {
			invalid = append(invalid, results[i].path)
		}
	}

	fmt.Fprintf(out, "Total files: %d\n", len(results))
	fmt.Fprintf(out, "Valid files: %s\n", joinOrNone(valid))
	fmt.Fprintf(out, "Invalid files: %s\n", joinOrNone(invalid))

	if len(invalid) > 0 {
		return errInvalidInput
	}
	return nil
}

func resolveSettings(cmd *cobra.Command, args []string) (runSettings, error) {
	cfg, err := loadConfig(".")
	if err != nil {
		return runSettings{}, err
	}

	flags := cmd.Flags()
	verbose, _ := flags.GetBool("verbose")
	tokens, _ := flags.GetBool("tokens")
	sequential, _ := flags.GetBool("sequential")
	jobs, _ := flags.GetInt("jobs")
	maxDepth, _ := flags.GetInt("max-depth")

	if jobs <= 0 {
		jobs = cfg.Parse.Jobs
	}
	if sequential {
		jobs = 1
	}
	if maxDepth <= 0 {
		maxDepth = cfg.Parse.MaxDepth
	}

	mode := cfg.Output.Color
	if pf := cmd.Root().PersistentFlags(); pf.Changed("color") {
		mode, _ = pf.GetString("color")
	}
	useColor, err := colorEnabled(mode, os.Stdout)
	if err != nil {
		return runSettings{}, err
	}
	color.NoColor = !useColor

	return runSettings{
		verbose:    verbose,
		tokens:     tokens,
		jobs:       jobs,
		maxDepth:   maxDepth,
		singleFile: len(args) == 1,
	}, nil
}

func colorEnabled(mode string, f *os.File) (bool, error) {
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "", "auto":
		return isTerminal(f), nil
	}
	return false, fmt.Errorf("invalid color mode %q (want auto, on or off)", mode)
}

// workerCount reports the number of files processed concurrently: the
// configured job limit, defaulting to GOMAXPROCS, never more than the number
// of inputs.
func workerCount(set runSettings, nfiles int) int {
	jobs := set.jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, nfiles))
}

// processFiles runs every input through processFile, concurrently up to the
// configured job limit.  Result order matches the input order.
func processFiles(paths []string, set runSettings) []fileResult {
	results := make([]fileResult, len(paths))
	g := new(errgroup.Group)
	g.SetLimit(workerCount(set, len(paths)))
	for i, path := range paths {
		i, path := i, path // capture per iteration (module builds with Go 1.21)
		g.Go(func() error {
			// Each worker owns its slot, so no locking is needed.
			results[i] = processFile(path, set)
			return nil
		})
	}
	g.Wait() // workers never return an error; failures land in their result
	return results
}

// processFile validates a single file.  Verbose statistics and the token dump
// re-drive a fresh scanner over the input before parsing; the parse itself is
// a single pull-based pass that never materializes the token sequence.
func processFile(path string, set runSettings) fileResult {
	res := fileResult{path: path}

	info, err := os.Stat(path)
	if err != nil {
		res.err = err
		return res
	}
	res.size = info.Size()

	if set.verbose || set.tokens {
		if err := res.scanPass(set); err != nil {
			res.err = err
			return res
		}
	}

	f, err := os.Open(path)
	if err != nil {
		res.err = err
		return res
	}
	defer f.Close()

	p := ast.NewParser(f)
	p.SetMaxDepth(set.maxDepth)
	start := time.Now()
	_, res.err = p.Parse()
	res.parseTime = time.Since(start)
	return res
}

var (
	validColor   = color.New(color.FgGreen)
	invalidColor = color.New(color.FgRed, color.Bold)
)

func reportResult(stdout, stderr io.Writer, res *fileResult, set runSettings) {
	fmt.Fprintf(stdout, "File: %s\n", res.path)
	if res.valid() {
		fmt.Fprintf(stdout, "Outcome: %s\n", validColor.Sprint("valid"))
	} else {
		fmt.Fprintf(stdout, "Outcome: %s\n", invalidColor.Sprint("invalid"))
		reportError(stderr, res.path, res.err)
	}
	if set.verbose {
		printStats(stdout, res)
	}
	fmt.Fprintln(stdout)
}

// reportError writes one line per failure to the error stream: the file, the
// 1-based line:column, the error kind, and the message.
func reportError(w io.Writer, path string, err error) {
	var serr *jparse.SyntaxError
	if errors.As(err, &serr) {
		fmt.Fprintln(w, invalidColor.Sprintf("%s:%v: %s: %s", path, serr.Location, serr.Kind, serr.Message))
	} else {
		fmt.Fprintln(w, invalidColor.Sprintf("%s: %v", path, err))
	}
}

func joinOrNone(paths []string) string {
	if len(paths) == 0 {
		return "none"
	}
	return strings.Join(paths, ", ")
}
