package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pic/pkg/errors"
	"github.com/matzehuels/pic/pkg/present"
	"github.com/matzehuels/pic/pkg/site"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	output       string // output directory (default from [build] output)
	jobs         int    // pages converted in parallel (default from [build] jobs)
	force        bool   // ignore the build manifest
	strict       bool   // exit non-zero when a diagram failed
	placeholders bool   // emit text placeholders instead of running renderers
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build [source]",
		Short: "Build Markdown pages into an HTML site",
		Long: `Build converts every Markdown page under the source directory into HTML,
rendering diagram directives with the configured language profiles.

Failed diagrams are replaced by an error marker and reported; they do not
stop the build unless --strict is given.`,
		Example: `  pic build
  pic build docs -o public --jobs 8
  pic build --strict --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "pages to convert in parallel")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "rebuild every page")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when any diagram fails")
	cmd.Flags().BoolVar(&opts.placeholders, "placeholders", false, "write [graph] placeholders instead of rendering")

	return cmd
}

func (c *CLI) runBuild(cmd *cobra.Command, args []string, opts buildOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	e, err := c.newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	src := e.cfg.Build.Source
	if len(args) > 0 {
		src = args[0]
	}
	out := e.cfg.Build.Output
	if opts.output != "" {
		out = opts.output
	}

	b := site.NewBuilder(e.cfg, e.resolver, e.invoker, logger)
	b.Force = opts.force
	if opts.jobs > 0 {
		b.Jobs = opts.jobs
	}
	if opts.placeholders {
		b.Target = present.TargetText
	}

	logger.Debug("building", "source", src, "output", out, "jobs", b.Jobs, "config", e.cfg.Path)
	prog := newProgress(logger)

	var spin *spinner
	if logger.GetLevel() > LogDebug && isatty.IsTerminal(os.Stderr.Fd()) {
		spin = newSpinner(ctx, os.Stderr, "Building "+src)
		b.Progress = func(done, total int) {
			spin.Update("Building %s (%d/%d pages)", src, done, total)
		}
		spin.Start()
	}
	res, err := b.Build(ctx, src, out)
	if spin != nil {
		spin.Stop()
		if spin.Cancelled() {
			printWarning("Build cancelled")
		}
	}
	if err != nil {
		return err
	}

	diagrams := 0
	for _, p := range res.Pages {
		diagrams += p.Diagrams
		for _, d := range p.Diagnostics {
			printDiagnostic(filepath.Join(src, p.Source), d.Line, d.Err)
		}
	}

	prog.done("Built %d pages", res.Built())
	fmt.Println(buildStats(res.Built(), res.Skipped(), res.Copied, diagrams, res.Failures()))

	if n := res.Failures(); n > 0 {
		if opts.strict {
			printError("%d diagrams failed", n)
			return fmt.Errorf("build failed: %d diagrams could not be rendered", n)
		}
		printWarning("%d diagrams failed, see the markers in the output", n)
	}
	printSuccess("Site written")
	printFile(out)
	return nil
}

// printDiagnostic prints a diagram failure as file:line followed by the
// renderer output, if any.
func printDiagnostic(path string, line int, err error) {
	printWarning("%s:%d: %s [%s]", path, line, errors.UserMessage(err), errors.GetCode(err))
	if cause := stderrors.Unwrap(err); cause != nil {
		for _, l := range strings.Split(strings.TrimSpace(cause.Error()), "\n") {
			printDetail("%s", l)
		}
	}
}
