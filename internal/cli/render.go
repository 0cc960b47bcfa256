package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pic/pkg/config"
	"github.com/matzehuels/pic/pkg/directive"
	"github.com/matzehuels/pic/pkg/errors"
	"github.com/matzehuels/pic/pkg/present"
)

// Output targets of the render command. raw writes the renderer output
// unwrapped.
const (
	targetHTML = string(present.TargetHTML)
	targetText = string(present.TargetText)
	targetRaw  = "raw"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	target  string            // html, text or raw
	options map[string]string // directive options given with --option name=value
	format  string            // shorthand for --option format=...
	caption string            // shorthand for --option caption=...
	output  string            // output file (default stdout)
}

// renderCommand creates the render command, which renders one diagram.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <language> [file]",
		Short: "Render a single diagram",
		Long: `Render runs one diagram through its language profile, exactly as a
directive in a page would. The code is read from file, or from stdin when
no file is given.`,
		Example: `  echo 'digraph { a -> b }' | pic render dot
  pic render uml sequence.puml --target html --caption "Login flow"
  pic render dot graph.dot --format image/png -o graph.png`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.target, "target", "t", targetRaw, "output target: raw, html or text")
	cmd.Flags().StringToStringVar(&opts.options, "option", nil, "directive option as name=value (repeatable)")
	cmd.Flags().StringVar(&opts.format, "format", "", "output format: text/xml, text/plain or image/png")
	cmd.Flags().StringVar(&opts.caption, "caption", "", "figure caption (html target)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, args []string, opts renderOpts) error {
	ctx := cmd.Context()
	if opts.target != targetRaw {
		if _, err := present.ParseTarget(opts.target); err != nil {
			return errors.New(errors.ErrCodeInvalidOption, "unknown target %q (expected raw, html or text)", opts.target)
		}
	}

	d := &directive.Directive{Language: args[0], Options: map[string]string{}}
	for k, v := range opts.options {
		d.Options[k] = v
	}
	if opts.format != "" {
		d.Options[config.OptFormat] = opts.format
	}
	if opts.caption != "" {
		d.Options[config.OptCaption] = opts.caption
	}
	if len(args) == 2 {
		d.File = args[1]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		d.Content = string(data)
	}

	e, err := c.newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	diag, err := directive.Prepare(d, e.resolver, wd)
	if err != nil {
		if errors.Is(err, errors.ErrCodeUnknownLanguage) {
			if langs := e.resolver.Languages(); len(langs) > 0 {
				printDetail("Configured languages: %s", strings.Join(langs, ", "))
			}
		}
		return err
	}

	var result []byte
	if opts.target == targetText {
		result = []byte(present.Placeholder(diag.Options.Alt) + "\n")
	} else {
		out, err := e.invoker.Render(ctx, diag.Options, diag.Code)
		if err != nil {
			return err
		}
		loggerFromContext(ctx).Debug("rendered", "language", diag.Options.Language, "bytes", len(out.Data), "cached", out.Cached)
		if opts.target == targetHTML {
			result = present.HTML(out, diag.Options)
		} else {
			result = out.Data
		}
	}

	if opts.output == "" {
		_, err = cmd.OutOrStdout().Write(result)
		return err
	}
	if err := os.WriteFile(opts.output, result, 0o644); err != nil {
		return err
	}
	printSuccess("Rendered %s diagram", diag.Options.Language)
	printFile(opts.output)
	return nil
}
