package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pic/pkg/config"
)

// languagesCommand creates the languages command, which lists the
// configured language profiles.
func (c *CLI) languagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "languages",
		Aliases: []string{"langs"},
		Short:   "List configured diagram languages",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			keys := cfg.LanguageKeys()
			if len(keys) == 0 {
				printInfo("No languages configured")
				printNextStep("Create an example configuration", "pic init")
				return nil
			}
			if cfg.Path != "" {
				printInfo("Languages in %s", cfg.Path)
			}
			for _, key := range keys {
				printLanguage(key, cfg.Languages[key])
			}
			return nil
		},
	}
}

func printLanguage(key string, p config.Profile) {
	fmt.Println(StyleTitle.Render(key))

	engine := p.Engine
	if engine == "" {
		engine = config.EngineExec
	}
	printKeyValue("engine", string(engine))
	if !p.Program.IsZero() {
		program := p.Program.String()
		if p.Shell {
			program += StyleDim.Render(" (shell)")
		}
		printKeyValue("program", program)
	}

	format := p.Format
	if format == "" {
		format = config.FormatMarkup
	}
	printKeyValue("format", string(format))

	for _, kv := range []struct{ key, value string }{
		{config.OptAlign, string(p.Align)},
		{config.OptCwd, p.Cwd},
		{config.OptAlt, p.Alt},
		{config.OptHTMLClasses, p.HTMLClasses},
		{config.OptDepends, p.Depends},
	} {
		if kv.value != "" {
			printKeyValue(kv.key, kv.value)
		}
	}
	if p.Prolog != "" || p.Epilog != "" {
		printKeyValue("prolog/epilog", fmt.Sprintf("%q / %q", p.Prolog, p.Epilog))
	}
}
