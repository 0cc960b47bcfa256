package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pic/pkg/config"
	"github.com/matzehuels/pic/pkg/errors"
)

// initCommand creates the init command, which writes an example config.
func (c *CLI) initCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write an example " + config.DefaultFile,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				path = config.DefaultFile
			}
			if err := writeExampleConfig(path, force); err != nil {
				return err
			}
			printSuccess("Created %s", path)
			printFile(path)
			printNextStep("List the configured languages", "pic languages")
			printNextStep("Build the docs", "pic build")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

// writeExampleConfig writes config.Example to path. An existing file is
// only replaced with force.
func writeExampleConfig(path string, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if os.IsExist(err) {
		return errors.New(errors.ErrCodeInvalidConfig, "%s already exists (use --force to overwrite)", path)
	}
	if err != nil {
		return err
	}
	if _, err := f.WriteString(config.Example()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
