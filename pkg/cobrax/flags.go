// Package cobrax wires outfit's output options into Cobra commands.
package cobrax

import (
	"strings"

	"github.com/arthur-debert/outfit/pkg/errors"
	"github.com/arthur-debert/outfit/pkg/render"
	"github.com/spf13/cobra"
)

const (
	FlagOutput         = "output"
	FlagOutputFilePath = "output-file-path"
)

// ModeNames are the values --output accepts, case-insensitively.
var ModeNames = []string{"auto", "term", "text", "term-debug", "json", "yaml", "xml", "csv"}

// OutputFlags holds the parsed output flags of a command tree.
type OutputFlags struct {
	Mode     string
	FilePath string
}

// AddOutputFlags registers --output and --output-file-path as persistent
// flags on cmd, so every subcommand accepts them.
func AddOutputFlags(cmd *cobra.Command) *OutputFlags {
	f := &OutputFlags{}
	flags := cmd.PersistentFlags()
	flags.StringVar(&f.Mode, FlagOutput, "auto", "Output mode ("+strings.Join(ModeNames, ", ")+")")
	flags.StringVar(&f.FilePath, FlagOutputFilePath, "", "Write output to this file instead of stdout")

	_ = cmd.RegisterFlagCompletionFunc(FlagOutput, func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return ModeNames, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.MarkPersistentFlagFilename(FlagOutputFilePath)
	return f
}

// OutputMode parses the --output value.
func (f *OutputFlags) OutputMode() (render.OutputMode, error) {
	mode, err := render.ParseOutputMode(f.Mode)
	if err != nil {
		return render.ModeAuto, errors.Wrapf(err, errors.ErrInvalidInput,
			"invalid --%s %q, expected one of %s", FlagOutput, f.Mode, strings.Join(ModeNames, ", ")).
			WithDetail("flag", FlagOutput)
	}
	return mode, nil
}

// Validate checks the flag values. It fits a command's PersistentPreRunE.
func (f *OutputFlags) Validate() error {
	_, err := f.OutputMode()
	return err
}

// Overrides returns config keys for the flags set on the command line.
// Flags left at their defaults do not override configuration files.
func (f *OutputFlags) Overrides(cmd *cobra.Command) map[string]interface{} {
	overrides := map[string]interface{}{}
	if cmd.Flags().Changed(FlagOutput) {
		overrides["output.mode"] = f.Mode
	}
	if cmd.Flags().Changed(FlagOutputFilePath) {
		overrides["output.file_path"] = f.FilePath
	}
	return overrides
}
