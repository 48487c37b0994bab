// Package cli implements the born command line tool.
package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/born-ml/canon/internal/convert"
	"github.com/born-ml/canon/internal/env"
)

// Version is the tool version reported by the version command.
const Version = "v0.0.1-dev"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Flags   string // "NAME:value,..." overrides
	Config  string // YAML flag file
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the born CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "born",
		Short: "Born data normalization tool",
		Long:  "Flatten nested JSON input and convert it to canonical tensor buffers.",

		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log conversion details to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Flags, "flags", "", "flag overrides, e.g. DEBUG:true")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "YAML file with flag overrides")

	cmd.AddCommand(NewVersionCommand(opts))
	cmd.AddCommand(NewFlattenCommand(opts))
	cmd.AddCommand(NewShapeCommand(opts))
	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewEncodeCommand(opts))
	cmd.AddCommand(NewDecodeCommand(opts))

	return cmd
}

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := formatter(cmd, rootOpts)
			if out.Format == "json" {
				return out.Success(map[string]string{"version": Version})
			}
			return out.Success("born " + Version)
		},
	}
}

// environment builds the flag environment: BORN_FLAGS first, then the
// config file, then --flags.
func (o *RootOptions) environment() (*env.Environment, error) {
	e := env.New()
	if err := e.FromEnv(); err != nil {
		return nil, err
	}
	if o.Config != "" {
		f, err := os.Open(o.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to open config: %w", err)
		}
		defer f.Close()
		if err := e.LoadYAML(f); err != nil {
			return nil, fmt.Errorf("config %s: %w", o.Config, err)
		}
	}
	if err := e.ParseFlags(o.Flags); err != nil {
		return nil, err
	}
	return e, nil
}

// newVerboseLogger builds the --verbose logger.
var newVerboseLogger = func() (*zap.Logger, error) {
	return zap.NewDevelopment()
}

// converter builds a Converter for the current options. The returned func
// flushes the logger and must be called once the command is done.
func (o *RootOptions) converter(e *env.Environment) (*convert.Converter, func(), error) {
	logger := zap.NewNop()
	if o.Verbose {
		l, err := newVerboseLogger()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create logger: %w", err)
		}
		logger = l
	}
	flush := func() {
		_ = logger.Sync()
	}
	return convert.New(convert.WithEnvironment(e), convert.WithLogger(logger)), flush, nil
}
