package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/born-ml/canon/internal/env"
	"github.com/born-ml/canon/internal/tensor"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	DType string
	Debug bool
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert nested JSON input to a canonical buffer",
		Long: `Convert nested JSON input to a canonical numeric buffer.

Example:
  echo '[1.5, -2.7, 0]' | born convert --dtype int32
  echo '[1e40]' | born convert --dtype int32 --debug`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, inputPath(args), cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DType, "dtype", "float32", "target data type (float32|int32|bool|complex64)")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "validate values before conversion")

	return cmd
}

func runConvert(opts *ConvertOptions, path string, cmd *cobra.Command) error {
	dtype, err := tensor.ParseDataType(opts.DType)
	if err != nil {
		return err
	}
	e, err := opts.environment()
	if err != nil {
		return err
	}
	if opts.Debug {
		if err := e.Set(env.Debug, true); err != nil {
			return err
		}
	}
	c, flush, err := opts.converter(e)
	if err != nil {
		return err
	}
	defer flush()

	input, err := readInput(path, cmd.InOrStdin())
	if err != nil {
		return err
	}
	buf, err := c.ToTyped(input, dtype)
	if err != nil {
		return fmt.Errorf("convert to %s: %w", dtype, err)
	}

	out := formatter(cmd, opts.RootOptions)
	if out.Format == "json" {
		return out.Success(map[string]any{
			"dtype":  dtype.String(),
			"length": buf.Len(),
			"bytes":  buf.ByteSize(),
			"values": jsonValues(buf),
		})
	}
	return out.Success(fmt.Sprintf("dtype:  %s\nlength: %d\nvalues: %s", dtype, buf.Len(), formatValues(buf)))
}
