package cli

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/born-ml/canon/internal/env"
)

// TextOptions holds flags for the encode and decode commands.
type TextOptions struct {
	*RootOptions
	Encoding string
}

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TextOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "encode <text>",
		Short: "Encode text and print the bytes as hex",
		Long: `Encode text and print the bytes as hex.

Example:
  born encode café --encoding latin1   # 636166e9`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, flush, err := opts.converter(env.New())
			if err != nil {
				return err
			}
			defer flush()
			b, err := c.EncodeText(args[0], opts.Encoding)
			if err != nil {
				return err
			}
			out := formatter(cmd, opts.RootOptions)
			if out.Format == "json" {
				return out.Success(map[string]any{"encoding": encodingName(opts.Encoding), "hex": hex.EncodeToString(b)})
			}
			return out.Success(hex.EncodeToString(b))
		},
	}

	cmd.Flags().StringVar(&opts.Encoding, "encoding", "", "text encoding label (default utf-8)")
	return cmd
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TextOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:          "decode <hex>",
		Short:        "Decode hex bytes as text",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := hex.DecodeString(args[0])
			if err != nil {
				return fmt.Errorf("invalid hex input: %w", err)
			}
			c, flush, err := opts.converter(env.New())
			if err != nil {
				return err
			}
			defer flush()
			s, err := c.DecodeText(b, opts.Encoding)
			if err != nil {
				return err
			}
			out := formatter(cmd, opts.RootOptions)
			if out.Format == "json" {
				return out.Success(map[string]any{"encoding": encodingName(opts.Encoding), "text": s})
			}
			return out.Success(s)
		},
	}

	cmd.Flags().StringVar(&opts.Encoding, "encoding", "", "text encoding label (default utf-8)")
	return cmd
}

func encodingName(name string) string {
	if name == "" {
		return "utf-8"
	}
	return name
}
