package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/born-ml/canon/internal/flatten"
)

// NewFlattenCommand creates the flatten command.
func NewFlattenCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "flatten [file]",
		Short: "Print the leaves of nested JSON input",
		Long: `Print the leaves of nested JSON input in depth-first order.

Objects are treated as array-like: their integer keys are walked densely
from 0 to the largest key, and missing indices print as undefined.

Example:
  echo '[[1,2],{"0":3,"2":4}]' | born flatten`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(inputPath(args), cmd.InOrStdin())
			if err != nil {
				return err
			}
			var leaves []any
			err = flatten.Walk(input, false, func(leaf any) error {
				leaves = append(leaves, leaf)
				return nil
			})
			if err != nil {
				return err
			}

			out := formatter(cmd, rootOpts)
			if out.Format == "json" {
				data := make([]any, len(leaves))
				for i, l := range leaves {
					data[i] = jsonLeaf(l)
				}
				return out.Success(map[string]any{"leaves": data, "count": len(leaves)})
			}

			lines := make([]string, len(leaves))
			for i, l := range leaves {
				lines[i] = formatLeaf(l)
			}
			return out.Success(strings.Join(lines, "\n"))
		},
	}
}

// NewShapeCommand creates the shape command.
func NewShapeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "shape [file]",
		Short:        "Print the shape of regular nested JSON input",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(inputPath(args), cmd.InOrStdin())
			if err != nil {
				return err
			}
			shape, err := flatten.InferShape(input)
			if err != nil {
				return err
			}

			out := formatter(cmd, rootOpts)
			if out.Format == "json" {
				return out.Success(map[string]any{
					"shape":   []int(shape),
					"strides": shape.ComputeStrides(),
					"size":    shape.NumElements(),
				})
			}
			return out.Success(shape)
		},
	}
}
