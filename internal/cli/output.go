package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/born-ml/canon/internal/flatten"
	"github.com/born-ml/canon/internal/tensor"
)

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Response is the JSON envelope for CLI output.
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

func formatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
}

// Success outputs a successful result in the configured format.
// Text output prints data with fmt.Fprintln.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// formatLeaf renders a flattened leaf for text output.
func formatLeaf(leaf any) string {
	switch v := leaf.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	if flatten.IsUndefined(leaf) {
		return "undefined"
	}
	return fmt.Sprint(leaf)
}

// jsonLeaf maps a leaf to a JSON-encodable value. Undefined becomes null.
func jsonLeaf(leaf any) any {
	if flatten.IsUndefined(leaf) {
		return nil
	}
	return leaf
}

// formatValues renders a numeric buffer as "[v0 v1 ...]".
func formatValues(buf *tensor.Buffer) string {
	parts := make([]string, 0, buf.Len())
	switch buf.DType() {
	case tensor.Float32, tensor.Complex64:
		for _, v := range buf.AsFloat32() {
			parts = append(parts, strconv.FormatFloat(float64(v), 'g', -1, 32))
		}
	case tensor.Int32:
		for _, v := range buf.AsInt32() {
			parts = append(parts, strconv.FormatInt(int64(v), 10))
		}
	case tensor.Bool:
		for _, v := range buf.AsUint8() {
			parts = append(parts, strconv.Itoa(int(v)))
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// jsonValues widens a numeric buffer, mapping NaN and infinities to null.
func jsonValues(buf *tensor.Buffer) []any {
	values := buf.Values()
	out := make([]any, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[i] = v
	}
	return out
}
