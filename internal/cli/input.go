package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// readInput decodes JSON from the named file, or from stdin when path is
// empty or "-". Arrays decode to sequences and objects to array-like maps.
func readInput(path string, stdin io.Reader) (any, error) {
	r := stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var v any
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode JSON input: %w", err)
	}
	return v, nil
}

func inputPath(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
