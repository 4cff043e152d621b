package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/scipopt/stairheur/pkg/detection"
)

// ReadJSON decodes a detection result from r.
//
// The input must be a JSON object as produced by [WriteJSON]. Decoded
// records are validated only structurally: every block of a decomposition
// must appear in the blocks array and the block count must match.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*detection.Result, error) {
	var result detection.Result
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	for _, dec := range result.Decompositions {
		if len(dec.Blocks) != dec.NBlocks {
			return nil, fmt.Errorf("decomposition %s: %d blocks listed, nblocks says %d",
				dec.ID, len(dec.Blocks), dec.NBlocks)
		}
	}
	return &result, nil
}

// ImportJSON reads a JSON file at path and returns the decoded result.
// The error wraps the underlying cause with the file path for context.
func ImportJSON(path string) (*detection.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
