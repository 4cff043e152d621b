package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/scipopt/stairheur/pkg/detection"
	"github.com/scipopt/stairheur/pkg/model"
)

// WriteJSON encodes a detection result as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(result *detection.Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a detection result to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(result *detection.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(result, f)
}

// WriteDec writes one decomposition in the dec block-structure format:
// an NBLOCKS count, one BLOCK section per block listing its constraint
// names, and a MASTERCONSS section for constraints owned by no block.
// Handles are resolved against the problem the record was detected on.
func WriteDec(p *model.Problem, dec *detection.Decomposition, w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "\\ strategy %s\n", dec.Strategy)
	fmt.Fprintln(bw, "PRESOLVED")
	fmt.Fprintln(bw, "0")
	fmt.Fprintln(bw, "NBLOCKS")
	fmt.Fprintln(bw, dec.NBlocks)

	writeConss := func(handles []int) error {
		for _, h := range handles {
			name, err := p.ConsName(h)
			if err != nil {
				return fmt.Errorf("constraint handle %d: %w", h, err)
			}
			fmt.Fprintln(bw, name)
		}
		return nil
	}

	for k, block := range dec.Blocks {
		fmt.Fprintf(bw, "BLOCK %d\n", k+1)
		if err := writeConss(block.Conss); err != nil {
			return err
		}
	}
	fmt.Fprintln(bw, "MASTERCONSS")
	if err := writeConss(dec.LinkingConss); err != nil {
		return err
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write dec data: %w", err)
	}
	return nil
}

// ExportDec writes a decomposition to a dec file at path.
func ExportDec(p *model.Problem, dec *detection.Decomposition, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDec(p, dec, f)
}
