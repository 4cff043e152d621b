package render

import (
	"bytes"
	"fmt"
	"os/exec"
)

// ToPDF converts an SVG matrix plot to PDF via rsvg-convert.
func ToPDF(svg []byte) ([]byte, error) {
	return rsvgConvert(svg, "pdf")
}

// ToPNG converts an SVG matrix plot to PNG at the given scale factor.
// A scale of 2.0 doubles the pixel resolution, which keeps single-pixel
// cells of large instances legible.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	return rsvgConvert(svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// rsvgConvert pipes the SVG through rsvg-convert. The tool is probed
// first so a missing install produces an actionable message instead of an
// exec error.
func rsvgConvert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, fmt.Errorf("%s output needs librsvg (brew install librsvg, apt install librsvg2-bin)", format)
	}

	cmd := exec.Command("rsvg-convert", append([]string{"-f", format}, extraArgs...)...)
	cmd.Stdin = bytes.NewReader(svg)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert %s: %w: %s", format, err, stderr.String())
	}
	return stdout.Bytes(), nil
}
