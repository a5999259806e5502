package render

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/gravitas-dev/gravitas/pkg/errors"
)

// converterBinary is the external rasterizer. Provided by librsvg
// (brew install librsvg on macOS, apt install librsvg2-bin on Linux).
const converterBinary = "rsvg-convert"

// ToPNG rasterizes SVG bytes to PNG at the given scale factor. A scale of 2
// doubles the pixel dimensions for high-DPI displays.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	return convert(svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// ToPDF converts SVG bytes to a PDF document.
func ToPDF(svg []byte) ([]byte, error) {
	return convert(svg, "pdf")
}

// convert pipes the SVG through the external converter on stdin and returns
// its stdout.
func convert(svg []byte, format string, args ...string) ([]byte, error) {
	path, err := exec.LookPath(converterBinary)
	if err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s export needs %s; install librsvg", format, converterBinary)
	}

	cmd := exec.Command(path, append([]string{"-f", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err,
			"%s -f %s: %s", converterBinary, format, bytes.TrimSpace(stderr.Bytes()))
	}
	return out.Bytes(), nil
}
