package source

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/amishk599/jdskills/internal/model"
)

// maxTextBytes caps how much of a file or stdin is read as a description.
const maxTextBytes = 1 << 20

// Text wraps a description given directly on the command line.
func Text(text string) model.JobDescription {
	return model.JobDescription{Source: "text", Text: text}
}

// ErrTooLarge is returned when a description is longer than maxTextBytes.
var ErrTooLarge = errors.New("description exceeds 1 MiB")

// Reader reads a description from r, e.g. stdin. Input longer than 1 MiB is
// rejected rather than cut short.
func Reader(r io.Reader, sourceName string) (model.JobDescription, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxTextBytes+1))
	if err != nil {
		return model.JobDescription{}, fmt.Errorf("read %s: %w", sourceName, err)
	}
	if len(data) > maxTextBytes {
		return model.JobDescription{}, fmt.Errorf("read %s: %w", sourceName, ErrTooLarge)
	}
	return model.JobDescription{Source: sourceName, Text: string(data)}, nil
}

// File reads a description from the file at path.
func File(path string) (model.JobDescription, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.JobDescription{}, fmt.Errorf("open description: %w", err)
	}
	defer f.Close()

	jd, err := Reader(f, "file")
	if err != nil {
		return model.JobDescription{}, err
	}
	jd.Title = path
	return jd, nil
}
