package fileutil

import (
	"io"
	"os"

	"github.com/airc-dev/airc/internal/errors"
)

// MaxFileSize is the maximum file size for reads (1MB).
// Configuration files, rules, and prompts should never approach this limit.
const MaxFileSize = 1024 * 1024

// ErrFileTooLarge is returned when a file exceeds MaxFileSize.
var ErrFileTooLarge = errors.New("file too large")

// ReadFileWithLimit reads a file with a size limit to prevent memory exhaustion.
// Returns ErrFileTooLarge if the file exceeds MaxFileSize.
func ReadFileWithLimit(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "stating file")
	}

	if info.Size() > MaxFileSize {
		return nil, errors.Wrapf(ErrFileTooLarge, "%s is %d bytes (max %d)", path, info.Size(), MaxFileSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	// Read one byte past the limit to detect files that grew after Stat
	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	if len(data) > MaxFileSize {
		return nil, errors.Wrapf(ErrFileTooLarge, "%s exceeds %d bytes", path, MaxFileSize)
	}

	return data, nil
}
