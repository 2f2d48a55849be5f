package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mholt/archives"
)

// Sniff reports whether the named file looks like a ZIP archive from its leading bytes.
//
// This is only a heuristic to warn early about files that will not be padded with the EOCD comment; the file's
// internal structure is not validated.
func Sniff(ctx context.Context, name string) (bool, error) {
	f, err := os.Open(name)
	if err != nil {
		return false, fmt.Errorf(`open file "%s" error: %w`, name, err)
	}
	defer f.Close()

	// no name so that only the content is matched.
	format, _, err := archives.Identify(ctx, "", f)
	switch {
	case errors.Is(err, archives.NoMatch):
		return false, nil
	case err != nil:
		return false, fmt.Errorf(`identify "%s" error: %w`, filepath.Base(name), err)
	}

	return format.Extension() == ".zip", nil
}
