package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-ini/ini"
)

// Name is the name of the configuration file.
const Name = ".jarswap"

// Loader can be used for loading .jarswap configuration.
type Loader struct {
	cfg *ini.File
}

// Load will traverse the directory hierarchy upwards from the current working directory to find the first ".jarswap"
// file available and load its contents into the Loader.
//
// The name of the .jarswap file is returned, or empty string if none was found.
func (l *Loader) Load(ctx context.Context) (string, error) {
	cur, err := os.Getwd()
	if err != nil {
		return "", err
	}

	return l.LoadFrom(ctx, cur)
}

// LoadFrom is a variant of Load that starts the search at the given directory.
func (l *Loader) LoadFrom(ctx context.Context, dir string) (string, error) {
	var (
		path   = filepath.Join(dir, Name)
		cur    = dir
		fi     os.FileInfo
		err    error
		parent string
	)

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		if fi, err = os.Stat(path); err == nil && !fi.IsDir() {
			break
		}

		// a directory named .jarswap is skipped as if the file did not exist.
		if err == nil || os.IsNotExist(err) {
			parent = filepath.Dir(cur)

			if parent == cur || parent == "." {
				l.cfg = ini.Empty()
				return "", nil
			}

			path = filepath.Join(parent, Name)
			cur = parent
			continue
		}

		return "", err
	}

	l.cfg, err = ini.Load(path)
	if err != nil {
		l.cfg = ini.Empty()
		return path, err
	}

	return path, nil
}

// DefaultLoader is the default Loader instance for package-level methods.
var DefaultLoader = &Loader{cfg: ini.Empty()}

// Load calls Loader.Load on the DefaultLoader instance.
func Load(ctx context.Context) (string, error) {
	return DefaultLoader.Load(ctx)
}
