package jarswap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// OpenExclFile creates a new file for writing with the condition that the file did not exist prior to this call.
//
// The first argument is the parent directory of the file to be created. The second argument is the stem of the file,
// the third the extension. For example, the stem of "mod.jar" is "mod", its ext ".jar". Using ".jar.bak" as the
// extension, the naming is more natural: "mod-1.jar.bak" or "mod-2.jar.bak" instead of "mod.jar-1.bak".
//
// The file is opened with flag `os.O_RDWR|os.O_CREATE|os.O_EXCL` and permission `0666`. Caller is responsible for
// closing the file upon a successful return.
func OpenExclFile(parent, stem, ext string) (file *os.File, err error) {
	name := filepath.Join(parent, stem+ext)
	for i := 0; ; {
		switch file, err = os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0666); {
		case err == nil:
			return
		case errors.Is(err, os.ErrExist):
			i++
			name = filepath.Join(parent, fmt.Sprintf("%s-%d%s", stem, i, ext))
		default:
			return nil, fmt.Errorf("create file error: %w", err)
		}
	}
}

// Backup copies the named file to a new sibling file with ".bak" appended to its extension.
//
// The backup never overwrites an existing file; see OpenExclFile. The name of the backup file is returned.
func Backup(name string) (string, error) {
	src, err := os.Open(name)
	if err != nil {
		return "", fmt.Errorf(`open file "%s" error: %w`, name, err)
	}
	defer src.Close()

	// "mod-1.20.1.jar" must keep "mod-1.20.1" as its stem.
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	dst, err := OpenExclFile(filepath.Dir(name), base[:len(base)-len(ext)], ext+".bak")
	if err != nil {
		return "", err
	}

	if _, err = io.Copy(dst, src); err != nil {
		_, _ = dst.Close(), os.Remove(dst.Name())
		return "", fmt.Errorf("write backup error: %w", err)
	}

	if err = dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("close backup error: %w", err)
	}

	return dst.Name(), nil
}
