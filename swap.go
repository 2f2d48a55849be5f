// Package jarswap replaces a JAR file with another while keeping the original file's size on disk.
//
// The replacement is grown to the target's exact size by inflating the comment of its end of central directory record
// (see package pad), falling back to appending zero bytes when that is not possible.
package jarswap

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyengg/jarswap/zip/pad"
)

// Ext is the only file extension that Swap accepts for the replacement.
const Ext = ".jar"

// PadToSize grows data to exactly size bytes with pad.Pad.
//
// Returns a SizeError if data is already larger than size since padding can never shrink data.
func PadToSize(data []byte, size int64, optFns ...func(*pad.Options)) (pad.Result, error) {
	if n := int64(len(data)); n > size {
		return pad.Result{}, &SizeError{ReplacementSize: n, TargetSize: size}
	}

	return pad.Pad(data, int(size-int64(len(data))), optFns...)
}

// SwapOptions customises Swap.
type SwapOptions struct {
	// PadOptions customises pad.Options.
	PadOptions func(*pad.Options)

	// Backup, if true, copies the target to a ".bak" sibling before overwriting it. See Backup.
	Backup bool

	// WrapWriter can be used to wrap the writer of the target's new content, for example to report progress.
	//
	// size is the number of bytes that will be written.
	WrapWriter func(w io.Writer, size int64) io.Writer
}

// SwapResult describes a successful Swap.
type SwapResult struct {
	// ReplacementSize is the size of the replacement before padding.
	ReplacementSize int64
	// TargetSize is the size of the target, before and after the swap.
	TargetSize int64
	// Strategy is the padding strategy that was used.
	Strategy pad.Strategy
	// Refusal is the reason comment padding was not possible if Strategy is pad.StrategyAppend.
	//
	// The swap has succeeded, but strict ZIP parsers may reject the target now; callers should warn about this.
	Refusal error
	// BackupName is the name of the backup file if SwapOptions.Backup was true.
	BackupName string
}

// Swap overwrites the target file with the contents of the replacement file, padded to the target's original size.
//
// The replacement must have the ".jar" extension (ExtensionError) and must not be larger than the target (SizeError).
// In either case, nothing is written. The new content is written to a temporary file in the target's directory then
// renamed over the target so that an I/O failure never leaves a partially written target.
func Swap(ctx context.Context, replacement, target string, optFns ...func(*SwapOptions)) (r SwapResult, err error) {
	opts := &SwapOptions{}
	for _, fn := range optFns {
		fn(opts)
	}

	if ext := filepath.Ext(replacement); !strings.EqualFold(ext, Ext) {
		return r, &ExtensionError{Name: replacement, Want: Ext}
	}

	data, err := os.ReadFile(replacement)
	if err != nil {
		return r, fmt.Errorf(`read replacement "%s" error: %w`, replacement, err)
	}

	fi, err := os.Stat(target)
	if err != nil {
		return r, fmt.Errorf(`stat target "%s" error: %w`, target, err)
	}
	if !fi.Mode().IsRegular() {
		return r, fmt.Errorf(`target "%s" is not a regular file`, target)
	}

	r.ReplacementSize, r.TargetSize = int64(len(data)), fi.Size()

	var padFns []func(*pad.Options)
	if opts.PadOptions != nil {
		padFns = append(padFns, opts.PadOptions)
	}
	res, err := PadToSize(data, fi.Size(), padFns...)
	if err != nil {
		return r, err
	}
	r.Strategy, r.Refusal = res.Strategy, res.Refusal

	if err = ctx.Err(); err != nil {
		return r, err
	}

	if opts.Backup {
		if r.BackupName, err = Backup(target); err != nil {
			return r, fmt.Errorf("backup target error: %w", err)
		}
	}

	if err = ctx.Err(); err != nil {
		return r, err
	}

	if err = replaceFile(target, fi.Mode().Perm(), res.Data, opts.WrapWriter); err != nil {
		return r, fmt.Errorf(`write target "%s" error: %w`, target, err)
	}

	return r, nil
}

// replaceFile atomically replaces the named file with data.
func replaceFile(name string, perm os.FileMode, data []byte, wrap func(io.Writer, int64) io.Writer) error {
	f, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary file error: %w", err)
	}

	success := false
	defer func() {
		if !success {
			_, _ = f.Close(), os.Remove(f.Name())
		}
	}()

	var w io.Writer = f
	if wrap != nil {
		w = wrap(f, int64(len(data)))
	}

	if _, err = w.Write(data); err != nil {
		return err
	}
	if err = f.Chmod(perm); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = os.Rename(f.Name(), name); err != nil {
		return err
	}

	success = true
	return nil
}
