package internal

import (
	"cmp"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"github.com/nguyengg/jarswap"
	"golang.org/x/time/rate"
)

// scanProgressAfter is the number of entries ScanModsDir examines before it starts reporting progress.
var scanProgressAfter = 1000

// Candidate is a file that can be replaced by the replacement without shrinking.
type Candidate struct {
	// Path is the path to the file.
	Path string
	// Size is the file's size.
	Size int64
	// Delta is the number of bytes of padding the replacement will need.
	Delta int64
}

// String formats the candidate as a menu item.
func (c Candidate) String() string {
	return fmt.Sprintf("%s | %d bytes (%s) | Δ %d bytes", filepath.Base(c.Path), c.Size, humanize.IBytes(uint64(c.Size)), c.Delta)
}

// Scan is the result of ScanModsDir.
type Scan struct {
	// Candidates are sorted by ascending Delta, then by Path.
	Candidates []Candidate
	// Seen is the number of directory entries that were examined.
	Seen int
	// Skipped contains one error for each entry that could not be examined.
	Skipped *multierror.Error
}

// ScanModsDir finds the JAR files in dir that the replacement can replace.
//
// Only regular files with the ".jar" extension whose size is at least the replacement's are returned, sorted by how
// close their size is to the replacement's. The replacement itself is excluded if it lives in dir.
//
// Entries that cannot be examined are recorded in Scan.Skipped; only a failure to read dir is returned as an error.
func ScanModsDir(ctx context.Context, dir string, replacement os.FileInfo) (*Scan, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf(`read directory "%s" error: %w`, dir, err)
	}

	var (
		s         = &Scan{}
		size      = replacement.Size()
		sometimes = rate.Sometimes{Interval: 5 * time.Second}
	)

	for _, e := range entries {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.Seen++; s.Seen >= scanProgressAfter {
			sometimes.Do(func() {
				log.Printf(`scanned %d/%d entries in "%s" so far`, s.Seen, len(entries), dir)
			})
		}

		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), jarswap.Ext) {
			continue
		}

		path := filepath.Join(dir, e.Name())
		fi, err := os.Stat(path)
		if err != nil {
			s.Skipped = multierror.Append(s.Skipped, fmt.Errorf(`stat "%s" error: %w`, path, err))
			continue
		}

		if !fi.Mode().IsRegular() || fi.Size() < size || os.SameFile(fi, replacement) {
			continue
		}

		s.Candidates = append(s.Candidates, Candidate{Path: path, Size: fi.Size(), Delta: fi.Size() - size})
	}

	slices.SortStableFunc(s.Candidates, func(a, b Candidate) int {
		if c := cmp.Compare(a.Delta, b.Delta); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})

	return s, nil
}
