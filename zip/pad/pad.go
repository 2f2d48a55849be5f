// Package pad grows a ZIP file held in memory to an exact length.
//
// The preferred strategy (Comment) inflates the comment of the end of central directory record so the result is still
// a well-formed ZIP file. The fallback (Append) appends zero bytes past the declared comment, which most ZIP readers
// tolerate but strict ones may reject.
package pad

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/nguyengg/jarswap/zip/eocd"
)

// DefaultFiller is the byte used to fill the comment when no other filler is specified.
const DefaultFiller byte = '#'

var (
	// ErrEOCDNotFound is returned by Comment if the end of central directory record cannot be located.
	ErrEOCDNotFound = errors.New("end of central directory record not found")
	// ErrCapacityExceeded is returned by Comment if the resulting comment would not fit in the 16-bit length field.
	ErrCapacityExceeded = errors.New("comment length would exceed 65535 bytes")
	// ErrCommentDisabled is the Result.Refusal of Pad when Options.DisableComment is true.
	ErrCommentDisabled = errors.New("comment padding disabled")
	// ErrNegativePadding is returned if the requested padding is negative.
	ErrNegativePadding = errors.New("padding must not be negative")
)

// IsRefusal returns true if err indicates that the comment strategy was not used, in which case Append should be used
// instead.
func IsRefusal(err error) bool {
	return errors.Is(err, ErrEOCDNotFound) || errors.Is(err, ErrCapacityExceeded) || errors.Is(err, ErrCommentDisabled)
}

// ParseFiller converts s to a filler byte; s must be exactly one printable ASCII character.
func ParseFiller(s string) (byte, error) {
	if len(s) != 1 || s[0] < 0x20 || s[0] > 0x7e {
		return 0, fmt.Errorf("invalid filler %q: must be a single printable ASCII character", s)
	}

	return s[0], nil
}

// Comment appends n filler bytes to data and adds n to the comment length of its end of central directory record.
//
// The comment length field is modified in place, so data should not be used after a successful call; use the returned
// slice instead. On refusal (see IsRefusal), data is left untouched and nil is returned.
func Comment(data []byte, n int, filler byte) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativePadding
	}
	if n > eocd.MaxCommentLen {
		return nil, fmt.Errorf("pad %d bytes: %w", n, ErrCapacityExceeded)
	}

	offset, ok := eocd.Locate(data)
	if !ok {
		return nil, ErrEOCDNotFound
	}

	m := int(eocd.CommentLength(data, offset)) + n
	if m > eocd.MaxCommentLen {
		return nil, fmt.Errorf("pad %d bytes onto existing comment of %d bytes: %w", n, m-n, ErrCapacityExceeded)
	}
	if n == 0 {
		return data, nil
	}

	eocd.SetCommentLength(data, offset, uint16(m))
	return append(data, bytes.Repeat([]byte{filler}, n)...), nil
}

// Append appends n zero bytes to data without touching any structural field.
func Append(data []byte, n int) []byte {
	return append(data, make([]byte, n)...)
}

// Strategy identifies how Pad produced its result.
type Strategy int

const (
	// StrategyNone means no padding was needed.
	StrategyNone Strategy = iota
	// StrategyComment means the EOCD comment absorbed the padding.
	StrategyComment
	// StrategyAppend means zero bytes were appended after the EOCD record.
	StrategyAppend
)

func (s Strategy) String() string {
	switch s {
	case StrategyNone:
		return "none"
	case StrategyComment:
		return "comment"
	case StrategyAppend:
		return "append"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Options customises Pad.
type Options struct {
	// Filler is the byte used to fill the comment. Defaults to DefaultFiller.
	Filler byte
	// DisableComment skips the comment strategy and always appends.
	DisableComment bool
}

// Result is the output of Pad.
type Result struct {
	// Data has exactly n more bytes than the input.
	Data []byte
	// Strategy is the strategy that produced Data.
	Strategy Strategy
	// Refusal is the reason Comment declined when Strategy is StrategyAppend.
	//
	// A non-nil Refusal means the result may be rejected by strict ZIP parsers and the caller should warn about it.
	Refusal error
}

// Pad grows data by exactly n bytes, using Comment if possible and Append otherwise.
//
// The returned error is non-nil only if n is negative; refusal by Comment is reported via Result.Refusal instead.
func Pad(data []byte, n int, optFns ...func(*Options)) (Result, error) {
	opts := &Options{Filler: DefaultFiller}
	for _, fn := range optFns {
		fn(opts)
	}

	switch {
	case n < 0:
		return Result{}, ErrNegativePadding
	case n == 0:
		return Result{Data: data, Strategy: StrategyNone}, nil
	case opts.DisableComment:
		return Result{Data: Append(data, n), Strategy: StrategyAppend, Refusal: ErrCommentDisabled}, nil
	}

	b, err := Comment(data, n, opts.Filler)
	switch {
	case err == nil:
		return Result{Data: b, Strategy: StrategyComment}, nil
	case IsRefusal(err):
		return Result{Data: Append(data, n), Strategy: StrategyAppend, Refusal: err}, nil
	default:
		return Result{}, err
	}
}
