package jarswap

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// SizeError is returned when the replacement is larger than the file it is supposed to replace.
//
// Padding can only grow a file so there is no way to preserve the target's size. Nothing is written when this error is
// returned.
type SizeError struct {
	ReplacementSize int64
	TargetSize      int64
}

func (e SizeError) Error() string {
	return fmt.Sprintf("replacement is larger (%d bytes, %s) than target (%d bytes, %s)",
		e.ReplacementSize, humanize.IBytes(uint64(e.ReplacementSize)),
		e.TargetSize, humanize.IBytes(uint64(e.TargetSize)))
}

// ExtensionError is returned when the replacement file does not have the expected extension.
type ExtensionError struct {
	Name string
	Want string
}

func (e ExtensionError) Error() string {
	return fmt.Sprintf(`"%s" is not a %s file`, e.Name, e.Want)
}
