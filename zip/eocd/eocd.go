// Package eocd locates and decodes the end of central directory record of a ZIP file held in memory.
package eocd

import (
	"bytes"
	"encoding/binary"
)

const (
	// RecordLen is the length of the fixed portion of the EOCD record, excluding the comment.
	RecordLen = 22
	// MaxCommentLen is the largest comment length the 16-bit comment length field can represent.
	MaxCommentLen = 0xffff
	// MaxSearchWindow is the number of trailing bytes that can contain a well-formed EOCD record.
	MaxSearchWindow = RecordLen + MaxCommentLen

	commentLenOffset = 20
)

// Record models the end of central directory record of a ZIP file.
//
// See https://en.wikipedia.org/wiki/ZIP_(file_format)#End_of_central_directory_record_(EOCD).
type Record struct {
	// Offset is the position of the record's signature in the buffer it was parsed from.
	Offset int
	// DiskNumber is number of this disk (or 0xffff for ZIP64).
	DiskNumber uint16
	// CDDiskOffset is disk where central directory starts (or 0xffff for ZIP64).
	CDDiskOffset uint16
	// CDCountOnDisk is the number of central directory records on this disk (or 0xffff for ZIP64).
	CDCountOnDisk uint16
	// CDCount is the total number of central directory records (or 0xffff for ZIP64).
	CDCount uint16
	// CDSize is size of central directory (bytes) (or 0xffffffff for ZIP64).
	CDSize uint32
	// CDOffset is offset of start of central directory, relative to start of archive (or 0xffffffff for ZIP64).
	CDOffset uint32
	// CommentLen is the value of the comment length field.
	CommentLen uint16
	// Comment is the comment section of the EOCD.
	Comment []byte
}

var (
	sigEOCD = make([]byte, 4)
)

func init() {
	binary.LittleEndian.PutUint32(sigEOCD, 0x06054b50)
}

// Locate returns the offset of the EOCD record in data.
//
// LocateBounded is tried first; if it finds nothing then LocateExhaustive is used. The returned boolean is false if
// neither finds a record whose comment reaches exactly the end of data, which is the case for corrupt archives, ZIP64
// archives whose EOCD is not locatable this way, and anything that is not a ZIP file at all.
func Locate(data []byte) (int, bool) {
	if i, ok := LocateBounded(data); ok {
		return i, true
	}

	return LocateExhaustive(data)
}

// LocateBounded searches the last MaxSearchWindow bytes of data backwards for a valid EOCD record.
//
// A signature match at offset i is valid only if i + RecordLen + comment length == len(data). The rightmost valid
// match is returned.
func LocateBounded(data []byte) (int, bool) {
	return scanBackward(data, max(0, len(data)-MaxSearchWindow))
}

// LocateExhaustive is LocateBounded without the window restriction: the entire buffer is searched backwards.
func LocateExhaustive(data []byte) (int, bool) {
	return scanBackward(data, 0)
}

// scanBackward looks for the rightmost valid EOCD record starting at or after lo.
func scanBackward(data []byte, lo int) (int, bool) {
	// the record cannot start any later than RecordLen bytes from the end.
	hi := len(data) - RecordLen
	if hi < lo {
		return 0, false
	}

	window := data[lo : hi+len(sigEOCD)]
	for {
		i := bytes.LastIndex(window, sigEOCD)
		if i == -1 {
			return 0, false
		}

		if offset := lo + i; valid(data, offset) {
			return offset, true
		}

		// signature bytes can appear inside compressed data or the comment itself so keep going.
		window = window[:i]
	}
}

func valid(data []byte, offset int) bool {
	return offset+RecordLen+int(CommentLength(data, offset)) == len(data)
}

// CommentLength reads the comment length field of the EOCD record at the given offset.
//
// The caller must ensure offset+RecordLen <= len(data).
func CommentLength(data []byte, offset int) uint16 {
	return binary.LittleEndian.Uint16(data[offset+commentLenOffset:])
}

// SetCommentLength overwrites the comment length field of the EOCD record at the given offset.
//
// The caller must ensure offset+RecordLen <= len(data).
func SetCommentLength(data []byte, offset int, n uint16) {
	binary.LittleEndian.PutUint16(data[offset+commentLenOffset:], n)
}

// Parse decodes the EOCD record at the given offset, typically one returned by Locate.
//
// The returned Record.Comment aliases data. Parse does not validate the record; if the comment length field points
// past the end of data, the comment is truncated to what is available.
func Parse(data []byte, offset int) Record {
	b := data[offset : offset+RecordLen]
	r := Record{
		Offset:        offset,
		DiskNumber:    binary.LittleEndian.Uint16(b[4:]),
		CDDiskOffset:  binary.LittleEndian.Uint16(b[6:]),
		CDCountOnDisk: binary.LittleEndian.Uint16(b[8:]),
		CDCount:       binary.LittleEndian.Uint16(b[10:]),
		CDSize:        binary.LittleEndian.Uint32(b[12:]),
		CDOffset:      binary.LittleEndian.Uint32(b[16:]),
		CommentLen:    binary.LittleEndian.Uint16(b[20:]),
	}

	start := offset + RecordLen
	r.Comment = data[start:min(start+int(r.CommentLen), len(data))]
	return r
}
