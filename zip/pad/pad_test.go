package pad

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nguyengg/jarswap/zip/eocd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBuffer returns a buffer of size bytes ending in an EOCD record with the given comment.
func newBuffer(size int, comment []byte) []byte {
	data := make([]byte, size)
	offset := size - eocd.RecordLen - len(comment)
	binary.LittleEndian.PutUint32(data[offset:], 0x06054b50)
	binary.LittleEndian.PutUint16(data[offset+20:], uint16(len(comment)))
	copy(data[offset+eocd.RecordLen:], comment)
	return data
}

func newJar(t *testing.T) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	w, err := zw.Create("META-INF/MANIFEST.MF")
	require.NoError(t, err)
	_, err = io.WriteString(w, "Manifest-Version: 1.0\r\n")
	require.NoError(t, err)
	w, err = zw.Create("com/example/Mod.class")
	require.NoError(t, err)
	_, err = w.Write(bytes.Repeat([]byte{0xca, 0xfe, 0xba, 0xbe}, 256))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestComment(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		comment []byte
		n       int
	}{
		{
			name: "thousand bytes padded by 500",
			size: 1000,
			n:    500,
		},
		{
			name:    "existing comment",
			size:    1000,
			comment: []byte("hello, world!"),
			n:       1234,
		},
		{
			name: "up to the limit",
			size: 100,
			n:    eocd.MaxCommentLen,
		},
		{
			name:    "existing comment up to the limit",
			size:    200,
			comment: bytes.Repeat([]byte("c"), 100),
			n:       eocd.MaxCommentLen - 100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := newBuffer(tt.size, tt.comment)
			original := bytes.Clone(data)

			got, err := Comment(data, tt.n, DefaultFiller)
			require.NoErrorf(t, err, "Comment() error = %v", err)
			assert.Lenf(t, got, tt.size+tt.n, "Comment() got length = %d, want = %d", len(got), tt.size+tt.n)

			offset, ok := eocd.Locate(got)
			require.Truef(t, ok, "padded buffer no longer has a valid EOCD")
			assert.Equal(t, tt.size-eocd.RecordLen-len(tt.comment), offset)

			commentLen := int(eocd.CommentLength(got, offset))
			assert.Equal(t, len(tt.comment)+tt.n, commentLen)

			// everything before the comment length field is unchanged, and so is the original comment.
			if diff := cmp.Diff(original[:offset+20], got[:offset+20]); diff != "" {
				t.Errorf("Comment() mismatch before comment length (-want +got):\n%s", diff)
			}
			trailing := got[len(got)-commentLen:]
			assert.Equal(t, string(tt.comment), string(trailing[:len(tt.comment)]))
			assert.Equal(t, bytes.Repeat([]byte{DefaultFiller}, tt.n), trailing[len(tt.comment):])
		})
	}
}

func TestComment_ValidJar(t *testing.T) {
	data := newJar(t)
	n := len(data)

	got, err := Comment(bytes.Clone(data), 4096, '*')
	require.NoError(t, err)
	assert.Len(t, got, n+4096)

	zr, err := zip.NewReader(bytes.NewReader(got), int64(len(got)))
	require.NoErrorf(t, err, "zip.NewReader() error = %v", err)
	assert.Len(t, zr.File, 2)
	assert.Equal(t, string(bytes.Repeat([]byte("*"), 4096)), zr.Comment)

	f, err := zr.Open("com/example/Mod.class")
	require.NoError(t, err)
	b, err := io.ReadAll(f)
	_ = f.Close()
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0xca, 0xfe, 0xba, 0xbe}, 256), b)
}

func TestComment_Refusal(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		n    int
		want error
	}{
		{
			name: "exceeds 16-bit limit",
			data: newBuffer(1000, nil),
			n:    70000,
			want: ErrCapacityExceeded,
		},
		{
			name: "one past 16-bit limit",
			data: newBuffer(1000, nil),
			n:    eocd.MaxCommentLen + 1,
			want: ErrCapacityExceeded,
		},
		{
			name: "existing comment plus padding exceeds limit",
			data: newBuffer(1000, []byte("hello")),
			n:    eocd.MaxCommentLen - 4,
			want: ErrCapacityExceeded,
		},
		{
			name: "no EOCD",
			data: bytes.Repeat([]byte("a"), 1000),
			n:    10,
			want: ErrEOCDNotFound,
		},
		{
			name: "empty",
			data: nil,
			n:    10,
			want: ErrEOCDNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := bytes.Clone(tt.data)

			got, err := Comment(tt.data, tt.n, DefaultFiller)
			assert.ErrorIsf(t, err, tt.want, "Comment() error = %v, want %v", err, tt.want)
			assert.Truef(t, IsRefusal(err), "IsRefusal(%v) = false", err)
			assert.Nil(t, got)
			assert.Equalf(t, original, tt.data, "Comment() must not modify data on refusal")
		})
	}
}

func TestComment_Zero(t *testing.T) {
	data := newBuffer(1000, []byte("abc"))
	original := bytes.Clone(data)

	got, err := Comment(data, 0, DefaultFiller)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestComment_Negative(t *testing.T) {
	_, err := Comment(newBuffer(1000, nil), -1, DefaultFiller)
	assert.ErrorIs(t, err, ErrNegativePadding)
	assert.False(t, IsRefusal(err))
}

func TestComment_RoundTrip(t *testing.T) {
	for _, n := range []int{1, 7, 500, 30000} {
		data, err := Comment(newJar(t), n, DefaultFiller)
		require.NoError(t, err)

		offset, ok := eocd.Locate(data)
		require.True(t, ok)

		// extracting exactly comment length bytes from the end leaves nothing after the fixed record.
		commentLen := int(eocd.CommentLength(data, offset))
		rest := data[offset+eocd.RecordLen : len(data)-commentLen]
		assert.Emptyf(t, rest, "n=%d: %d bytes left over after comment", n, len(rest))
		assert.Equal(t, n, commentLen)
	}
}

func TestPad(t *testing.T) {
	tests := []struct {
		name         string
		data         []byte
		n            int
		optFns       []func(*Options)
		wantStrategy Strategy
		wantRefusal  error
	}{
		{
			name:         "no padding",
			data:         newBuffer(1000, nil),
			n:            0,
			wantStrategy: StrategyNone,
		},
		{
			name:         "comment",
			data:         newBuffer(1000, nil),
			n:            500,
			wantStrategy: StrategyComment,
		},
		{
			name:         "too large falls back to append",
			data:         newBuffer(1000, nil),
			n:            70000,
			wantStrategy: StrategyAppend,
			wantRefusal:  ErrCapacityExceeded,
		},
		{
			name:         "no EOCD falls back to append",
			data:         bytes.Repeat([]byte("a"), 1000),
			n:            500,
			wantStrategy: StrategyAppend,
			wantRefusal:  ErrEOCDNotFound,
		},
		{
			name: "comment disabled",
			data: newBuffer(1000, nil),
			n:    500,
			optFns: []func(*Options){func(opts *Options) {
				opts.DisableComment = true
			}},
			wantStrategy: StrategyAppend,
			wantRefusal:  ErrCommentDisabled,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := len(tt.data)
			prefix := bytes.Clone(tt.data)

			got, err := Pad(tt.data, tt.n, tt.optFns...)
			require.NoErrorf(t, err, "Pad() error = %v", err)
			assert.Lenf(t, got.Data, n+tt.n, "Pad() got length = %d, want = %d", len(got.Data), n+tt.n)
			assert.Equalf(t, tt.wantStrategy, got.Strategy, "Pad() got strategy = %s, want = %s", got.Strategy, tt.wantStrategy)

			if tt.wantRefusal != nil {
				assert.ErrorIs(t, got.Refusal, tt.wantRefusal)
				assert.Truef(t, IsRefusal(got.Refusal), "IsRefusal(%v) = false", got.Refusal)
			} else {
				assert.NoError(t, got.Refusal)
			}

			if got.Strategy == StrategyAppend {
				// the original bytes are intact and followed by zeros.
				assert.Equal(t, prefix, got.Data[:n])
				assert.Equal(t, make([]byte, tt.n), got.Data[n:])
			}
		})
	}
}

func TestPad_Filler(t *testing.T) {
	got, err := Pad(newBuffer(100, nil), 3, func(opts *Options) {
		opts.Filler = ' '
	})
	require.NoError(t, err)
	assert.Equal(t, StrategyComment, got.Strategy)
	assert.Equal(t, []byte("   "), got.Data[100:])
}

func TestParseFiller(t *testing.T) {
	tests := []struct {
		in      string
		want    byte
		wantErr bool
	}{
		{in: "#", want: '#'},
		{in: " ", want: ' '},
		{in: "~", want: '~'},
		{in: "", wantErr: true},
		{in: "ab", wantErr: true},
		{in: "é", wantErr: true},
		{in: "\x00", wantErr: true},
		{in: "\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.in), func(t *testing.T) {
			got, err := ParseFiller(tt.in)
			if tt.wantErr {
				assert.Errorf(t, err, "ParseFiller(%q) got = %v, want error", tt.in, got)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPad_Negative(t *testing.T) {
	_, err := Pad(newBuffer(100, nil), -5)
	assert.ErrorIs(t, err, ErrNegativePadding)
}

func TestStrategy_String(t *testing.T) {
	assert.Equal(t, "none", StrategyNone.String())
	assert.Equal(t, "comment", StrategyComment.String())
	assert.Equal(t, "append", StrategyAppend.String())
	assert.Equal(t, "Strategy(7)", Strategy(7).String())
}
