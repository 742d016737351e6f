// Package codec provides the deterministic binary encodings used by the
// time-series store. Keys encode so that raw byte-lexicographic order equals
// the natural order of the value, which range scans depend on.
package codec

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

var (
	ErrTruncated = errors.New("codec: truncated input")
	ErrMalformed = errors.New("codec: malformed input")
)

// TimeKeySize is the width of an encoded int64 key.
const TimeKeySize = 8

const signBit = uint64(1) << 63

// EncodeTime encodes an epoch-millisecond timestamp as a big-endian key with
// the sign bit flipped, so byte order matches numeric order over the whole
// signed range.
func EncodeTime(t int64) []byte {
	var buf [TimeKeySize]byte
	binary.BigEndian.PutUint64(buf[:], uint64(t)^signBit)
	return buf[:]
}

// DecodeTime reverses EncodeTime.
func DecodeTime(src []byte) (int64, error) {
	if len(src) < TimeKeySize {
		return 0, errors.Wrapf(ErrTruncated, "time key: %d bytes", len(src))
	}
	return int64(binary.BigEndian.Uint64(src[:TimeKeySize]) ^ signBit), nil
}

// EncodeCursorKey builds the replay-cursor key for (symbol, interval). The
// components are concatenated with a NUL separator; neither may contain NUL.
func EncodeCursorKey(symbol, interval string) []byte {
	key := make([]byte, 0, len(symbol)+1+len(interval))
	key = append(key, symbol...)
	key = append(key, 0)
	key = append(key, interval...)
	return key
}

// DecodeCursorKey reverses EncodeCursorKey.
func DecodeCursorKey(src []byte) (symbol, interval string, err error) {
	i := bytes.IndexByte(src, 0)
	if i < 0 {
		return "", "", errors.Wrap(ErrMalformed, "cursor key: missing separator")
	}
	return string(src[:i]), string(src[i+1:]), nil
}

// EncodeOrderKey builds the order-journal key (time, id). Byte order sorts
// by time first, then id.
func EncodeOrderKey(t int64, id string) []byte {
	key := make([]byte, 0, TimeKeySize+len(id))
	key = append(key, EncodeTime(t)...)
	key = append(key, id...)
	return key
}

// DecodeOrderKey reverses EncodeOrderKey.
func DecodeOrderKey(src []byte) (int64, string, error) {
	t, err := DecodeTime(src)
	if err != nil {
		return 0, "", err
	}
	return t, string(src[TimeKeySize:]), nil
}
