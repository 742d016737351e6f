package codec

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"tradecore/internal/model"
)

// CandlePayloadSize is the fixed width of an encoded candle.
const CandlePayloadSize = 80

// EncodeCandle serializes a candle into a fixed-size payload.
func EncodeCandle(dst []byte, c model.Candle) []byte {
	if cap(dst) < CandlePayloadSize {
		dst = make([]byte, CandlePayloadSize)
	} else {
		dst = dst[:CandlePayloadSize]
	}

	binary.BigEndian.PutUint64(dst[0:8], uint64(c.Time))
	binary.BigEndian.PutUint64(dst[8:16], math.Float64bits(c.Open))
	binary.BigEndian.PutUint64(dst[16:24], math.Float64bits(c.High))
	binary.BigEndian.PutUint64(dst[24:32], math.Float64bits(c.Low))
	binary.BigEndian.PutUint64(dst[32:40], math.Float64bits(c.Close))
	binary.BigEndian.PutUint64(dst[40:48], math.Float64bits(c.Volume))
	binary.BigEndian.PutUint64(dst[48:56], math.Float64bits(c.Amount))
	binary.BigEndian.PutUint64(dst[56:64], math.Float64bits(c.TakerVolume))
	binary.BigEndian.PutUint64(dst[64:72], math.Float64bits(c.TakerAmount))
	binary.BigEndian.PutUint64(dst[72:80], uint64(c.Trades))

	return dst
}

// DecodeCandle parses a fixed-size candle payload.
func DecodeCandle(src []byte) (model.Candle, error) {
	if len(src) < CandlePayloadSize {
		return model.Candle{}, errors.Wrapf(ErrTruncated, "candle: %d bytes", len(src))
	}
	return model.Candle{
		Time:        int64(binary.BigEndian.Uint64(src[0:8])),
		Open:        math.Float64frombits(binary.BigEndian.Uint64(src[8:16])),
		High:        math.Float64frombits(binary.BigEndian.Uint64(src[16:24])),
		Low:         math.Float64frombits(binary.BigEndian.Uint64(src[24:32])),
		Close:       math.Float64frombits(binary.BigEndian.Uint64(src[32:40])),
		Volume:      math.Float64frombits(binary.BigEndian.Uint64(src[40:48])),
		Amount:      math.Float64frombits(binary.BigEndian.Uint64(src[48:56])),
		TakerVolume: math.Float64frombits(binary.BigEndian.Uint64(src[56:64])),
		TakerAmount: math.Float64frombits(binary.BigEndian.Uint64(src[64:72])),
		Trades:      int64(binary.BigEndian.Uint64(src[72:80])),
	}, nil
}

// EncodeInt64 serializes a scalar value, e.g. a replay cursor.
func EncodeInt64(v int64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	return buf[:]
}

// DecodeInt64 parses a scalar value.
func DecodeInt64(src []byte) (int64, error) {
	if len(src) < 8 {
		return 0, errors.Wrapf(ErrTruncated, "int64: %d bytes", len(src))
	}
	return int64(binary.BigEndian.Uint64(src[:8])), nil
}
