package codec

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"tradecore/internal/model"
)

// Orders carry strings and exact decimals, so unlike candles they use a
// variable-length layout: fixed header, then length-prefixed fields.
// Decimals travel as their exact string form to survive the round trip
// without precision loss.

// EncodeOrder serializes an order.
func EncodeOrder(dst []byte, o model.Order) []byte {
	dst = dst[:0]
	dst = append(dst, byte(o.Kind), byte(o.Side), boolByte(o.Reduce), byte(o.Status))
	dst = binary.BigEndian.AppendUint64(dst, uint64(o.Time))
	dst = appendString(dst, o.Symbol)
	dst = appendString(dst, o.ID)
	dst = appendDecimal(dst, o.Leverage)
	dst = appendDecimal(dst, o.Size)
	dst = appendDecimal(dst, o.Price)
	dst = appendDecimal(dst, o.Margin)
	dst = appendDecimal(dst, o.DealSize)
	dst = appendDecimal(dst, o.DealPrice)
	dst = appendDecimal(dst, o.DealAverage)
	dst = appendDecimal(dst, o.DealFee)
	return dst
}

// DecodeOrder parses an encoded order.
func DecodeOrder(src []byte) (model.Order, error) {
	r := reader{buf: src}

	var o model.Order
	header, err := r.take(12)
	if err != nil {
		return model.Order{}, errors.Wrap(err, "order header")
	}
	o.Kind = model.OrderKind(header[0])
	o.Side = model.Side(header[1])
	o.Reduce = header[2] != 0
	o.Status = model.OrderStatus(header[3])
	o.Time = int64(binary.BigEndian.Uint64(header[4:12]))

	if o.Symbol, err = r.string(); err != nil {
		return model.Order{}, errors.Wrap(err, "order symbol")
	}
	if o.ID, err = r.string(); err != nil {
		return model.Order{}, errors.Wrap(err, "order id")
	}
	for _, field := range []struct {
		name string
		dst  *decimal.Decimal
	}{
		{"leverage", &o.Leverage},
		{"size", &o.Size},
		{"price", &o.Price},
		{"margin", &o.Margin},
		{"deal size", &o.DealSize},
		{"deal price", &o.DealPrice},
		{"deal average", &o.DealAverage},
		{"deal fee", &o.DealFee},
	} {
		if *field.dst, err = r.decimal(); err != nil {
			return model.Order{}, errors.Wrap(err, "order "+field.name)
		}
	}
	return o, nil
}

type reader struct {
	buf []byte
	off int
}

func (r *reader) take(n int) ([]byte, error) {
	if r.off+n > len(r.buf) {
		return nil, errors.Wrapf(ErrTruncated, "need %d bytes at offset %d of %d", n, r.off, len(r.buf))
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) string() (string, error) {
	lb, err := r.take(2)
	if err != nil {
		return "", err
	}
	b, err := r.take(int(binary.BigEndian.Uint16(lb)))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) decimal() (decimal.Decimal, error) {
	s, err := r.string()
	if err != nil {
		return decimal.Decimal{}, err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(ErrMalformed, "decimal %q", s)
	}
	return d, nil
}

func appendString(dst []byte, s string) []byte {
	n := len(s)
	if n > math.MaxUint16 {
		n = math.MaxUint16
		s = s[:n]
	}
	dst = binary.BigEndian.AppendUint16(dst, uint16(n))
	return append(dst, s...)
}

func appendDecimal(dst []byte, d decimal.Decimal) []byte {
	return appendString(dst, d.String())
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
