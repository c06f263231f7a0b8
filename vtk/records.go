package vtk

import (
	"encoding/binary"
	"io"
	"math"
	"strconv"
)

// recordWriter encodes the numeric payload of a section, one record per call.
// The encoding is picked once per session so section code never checks the mode.
type recordWriter interface {
	float32s(vals ...float32) error
	int32s(vals ...int32) error
	float64s(vals ...float64) error
	// endBlock terminates a run of records so the next keyword starts a new line
	endBlock() error
}

func newRecordWriter(w io.Writer, binaryMode bool) recordWriter {
	if binaryMode {
		return &binaryRecords{w: w}
	}
	return &asciiRecords{w: w}
}

// binaryRecords packs values big-endian with no separators
type binaryRecords struct {
	w   io.Writer
	buf []byte
}

func (r *binaryRecords) float32s(vals ...float32) (err error) {
	r.buf = r.buf[:0]
	for _, v := range vals {
		r.buf = binary.BigEndian.AppendUint32(r.buf, math.Float32bits(v))
	}
	_, err = r.w.Write(r.buf)
	return
}

func (r *binaryRecords) int32s(vals ...int32) (err error) {
	r.buf = r.buf[:0]
	for _, v := range vals {
		r.buf = binary.BigEndian.AppendUint32(r.buf, uint32(v))
	}
	_, err = r.w.Write(r.buf)
	return
}

func (r *binaryRecords) float64s(vals ...float64) (err error) {
	r.buf = r.buf[:0]
	for _, v := range vals {
		r.buf = binary.BigEndian.AppendUint64(r.buf, math.Float64bits(v))
	}
	_, err = r.w.Write(r.buf)
	return
}

func (r *binaryRecords) endBlock() (err error) {
	_, err = io.WriteString(r.w, "\n")
	return
}

// asciiRecords writes one space separated record per line
type asciiRecords struct {
	w   io.Writer
	buf []byte
}

func (r *asciiRecords) float32s(vals ...float32) error {
	r.buf = r.buf[:0]
	for i, v := range vals {
		if i > 0 {
			r.buf = append(r.buf, ' ')
		}
		r.buf = strconv.AppendFloat(r.buf, float64(v), 'g', -1, 32)
	}
	return r.flushLine()
}

func (r *asciiRecords) int32s(vals ...int32) error {
	r.buf = r.buf[:0]
	for i, v := range vals {
		if i > 0 {
			r.buf = append(r.buf, ' ')
		}
		r.buf = strconv.AppendInt(r.buf, int64(v), 10)
	}
	return r.flushLine()
}

func (r *asciiRecords) float64s(vals ...float64) error {
	r.buf = r.buf[:0]
	for i, v := range vals {
		if i > 0 {
			r.buf = append(r.buf, ' ')
		}
		r.buf = strconv.AppendFloat(r.buf, v, 'g', -1, 64)
	}
	return r.flushLine()
}

func (r *asciiRecords) flushLine() (err error) {
	r.buf = append(r.buf, '\n')
	_, err = r.w.Write(r.buf)
	return
}

func (r *asciiRecords) endBlock() error { return nil }
