package rpcproto

import (
	"bytes"
	"encoding/binary"
)

// Writer accumulates a single message body using the primitives of the
// binary protocol. It is not safe for concurrent use; each RPC call or
// reply builds its own Writer.
type Writer struct {
	buf bytes.Buffer
}

func NewWriter() *Writer { return &Writer{} }

func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

func (w *Writer) WriteMessageHeader(h MessageHeader) {
	w.WriteString(h.Method)
	w.buf.WriteByte(byte(h.Type))
	w.WriteI32(h.SeqID)
}

func (w *Writer) WriteFieldBegin(id int16, t FieldType) {
	w.buf.WriteByte(byte(t))
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(id))
	w.buf.Write(b[:])
}

func (w *Writer) WriteFieldStop() {
	w.buf.WriteByte(byte(TypeStop))
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

func (w *Writer) WriteI32(v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	w.buf.Write(b[:])
}

func (w *Writer) WriteI64(v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	w.buf.Write(b[:])
}

func (w *Writer) WriteString(v string) {
	w.WriteI32(int32(len(v)))
	w.buf.WriteString(v)
}

// WriteListHeader writes the element type and length of an upcoming list.
// Elements are written individually by the caller afterwards.
func (w *Writer) WriteListHeader(elemType FieldType, length int) {
	w.buf.WriteByte(byte(elemType))
	w.WriteI32(int32(length))
}
