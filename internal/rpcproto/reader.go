package rpcproto

import (
	"encoding/binary"
	"fmt"
)

// Reader walks a single message body previously produced by a Writer.
type Reader struct {
	buf []byte
	pos int
}

func NewReader(b []byte) *Reader { return &Reader{buf: b} }

func (r *Reader) need(n int) error {
	if r.pos+n > len(r.buf) {
		return ErrTruncated
	}
	return nil
}

func (r *Reader) ReadMessageHeader() (MessageHeader, error) {
	method, err := r.ReadString()
	if err != nil {
		return MessageHeader{}, err
	}
	if err := r.need(1); err != nil {
		return MessageHeader{}, err
	}
	t := MessageType(r.buf[r.pos])
	r.pos++
	seq, err := r.ReadI32()
	if err != nil {
		return MessageHeader{}, err
	}
	return MessageHeader{Method: method, Type: t, SeqID: seq}, nil
}

// ReadFieldBegin returns TypeStop when the struct has no more fields.
func (r *Reader) ReadFieldBegin() (FieldType, int16, error) {
	if err := r.need(1); err != nil {
		return 0, 0, err
	}
	t := FieldType(r.buf[r.pos])
	r.pos++
	if t == TypeStop {
		return TypeStop, 0, nil
	}
	if err := r.need(2); err != nil {
		return 0, 0, err
	}
	id := int16(binary.BigEndian.Uint16(r.buf[r.pos:]))
	r.pos += 2
	return t, id, nil
}

func (r *Reader) ReadBool() (bool, error) {
	if err := r.need(1); err != nil {
		return false, err
	}
	v := r.buf[r.pos] != 0
	r.pos++
	return v, nil
}

func (r *Reader) ReadI32() (int32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := int32(binary.BigEndian.Uint32(r.buf[r.pos:]))
	r.pos += 4
	return v, nil
}

func (r *Reader) ReadI64() (int64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := int64(binary.BigEndian.Uint64(r.buf[r.pos:]))
	r.pos += 8
	return v, nil
}

func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadI32()
	if err != nil {
		return "", err
	}
	if n < 0 || int(n) > len(r.buf)-r.pos {
		return "", ErrTruncated
	}
	s := string(r.buf[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

func (r *Reader) ReadListHeader() (FieldType, int, error) {
	if err := r.need(1); err != nil {
		return 0, 0, err
	}
	elemType := FieldType(r.buf[r.pos])
	r.pos++
	n, err := r.ReadI32()
	if err != nil {
		return 0, 0, err
	}
	if n < 0 {
		return 0, 0, fmt.Errorf("rpcproto: negative list length")
	}
	return elemType, int(n), nil
}

// SkipField skips the value following a field header of type t, used when
// decoding a struct that gained fields unknown to this binary.
func (r *Reader) SkipField(t FieldType) error {
	switch t {
	case TypeBool:
		_, err := r.ReadBool()
		return err
	case TypeI32:
		_, err := r.ReadI32()
		return err
	case TypeI64:
		_, err := r.ReadI64()
		return err
	case TypeString:
		_, err := r.ReadString()
		return err
	case TypeStruct:
		for {
			ft, _, err := r.ReadFieldBegin()
			if err != nil {
				return err
			}
			if ft == TypeStop {
				return nil
			}
			if err := r.SkipField(ft); err != nil {
				return err
			}
		}
	case TypeList:
		elemType, n, err := r.ReadListHeader()
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := r.SkipField(elemType); err != nil {
				return err
			}
		}
		return nil
	default:
		return ErrUnknownField
	}
}
