package rpcproto

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// Encode writes v (a pointer to, or value of, a struct whose fields carry
// `rpc:"<id>,<kind>"` tags) as a wire struct: a sequence of
// (field-type, field-id, value) triples terminated by TypeStop.
//
// A union is just a struct whose optional (pointer-typed) fields are
// mutually exclusive by convention; the encoder does not need a distinct
// code path for it.
func Encode(w *Writer, v any) error {
	if v == nil {
		w.WriteFieldStop()
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			w.WriteFieldStop()
			return nil
		}
		rv = rv.Elem()
	}
	return encodeStruct(w, rv)
}

// Decode reads a wire struct into ptr, which must be a pointer to a struct
// with matching `rpc` tags. Fields present on the wire but absent from ptr's
// type (or vice versa) are tolerated: decoding is by field id, not by
// position or name, and unknown ids are skipped.
func Decode(r *Reader, ptr any) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Ptr {
		return fmt.Errorf("rpcproto: Decode requires a pointer, got %T", ptr)
	}
	return decodeStruct(r, rv.Elem())
}

type fieldSpec struct {
	index int
	kind  string
}

var specCache sync.Map // reflect.Type -> map[int16]fieldSpec

func fieldSpecs(t reflect.Type) map[int16]fieldSpec {
	if cached, ok := specCache.Load(t); ok {
		return cached.(map[int16]fieldSpec)
	}
	specs := map[int16]fieldSpec{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("rpc")
		if tag == "" {
			continue
		}
		idStr, kind, found := strings.Cut(tag, ",")
		if !found {
			continue
		}
		id, err := strconv.Atoi(idStr)
		if err != nil {
			continue
		}
		specs[int16(id)] = fieldSpec{index: i, kind: kind}
	}
	specCache.Store(t, specs)
	return specs
}

func encodeStruct(w *Writer, rv reflect.Value) error {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("rpc")
		if tag == "" {
			continue
		}
		idStr, kind, found := strings.Cut(tag, ",")
		if !found {
			return fmt.Errorf("%w: %q", ErrUnsupportedTag, tag)
		}
		id, err := strconv.Atoi(idStr)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrUnsupportedTag, tag)
		}
		if err := encodeField(w, int16(id), kind, rv.Field(i)); err != nil {
			return err
		}
	}
	w.WriteFieldStop()
	return nil
}

func encodeField(w *Writer, id int16, kind string, fv reflect.Value) error {
	if fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			return nil
		}
		fv = fv.Elem()
	}
	switch kind {
	case "bool":
		w.WriteFieldBegin(id, TypeBool)
		w.WriteBool(fv.Bool())
	case "i32":
		w.WriteFieldBegin(id, TypeI32)
		w.WriteI32(int32(fv.Int()))
	case "i64":
		w.WriteFieldBegin(id, TypeI64)
		w.WriteI64(fv.Int())
	case "string":
		w.WriteFieldBegin(id, TypeString)
		w.WriteString(fv.String())
	case "struct":
		w.WriteFieldBegin(id, TypeStruct)
		return encodeStruct(w, fv)
	default:
		if elemKind, ok := strings.CutPrefix(kind, "list:"); ok {
			w.WriteFieldBegin(id, TypeList)
			n := fv.Len()
			w.WriteListHeader(kindToFieldType(elemKind), n)
			for i := 0; i < n; i++ {
				if err := encodeValue(w, elemKind, fv.Index(i)); err != nil {
					return err
				}
			}
			return nil
		}
		return fmt.Errorf("%w: %q", ErrUnsupportedTag, kind)
	}
	return nil
}

func encodeValue(w *Writer, kind string, ev reflect.Value) error {
	for ev.Kind() == reflect.Ptr {
		ev = ev.Elem()
	}
	switch kind {
	case "bool":
		w.WriteBool(ev.Bool())
	case "i32":
		w.WriteI32(int32(ev.Int()))
	case "i64":
		w.WriteI64(ev.Int())
	case "string":
		w.WriteString(ev.String())
	case "struct":
		return encodeStruct(w, ev)
	default:
		return fmt.Errorf("%w: list:%q", ErrUnsupportedTag, kind)
	}
	return nil
}

func kindToFieldType(kind string) FieldType {
	switch kind {
	case "bool":
		return TypeBool
	case "i32":
		return TypeI32
	case "i64":
		return TypeI64
	case "string":
		return TypeString
	case "struct":
		return TypeStruct
	}
	return TypeStop
}

func decodeStruct(r *Reader, rv reflect.Value) error {
	specs := fieldSpecs(rv.Type())
	for {
		ft, id, err := r.ReadFieldBegin()
		if err != nil {
			return err
		}
		if ft == TypeStop {
			return nil
		}
		spec, ok := specs[id]
		if !ok {
			if err := r.SkipField(ft); err != nil {
				return err
			}
			continue
		}
		if err := decodeField(r, rv.Field(spec.index), spec.kind, ft); err != nil {
			return err
		}
	}
}

func decodeField(r *Reader, fv reflect.Value, kind string, wireType FieldType) error {
	isPtr := fv.Kind() == reflect.Ptr
	switch kind {
	case "bool":
		v, err := r.ReadBool()
		if err != nil {
			return err
		}
		setScalar(fv, isPtr, reflect.ValueOf(v))
	case "i32":
		v, err := r.ReadI32()
		if err != nil {
			return err
		}
		setScalar(fv, isPtr, reflect.ValueOf(v))
	case "i64":
		v, err := r.ReadI64()
		if err != nil {
			return err
		}
		setScalar(fv, isPtr, reflect.ValueOf(v))
	case "string":
		v, err := r.ReadString()
		if err != nil {
			return err
		}
		setScalar(fv, isPtr, reflect.ValueOf(v))
	case "struct":
		target := fv
		if isPtr {
			if target.IsNil() {
				target.Set(reflect.New(fv.Type().Elem()))
			}
			target = target.Elem()
		}
		return decodeStruct(r, target)
	default:
		elemKind, ok := strings.CutPrefix(kind, "list:")
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnsupportedTag, kind)
		}
		_, n, err := r.ReadListHeader()
		if err != nil {
			return err
		}
		sliceType := fv.Type()
		slice := reflect.MakeSlice(sliceType, n, n)
		for i := 0; i < n; i++ {
			if err := decodeValue(r, slice.Index(i), elemKind); err != nil {
				return err
			}
		}
		fv.Set(slice)
	}
	return nil
}

func setScalar(fv reflect.Value, isPtr bool, v reflect.Value) {
	if isPtr {
		p := reflect.New(fv.Type().Elem())
		p.Elem().Set(v)
		fv.Set(p)
		return
	}
	fv.Set(v)
}

func decodeValue(r *Reader, ev reflect.Value, kind string) error {
	switch kind {
	case "bool":
		v, err := r.ReadBool()
		if err != nil {
			return err
		}
		ev.SetBool(v)
	case "i32":
		v, err := r.ReadI32()
		if err != nil {
			return err
		}
		ev.SetInt(int64(v))
	case "i64":
		v, err := r.ReadI64()
		if err != nil {
			return err
		}
		ev.SetInt(v)
	case "string":
		v, err := r.ReadString()
		if err != nil {
			return err
		}
		ev.SetString(v)
	case "struct":
		target := ev
		if ev.Kind() == reflect.Ptr {
			target = reflect.New(ev.Type().Elem())
			if err := decodeStruct(r, target.Elem()); err != nil {
				return err
			}
			ev.Set(target)
			return nil
		}
		return decodeStruct(r, target)
	default:
		return fmt.Errorf("%w: list:%q", ErrUnsupportedTag, kind)
	}
	return nil
}
