package rpcproto

import (
	"bytes"
	"testing"
)

type innerStruct struct {
	Label string `rpc:"1,string"`
}

type roundTripStruct struct {
	ID       int32        `rpc:"1,i32"`
	Name     string       `rpc:"2,string"`
	Active   bool         `rpc:"3,bool"`
	Big      int64        `rpc:"4,i64"`
	Tags     []string     `rpc:"5,list:string"`
	Nested   innerStruct  `rpc:"6,struct"`
	Optional *int32       `rpc:"7,i32"`
	Children []innerStruct `rpc:"8,list:struct"`
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	opt := int32(42)
	original := roundTripStruct{
		ID:     7,
		Name:   "alice",
		Active: true,
		Big:    1 << 40,
		Tags:   []string{"a", "b", "c"},
		Nested: innerStruct{Label: "inner"},
		Optional: &opt,
		Children: []innerStruct{{Label: "x"}, {Label: "y"}},
	}

	w := NewWriter()
	if err := Encode(w, &original); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var decoded roundTripStruct
	r := NewReader(w.Bytes())
	if err := Decode(r, &decoded); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if decoded.ID != original.ID || decoded.Name != original.Name || decoded.Active != original.Active || decoded.Big != original.Big {
		t.Fatalf("scalar mismatch: got %+v", decoded)
	}
	if len(decoded.Tags) != 3 || decoded.Tags[2] != "c" {
		t.Fatalf("list mismatch: got %v", decoded.Tags)
	}
	if decoded.Nested.Label != "inner" {
		t.Fatalf("nested struct mismatch: got %+v", decoded.Nested)
	}
	if decoded.Optional == nil || *decoded.Optional != 42 {
		t.Fatalf("optional field mismatch: got %v", decoded.Optional)
	}
	if len(decoded.Children) != 2 || decoded.Children[1].Label != "y" {
		t.Fatalf("struct list mismatch: got %+v", decoded.Children)
	}
}

func TestEncodeOmitsNilOptionalField(t *testing.T) {
	w := NewWriter()
	if err := Encode(w, &roundTripStruct{ID: 1}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var decoded roundTripStruct
	if err := Decode(NewReader(w.Bytes()), &decoded); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Optional != nil {
		t.Fatalf("expected nil optional field, got %v", *decoded.Optional)
	}
}

// olderStruct simulates a peer running a binary built before a field was
// added; decoding must skip unknown field ids rather than fail.
type olderStruct struct {
	ID int32 `rpc:"1,i32"`
}

func TestDecodeSkipsUnknownFields(t *testing.T) {
	w := NewWriter()
	if err := Encode(w, &roundTripStruct{ID: 9, Name: "newer-field"}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var decoded olderStruct
	if err := Decode(NewReader(w.Bytes()), &decoded); err != nil {
		t.Fatalf("Decode into older schema: %v", err)
	}
	if decoded.ID != 9 {
		t.Fatalf("expected id 9, got %d", decoded.ID)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte("hello rpc")
	if err := WriteFrame(&buf, payload); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("expected %q, got %q", payload, got)
	}
}

func TestReadFrameRejectsOversizedLength(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	if _, err := ReadFrame(&buf); err != ErrFrameTooLarge {
		t.Fatalf("expected ErrFrameTooLarge, got %v", err)
	}
}

func TestExceptionRegistryBuildsByWireName(t *testing.T) {
	reg := NewExceptionRegistry()
	reg.Register("WidgetNotFoundException", func() DomainException { return &testException{name: "WidgetNotFoundException"} })

	exc := reg.Build(WireException{Name: "WidgetNotFoundException", Message: "no widget 5"})
	if exc == nil {
		t.Fatal("expected a reconstructed exception")
	}
	if exc.Error() != "no widget 5" {
		t.Fatalf("expected message propagated, got %q", exc.Error())
	}
}

func TestExceptionRegistryUnknownNameReturnsNil(t *testing.T) {
	reg := NewExceptionRegistry()
	if exc := reg.Build(WireException{Name: "Unknown"}); exc != nil {
		t.Fatalf("expected nil for unregistered exception name, got %v", exc)
	}
}

type testException struct {
	name string
	msg  string
}

func (e *testException) Error() string         { return e.msg }
func (e *testException) ExceptionName() string { return e.name }
func (e *testException) SetMessage(m string)   { e.msg = m }
