package runtime

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wippyai/snpe-runtime/errors"
	"github.com/wippyai/snpe-runtime/native/nativetest"
)

func TestNewRecord(t *testing.T) {
	rt, sdk := newTestRuntime(t)

	rec, err := rt.NewRecord("weights")
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	if rec.Name() != "weights" {
		t.Errorf("Name() = %q", rec.Name())
	}
	if rec.Size() != 0 {
		t.Errorf("Size() = %d, want 0", rec.Size())
	}
	data, err := rec.Data()
	if err != nil {
		t.Fatalf("Data on empty record: %v", err)
	}
	if data == nil || len(data) != 0 {
		t.Errorf("data = %#v, want empty non-nil slice", data)
	}
	if sdk.Calls("RecordData") != 0 {
		t.Error("data pointer requested for an empty record")
	}

	rec.Close()
	if sdk.LiveRecords() != 0 {
		t.Errorf("record still live")
	}
}

func TestNewAnonymousRecord(t *testing.T) {
	rt, _ := newTestRuntime(t)

	a, err := rt.NewAnonymousRecord()
	if err != nil {
		t.Fatalf("NewAnonymousRecord: %v", err)
	}
	defer a.Close()
	b, err := rt.NewAnonymousRecord()
	if err != nil {
		t.Fatalf("NewAnonymousRecord: %v", err)
	}
	defer b.Close()

	if a.Name() == "" || b.Name() == "" {
		t.Fatalf("anonymous records must be named by the SDK: %q %q", a.Name(), b.Name())
	}
	if a.Name() == b.Name() {
		t.Errorf("anonymous names collide: %q", a.Name())
	}
}

func TestNewRecord_Failure(t *testing.T) {
	rt, sdk := newTestRuntime(t)
	sdk.FailCreate = true

	_, err := rt.NewRecord("weights")
	if err == nil {
		t.Fatal("expected error")
	}
	var e *errors.Error
	if !asError(err, &e) {
		t.Fatalf("err = %T", err)
	}
	if e.Phase != errors.PhaseCreate || e.Detail != "out of memory" {
		t.Errorf("got %+v", e)
	}

	if _, err := rt.NewAnonymousRecord(); err == nil {
		t.Fatal("expected error")
	}
	if rt.Live() != 0 {
		t.Errorf("Live() = %d", rt.Live())
	}
}

func TestNewRecord_NULName(t *testing.T) {
	rt, sdk := newTestRuntime(t)

	if _, err := rt.NewRecord("a\x00b"); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Fatalf("err = %v, want invalid_input", err)
	}
	if sdk.Calls("RecordCreateName") != 0 {
		t.Error("native create called with NUL name")
	}
}

func TestRecord_DataIsCopy(t *testing.T) {
	rt, sdk := newTestRuntime(t)
	c, err := rt.OpenBuffer(nativetest.Encode(testRecords...))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	rec, err := c.Record("conv1.weight")
	if err != nil {
		t.Fatal(err)
	}
	data, err := rec.Data()
	if err != nil {
		t.Fatal(err)
	}
	want := append([]byte(nil), data...)

	// Mutating the native buffer must not reach the copy.
	sdk.SetRecordData(rec.handle, bytes.Repeat([]byte{0}, len(data)))
	rec.Close()

	if !bytes.Equal(data, want) {
		t.Errorf("data changed after native mutation: %x", data)
	}
}

func TestRecord_NullData(t *testing.T) {
	rt, sdk := newTestRuntime(t)
	c, err := rt.OpenBuffer(nativetest.Encode(testRecords...))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	sdk.NullData["conv1.bias"] = true
	rec, err := c.Record("conv1.bias")
	if err != nil {
		t.Fatal(err)
	}
	defer rec.Close()

	_, err = rec.Data()
	if !errors.IsKind(err, errors.KindNullData) {
		t.Fatalf("err = %v, want null_data", err)
	}
	if !strings.Contains(err.Error(), "conv1.bias") {
		t.Errorf("error %q does not name the record", err)
	}
}

func TestRecord_CloseOnce(t *testing.T) {
	rt, sdk := newTestRuntime(t)

	rec, err := rt.NewRecord("once")
	if err != nil {
		t.Fatal(err)
	}
	rec.Close()
	rec.Close()

	if n := sdk.Calls("RecordDelete"); n != 1 {
		t.Errorf("RecordDelete called %d times, want 1", n)
	}
	if len(sdk.DoubleFrees()) != 0 {
		t.Errorf("double frees: %v", sdk.DoubleFrees())
	}
	if rec.Size() != 0 {
		t.Errorf("Size() after Close = %d", rec.Size())
	}
	if _, err := rec.Data(); !errors.IsKind(err, errors.KindClosed) {
		t.Errorf("Data after Close: %v", err)
	}
	if rec.Name() != "once" {
		t.Errorf("Name() after Close = %q", rec.Name())
	}
}
