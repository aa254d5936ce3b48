package runtime

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/wippyai/snpe-runtime/errors"
	"github.com/wippyai/snpe-runtime/native/nativetest"
)

func compressZstd(t *testing.T, data []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}

func compressLZ4(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoad_Compressed(t *testing.T) {
	raw := nativetest.Encode(testRecords...)

	tests := []struct {
		name string
		file string
		data []byte
	}{
		{"zstd", "model.dlc.zst", compressZstd(t, raw)},
		{"lz4", "model.dlc.lz4", compressLZ4(t, raw)},
		{"plain", "model.dlc", raw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, _ := newTestRuntime(t)
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, tt.data, 0o644); err != nil {
				t.Fatal(err)
			}

			c, err := rt.Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			defer c.Close()

			if c.Path() != path {
				t.Errorf("Path() = %q, want %q", c.Path(), path)
			}
			names, err := c.Names()
			if err != nil {
				t.Fatal(err)
			}
			if len(names) != len(testRecords) {
				t.Errorf("names = %v", names)
			}
		})
	}
}

func TestLoad_CorruptCompressed(t *testing.T) {
	for _, file := range []string{"model.dlc.zst", "model.dlc.lz4"} {
		t.Run(file, func(t *testing.T) {
			rt, sdk := newTestRuntime(t)
			path := filepath.Join(t.TempDir(), file)
			if err := os.WriteFile(path, []byte("definitely not compressed"), 0o644); err != nil {
				t.Fatal(err)
			}

			_, err := rt.Load(path)
			if !errors.IsKind(err, errors.KindReadFailure) {
				t.Fatalf("err = %v, want read_failure", err)
			}
			var e *errors.Error
			if !asError(err, &e) || e.Cause == nil {
				t.Errorf("decoder error not carried: %v", err)
			}
			if sdk.Calls("ContainerOpenBuffer") != 0 {
				t.Error("native open called with undecodable input")
			}
		})
	}
}

func TestLoad_DecompressedSizeLimit(t *testing.T) {
	raw := nativetest.Encode(testRecords...)

	for _, tt := range []struct {
		file string
		data []byte
	}{
		{"model.dlc.zst", compressZstd(t, raw)},
		{"model.dlc.lz4", compressLZ4(t, raw)},
	} {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, tt.data, 0o644); err != nil {
				t.Fatal(err)
			}

			sdk := nativetest.New()
			rt, err := New(WithAPI(sdk), WithMaxDecompressedSize(int64(len(raw)-1)))
			if err != nil {
				t.Fatal(err)
			}
			defer rt.Close()

			_, err = rt.Load(path)
			if !errors.IsKind(err, errors.KindReadFailure) {
				t.Fatalf("err = %v, want read_failure", err)
			}
			var e *errors.Error
			if !asError(err, &e) || !stderrors.Is(e.Cause, errTooLarge) {
				t.Errorf("cause = %v, want size limit", err)
			}
			if sdk.Calls("ContainerOpenBuffer") != 0 {
				t.Error("native open called with truncated input")
			}

			// Exactly at the limit is fine.
			exact, err := New(WithAPI(nativetest.New()), WithMaxDecompressedSize(int64(len(raw))))
			if err != nil {
				t.Fatal(err)
			}
			defer exact.Close()
			c, err := exact.Load(path)
			if err != nil {
				t.Fatalf("Load at limit: %v", err)
			}
			c.Close()
		})
	}
}

func TestLoad_MissingCompressed(t *testing.T) {
	rt, _ := newTestRuntime(t)
	_, err := rt.Load(filepath.Join(t.TempDir(), "gone.dlc.zst"))
	if !errors.IsKind(err, errors.KindReadFailure) {
		t.Fatalf("err = %v, want read_failure", err)
	}
}

func TestLoad_BadContainerInsideCompression(t *testing.T) {
	rt, _ := newTestRuntime(t)
	path := filepath.Join(t.TempDir(), "model.dlc.zst")
	if err := os.WriteFile(path, compressZstd(t, []byte("not a container")), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := rt.Load(path)
	if !errors.IsKind(err, errors.KindBadContainer) {
		t.Fatalf("err = %v, want bad_container", err)
	}
	var e *errors.Error
	if !asError(err, &e) || e.Path != path {
		t.Errorf("error not attributed to %s: %v", path, err)
	}
}

func TestOpenMapped(t *testing.T) {
	rt, _ := newTestRuntime(t)

	c, err := rt.OpenMapped(writeContainer(t, testRecords...))
	if err != nil {
		t.Fatalf("OpenMapped: %v", err)
	}
	defer c.Close()

	// The mapping is gone; the container must not depend on it.
	rec, err := c.Record("conv1.weight")
	if err != nil {
		t.Fatal(err)
	}
	defer rec.Close()
	data, err := rec.Data()
	if err != nil || !bytes.Equal(data, testRecords[1].Data) {
		t.Errorf("data = %x, %v", data, err)
	}
}

func TestOpenMapped_Errors(t *testing.T) {
	rt, _ := newTestRuntime(t)

	if _, err := rt.OpenMapped(filepath.Join(t.TempDir(), "missing.dlc")); !errors.IsKind(err, errors.KindReadFailure) {
		t.Errorf("missing file: %v", err)
	}

	empty := filepath.Join(t.TempDir(), "empty.dlc")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := rt.OpenMapped(empty); !errors.IsKind(err, errors.KindReadFailure) {
		t.Errorf("empty file: %v", err)
	}
}
