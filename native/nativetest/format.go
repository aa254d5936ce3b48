package nativetest

import (
	"bytes"
	"encoding/binary"
	stderrors "errors"
	"io"
	"os"
)

// FormatVersion is the container version the fake SDK reads and writes.
const FormatVersion = 3

var magic = [4]byte{'F', 'D', 'L', 'C'}

var (
	errShortHeader = stderrors.New("short header")
	errBadMagic    = stderrors.New("bad magic")
	errBadVersion  = stderrors.New("unsupported format version")
	errTruncated   = stderrors.New("truncated record")
)

// Record is one named entry of a fake container.
type Record struct {
	Name string
	Data []byte
}

// Encode serializes records in the fake container layout:
// magic, version byte, uvarint count, then per record a uvarint-prefixed
// name and a uvarint-prefixed payload.
func Encode(records ...Record) []byte {
	var buf bytes.Buffer
	buf.Write(magic[:])
	buf.WriteByte(FormatVersion)
	buf.Write(binary.AppendUvarint(nil, uint64(len(records))))
	for _, r := range records {
		buf.Write(binary.AppendUvarint(nil, uint64(len(r.Name))))
		buf.WriteString(r.Name)
		buf.Write(binary.AppendUvarint(nil, uint64(len(r.Data))))
		buf.Write(r.Data)
	}
	return buf.Bytes()
}

// WriteFile writes an encoded container to path.
func WriteFile(path string, records ...Record) error {
	return os.WriteFile(path, Encode(records...), 0o644)
}

func decode(data []byte) ([]Record, error) {
	if len(data) < len(magic)+1 {
		return nil, errShortHeader
	}
	if !bytes.Equal(data[:len(magic)], magic[:]) {
		return nil, errBadMagic
	}
	if data[len(magic)] != FormatVersion {
		return nil, errBadVersion
	}

	r := bytes.NewReader(data[len(magic)+1:])
	count, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, errTruncated
	}

	var records []Record
	for i := uint64(0); i < count; i++ {
		name, err := readChunk(r)
		if err != nil {
			return nil, err
		}
		payload, err := readChunk(r)
		if err != nil {
			return nil, err
		}
		records = append(records, Record{Name: string(name), Data: payload})
	}
	return records, nil
}

func readChunk(r *bytes.Reader) ([]byte, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil || n > uint64(r.Len()) {
		return nil, errTruncated
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, errTruncated
	}
	return b, nil
}
