// Package nativetest provides an in-memory SDK for testing code that calls
// through native.API.
//
// The fake keeps libSNPE's observable behavior where the wrappers depend on
// it: null handles and non-zero statuses on failure, a last-error slot that
// every subsequent call clears, caller-owned handles, and a data pointer that
// stays valid while the record handle lives. It also records calls, releases
// of unknown handles (double frees) and live handle counts.
package nativetest

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"unsafe"

	"github.com/wippyai/snpe-runtime/errors"
	"github.com/wippyai/snpe-runtime/native"
)

// CodeGeneric is the status used for failures outside the container codes.
const CodeGeneric errors.Code = 1

type container struct {
	records []Record
}

type record struct {
	name string
	data []byte
}

type version struct{}

// SDK is a fake native.API. The zero value is not usable; call New.
type SDK struct {
	// Library version reported by LibraryVersion.
	Major, Minor, Teeny int
	Build               string

	// Failure injection.
	FailContainerDelete  bool
	FailStringListDelete bool
	FailVersion          bool
	FailCatalog          bool
	FailCreate           bool
	NullData             map[string]bool
	FailRecord           map[string]bool // names ContainerGetRecord rejects

	// OnStringListAt runs before each StringListAt; it may panic to
	// simulate a failure during extraction.
	OnStringListAt func(list native.Handle, index int)

	mu         sync.Mutex
	next       native.Handle
	containers map[native.Handle]*container
	records    map[native.Handle]*record
	lists      map[native.Handle][]string
	versions   map[native.Handle]version
	runtimes   map[native.RuntimeID]bool
	calls      map[string]int
	freed      map[native.Handle]bool
	doubleFree []native.Handle
	anon       int
	lastCode   errors.Code
	lastMsg    string
}

var _ native.API = (*SDK)(nil)

// New returns a fake reporting version 2.26.0 with only the CPU runtime
// available.
func New() *SDK {
	return &SDK{
		Major:      2,
		Minor:      26,
		Teeny:      0,
		Build:      "2.26.0.240828",
		NullData:   make(map[string]bool),
		FailRecord: make(map[string]bool),
		next:       0x1000,
		containers: make(map[native.Handle]*container),
		records:    make(map[native.Handle]*record),
		lists:      make(map[native.Handle][]string),
		versions:   make(map[native.Handle]version),
		runtimes:   map[native.RuntimeID]bool{native.RuntimeCPU: true},
		calls:      make(map[string]int),
		freed:      make(map[native.Handle]bool),
	}
}

// SetRuntimeAvailable changes what IsRuntimeAvailable reports for id.
func (s *SDK) SetRuntimeAvailable(id native.RuntimeID, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runtimes[id] = ok
}

// Calls returns how many times the named API method was invoked.
func (s *SDK) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// Live returns the number of handles issued and not yet released.
func (s *SDK) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.containers) + len(s.records) + len(s.lists) + len(s.versions)
}

// LiveContainers returns the number of open container handles.
func (s *SDK) LiveContainers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.containers)
}

// LiveRecords returns the number of open record handles.
func (s *SDK) LiveRecords() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// DoubleFrees returns handles that were released more than once.
func (s *SDK) DoubleFrees() []native.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]native.Handle(nil), s.doubleFree...)
}

// begin counts the call and clears the last-error slot, as every SDK entry
// point does. Callers hold s.mu.
func (s *SDK) begin(method string) {
	s.calls[method]++
	s.lastCode = errors.CodeSuccess
	s.lastMsg = ""
}

func (s *SDK) fail(code errors.Code, format string, args ...any) {
	s.lastCode = code
	s.lastMsg = fmt.Sprintf(format, args...)
}

func (s *SDK) issue() native.Handle {
	s.next++
	return s.next
}

func (s *SDK) release(h native.Handle) bool {
	if s.freed[h] {
		s.doubleFree = append(s.doubleFree, h)
		return false
	}
	s.freed[h] = true
	return true
}

func (s *SDK) openRecords(records []Record) native.Handle {
	c := &container{records: records}
	h := s.issue()
	s.containers[h] = c
	return h
}

func decodeFailure(err error) errors.Code {
	switch {
	case stderrors.Is(err, errShortHeader):
		return errors.CodeReadFailure
	case stderrors.Is(err, errBadVersion):
		return errors.CodeBadDnnFormatVersion
	default:
		return errors.CodeBadContainer
	}
}

func (s *SDK) ContainerOpen(path string) native.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin("ContainerOpen")

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			s.fail(errors.CodeReadFailure, "Unable to read file %s: file does not exist", path)
		} else {
			s.fail(errors.CodeReadFailure, "Unable to read file %s: %v", path, err)
		}
		return native.Null
	}

	records, err := decode(data)
	if err != nil {
		s.fail(decodeFailure(err), "Failed to open container %s: %v", path, err)
		return native.Null
	}
	return s.openRecords(records)
}

func (s *SDK) ContainerOpenBuffer(buf []byte) native.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin("ContainerOpenBuffer")

	records, err := decode(buf)
	if err != nil {
		s.fail(decodeFailure(err), "Failed to open container from buffer: %v", err)
		return native.Null
	}
	return s.openRecords(records)
}

func (s *SDK) ContainerSave(h native.Handle, path string) errors.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin("ContainerSave")

	c, ok := s.containers[h]
	if !ok {
		s.fail(errors.CodeBadContainer, "invalid container handle")
		return errors.CodeBadContainer
	}
	if err := os.WriteFile(path, Encode(c.records...), 0o644); err != nil {
		s.fail(errors.CodeWriteFailure, "Unable to write file %s: %v", path, err)
		return errors.CodeWriteFailure
	}
	return errors.CodeSuccess
}

func (s *SDK) ContainerDelete(h native.Handle) errors.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin("ContainerDelete")

	if !s.release(h) {
		s.fail(CodeGeneric, "container handle released twice")
		return CodeGeneric
	}
	delete(s.containers, h)
	if s.FailContainerDelete {
		s.fail(CodeGeneric, "container teardown failed")
		return CodeGeneric
	}
	return errors.CodeSuccess
}

func (s *SDK) ContainerGetRecord(h native.Handle, name string) native.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin("ContainerGetRecord")

	c, ok := s.containers[h]
	if !ok {
		s.fail(errors.CodeBadContainer, "invalid container handle")
		return native.Null
	}
	if s.FailRecord[name] {
		s.fail(errors.CodeInvalidRecord, "Record %q is corrupt", name)
		return native.Null
	}
	for _, r := range c.records {
		if r.Name == name {
			rh := s.issue()
			s.records[rh] = &record{name: r.Name, data: append([]byte(nil), r.Data...)}
			return rh
		}
	}
	s.fail(errors.CodeMissingRecords, "Record %q not found in container", name)
	return native.Null
}

func (s *SDK) ContainerSetRecord(h, rh native.Handle) errors.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin("ContainerSetRecord")

	c, ok := s.containers[h]
	if !ok {
		s.fail(errors.CodeBadContainer, "invalid container handle")
		return errors.CodeBadContainer
	}
	r, ok := s.records[rh]
	if !ok {
		s.fail(errors.CodeInvalidRecord, "invalid record handle")
		return errors.CodeInvalidRecord
	}
	entry := Record{Name: r.name, Data: append([]byte(nil), r.data...)}
	for i := range c.records {
		if c.records[i].Name == r.name {
			c.records[i] = entry
			return errors.CodeSuccess
		}
	}
	c.records = append(c.records, entry)
	return errors.CodeSuccess
}

func (s *SDK) ContainerGetCatalog(h native.Handle) native.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin("ContainerGetCatalog")

	c, ok := s.containers[h]
	if !ok {
		s.fail(errors.CodeBadContainer, "invalid container handle")
		return native.Null
	}
	if s.FailCatalog {
		s.fail(errors.CodeMissingRecords, "catalog unavailable")
		return native.Null
	}
	names := make([]string, len(c.records))
	for i, r := range c.records {
		names[i] = r.Name
	}
	lh := s.issue()
	s.lists[lh] = names
	return lh
}

func (s *SDK) StringListSize(h native.Handle) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin("StringListSize")
	return len(s.lists[h])
}

func (s *SDK) StringListAt(h native.Handle, index int) string {
	s.mu.Lock()
	hook := s.OnStringListAt
	s.begin("StringListAt")
	list := s.lists[h]
	s.mu.Unlock()

	if hook != nil {
		hook(h, index)
	}
	if index < 0 || index >= len(list) {
		return ""
	}
	return list[index]
}

func (s *SDK) StringListDelete(h native.Handle) errors.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin("StringListDelete")

	if !s.release(h) {
		s.fail(CodeGeneric, "string list released twice")
		return CodeGeneric
	}
	delete(s.lists, h)
	if s.FailStringListDelete {
		s.fail(CodeGeneric, "string list teardown failed")
		return CodeGeneric
	}
	return errors.CodeSuccess
}

func (s *SDK) RecordCreate() native.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin("RecordCreate")

	if s.FailCreate {
		s.fail(CodeGeneric, "out of memory")
		return native.Null
	}
	s.anon++
	h := s.issue()
	s.records[h] = &record{name: fmt.Sprintf("record_%d", s.anon)}
	return h
}

func (s *SDK) RecordCreateName(name string) native.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin("RecordCreateName")

	if s.FailCreate {
		s.fail(CodeGeneric, "out of memory")
		return native.Null
	}
	h := s.issue()
	s.records[h] = &record{name: name}
	return h
}

func (s *SDK) RecordName(h native.Handle) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin("RecordName")

	if r, ok := s.records[h]; ok {
		return r.name
	}
	return ""
}

func (s *SDK) RecordSize(h native.Handle) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin("RecordSize")

	if r, ok := s.records[h]; ok {
		return uint64(len(r.data))
	}
	return 0
}

func (s *SDK) RecordData(h native.Handle) unsafe.Pointer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin("RecordData")

	r, ok := s.records[h]
	if !ok || len(r.data) == 0 || s.NullData[r.name] {
		return nil
	}
	return unsafe.Pointer(unsafe.SliceData(r.data))
}

func (s *SDK) RecordDelete(h native.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin("RecordDelete")

	if s.release(h) {
		delete(s.records, h)
	}
}

// SetRecordData replaces the payload of a live record handle.
func (s *SDK) SetRecordData(h native.Handle, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.records[h]; ok {
		r.data = append([]byte(nil), data...)
	}
}

func (s *SDK) LastErrorCode() errors.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["LastErrorCode"]++
	return s.lastCode
}

func (s *SDK) LastErrorString() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["LastErrorString"]++
	return s.lastMsg
}

func (s *SDK) LibraryVersion() native.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin("LibraryVersion")

	if s.FailVersion {
		s.fail(CodeGeneric, "version unavailable")
		return native.Null
	}
	h := s.issue()
	s.versions[h] = version{}
	return h
}

func (s *SDK) VersionDelete(h native.Handle) errors.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin("VersionDelete")

	if !s.release(h) {
		s.fail(CodeGeneric, "version released twice")
		return CodeGeneric
	}
	delete(s.versions, h)
	return errors.CodeSuccess
}

func (s *SDK) versionField(method string, h native.Handle, v int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin(method)
	if _, ok := s.versions[h]; !ok {
		return 0
	}
	return v
}

func (s *SDK) VersionMajor(h native.Handle) int {
	return s.versionField("VersionMajor", h, s.Major)
}

func (s *SDK) VersionMinor(h native.Handle) int {
	return s.versionField("VersionMinor", h, s.Minor)
}

func (s *SDK) VersionTeeny(h native.Handle) int {
	return s.versionField("VersionTeeny", h, s.Teeny)
}

func (s *SDK) VersionBuild(h native.Handle) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin("VersionBuild")
	if _, ok := s.versions[h]; !ok {
		return ""
	}
	return s.Build
}

func (s *SDK) IsRuntimeAvailable(id native.RuntimeID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin("IsRuntimeAvailable")
	return s.runtimes[id]
}
