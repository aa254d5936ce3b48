package native

import (
	"runtime"
	"unsafe"

	"github.com/wippyai/snpe-runtime/errors"
)

// Library is the SDK's function table resolved from a shared library.
// Function fields are bound by Load; a Library is immutable afterwards and
// may be shared.
type Library struct {
	path   string
	handle uintptr

	containerOpen       func(path string) uintptr
	containerOpenBuffer func(buf *byte, size uintptr) uintptr
	containerSave       func(container uintptr, path string) int32
	containerDelete     func(container uintptr) int32
	containerGetRecord  func(container uintptr, name string) uintptr
	containerSetRecord  func(container, record uintptr) int32
	containerGetCatalog func(container uintptr) uintptr

	stringListSize   func(list uintptr) uintptr
	stringListAt     func(list uintptr, index uintptr) string
	stringListDelete func(list uintptr) int32

	recordCreate     func() uintptr
	recordCreateName func(name string) uintptr
	recordName       func(record uintptr) string
	recordSize       func(record uintptr) uintptr
	recordData       func(record uintptr) unsafe.Pointer
	recordDelete     func(record uintptr) int32

	lastErrorCode   func() int32
	lastErrorString func() string

	libraryVersion func() uintptr
	versionDelete  func(version uintptr) int32
	versionMajor   func(version uintptr) int32
	versionMinor   func(version uintptr) int32
	versionTeeny   func(version uintptr) int32
	versionBuild   func(version uintptr) string

	isRuntimeAvailable func(id int32) int32
}

var _ API = (*Library)(nil)

type symbol struct {
	name string
	fn   any
}

// symbols lists every entry point Load must bind.
func (l *Library) symbols() []symbol {
	return []symbol{
		{"Snpe_DlContainer_Open", &l.containerOpen},
		{"Snpe_DlContainer_OpenBuffer", &l.containerOpenBuffer},
		{"Snpe_DlContainer_Save", &l.containerSave},
		{"Snpe_DlContainer_Delete", &l.containerDelete},
		{"Snpe_DlContainer_GetRecord", &l.containerGetRecord},
		{"Snpe_DlContainer_SetRecord", &l.containerSetRecord},
		{"Snpe_DlContainer_GetCatalog", &l.containerGetCatalog},
		{"Snpe_StringList_Size", &l.stringListSize},
		{"Snpe_StringList_At", &l.stringListAt},
		{"Snpe_StringList_Delete", &l.stringListDelete},
		{"Snpe_DlcRecord_Create", &l.recordCreate},
		{"Snpe_DlcRecord_CreateName", &l.recordCreateName},
		{"Snpe_DlcRecord_Name", &l.recordName},
		{"Snpe_DlcRecord_Size", &l.recordSize},
		{"Snpe_DlcRecord_Data", &l.recordData},
		{"Snpe_DlcRecord_Delete", &l.recordDelete},
		{"Snpe_ErrorCode_getLastErrorCode", &l.lastErrorCode},
		{"Snpe_ErrorCode_GetLastErrorString", &l.lastErrorString},
		{"Snpe_Util_GetLibraryVersion", &l.libraryVersion},
		{"Snpe_DlVersion_Delete", &l.versionDelete},
		{"Snpe_DlVersion_GetMajor", &l.versionMajor},
		{"Snpe_DlVersion_GetMinor", &l.versionMinor},
		{"Snpe_DlVersion_GetTeeny", &l.versionTeeny},
		{"Snpe_DlVersion_GetBuild", &l.versionBuild},
		{"Snpe_Util_IsRuntimeAvailable", &l.isRuntimeAvailable},
	}
}

// Path returns the file the library was loaded from.
func (l *Library) Path() string {
	return l.path
}

func (l *Library) ContainerOpen(path string) Handle {
	return Handle(l.containerOpen(path))
}

// ContainerOpenBuffer passes buf as pointer and length. buf is kept alive
// until the call returns; the SDK copies what it needs during the call.
func (l *Library) ContainerOpenBuffer(buf []byte) Handle {
	h := l.containerOpenBuffer(unsafe.SliceData(buf), uintptr(len(buf)))
	runtime.KeepAlive(buf)
	return Handle(h)
}

func (l *Library) ContainerSave(container Handle, path string) errors.Code {
	return errors.Code(l.containerSave(uintptr(container), path))
}

func (l *Library) ContainerDelete(container Handle) errors.Code {
	return errors.Code(l.containerDelete(uintptr(container)))
}

func (l *Library) ContainerGetRecord(container Handle, name string) Handle {
	return Handle(l.containerGetRecord(uintptr(container), name))
}

func (l *Library) ContainerSetRecord(container, record Handle) errors.Code {
	return errors.Code(l.containerSetRecord(uintptr(container), uintptr(record)))
}

func (l *Library) ContainerGetCatalog(container Handle) Handle {
	return Handle(l.containerGetCatalog(uintptr(container)))
}

func (l *Library) StringListSize(list Handle) int {
	return int(l.stringListSize(uintptr(list)))
}

func (l *Library) StringListAt(list Handle, index int) string {
	return l.stringListAt(uintptr(list), uintptr(index))
}

func (l *Library) StringListDelete(list Handle) errors.Code {
	return errors.Code(l.stringListDelete(uintptr(list)))
}

func (l *Library) RecordCreate() Handle {
	return Handle(l.recordCreate())
}

func (l *Library) RecordCreateName(name string) Handle {
	return Handle(l.recordCreateName(name))
}

func (l *Library) RecordName(record Handle) string {
	return l.recordName(uintptr(record))
}

func (l *Library) RecordSize(record Handle) uint64 {
	return uint64(l.recordSize(uintptr(record)))
}

func (l *Library) RecordData(record Handle) unsafe.Pointer {
	return l.recordData(uintptr(record))
}

// RecordDelete ignores the status; nothing can be done with it.
func (l *Library) RecordDelete(record Handle) {
	l.recordDelete(uintptr(record))
}

func (l *Library) LastErrorCode() errors.Code {
	return errors.Code(l.lastErrorCode())
}

func (l *Library) LastErrorString() string {
	return l.lastErrorString()
}

func (l *Library) LibraryVersion() Handle {
	return Handle(l.libraryVersion())
}

func (l *Library) VersionDelete(version Handle) errors.Code {
	return errors.Code(l.versionDelete(uintptr(version)))
}

func (l *Library) VersionMajor(version Handle) int {
	return int(l.versionMajor(uintptr(version)))
}

func (l *Library) VersionMinor(version Handle) int {
	return int(l.versionMinor(uintptr(version)))
}

func (l *Library) VersionTeeny(version Handle) int {
	return int(l.versionTeeny(uintptr(version)))
}

func (l *Library) VersionBuild(version Handle) string {
	return l.versionBuild(uintptr(version))
}

func (l *Library) IsRuntimeAvailable(id RuntimeID) bool {
	return l.isRuntimeAvailable(int32(id)) != 0
}
