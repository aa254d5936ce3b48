package native

import (
	"unsafe"

	"github.com/wippyai/snpe-runtime/errors"
)

// Handle is an opaque token issued by the SDK. Only the SDK can interpret it.
type Handle uintptr

// Null is the handle the SDK returns on failure.
const Null Handle = 0

// RuntimeID is a Snpe_Runtime_t value.
type RuntimeID int32

const (
	RuntimeCPU RuntimeID = 0 // SNPE_RUNTIME_CPU_FLOAT32
	RuntimeGPU RuntimeID = 1 // SNPE_RUNTIME_GPU_FLOAT32_16_HYBRID
	RuntimeDSP RuntimeID = 2 // SNPE_RUNTIME_DSP_FIXED8_TF
	RuntimeAIP RuntimeID = 5 // SNPE_RUNTIME_AIP_FIXED8_TF
)

// API is the table of SDK entry points the wrappers call through.
//
// Implementations never retain Go memory passed to them beyond the call.
// Strings returned are Go copies; the pointer from RecordData stays owned
// by the SDK and is valid only while the record handle is alive.
type API interface {
	ContainerOpen(path string) Handle
	ContainerOpenBuffer(buf []byte) Handle
	ContainerSave(container Handle, path string) errors.Code
	ContainerDelete(container Handle) errors.Code
	ContainerGetRecord(container Handle, name string) Handle
	ContainerSetRecord(container, record Handle) errors.Code
	ContainerGetCatalog(container Handle) Handle

	StringListSize(list Handle) int
	StringListAt(list Handle, index int) string
	StringListDelete(list Handle) errors.Code

	RecordCreate() Handle
	RecordCreateName(name string) Handle
	RecordName(record Handle) string
	RecordSize(record Handle) uint64
	RecordData(record Handle) unsafe.Pointer
	RecordDelete(record Handle)

	LastErrorCode() errors.Code
	LastErrorString() string

	LibraryVersion() Handle
	VersionDelete(version Handle) errors.Code
	VersionMajor(version Handle) int
	VersionMinor(version Handle) int
	VersionTeeny(version Handle) int
	VersionBuild(version Handle) string

	IsRuntimeAvailable(id RuntimeID) bool
}
