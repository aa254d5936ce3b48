package runtime

import (
	"strings"

	"github.com/wippyai/snpe-runtime/errors"
	"github.com/wippyai/snpe-runtime/native"
)

// DeviceKind is a class of compute unit the SDK can run on.
type DeviceKind uint8

const (
	DeviceCPU DeviceKind = iota
	DeviceGPU
	DeviceNPU
	DeviceAIP
)

func (k DeviceKind) String() string {
	switch k {
	case DeviceCPU:
		return "cpu"
	case DeviceGPU:
		return "gpu"
	case DeviceNPU:
		return "npu"
	case DeviceAIP:
		return "aip"
	default:
		return "unknown"
	}
}

// Device pairs a device kind with the SDK runtime that drives it.
type Device struct {
	Kind      DeviceKind
	RuntimeID native.RuntimeID
	Name      string
}

func (d Device) String() string {
	return d.Name
}

// Devices lists every device the SDK knows, in the order AvailableDevices checks them.
var Devices = []Device{
	{Kind: DeviceCPU, RuntimeID: native.RuntimeCPU, Name: "cpu"},
	{Kind: DeviceGPU, RuntimeID: native.RuntimeGPU, Name: "gpu"},
	{Kind: DeviceNPU, RuntimeID: native.RuntimeDSP, Name: "npu"},
	{Kind: DeviceAIP, RuntimeID: native.RuntimeAIP, Name: "aip"},
}

var deviceAliases = map[string]DeviceKind{
	"cpu": DeviceCPU,
	"gpu": DeviceGPU,
	"npu": DeviceNPU,
	"dsp": DeviceNPU,
	"htp": DeviceNPU,
	"aip": DeviceAIP,
}

// ParseDevice resolves a device name, case-insensitively. "dsp" and "htp"
// are accepted for the NPU.
func ParseDevice(name string) (Device, error) {
	kind, ok := deviceAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Device{}, errors.New(errors.PhaseDevice, errors.KindInvalidInput).
			Path(name).
			Detail("unknown device, want one of cpu, gpu, npu, aip").
			Build()
	}
	return Devices[kind], nil
}

// IsAvailable asks the SDK whether d can run on this machine.
// The answer is not cached.
func (r *Runtime) IsAvailable(d Device) bool {
	defer r.pin()()
	return r.api.IsRuntimeAvailable(d.RuntimeID)
}

// AvailableDevices returns the available devices in Devices order.
func (r *Runtime) AvailableDevices() []Device {
	var out []Device
	for _, d := range Devices {
		if r.IsAvailable(d) {
			out = append(out, d)
		}
	}
	return out
}
