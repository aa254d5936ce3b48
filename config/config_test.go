package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/snpe-runtime/runtime"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		data   string
		expCfg Config
		expErr bool
	}{
		"Empty config should load defaults": {
			data:   "---\n",
			expCfg: Default(),
		},
		"Full config should load successfully": {
			data: `library: /opt/qairt/lib/libSNPE.so
log:
  level: debug
  format: json
min_sdk_version: "2.20"
devices: [cpu, htp]
`,
			expCfg: Config{
				Library:       "/opt/qairt/lib/libSNPE.so",
				Log:           Log{Level: "debug", Format: FormatJSON},
				MinSDKVersion: "2.20",
				Devices:       []string{"cpu", "htp"},
			},
		},
		"Partial log section keeps the other default": {
			data: "log:\n  level: warn\n",
			expCfg: Config{
				Log: Log{Level: "warn", Format: FormatConsole},
			},
		},
		"Unknown log level should fail": {
			data:   "log:\n  level: loud\n",
			expErr: true,
		},
		"Unknown log format should fail": {
			data:   "log:\n  format: xml\n",
			expErr: true,
		},
		"Bad min version should fail": {
			data:   "min_sdk_version: latest\n",
			expErr: true,
		},
		"Unknown device should fail": {
			data:   "devices: [tpu]\n",
			expErr: true,
		},
		"Malformed YAML should fail": {
			data:   "log: [",
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := Parse([]byte(test.data))
			if test.expErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expCfg, cfg)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snpe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, zapcore.ErrorLevel, cfg.Level())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDeviceFilter(t *testing.T) {
	cfg := Default()
	filter, err := cfg.DeviceFilter()
	require.NoError(t, err)
	assert.Nil(t, filter)

	cfg.Devices = []string{"dsp", "GPU"}
	filter, err = cfg.DeviceFilter()
	require.NoError(t, err)
	assert.Equal(t, map[runtime.DeviceKind]bool{runtime.DeviceNPU: true, runtime.DeviceGPU: true}, filter)
}
