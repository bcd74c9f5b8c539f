package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig([]byte(`{
		"sources": [
			{"kind": "monotonic", "priority": 50},
			{"name": "mcu", "kind": "serial", "device": "/dev/ttyACM0", "frequency_hz": 1000000, "priority": 60},
			{"kind": "ds3231", "device": "/dev/i2c-1", "priority": 10}
		]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "board", cfg.Name)
	assert.Equal(t, uint64(1000), cfg.DummyRate)
	assert.False(t, cfg.EarlyPhase)
	require.Len(t, cfg.Sources, 3)

	mono := cfg.Sources[0]
	assert.Equal(t, "monotonic", mono.Name)
	assert.Equal(t, uint32(1000000000), mono.FrequencyHz)
	assert.Equal(t, uint(64), mono.Bits)
	assert.Equal(t, uint32(3600), mono.MaxSeconds)

	serial := cfg.Sources[1]
	assert.Equal(t, uint(32), serial.Bits)
	assert.Equal(t, 115200, serial.Baud)
	assert.Equal(t, 100, serial.ReadTimeoutMs)

	rtc := cfg.Sources[2]
	assert.Equal(t, uint32(1), rtc.FrequencyHz)
	assert.Equal(t, uint16(0x68), rtc.Address)
}

func TestLoadConfigValidation(t *testing.T) {
	testCases := map[string]string{
		"unknown kind":     `{"sources": [{"name": "x", "kind": "tsc"}]}`,
		"missing kind":     `{"sources": [{"name": "x"}]}`,
		"serial no device": `{"sources": [{"kind": "serial", "frequency_hz": 1000}]}`,
		"serial no freq":   `{"sources": [{"kind": "serial", "device": "/dev/ttyS0"}]}`,
		"too wide":         `{"sources": [{"kind": "monotonic", "bits": 65}]}`,
		"duplicate names":  `{"sources": [{"kind": "monotonic"}, {"kind": "monotonic"}]}`,
		"malformed json":   `{"sources": [`,
		"ds3231 no device": `{"sources": [{"kind": "ds3231"}]}`,
	}

	for name, data := range testCases {
		_, err := LoadConfig([]byte(data))
		assert.Error(t, err, name)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "rk3562", "early_phase": true, "dummy_rate": 10}`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "rk3562", cfg.Name)
	assert.True(t, cfg.EarlyPhase)
	assert.Equal(t, uint64(10), cfg.DummyRate)
	assert.Empty(t, cfg.Sources)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestDefaultHostConfig(t *testing.T) {
	cfg := DefaultHostConfig()
	require.NoError(t, Validate(cfg))
	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, KindMonotonic, cfg.Sources[0].Kind)
	assert.Equal(t, int32(100), cfg.Sources[0].Priority)
}
