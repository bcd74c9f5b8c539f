//go:build linux

package i2c

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"tinygo.org/x/drivers"
)

var _ drivers.I2C = (*Bus)(nil)

func TestOpenMissingAdapter(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "i2c-9"))
	assert.Error(t, err)
}
