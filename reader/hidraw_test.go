package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindHidraw(t *testing.T) {
	root := t.TempDir()

	for node, id := range map[string]string{
		"hidraw0": "HID_ID=0003:0000046D:0000C52B",
		"hidraw1": "HID_ID=0003:0000FFFF:00000035",
	} {
		dir := filepath.Join(root, node, "device")
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "uevent"), []byte("DRIVER=hid-generic\n"+id+"\nHID_NAME=reader\n"), 0644))
	}

	path, err := findHidraw(root, 0xffff, 0x0035)
	require.NoError(t, err)
	assert.Equal(t, "/dev/hidraw1", path)

	_, err = findHidraw(root, 0x1234, 0x5678)
	assert.Error(t, err)
}
