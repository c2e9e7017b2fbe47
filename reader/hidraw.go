package reader

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-errors/errors"
)

const sysHidraw = "/sys/class/hidraw"

// FindHidraw looks up the /dev/hidrawN node of the USB device with the given
// vendor and product id.
func FindHidraw(vid, pid uint16) (string, error) {
	return findHidraw(sysHidraw, vid, pid)
}

func findHidraw(root string, vid, pid uint16) (string, error) {
	nodes, err := os.ReadDir(root)
	if err != nil {
		return "", errors.Errorf("could not list %v: %v", root, err)
	}

	// uevent reports HID_ID=<bus>:<vendor>:<product>, each zero padded to 8 digits
	want := fmt.Sprintf(":%08X:%08X", vid, pid)

	for _, node := range nodes {
		f, err := os.Open(filepath.Join(root, node.Name(), "device", "uevent"))
		if err != nil {
			continue
		}

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, "HID_ID=") && strings.HasSuffix(strings.ToUpper(line), want) {
				_ = f.Close()
				return filepath.Join("/dev", node.Name()), nil
			}
		}

		_ = f.Close()
	}

	return "", errors.Errorf("no hidraw device with id %04x:%04x", vid, pid)
}
