//go:build !linux

package reader

import "github.com/go-errors/errors"

func OpenHidraw(path string) (Device, error) {
	return nil, errors.Errorf("hidraw is only available on linux, cannot open %v", path)
}
