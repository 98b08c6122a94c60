//go:build !windows

package core

import (
	"fmt"
	"os"
	"syscall"
)

// fileIdentity extracts the (device, inode) pair the spec's PathEntry and
// ReadList sort use for hardlink detection (§3, §4.D).
func fileIdentity(info os.FileInfo) (device, inode uint64, err error) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0, fmt.Errorf("unable to extract raw filesystem information for %q", info.Name())
	}
	return uint64(stat.Dev), uint64(stat.Ino), nil
}
