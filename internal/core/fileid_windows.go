//go:build windows

package core

import (
	"os"
	"sync/atomic"
)

// windowsIdentitySeq hands out a distinct "inode" to every file observed on
// Windows, since there is no portable (device, inode) equivalent without a
// BY_HANDLE_FILE_INFORMATION query, which the core does not perform for
// every stat'd entry. Giving every file a distinct identity disables
// hardlink collapsing on this platform (no two distinct files ever compare
// equal) without falsely collapsing unrelated files.
var windowsIdentitySeq atomic.Uint64

// fileIdentity see windowsIdentitySeq.
func fileIdentity(info os.FileInfo) (device, inode uint64, err error) {
	return 0, windowsIdentitySeq.Add(1), nil
}
