//go:build linux

package blob

import (
	"os"

	"golang.org/x/sys/unix"
)

// adviseRandom tells the kernel the file will be accessed randomly, the
// Go equivalent of the original backend's posix_fadvise(fd, 0, offset,
// POSIX_FADV_RANDOM) call made once rebuild finishes walking a stream
// sequentially.
func adviseRandom(f *os.File) {
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_RANDOM)
}

// adviseSequential mirrors the POSIX_FADV_SEQUENTIAL advice
// dnet_blob_set_data gave right after opening a stream, before rebuild
// walks it front to back.
func adviseSequential(f *os.File) {
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
}
