//go:build !linux

package blob

import "os"

// adviseRandom is a no-op outside Linux; posix_fadvise has no portable
// equivalent.
func adviseRandom(f *os.File) {}

// adviseSequential is a no-op outside Linux.
func adviseSequential(f *os.File) {}
