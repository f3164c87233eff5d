//go:build linux

package cache

import (
	"errors"

	"golang.org/x/sys/unix"
)

// exchange atomically swaps the directories src and dst using
// renameat2(RENAME_EXCHANGE), falling back to two renames on kernels or
// filesystems that do not support it.
func exchange(src, dst string) error {
	err := unix.Renameat2(unix.AT_FDCWD, src, unix.AT_FDCWD, dst, unix.RENAME_EXCHANGE)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.ENOSYS), errors.Is(err, unix.EINVAL), errors.Is(err, unix.EOPNOTSUPP):
		return exchangeAside(src, dst)
	default:
		return err
	}
}
