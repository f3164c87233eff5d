package cache

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// install moves the directory src to dst. If dst already exists the two are
// exchanged, leaving the previous dst at src for the caller to remove.
func install(src, dst string) error {
	if _, err := os.Lstat(dst); isNotExist(err) {
		return os.Rename(src, dst)
	}

	return exchange(src, dst)
}

// exchangeAside emulates an atomic exchange with two renames. If the second
// rename fails the first is rolled back, so dst is never left missing unless
// the rollback itself fails.
func exchangeAside(src, dst string) error {
	aside := filepath.Join(
		filepath.Dir(dst),
		tempPrefix+"old-"+strconv.FormatInt(time.Now().UnixNano(), 36), //nolint:mnd
	)

	if err := os.Rename(dst, aside); err != nil {
		return err
	}

	if err := os.Rename(src, dst); err != nil {
		if rerr := os.Rename(aside, dst); rerr != nil {
			return errors.Join(err, rerr)
		}

		return err
	}

	return os.Rename(aside, src)
}
