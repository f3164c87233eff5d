//go:build !linux

package cache

func exchange(src, dst string) error { return exchangeAside(src, dst) }
