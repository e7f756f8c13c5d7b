//go:build !linux && !ios && !android && (amd64 || arm64)

package spgo

func (c *sessionConfig) caCerts() uintptr { return 0 }
