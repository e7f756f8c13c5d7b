//go:build linux && (amd64 || arm64)

package spgo

func (c *sessionConfig) caCerts() uintptr { return c.caCertsFilename }
