//go:build linux && (amd64 || arm64)

package spgo

// sessionConfig matches the layout of sp_session_config on 64-bit linux,
// where libspotify has the ca_certs_filename field. Pointer fields hold
// pinned Go memory or 0.
type sessionConfig struct {
	apiVersion                   int32
	cacheLocation                uintptr // const char *
	settingsLocation             uintptr // const char *
	applicationKey               uintptr // const void *
	applicationKeySize           uintptr // size_t
	userAgent                    uintptr // const char *
	callbacks                    uintptr // const sp_session_callbacks *
	userdata                     uintptr
	compressPlaylists            bool
	dontSaveMetadataForPlaylists bool
	initiallyUnloadPlaylists     bool
	deviceID                     uintptr // const char *
	proxy                        uintptr // const char *
	proxyUsername                uintptr // const char *
	proxyPassword                uintptr // const char *
	caCertsFilename              uintptr // const char *
	tracefile                    uintptr // const char *
}

func (c *sessionConfig) setCACertsFilename(p uintptr) bool {
	c.caCertsFilename = p
	return true
}
