//go:build !linux && !ios && !android && (amd64 || arm64)

package spgo

// sessionConfig matches the layout of sp_session_config on 64-bit macOS
// and windows. libspotify compiles ca_certs_filename in only on linux.
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
	tracefile                    uintptr // const char *
}

func (c *sessionConfig) setCACertsFilename(uintptr) bool { return false }
