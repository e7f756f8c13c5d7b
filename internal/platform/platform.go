//go:build !ios && !android && (amd64 || arm64)

// Package platform knows how shared libraries are named and where they are
// installed on each operating system spgo runs on.
package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// LibraryExtension is the file extension for shared libraries on this platform.
var LibraryExtension string

// LibraryPrefix is the prefix for shared library names on this platform.
var LibraryPrefix string

func init() {
	switch runtime.GOOS {
	case "darwin":
		LibraryExtension = ".dylib"
		LibraryPrefix = "lib"
	case "windows":
		LibraryExtension = ".dll"
		LibraryPrefix = ""
	default: // linux, freebsd, etc.
		LibraryExtension = ".so"
		LibraryPrefix = "lib"
	}
}

// FormatLibraryName returns the platform-specific library filename.
// If version is 0, returns the unversioned library name.
//
// Examples:
//   - Linux:   FormatLibraryName("spotify", 12) -> "libspotify.so.12"
//   - macOS:   FormatLibraryName("spotify", 12) -> "libspotify.12.dylib"
//   - Windows: FormatLibraryName("spotify", 12) -> "spotify-12.dll"
func FormatLibraryName(name string, version int) string {
	base := LibraryPrefix + name
	if version <= 0 {
		return base + LibraryExtension
	}
	switch runtime.GOOS {
	case "darwin":
		return fmt.Sprintf("%s.%d%s", base, version, LibraryExtension)
	case "windows":
		return fmt.Sprintf("%s-%d%s", base, version, LibraryExtension)
	default:
		return fmt.Sprintf("%s%s.%d", base, LibraryExtension, version)
	}
}

// FrameworkPath returns the path of a macOS framework binary relative to a
// frameworks directory, e.g. "libspotify.framework/libspotify". libspotify
// ships as a framework on macOS. It returns "" on other platforms.
func FrameworkPath(name string) string {
	if runtime.GOOS != "darwin" {
		return ""
	}
	return fmt.Sprintf("%s.framework/%s", name, name)
}

// LibraryNames returns the file names to try for a library in one
// directory: each version in order, then the unversioned name, then the
// macOS framework.
func LibraryNames(name string, versions []int) []string {
	names := make([]string, 0, len(versions)+2)
	for _, v := range versions {
		names = append(names, FormatLibraryName(name, v))
	}
	names = append(names, FormatLibraryName(name, 0))
	if fw := FrameworkPath(LibraryPrefix + name); fw != "" {
		names = append(names, fw)
	}
	return names
}

// SearchPaths returns the directories shared libraries are looked up in,
// starting with the loader's environment variable.
func SearchPaths() []string {
	var paths []string

	switch runtime.GOOS {
	case "linux", "freebsd":
		paths = append(paths, envPaths("LD_LIBRARY_PATH")...)
		paths = append(paths,
			"/usr/local/lib",
			"/usr/lib/x86_64-linux-gnu",
			"/usr/lib/aarch64-linux-gnu",
			"/usr/lib",
			"/lib",
		)

	case "darwin":
		paths = append(paths, envPaths("DYLD_LIBRARY_PATH")...)
		paths = append(paths,
			"/opt/homebrew/lib",
			"/usr/local/lib",
			"/Library/Frameworks",
		)
		if home, err := os.UserHomeDir(); err == nil {
			paths = append(paths, filepath.Join(home, "Library", "Frameworks"))
		}

	case "windows":
		if exe, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Dir(exe))
		}
		paths = append(paths, envPaths("PATH")...)
	}

	return paths
}

func envPaths(name string) []string {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	return filepath.SplitList(v)
}
