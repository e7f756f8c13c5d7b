//go:build !ios && !android && (amd64 || arm64)

// Package bindings handles loading the libspotify shared library and
// resolving its entry points into a Symbols table using purego.
package bindings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/ebitengine/purego"
	"go.uber.org/multierr"

	"github.com/obinnaokechukwu/spgo/internal/platform"
)

// ErrNotLoaded is returned when libspotify functions are used before Open.
var ErrNotLoaded = errors.New("spgo: libspotify not loaded")

// ErrLibraryNotFound is returned when libspotify cannot be found.
var ErrLibraryNotFound = errors.New("spgo: libspotify library not found")

// ErrMissingSymbol is returned by Bind for required symbols the library lacks.
var ErrMissingSymbol = errors.New("spgo: missing libspotify symbol")

// libspotify's ABI has been stable since API version 12.
var libraryVersions = []int{12}

const libraryName = "spotify"

// Open loads libspotify. If path is non-empty only that file is tried;
// otherwise the platform search paths are walked, then the system loader is
// asked by bare name.
func Open(path string) (uintptr, error) {
	if path != "" {
		lib, err := tryOpen(path)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrLibraryNotFound, path, err)
		}
		return lib, nil
	}
	for _, candidate := range candidates() {
		if lib, err := tryOpen(candidate); err == nil {
			return lib, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrLibraryNotFound, platform.FormatLibraryName(libraryName, 0))
}

// Close unloads a library opened with Open.
func Close(lib uintptr) error {
	if lib == 0 {
		return nil
	}
	return purego.Dlclose(lib)
}

// candidates lists file names to try, most specific first. Bare names are
// left to the system loader.
func candidates() []string {
	var names []string
	for _, dir := range LibrarySearchPaths() {
		for _, name := range platform.LibraryNames(libraryName, libraryVersions) {
			names = append(names, filepath.Join(dir, name))
		}
	}
	for _, ver := range libraryVersions {
		names = append(names, platform.FormatLibraryName(libraryName, ver))
	}
	return append(names, platform.FormatLibraryName(libraryName, 0))
}

// tryOpen attempts to open a library with RTLD_NOW | RTLD_GLOBAL.
func tryOpen(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

// FindLibrary searches the platform paths for libspotify and returns the
// first existing file. Useful for diagnostics.
func FindLibrary() (string, error) {
	for _, candidate := range candidates() {
		if !filepath.IsAbs(candidate) {
			continue
		}
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrLibraryNotFound, platform.FormatLibraryName(libraryName, 0))
}

// LibrarySearchPaths returns the directories searched for libspotify.
func LibrarySearchPaths() []string {
	return platform.SearchPaths()
}

// Symbol describes one tagged field of a symbol table.
type Symbol struct {
	Field    string
	Name     string
	Optional bool
}

// TableSymbols lists the tagged func fields of table, which must be a
// pointer to a struct.
func TableSymbols(table any) ([]Symbol, error) {
	v := reflect.ValueOf(table)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("spgo: symbol table must be a pointer to struct, got %T", table)
	}
	t := v.Elem().Type()

	var syms []Symbol
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, ok := f.Tag.Lookup("sym")
		if !ok || f.Type.Kind() != reflect.Func {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		syms = append(syms, Symbol{Field: f.Name, Name: name, Optional: opts == "optional"})
	}
	return syms, nil
}

// Bind resolves every tagged func field of table against lib. Missing
// optional symbols leave their field nil; missing required symbols are
// collected into the returned error.
func Bind(lib uintptr, table any) error {
	if lib == 0 {
		return ErrNotLoaded
	}
	syms, err := TableSymbols(table)
	if err != nil {
		return err
	}
	v := reflect.ValueOf(table).Elem()

	var errs error
	for _, s := range syms {
		addr, err := purego.Dlsym(lib, s.Name)
		if err != nil || addr == 0 {
			if !s.Optional {
				errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrMissingSymbol, s.Name))
			}
			continue
		}
		purego.RegisterFunc(v.FieldByName(s.Field).Addr().Interface(), addr)
	}
	return errs
}
