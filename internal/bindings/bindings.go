//go:build !ios && !android && !windows && (amd64 || arm64)

// Package bindings loads the C library and registers its allocator functions
// using purego.
package bindings

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/pkg/errors"

	"github.com/obinnaokechukwu/sptr/internal/platform"
)

// EnvLibcPath overrides the C library location.
const EnvLibcPath = "SPTR_LIBC_PATH"

// ErrNotLoaded is returned when allocator functions are used before Load.
var ErrNotLoaded = errors.New("sptr: C library not loaded; call cmem.Init() first")

// ErrLibraryNotFound is returned when the C library cannot be found.
var ErrLibraryNotFound = errors.New("sptr: C library not found")

var (
	libc     uintptr
	libcPath string

	loaded   atomic.Bool
	loadOnce sync.Once
	loadErr  error
)

// Allocator bindings
var (
	cMalloc func(size uintptr) unsafe.Pointer
	cCalloc func(n, size uintptr) unsafe.Pointer
	cFree   func(p unsafe.Pointer)
)

// IsLoaded returns true if the C library has been successfully loaded.
func IsLoaded() bool {
	return loaded.Load()
}

// Load loads the C library and registers the allocator bindings.
// It is safe to call multiple times; subsequent calls return the first result.
func Load() error {
	loadOnce.Do(func() {
		loadErr = doLoad()
		if loadErr == nil {
			loaded.Store(true)
		}
	})
	return loadErr
}

func doLoad() error {
	lib, path, err := openLibc()
	if err != nil {
		return errors.Wrap(err, "loading C library")
	}
	libc, libcPath = lib, path

	purego.RegisterLibFunc(&cMalloc, libc, "malloc")
	purego.RegisterLibFunc(&cCalloc, libc, "calloc")
	purego.RegisterLibFunc(&cFree, libc, "free")
	return nil
}

func openLibc() (uintptr, string, error) {
	if p := os.Getenv(EnvLibcPath); p != "" {
		lib, err := tryOpen(p)
		if err != nil {
			return 0, "", errors.Wrapf(err, "%s=%s", EnvLibcPath, p)
		}
		return lib, p, nil
	}

	path, err := FindLibrary(platform.LibcNames())
	if err == nil {
		if lib, err := tryOpen(path); err == nil {
			return lib, path, nil
		}
	}

	// Let the dynamic loader resolve bare names (and the dyld shared cache).
	for _, name := range platform.LibcNames() {
		if lib, err := tryOpen(name); err == nil {
			return lib, name, nil
		}
	}
	return 0, "", errors.Wrapf(ErrLibraryNotFound, "tried %v", platform.LibcNames())
}

// tryOpen opens a library with RTLD_NOW | RTLD_GLOBAL.
func tryOpen(path string) (uintptr, error) {
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, err
	}
	return lib, nil
}

// FindLibrary returns the full path of the first of names found in the
// library search paths. Absolute names are checked as given.
func FindLibrary(names []string) (string, error) {
	for _, name := range names {
		if filepath.IsAbs(name) {
			if _, err := os.Stat(name); err == nil {
				return name, nil
			}
			continue
		}
		for _, dir := range LibrarySearchPaths() {
			full := filepath.Join(dir, name)
			if _, err := os.Stat(full); err == nil {
				return full, nil
			}
		}
	}
	return "", errors.Wrapf(ErrLibraryNotFound, "%v", names)
}

// LibrarySearchPaths returns platform-specific library search paths.
func LibrarySearchPaths() []string {
	var paths []string

	switch runtime.GOOS {
	case "darwin":
		if dyldPath := os.Getenv("DYLD_LIBRARY_PATH"); dyldPath != "" {
			paths = append(paths, filepath.SplitList(dyldPath)...)
		}
		paths = append(paths, "/usr/lib")

	case "freebsd":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths, "/lib", "/usr/lib")

	default:
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/lib/x86_64-linux-gnu",
			"/lib/aarch64-linux-gnu",
			"/usr/lib/x86_64-linux-gnu",
			"/usr/lib/aarch64-linux-gnu",
			"/lib64",
			"/usr/lib64",
			"/lib",
			"/usr/lib",
		)
	}

	return paths
}

// LibcPath returns the path the C library was loaded from, or "" before Load.
func LibcPath() string {
	if !loaded.Load() {
		return ""
	}
	return libcPath
}

// Malloc allocates size bytes of uninitialized C memory.
// It returns ErrNotLoaded before Load, and a nil pointer if malloc failed.
func Malloc(size uintptr) (unsafe.Pointer, error) {
	if !loaded.Load() {
		return nil, ErrNotLoaded
	}
	return cMalloc(size), nil
}

// Calloc allocates zeroed C memory for n elements of size bytes.
// It returns ErrNotLoaded before Load, and a nil pointer if calloc failed.
func Calloc(n, size uintptr) (unsafe.Pointer, error) {
	if !loaded.Load() {
		return nil, ErrNotLoaded
	}
	return cCalloc(n, size), nil
}

// Free releases memory returned by Malloc or Calloc. Free(nil) is a no-op.
func Free(p unsafe.Pointer) {
	if p == nil || !loaded.Load() {
		return
	}
	cFree(p)
}
