//go:build !ios && !android && !windows && (amd64 || arm64)

// Package platform describes how the C library is named on the supported
// operating systems.
package platform

import (
	"fmt"
	"runtime"
	"unsafe"
)

// Is64Bit indicates whether the platform is 64-bit.
// Only 64-bit platforms are supported by purego.
const Is64Bit = unsafe.Sizeof(uintptr(0)) == 8

// LibraryExtension is the file extension for shared libraries on this platform.
var LibraryExtension string

// LibraryPrefix is the prefix for shared library names on this platform.
var LibraryPrefix string

func init() {
	switch runtime.GOOS {
	case "darwin":
		LibraryExtension = ".dylib"
	default: // linux, freebsd, etc.
		LibraryExtension = ".so"
	}
	LibraryPrefix = "lib"
}

// FormatLibraryName returns the platform-specific library filename.
// If version is 0, returns the unversioned library name.
//
// Examples:
//   - Linux:   FormatLibraryName("c", 6)       -> "libc.so.6"
//   - macOS:   FormatLibraryName("System", 0)  -> "libSystem.dylib"
func FormatLibraryName(name string, version int) string {
	switch runtime.GOOS {
	case "darwin":
		if version > 0 {
			return fmt.Sprintf("%s%s.%d%s", LibraryPrefix, name, version, LibraryExtension)
		}
		return fmt.Sprintf("%s%s%s", LibraryPrefix, name, LibraryExtension)
	default: // linux, freebsd
		if version > 0 {
			return fmt.Sprintf("%s%s%s.%d", LibraryPrefix, name, LibraryExtension, version)
		}
		return fmt.Sprintf("%s%s%s", LibraryPrefix, name, LibraryExtension)
	}
}

// LibcNames returns the file names under which the C library is looked up,
// most specific first.
func LibcNames() []string {
	switch runtime.GOOS {
	case "darwin":
		// libc lives inside libSystem and is served from the dyld shared cache.
		return []string{"/usr/lib/libSystem.B.dylib", FormatLibraryName("System", 0)}
	case "freebsd":
		return []string{FormatLibraryName("c", 7), FormatLibraryName("c", 0)}
	default:
		return []string{FormatLibraryName("c", 6), FormatLibraryName("c", 0)}
	}
}
