// Package version reports the finch build version.
package version

import "runtime/debug"

// Version is stamped at release time via -ldflags.
var Version = "unknown"

// Binaries built with `go install github.com/finchtui/finch@latest` skip the
// release ldflags, but the module version is embedded in the build info, so
// fall back to that when it carries a real version.
func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		Version = v
	}
}
