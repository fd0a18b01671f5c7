package buildinfo

import (
	"runtime"
	"runtime/debug"
)

// BinaryVersion is set at build time via -ldflags. Defaults to "dev".
var BinaryVersion = "dev"

// ModuleVersion returns the module version embedded by the Go toolchain (when available).
func ModuleVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return ""
}

// Version prefers the ldflags version and falls back to the module version.
func Version() string {
	if BinaryVersion != "" && BinaryVersion != "dev" {
		return BinaryVersion
	}
	if mv := ModuleVersion(); mv != "" {
		return mv
	}
	return BinaryVersion
}

// Info is the payload printed by `brandkit version --json`.
type Info struct {
	Version   string `json:"version"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
	Arch      string `json:"arch"`
}

// Current returns build information for the running binary.
func Current() Info {
	return Info{
		Version:   Version(),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}
