package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/fatih/color"
)

// Version information for the grindscan CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.3.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
	labelColor        = color.New(color.Faint)
)

// Colored renders Version with each numeric part in its own color.
// A version that is not major.minor.patch is returned as is.
func Colored() string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version
	}
	out := versionMajorColor.Sprint(parts[0]) + "." + versionMinorColor.Sprint(parts[1]) + "." + versionPatchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Info returns the multi-line build description printed by `grindscan version`.
func Info() string {
	var b strings.Builder
	fmt.Fprintf(&b, "grindscan %s\n", Colored())
	if GitCommit != "" {
		fmt.Fprintf(&b, "%s %s\n", labelColor.Sprint("commit:"), GitCommit)
	}
	if GitMessage != "" {
		fmt.Fprintf(&b, "%s %s\n", labelColor.Sprint("message:"), GitMessage)
	}
	if BuildDate != "" {
		fmt.Fprintf(&b, "%s %s\n", labelColor.Sprint("built:"), BuildDate)
	}
	fmt.Fprintf(&b, "%s %s %s/%s\n", labelColor.Sprint("go:"), runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return b.String()
}
