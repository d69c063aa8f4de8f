package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

// VERSION has the current software version (set in the build process)
var VERSION string

var v string

func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("npos-fuzz %s\n", Version())
		},
	}
}

func Version() string {
	if len(v) > 0 {
		return v
	}

	base := VERSION
	if len(base) == 0 {
		base = "dev-snapshot"
	}

	extra := []string{}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 9 {
				extra = append(extra, s.Value[:9])
			}
		}
	}
	extra = append(extra, runtime.Version())

	v = fmt.Sprintf("%s (%s)", base, strings.Join(extra, ", "))
	return v
}
