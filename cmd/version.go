package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/carnetlify/carnetlify/internal/catalog"
)

// Set with -ldflags "-X github.com/carnetlify/carnetlify/cmd.version=..." in
// release builds.
var (
	version = "(devel)"
	commit  = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the client version and the catalog it ships with",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), versionString())
	},
}

// versionString falls back to the module build info for `go install` builds,
// which carry no ldflags.
func versionString() string {
	v, rev := version, commit
	if info, ok := debug.ReadBuildInfo(); ok {
		if v == "(devel)" && info.Main.Version != "" {
			v = info.Main.Version
		}
		if rev == "" {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" && len(s.Value) >= 7 {
					rev = s.Value[:7]
				}
			}
		}
	}
	out := "carnetlify " + v
	if rev != "" {
		out += " (" + rev + ")"
	}
	return fmt.Sprintf("%s %s/%s catalog v%d", out, runtime.GOOS, runtime.GOARCH, catalog.Default().Version())
}
