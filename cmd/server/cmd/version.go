package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is overridden at link time with
// -ldflags "-X github.com/nfrund/authform/cmd/server/cmd.version=1.2.3".
var version = "dev"

// buildVersion prefers the linked version, then the module version the
// binary was built from, then the VCS revision.
func buildVersion() string {
	if version != "dev" {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return version + "+" + s.Value[:7]
		}
	}
	return version
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the authform build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "authform %s (%s)\n", buildVersion(), goVersion())
	},
}

func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown go"
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
