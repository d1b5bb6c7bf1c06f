package cmd

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the examprep version and build details",
	RunE: func(cmd *cobra.Command, args []string) error {
		short, _ := cmd.Flags().GetBool("short")
		info := currentBuild()
		if bi, ok := debug.ReadBuildInfo(); ok {
			info = info.fill(bi)
		}
		writeVersion(cmd.OutOrStdout(), info, short)
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("short", false, "Print only the version number")
}

type buildDetails struct {
	Version  string
	Revision string
	Modified bool
	Go       string
}

func currentBuild() buildDetails {
	return buildDetails{Version: version, Go: runtime.Version()}
}

// fill takes the module version and VCS stamp from the binary when no
// version was linked in.
func (b buildDetails) fill(bi *debug.BuildInfo) buildDetails {
	if b.Version == "(devel)" && bi.Main.Version != "" {
		b.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			b.Revision = s.Value
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}
	return b
}

func writeVersion(w io.Writer, b buildDetails, short bool) {
	if short {
		fmt.Fprintln(w, b.Version)
		return
	}
	fmt.Fprintf(w, "examprep %s\n", b.Version)
	if b.Revision != "" {
		rev := b.Revision
		if len(rev) > 12 {
			rev = rev[:12]
		}
		if b.Modified {
			rev += "-dirty"
		}
		fmt.Fprintf(w, "  commit %s\n", rev)
	}
	fmt.Fprintf(w, "  go     %s\n", b.Go)
}
