// Command servercheck probes a list of hosts for TCP reachability.
//
//	servercheck run -f servers.txt -p 443 -t 2s -o json
//	servercheck remote --api http://127.0.0.1:8080 -f servers.txt
package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "servercheck",
	Short: "Check which servers accept TCP connections",
	Long: `servercheck connects to every host in a host list on one TCP port, all at
once, and reports which hosts answered, which refused, and which timed out.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(newRunCmd(), newRemoteCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addProbeFlags registers the flags shared by run and remote. Defaults live
// in the config package; these only apply when the flag is set.
func addProbeFlags(fs *pflag.FlagSet) {
	fs.StringP("file-path", "f", "", "file with one host per line (env HOSTS_FILE)")
	fs.IntP("port", "p", 80, "TCP port to check (env PROBE_PORT)")
	fs.DurationP("timeout", "t", 2*time.Second, "timeout for each check (env PROBE_TIMEOUT)")
	fs.StringP("output", "o", "table", "output format: table, json or yaml (env OUTPUT)")
}
