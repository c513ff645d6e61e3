package cmd

import (
	"fmt"
	"github.com/nilfjord/seqstore/cmd/list"
	"github.com/nilfjord/seqstore/cmd/serve"
	"github.com/nilfjord/seqstore/cmd/util"
	"github.com/spf13/cobra"
	"os"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "seqstore",
		Short: "append-only paginated sequence store",
		Long: fmt.Sprintf(`seqstore (v%s)

A horizontally scalable, append-only logical sequence store, layered on
top of a strongly-consistent key-value store and replicated with RAFT
consensus.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of seqstore",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("seqstore v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(list.ListCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer to use (json, gob, binary)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "http", util.WrapString("transport to use (http, tcp, unix)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
