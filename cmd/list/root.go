// Package list implements the "list" command group: client-side operations
// against a remote shard's append-only list store (create, append, read a
// page, and retrieve the most recent items).
package list

import (
	"github.com/nilfjord/seqstore/cmd/util"
	"github.com/nilfjord/seqstore/rpc/client"
	"github.com/spf13/cobra"
)

var (
	rpcListClient client.IListClient

	// ListCommands represents the list command group
	ListCommands = &cobra.Command{
		Use:               "list",
		Short:             "Perform append-only list operations",
		PersistentPreRunE: setupListClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the list command
	util.SetupRPCClientFlags(ListCommands)

	// Set default shard ID for list operations
	ListCommands.PersistentFlags().Int("shard", 100, util.WrapString("ID of the shard to connect to"))

	// Add subcommands
	ListCommands.AddCommand(createCmd)
	ListCommands.AddCommand(appendCmd)
	ListCommands.AddCommand(currentPageCmd)
	ListCommands.AddCommand(summaryCmd)
	ListCommands.AddCommand(getPageCmd)
	ListCommands.AddCommand(retrieveLastCmd)
	ListCommands.AddCommand(retrieveNextCmd)
}

// setupListClient initializes the RPC list client
func setupListClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Get client configuration components
	config := util.GetClientConfig()
	shardId := util.GetShardID()

	// Get serializer and transport
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	t, err := util.GetTransport()
	if err != nil {
		return err
	}

	// Create the list client
	rpcListClient, err = client.NewRPCListClient(
		shardId,
		*config,
		t,
		s,
	)

	return err
}
