package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var genesisCmd = &cobra.Command{
	Use:   "genesis",
	Short: "Create the genesis ledger from configuration",
	Long: `Genesis writes the configured owner, reward token, collections,
fee settings and funded accounts into an empty state database, then
prints the pool. An existing ledger is left untouched.`,
	Args: cobra.NoArgs,
	RunE: runGenesis,
}

func init() {
	rootCmd.AddCommand(genesisCmd)
}

func runGenesis(cmd *cobra.Command, args []string) error {
	n, err := openNode(cmd.Context(), nodeOptions{createGenesis: true})
	if err != nil {
		return err
	}
	defer n.Close()

	if !quiet {
		if n.genesisCreated {
			fmt.Printf("Genesis ledger created at %s\n", n.cfg.StatePath())
		} else {
			fmt.Printf("Ledger at %s already has a genesis state\n", n.cfg.StatePath())
		}
	}

	result, err := executeMethod(cmd.Context(), n.rpcServer(), "pool_info", nil)
	if err != nil {
		return err
	}
	return printJSON(result)
}
