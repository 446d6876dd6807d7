package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var submitSeedHex string

var submitCmd = &cobra.Command{
	Use:   "submit <file>",
	Short: "Apply one transaction from a JSON file",
	Long: `Submit reads a transaction in JSON form and applies it to the local
ledger through the same path as the submit RPC method.

With --seed-hex the transaction is signed locally, and a zero Sequence
is filled from the account.

Example:
    pixpressd submit propose.json --seed-hex 8f3c...`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().StringVar(&submitSeedHex, "seed-hex", "", "hex seed to sign the transaction with")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	if !json.Valid(data) {
		return fmt.Errorf("%s: not valid JSON", args[0])
	}

	n, err := openNode(cmd.Context(), nodeOptions{withHistory: true})
	if err != nil {
		return err
	}
	defer n.Close()

	params := map[string]interface{}{"tx_json": json.RawMessage(data)}
	if submitSeedHex != "" {
		params["seed_hex"] = submitSeedHex
	}
	result, err := executeMethod(cmd.Context(), n.rpcServer(), "submit", params)
	if err != nil {
		return err
	}
	if err := printJSON(result); err != nil {
		return err
	}

	if res, ok := result.(map[string]interface{}); ok && res["applied"] != true {
		return fmt.Errorf("transaction not applied: %v", res["engine_result"])
	}
	return nil
}
