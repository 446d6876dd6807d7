package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/LeJamon/pixpressd/internal/core/types"
	"github.com/LeJamon/pixpressd/internal/storage/relationaldb"
	"github.com/spf13/cobra"
)

var (
	historyLimit       uint32
	historyOffset      uint32
	historyAppliedOnly bool
	historyJSON        bool
)

var historyCmd = &cobra.Command{
	Use:   "history [account]",
	Short: "List recorded transactions",
	Long: `History lists transactions from the history database in apply order,
optionally only those sent by one account. History must be enabled in
the configuration.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Uint32Var(&historyLimit, "limit", relationaldb.DefaultLimit, "maximum number of transactions")
	historyCmd.Flags().Uint32Var(&historyOffset, "offset", 0, "transactions to skip")
	historyCmd.Flags().BoolVar(&historyAppliedOnly, "applied-only", false, "hide rejected transactions")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print records as JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	opts := relationaldb.AccountTxOptions{
		Limit:       historyLimit,
		Offset:      historyOffset,
		AppliedOnly: historyAppliedOnly,
	}
	if len(args) == 1 {
		account, err := types.ParseAccountID(args[0])
		if err != nil {
			return fmt.Errorf("%q: %w", args[0], err)
		}
		opts.Account = account.String()
	}

	n, err := openNode(cmd.Context(), nodeOptions{withHistory: true})
	if err != nil {
		return err
	}
	defer n.Close()
	if n.history == nil {
		return fmt.Errorf("history is not enabled in the configuration")
	}

	records, err := n.history.Transactions().GetAccountTransactions(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if historyJSON {
		return printJSON(records)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEQ\tTIME\tTYPE\tACCOUNT\tRESULT\tHASH")
	for _, rec := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			rec.Seq, rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.TxType, rec.Account, rec.Result, rec.Hash)
	}
	return w.Flush()
}
