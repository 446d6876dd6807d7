package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// TxApplyInfo stores detailed transaction application info
type TxApplyInfo struct {
	File    string       `json:"file"`
	Index   int          `json:"index"`
	Hash    string       `json:"hash"`
	TxType  string       `json:"tx_type"`
	Account string       `json:"account"`
	Result  string       `json:"result"`
	Applied bool         `json:"applied"`
	Meta    *tx.Metadata `json:"meta,omitempty"`
}

// ReplayResult contains the results of the replay
type ReplayResult struct {
	Files     []string      `json:"files"`
	Applied   int           `json:"applied"`
	Failed    int           `json:"failed"`
	TxResults []TxApplyInfo `json:"transactions"`
	Duration  time.Duration `json:"duration_ns"`
}

var (
	replayOutput         string
	replaySkipSignatures bool
	replayStopOnError    bool
	replayVerbose        bool
)

// replayCmd represents the replay command
var replayCmd = &cobra.Command{
	Use:   "replay <file...>",
	Short: "Apply transactions from files in order",
	Long: `Replay applies every transaction from the given files to the local
ledger. A file holds one transaction object or an array of them.

Files are decoded concurrently; transactions are applied strictly in
argument order, then file order.

Example:
    pixpressd replay day1.json day2.json
    pixpressd replay trusted.json --skip-signatures -o results.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVarP(&replayOutput, "output", "o", "", "Output file for results (JSON)")
	replayCmd.Flags().BoolVar(&replaySkipSignatures, "skip-signatures", false, "Apply unsigned transactions (trusted input only)")
	replayCmd.Flags().BoolVar(&replayStopOnError, "stop-on-error", false, "Stop at the first transaction that is not applied")
	replayCmd.Flags().BoolVarP(&replayVerbose, "verbose", "v", false, "Print every transaction result")
}

func runReplay(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	batches, err := loadTransactionFiles(args)
	if err != nil {
		return err
	}

	n, err := openNode(cmd.Context(), nodeOptions{
		skipSignatures: replaySkipSignatures,
		withHistory:    true,
	})
	if err != nil {
		return err
	}
	defer n.Close()

	result := &ReplayResult{Files: args}
	for i, batch := range batches {
		for j, t := range batch {
			res := n.engine.Apply(t)
			info := TxApplyInfo{
				File:    args[i],
				Index:   j,
				Hash:    res.Hash,
				TxType:  t.TxType().String(),
				Account: t.GetCommon().Account.String(),
				Result:  res.Result.String(),
				Applied: res.Applied,
				Meta:    res.Metadata,
			}
			result.TxResults = append(result.TxResults, info)
			if res.Applied {
				result.Applied++
			} else {
				result.Failed++
			}
			if replayVerbose || (!res.Applied && !quiet) {
				fmt.Printf("%s[%d] %-18s %-24s %s\n", info.File, info.Index, info.TxType, info.Result, info.Hash)
			}
			if !res.Applied && replayStopOnError {
				return finishReplay(result, startTime, fmt.Errorf("%s[%d]: %s", info.File, info.Index, info.Result))
			}
		}
	}
	return finishReplay(result, startTime, nil)
}

func finishReplay(result *ReplayResult, startTime time.Time, runErr error) error {
	result.Duration = time.Since(startTime)
	if !quiet {
		fmt.Printf("Replayed %d transactions from %d files: %d applied, %d failed (%s)\n",
			result.Applied+result.Failed, len(result.Files), result.Applied, result.Failed, result.Duration)
	}
	if replayOutput != "" {
		if err := writeResultJSON(replayOutput, result); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return runErr
}

// loadTransactionFiles decodes every file concurrently. The result keeps
// the order of paths.
func loadTransactionFiles(paths []string) ([][]tx.Transaction, error) {
	batches := make([][]tx.Transaction, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			txs, err := decodeTransactions(data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			batches[i] = txs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}

// decodeTransactions parses one transaction object or an array of them.
func decodeTransactions(data []byte) ([]tx.Transaction, error) {
	data = bytes.TrimSpace(data)
	var raws []json.RawMessage
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, err
		}
	} else {
		raws = []json.RawMessage{data}
	}

	txs := make([]tx.Transaction, len(raws))
	for i, raw := range raws {
		t, err := tx.FromJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		txs[i] = t
	}
	return txs, nil
}

func writeResultJSON(path string, result *ReplayResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
