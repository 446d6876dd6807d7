package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/LeJamon/pixpressd/internal/rpc"
	"github.com/LeJamon/pixpressd/internal/rpc/rpc_types"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// queryTarget maps a query name to the RPC method serving it and the
// name of its id parameter, if any.
type queryTarget struct {
	method  string
	idParam string
	isAddr  bool
}

var queryTargets = map[string]queryTarget{
	"pool":    {method: "pool_info"},
	"server":  {method: "server_info"},
	"orders":  {method: "active_orders"},
	"propose": {method: "propose_order", idParam: "id"},
	"match":   {method: "match_order", idParam: "id"},
	"order":   {method: "staked_order", idParam: "item_id"},
	"account": {method: "account_info", idParam: "account", isAddr: true},
}

var queryCmd = &cobra.Command{
	Use:   "query <what> [id...]",
	Short: "Read ledger state",
	Long: `Query runs the RPC read methods directly against the local ledger.

Targets:
  pool               pool reserve, window ratio and derived units
  server             server information
  orders             every active staked order
  propose <id...>    proposals and their matches
  match <id...>      match orders
  order <item...>    staked orders by item id
  account <addr...>  account balance and sequence

Several ids are looked up concurrently and printed in argument order.`,
	Args:      cobra.MinimumNArgs(1),
	ValidArgs: queryTargetNames(),
	RunE:      runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func queryTargetNames() []string {
	names := make([]string, 0, len(queryTargets))
	for name := range queryTargets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func runQuery(cmd *cobra.Command, args []string) error {
	target, ok := queryTargets[args[0]]
	if !ok {
		return fmt.Errorf("unknown query target %q (want one of %s)", args[0], strings.Join(queryTargetNames(), ", "))
	}
	ids := args[1:]
	if target.idParam == "" && len(ids) > 0 {
		return fmt.Errorf("query %s takes no id", args[0])
	}
	if target.idParam != "" && len(ids) == 0 {
		return fmt.Errorf("query %s needs at least one id", args[0])
	}

	n, err := openNode(cmd.Context(), nodeOptions{withHistory: true})
	if err != nil {
		return err
	}
	defer n.Close()
	server := n.rpcServer()

	if len(ids) == 0 {
		result, err := executeMethod(cmd.Context(), server, target.method, nil)
		if err != nil {
			return err
		}
		return printJSON(result)
	}

	params := make([]map[string]interface{}, len(ids))
	for i, id := range ids {
		if target.isAddr {
			params[i] = map[string]interface{}{target.idParam: id}
			continue
		}
		num, err := strconv.ParseUint(id, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", id, err)
		}
		params[i] = map[string]interface{}{target.idParam: num}
	}

	results := make([]interface{}, len(ids))
	g, gCtx := errgroup.WithContext(cmd.Context())
	for i := range ids {
		g.Go(func() error {
			result, err := executeMethod(gCtx, server, target.method, params[i])
			if err != nil {
				return fmt.Errorf("%s %s: %w", args[0], ids[i], err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if len(results) == 1 {
		return printJSON(results[0])
	}
	return printJSON(results)
}

// executeMethod calls an RPC method handler directly
func executeMethod(ctx context.Context, server *rpc.Server, method string, params interface{}) (interface{}, error) {
	rpcCtx := &rpc_types.RpcContext{
		Context:   ctx,
		ClientIP:  "127.0.0.1", // Local CLI
		RequestID: "cli",
	}

	var paramBytes json.RawMessage
	if params != nil {
		bytes, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal parameters: %w", err)
		}
		paramBytes = bytes
	}

	result, rpcErr := server.Execute(rpcCtx, method, paramBytes)
	if rpcErr != nil {
		return nil, fmt.Errorf("%s (%s)", rpcErr.Message, rpcErr.ErrorString)
	}
	return result, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
