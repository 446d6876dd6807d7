package rpc

import (
	"bytes"
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/assets"
	"github.com/LeJamon/pixpressd/internal/core/types"
	"github.com/LeJamon/pixpressd/internal/metrics"
	"github.com/LeJamon/pixpressd/internal/rpc/rpc_types"
	"github.com/LeJamon/pixpressd/internal/storage/relationaldb"
	"github.com/LeJamon/pixpressd/internal/storage/relationaldb/sqlstore"
	jtx "github.com/LeJamon/pixpressd/internal/testing"
	pooltest "github.com/LeJamon/pixpressd/internal/testing/pool"
	staketest "github.com/LeJamon/pixpressd/internal/testing/stake"
	swaptest "github.com/LeJamon/pixpressd/internal/testing/swap"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcFixture struct {
	env      *jtx.TestEnv
	services *rpc_types.ServiceContainer
	server   *Server
	http     *httptest.Server
}

func newRPCFixture(t *testing.T, opts ...ServerOption) *rpcFixture {
	t.Helper()
	env := jtx.NewTestEnv(t)
	services := &rpc_types.ServiceContainer{
		Engine:    env.Engine(),
		Version:   "test",
		StartTime: time.Now(),
	}
	server := NewServer(services, 5*time.Second, opts...)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return &rpcFixture{env: env, services: services, server: server, http: ts}
}

// call posts method with params and returns the decoded result object.
func (f *rpcFixture) call(t *testing.T, method string, params interface{}) map[string]interface{} {
	t.Helper()
	req := map[string]interface{}{"method": method}
	if params != nil {
		req["params"] = []interface{}{params}
	}
	body, err := json.Marshal(req)
	require.NoError(t, err)

	resp, err := http.Post(f.http.URL, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	var out struct {
		Result map[string]interface{} `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Result
}

func requireSuccess(t *testing.T, result map[string]interface{}) {
	t.Helper()
	require.Equal(t, "success", result["status"], "error: %v %v", result["error"], result["error_message"])
}

func requireError(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	require.Equal(t, "error", result["status"])
	require.Equal(t, code, result["error"], "message: %v", result["error_message"])
}

func seedHex(name string) string {
	seed := sha512.Sum512([]byte(name))
	return hex.EncodeToString(seed[:32])
}

func TestMethodsRegistered(t *testing.T) {
	f := newRPCFixture(t)
	assert.Equal(t, []string{
		"account_info", "account_tx", "active_orders", "fee_quote", "match_order",
		"pool_info", "propose_order", "server_info", "staked_order", "submit", "tx",
	}, f.server.Methods())
}

func TestServerInfo(t *testing.T) {
	f := newRPCFixture(t)

	result := f.call(t, "server_info", nil)
	requireSuccess(t, result)
	info := result["info"].(map[string]interface{})
	assert.Equal(t, "test", info["build_version"])
	assert.Equal(t, "standalone", info["server_state"])
	assert.Equal(t, false, info["history"])
	assert.Contains(t, info["transaction_types"], "ProposeSwap")

	// GET without a command defaults to server_info.
	resp, err := http.Get(f.http.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"server_state":"standalone"`)
}

func TestRequestErrors(t *testing.T) {
	f := newRPCFixture(t)

	t.Run("UnknownMethod", func(t *testing.T) {
		result := f.call(t, "ledger_accept", map[string]interface{}{"x": 1})
		requireError(t, result, "unknownCmd")
		request := result["request"].(map[string]interface{})
		assert.Equal(t, "ledger_accept", request["command"])
		assert.Equal(t, float64(1), request["x"])
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		resp, err := http.Post(f.http.URL, "application/json", strings.NewReader("{"))
		require.NoError(t, err)
		defer resp.Body.Close()
		var out struct {
			Result map[string]interface{} `json:"result"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		requireError(t, out.Result, "jsonInvalid")
	})

	t.Run("MissingMethod", func(t *testing.T) {
		resp, err := http.Post(f.http.URL, "application/json", strings.NewReader(`{"params":[{}]}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		var out struct {
			Result map[string]interface{} `json:"result"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		requireError(t, out.Result, "missingCommand")
	})

	t.Run("MethodNotAllowed", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodDelete, f.http.URL, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestSubmit_Signed(t *testing.T) {
	f := newRPCFixture(t)
	alice, bob := jtx.NewAccount("alice"), jtx.NewAccount("bob")
	f.env.Fund(alice, bob)

	payment := assets.NewPayment(alice.ID, bob.ID, 700)
	payment.GetCommon().Sequence = f.env.Seq(alice)
	require.NoError(t, tx.Sign(payment, alice.Key))

	result := f.call(t, "submit", map[string]interface{}{"tx_json": payment})
	requireSuccess(t, result)
	assert.Equal(t, "tesSUCCESS", result["engine_result"])
	assert.Equal(t, true, result["applied"])
	assert.Len(t, result["hash"], 64)
	assert.NotNil(t, result["meta"])

	jtx.RequireBalance(t, f.env, alice, jtx.DefaultFunding-700)
	jtx.RequireBalance(t, f.env, bob, jtx.DefaultFunding+700)
}

func TestSubmit_Unsigned(t *testing.T) {
	f := newRPCFixture(t)
	alice, bob := jtx.NewAccount("alice"), jtx.NewAccount("bob")
	f.env.Fund(alice, bob)

	payment := assets.NewPayment(alice.ID, bob.ID, 700)
	payment.GetCommon().Sequence = f.env.Seq(alice)

	result := f.call(t, "submit", map[string]interface{}{"tx_json": payment})
	requireSuccess(t, result)
	assert.Equal(t, "temBAD_SIGNATURE", result["engine_result"])
	assert.Equal(t, false, result["applied"])
	jtx.RequireBalance(t, f.env, alice, jtx.DefaultFunding)
}

func TestSubmit_SeedHex(t *testing.T) {
	f := newRPCFixture(t)
	alice, bob := jtx.NewAccount("alice"), jtx.NewAccount("bob")
	f.env.Fund(alice, bob)

	// Sequence is left at zero and filled by the server.
	payment := assets.NewPayment(alice.ID, bob.ID, 50)
	result := f.call(t, "submit", map[string]interface{}{
		"tx_json":  payment,
		"seed_hex": seedHex("alice"),
	})
	requireSuccess(t, result)
	assert.Equal(t, "tesSUCCESS", result["engine_result"])
	assert.Equal(t, uint32(2), f.env.Seq(alice))

	t.Run("WrongSeed", func(t *testing.T) {
		result := f.call(t, "submit", map[string]interface{}{
			"tx_json":  assets.NewPayment(alice.ID, bob.ID, 50),
			"seed_hex": seedHex("bob"),
		})
		requireError(t, result, "badSeed")
	})

	t.Run("BadHex", func(t *testing.T) {
		result := f.call(t, "submit", map[string]interface{}{
			"tx_json":  assets.NewPayment(alice.ID, bob.ID, 50),
			"seed_hex": "zz",
		})
		requireError(t, result, "badSeed")
	})
}

func TestSubmit_Invalid(t *testing.T) {
	f := newRPCFixture(t)

	requireError(t, f.call(t, "submit", map[string]interface{}{}), "invalidParams")
	requireError(t, f.call(t, "submit", map[string]interface{}{
		"tx_json": map[string]interface{}{"TransactionType": "TrustSet"},
	}), "invalidTransaction")
}

func TestAccountInfo(t *testing.T) {
	f := newRPCFixture(t)
	alice := jtx.NewAccount("alice")
	f.env.Fund(alice)
	f.env.GiveTokens(alice, 42)

	result := f.call(t, "account_info", map[string]interface{}{"account": alice.ID.String()})
	requireSuccess(t, result)
	data := result["account_data"].(map[string]interface{})
	assert.Equal(t, alice.ID.String(), data["Account"])
	assert.Equal(t, float64(jtx.DefaultFunding), data["Balance"])
	assert.Equal(t, float64(1), data["Sequence"])
	assert.Equal(t, float64(42), result["token_balance"])

	requireError(t, f.call(t, "account_info", map[string]interface{}{
		"account": jtx.NewAccount("nobody").ID.String(),
	}), "actNotFound")
	requireError(t, f.call(t, "account_info", map[string]interface{}{"account": "0x12"}), "actMalformed")
	requireError(t, f.call(t, "account_info", map[string]interface{}{}), "invalidParams")
}

func TestPoolInfo(t *testing.T) {
	f := newRPCFixture(t)
	pooltest.Fill(t, f.env, 1000)

	result := f.call(t, "pool_info", nil)
	requireSuccess(t, result)
	p := result["pool"].(map[string]interface{})
	assert.Equal(t, float64(1000), p["reserve"])
	assert.Equal(t, float64(10), p["window_ratio"])
	assert.Equal(t, float64(10000), p["upper_boundary"])
	assert.Equal(t, float64(100), p["lower_boundary"])
	assert.Equal(t, float64(10), p["deposit_unit"])
	assert.Equal(t, float64(10), p["withdraw_unit"])
}

func TestPoolInfo_EmptyReserveOmitsDerived(t *testing.T) {
	f := newRPCFixture(t)

	result := f.call(t, "pool_info", nil)
	requireSuccess(t, result)
	p := result["pool"].(map[string]interface{})
	assert.Equal(t, float64(0), p["reserve"])
	assert.NotContains(t, p, "lower_boundary")
	assert.NotContains(t, p, "deposit_unit")
}

func TestSwapReads(t *testing.T) {
	f := newRPCFixture(t)
	alice, bob := jtx.NewAccount("alice"), jtx.NewAccount("bob")
	f.env.Fund(alice, bob)
	offer := jtx.StandardItem(1, 2)
	f.env.GiveItem(alice, offer)
	f.env.GiveItem(bob, jtx.StandardItem(9, 1))

	swaptest.AllowEscrow(t, f.env, alice, offer)
	jtx.RequireTxSuccess(t, f.env.Submit(swaptest.Propose(alice).
		Offer(offer).
		Want(jtx.StandardItem(9, 1)).
		Note("hello").
		Build(f.env)))
	pid := swaptest.LastProposeID(f.env)

	swaptest.AllowEscrow(t, f.env, bob, jtx.StandardItem(9, 1))
	jtx.RequireTxSuccess(t, f.env.Submit(swaptest.Match(bob, pid).Offer(jtx.StandardItem(9, 1)).Build(f.env)))
	mid := swaptest.LastMatchID(f.env)

	result := f.call(t, "propose_order", map[string]interface{}{"id": pid})
	requireSuccess(t, result)
	order := result["propose_order"].(map[string]interface{})
	assert.Equal(t, "hello", order["note"])
	assert.Equal(t, float64(2000), order["fee"])
	assert.Equal(t, false, result["accepted"])
	matches := result["matches"].([]interface{})
	require.Len(t, matches, 1)
	assert.Equal(t, float64(mid), matches[0].(map[string]interface{})["id"])

	result = f.call(t, "match_order", map[string]interface{}{"id": mid})
	requireSuccess(t, result)
	match := result["match_order"].(map[string]interface{})
	assert.Equal(t, float64(pid), match["propose_id"])
	assert.Equal(t, "open", match["status"])

	requireError(t, f.call(t, "propose_order", map[string]interface{}{"id": 99}), "entryNotFound")
	requireError(t, f.call(t, "match_order", map[string]interface{}{"id": 99}), "entryNotFound")
	requireError(t, f.call(t, "match_order", map[string]interface{}{}), "invalidParams")
}

func TestFeeQuote(t *testing.T) {
	f := newRPCFixture(t)
	items := []types.Item{jtx.StandardItem(1, 2), jtx.LegacyItem(5), jtx.Wanted(jtx.StandardItem(9, 1))}

	params := map[string]interface{}{
		"Collections": []string{jtx.StandardCollection.String(), jtx.LegacyCollection.String(), jtx.StandardCollection.String()},
		"ItemIDs":     []uint64{1, 5, 9},
		"Amounts":     []uint64{2, 1, 1},
		"Protocols":   []string{"standard", "legacy", "standard"},
		"Wanted":      []bool{false, false, true},
	}
	result := f.call(t, "fee_quote", params)
	requireSuccess(t, result)
	assert.Equal(t, float64(4500), result["fee"])
	assert.Equal(t, float64(swaptest.Quote(f.env, items).Fee), result["fee"])
	assert.Equal(t, float64(2000), result["designated"])

	// Quotes are pure reads.
	again := f.call(t, "fee_quote", params)
	assert.Equal(t, result["fee"], again["fee"])

	params["Amounts"] = []uint64{2, 1}
	requireError(t, f.call(t, "fee_quote", params), "invalidParams")
}

func TestStakeReads(t *testing.T) {
	f := newRPCFixture(t)
	alice := jtx.NewAccount("alice")
	f.env.Fund(alice)
	staketest.Stake(t, f.env, alice, 7, 10_000)
	staketest.Stake(t, f.env, alice, 8, 20_000)

	result := f.call(t, "staked_order", map[string]interface{}{"item_id": 7})
	requireSuccess(t, result)
	order := result["staked_order"].(map[string]interface{})
	assert.Equal(t, alice.ID.String(), order["seller"])
	assert.Equal(t, float64(10_000), order["price"])

	result = f.call(t, "active_orders", nil)
	requireSuccess(t, result)
	assert.Equal(t, float64(2), result["count"])
	assert.Equal(t, false, result["paused"])
	assert.Len(t, result["orders"], 2)

	result = f.call(t, "active_orders", map[string]interface{}{"limit": 1, "offset": 1})
	requireSuccess(t, result)
	orders := result["orders"].([]interface{})
	require.Len(t, orders, 1)
	assert.Equal(t, float64(8), orders[0].(map[string]interface{})["item_id"])

	requireError(t, f.call(t, "staked_order", map[string]interface{}{"item_id": 99}), "entryNotFound")
	requireError(t, f.call(t, "staked_order", map[string]interface{}{}), "invalidParams")
}

func TestMetricsEndpoint(t *testing.T) {
	collector := metrics.NewCollector("pixpressd")
	f := newRPCFixture(t, WithMetrics(collector.Registry()))
	collector.Watch(f.env.Engine())

	alice, bob := jtx.NewAccount("alice"), jtx.NewAccount("bob")
	f.env.Fund(alice, bob)
	jtx.RequireTxSuccess(t, f.env.Submit(assets.NewPayment(alice.ID, bob.ID, 1)))

	resp, err := http.Get(f.http.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `pixpressd_engine_transactions_total{result="tesSUCCESS",tx_type="Payment"}`)
	assert.Contains(t, string(body), "pixpressd_pool_reserve 0")
}

func TestHistoryMethods(t *testing.T) {
	f := newRPCFixture(t)
	alice, bob := jtx.NewAccount("alice"), jtx.NewAccount("bob")
	f.env.Fund(alice, bob)

	requireError(t, f.call(t, "account_tx", map[string]interface{}{"account": alice.ID.String()}), "notEnabled")
	requireError(t, f.call(t, "tx", map[string]interface{}{"transaction": "AB"}), "notEnabled")

	store, err := sqlstore.New(relationaldb.NewConfig(relationaldb.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "history.db")))
	require.NoError(t, err)
	require.NoError(t, store.Open(context.Background()))
	t.Cleanup(func() { store.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)
	f.services.History = store.Transactions()
	f.env.Engine().Subscribe(relationaldb.NewRecorder(store.Transactions(), log, time.Second))

	res := f.env.Submit(assets.NewPayment(alice.ID, bob.ID, 5))
	jtx.RequireTxSuccess(t, res)

	result := f.call(t, "account_tx", map[string]interface{}{"account": alice.ID.String()})
	requireSuccess(t, result)
	txs := result["transactions"].([]interface{})
	require.Len(t, txs, 1)
	first := txs[0].(map[string]interface{})
	assert.Equal(t, "Payment", first["tx_type"])
	assert.Equal(t, "tesSUCCESS", first["engine_result"])
	hash := first["hash"].(string)

	result = f.call(t, "tx", map[string]interface{}{"transaction": strings.ToLower(hash)})
	requireSuccess(t, result)
	assert.Equal(t, hash, result["hash"])

	requireError(t, f.call(t, "tx", map[string]interface{}{"transaction": strings.Repeat("0", 64)}), "txnNotFound")

	info := f.call(t, "server_info", nil)["info"].(map[string]interface{})
	assert.Equal(t, true, info["history"])
	assert.Equal(t, float64(1), info["history_transactions"])
}
