package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LeJamon/pixpressd/internal/config"
	"github.com/LeJamon/pixpressd/internal/core/ledger/genesis"
	"github.com/LeJamon/pixpressd/internal/core/ledger/keylet"
	"github.com/LeJamon/pixpressd/internal/core/ledger/view"
	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/logging"
	"github.com/LeJamon/pixpressd/internal/metrics"
	"github.com/LeJamon/pixpressd/internal/rpc"
	"github.com/LeJamon/pixpressd/internal/rpc/rpc_types"
	"github.com/LeJamon/pixpressd/internal/storage/database"
	"github.com/LeJamon/pixpressd/internal/storage/database/backend"
	"github.com/LeJamon/pixpressd/internal/storage/relationaldb"
	"github.com/LeJamon/pixpressd/internal/storage/relationaldb/sqlstore"
	"github.com/sirupsen/logrus"

	_ "github.com/LeJamon/pixpressd/internal/core/tx/all"
)

// ErrNoGenesis is returned when the state database is empty and genesis
// creation was not requested.
var ErrNoGenesis = errors.New("ledger has no genesis state; run `pixpressd genesis` first")

// nodeOptions controls what openNode wires up.
type nodeOptions struct {
	// createGenesis writes the configured genesis into an empty ledger.
	createGenesis bool
	// skipSignatures disables signature checks in the engine.
	skipSignatures bool
	// withHistory opens the history database when configured.
	withHistory bool
	// withMetrics builds the prometheus collector when enabled.
	withMetrics bool
}

// node is an opened ledger: state database, engine and the optional
// history and metrics attached to it.
type node struct {
	cfg       *config.Config
	log       *logrus.Logger
	db        database.DB
	store     *view.Store
	engine    *tx.Engine
	history   relationaldb.RepositoryManager
	collector *metrics.Collector

	// genesisCreated is true when openNode wrote the genesis state.
	genesisCreated bool
}

// loadConfig reads the configuration and builds the logger.
func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, nil, err
	}
	if debug {
		cfg.Log.Level = "debug"
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func openNode(ctx context.Context, opts nodeOptions) (*node, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := backend.Open(cfg.Database.Backend, cfg.StatePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	n := &node{cfg: cfg, log: log, db: db}

	n.store, err = view.NewStore(db, view.StoreConfig{
		CacheSize:   cfg.Database.CacheSize,
		Compression: cfg.Database.Compression,
	})
	if err != nil {
		n.Close()
		return nil, err
	}

	if err := n.ensureGenesis(ctx, opts.createGenesis); err != nil {
		n.Close()
		return nil, err
	}

	n.engine = tx.NewEngine(n.store, tx.EngineConfig{
		SkipSignatureVerification: opts.skipSignatures,
		Logger:                    log,
	})

	if opts.withHistory && cfg.History.Enabled() {
		store, err := sqlstore.New(relationaldb.NewConfig(cfg.History.Driver, cfg.History.DSN))
		if err != nil {
			n.Close()
			return nil, err
		}
		if err := store.Open(ctx); err != nil {
			n.Close()
			return nil, fmt.Errorf("failed to open history database: %w", err)
		}
		n.history = store
		n.engine.Subscribe(relationaldb.NewRecorder(store.Transactions(), log, 5*time.Second))
	}

	if opts.withMetrics && cfg.Metrics.Enabled {
		n.collector = metrics.NewCollector(cfg.Metrics.Namespace)
		n.collector.Watch(n.engine)
	}

	log.WithFields(logrus.Fields{
		"backend": cfg.Database.Backend,
		"path":    cfg.StatePath(),
		"history": n.history != nil,
	}).Debug("node opened")
	return n, nil
}

func (n *node) ensureGenesis(ctx context.Context, create bool) error {
	exists, err := n.store.Exists(keylet.Pool())
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if !create {
		return ErrNoGenesis
	}

	gcfg, err := n.cfg.GenesisConfig()
	if err != nil {
		return err
	}
	if err := genesis.Create(n.store, gcfg); err != nil {
		n.store.Discard()
		return fmt.Errorf("failed to create genesis: %w", err)
	}
	if err := n.store.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit genesis: %w", err)
	}
	n.genesisCreated = true
	n.log.WithFields(logrus.Fields{
		"owner":       gcfg.Owner,
		"collections": len(gcfg.Collections),
		"accounts":    len(gcfg.Accounts),
	}).Info("genesis ledger created")
	return nil
}

// services exposes the node to RPC handlers.
func (n *node) services() *rpc_types.ServiceContainer {
	s := &rpc_types.ServiceContainer{
		Engine:    n.engine,
		Logger:    n.log,
		Version:   Version,
		StartTime: time.Now(),
	}
	if n.history != nil {
		s.History = n.history.Transactions()
	}
	return s
}

// rpcServer builds the RPC server over the node.
func (n *node) rpcServer() *rpc.Server {
	opts := []rpc.ServerOption{rpc.WithLogger(n.log)}
	if n.collector != nil {
		opts = append(opts, rpc.WithMetrics(n.collector.Registry()))
	}
	return rpc.NewServer(n.services(), n.cfg.Server.RequestTimeout, opts...)
}

// Close releases the databases.
func (n *node) Close() error {
	var errs []error
	if n.history != nil {
		errs = append(errs, n.history.Close())
	}
	if n.db != nil {
		errs = append(errs, n.db.Close())
	}
	return errors.Join(errs...)
}
