package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	ledgererr "moviewrite/core/errors"
	"moviewrite/core/events"
	"moviewrite/core/genesis"
	"moviewrite/core/state"
	"moviewrite/native/articles"
	"moviewrite/native/certificate"
	"moviewrite/native/token"
	"moviewrite/observability"
	telemetry "moviewrite/observability/otel"
	"moviewrite/storage"
)

// Node owns the ledger database and applies every operation atomically: the
// engine call runs against a staged state overlay, and only when it succeeds
// are its events appended to the log and the overlay committed in one batch.
type Node struct {
	db      storage.Database
	stateMu sync.Mutex
	feed    *events.Feed
	nowFn   func() int64
	logger  *slog.Logger
	tracer  trace.Tracer
}

// engines is the set of ledger engines bound to one state overlay.
type engines struct {
	state        *state.Manager
	emitter      events.Emitter
	token        *token.Engine
	articles     *articles.Engine
	certificates *certificate.Engine
}

// NewNode constructs a node over db.
func NewNode(db storage.Database, logger *slog.Logger) (*Node, error) {
	if db == nil {
		return nil, fmt.Errorf("database must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Node{
		db:     db,
		feed:   events.NewFeed(),
		nowFn:  func() int64 { return time.Now().Unix() },
		logger: logger,
		tracer: telemetry.Tracer(),
	}, nil
}

// SetNowFunc overrides the ledger clock. Intended for tests.
func (n *Node) SetNowFunc(now func() int64) {
	if now == nil {
		return
	}
	n.stateMu.Lock()
	n.nowFn = now
	n.stateMu.Unlock()
}

// Feed exposes the live event feed.
func (n *Node) Feed() *events.Feed { return n.feed }

func (n *Node) newEngines(manager *state.Manager, emitter events.Emitter) *engines {
	tokens := token.NewEngine()
	tokens.SetState(manager)
	tokens.SetEmitter(emitter)

	certs := certificate.NewEngine()
	certs.SetState(manager)
	certs.SetEmitter(emitter)
	certs.SetNowFunc(n.nowFn)

	ledger := articles.NewEngine()
	ledger.SetState(manager)
	ledger.SetEmitter(emitter)
	ledger.SetNowFunc(n.nowFn)
	ledger.SetRewardMinter(tokens, articles.ModuleAccount())
	ledger.SetCertificateIssuer(certs)

	return &engines{state: manager, emitter: emitter, token: tokens, articles: ledger, certificates: certs}
}

// apply runs fn against a fresh state overlay and commits on success. The
// overlay and buffered events are dropped when fn or the commit fails.
func (n *Node) apply(ctx context.Context, module, operation string, fn func(*engines) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	_, span := n.tracer.Start(ctx, module+"."+operation,
		trace.WithAttributes(attribute.String("ledger.module", module)))
	defer span.End()
	start := time.Now()

	n.stateMu.Lock()
	defer n.stateMu.Unlock()

	manager := state.NewManager(n.db)
	buffer := &events.Buffer{}
	err := fn(n.newEngines(manager, buffer))
	var entries []events.Entry
	if err == nil {
		entries, err = n.commit(manager, buffer)
	}
	if err != nil {
		manager.Discard()
		buffer.Reset()
		kind := ledgererr.KindOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, kind.String())
		observability.LedgerMetrics().Observe(module, operation, kind.String(), time.Since(start))
		n.logger.Warn("ledger operation rejected",
			slog.String("module", module),
			slog.String("operation", operation),
			slog.String("kind", kind.String()),
			slog.String("error", err.Error()))
		return err
	}

	n.feed.Publish(entries)
	metrics := observability.LedgerMetrics()
	metrics.Observe(module, operation, "ok", time.Since(start))
	if len(entries) > 0 {
		metrics.SetLogHeight(entries[len(entries)-1].Seq)
	}
	if supply, err := manager.TokenSupply(); err == nil {
		metrics.SetTokenSupply(supply)
	}
	span.SetAttributes(attribute.Int("ledger.events", len(entries)))
	n.logger.Debug("ledger operation applied",
		slog.String("module", module),
		slog.String("operation", operation),
		slog.Int("events", len(entries)))
	return nil
}

func (n *Node) commit(manager *state.Manager, buffer *events.Buffer) ([]events.Entry, error) {
	entries, err := events.AppendToLog(manager, buffer.Events(), uint64(n.nowFn()))
	if err != nil {
		return nil, fmt.Errorf("append event log: %w", err)
	}
	if err := manager.Commit(); err != nil {
		return nil, err
	}
	for _, entry := range entries {
		observability.Events().RecordLogged(entry.Type)
	}
	return entries, nil
}

// view runs a read-only fn against committed state.
func (n *Node) view(fn func(*engines) error) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	manager := state.NewManager(n.db)
	defer manager.Discard()
	return fn(n.newEngines(manager, events.NoopEmitter{}))
}

// Bootstrap applies spec unless the database already carries a genesis. It
// reports whether genesis was applied by this call.
func (n *Node) Bootstrap(ctx context.Context, spec *genesis.Spec) (bool, error) {
	if spec == nil {
		return false, fmt.Errorf("genesis spec must not be nil")
	}
	var applied bool
	if err := n.view(func(eng *engines) error {
		var err error
		applied, err = eng.state.GenesisApplied()
		return err
	}); err != nil {
		return false, err
	}
	if applied {
		return false, nil
	}
	err := n.apply(ctx, "genesis", "bootstrap", func(eng *engines) error {
		return genesis.Apply(eng.state, spec, eng.emitter)
	})
	if errors.Is(err, genesis.ErrAlreadyApplied) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	n.logger.Info("genesis applied", slog.Time("genesisTime", spec.GenesisTimestamp()))
	return true, nil
}
