package graph

import (
	"context"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// CypherResult is the minimal result surface the store consumes.
type CypherResult interface {
	Next(ctx context.Context) bool
	Record() *neo4j.Record
	Err() error
}

// CypherRunner executes one parameterized statement.
type CypherRunner interface {
	Run(ctx context.Context, cypher string, params map[string]any) (CypherResult, error)
}

// CypherSession is a scoped unit of work against the store.
type CypherSession interface {
	CypherRunner
	ExecuteWrite(ctx context.Context, work func(tx CypherRunner) (any, error)) (any, error)
	Close(ctx context.Context) error
}

// SessionOpener opens sessions. Production code wraps the Neo4j driver;
// tests inject fakes.
type SessionOpener interface {
	OpenSession(ctx context.Context) CypherSession
}

// GraphStore owns all statement execution against the case graph. No other
// component opens sessions directly.
type GraphStore struct {
	opener SessionOpener
	logger *slog.Logger
}

// New creates a GraphStore on top of a Neo4j driver. The driver is created
// once at process start and closed once at shutdown by the caller.
func New(driver neo4j.DriverWithContext, logger *slog.Logger) *GraphStore {
	return NewWithOpener(driverOpener{driver: driver}, logger)
}

// NewWithOpener creates a GraphStore with a custom session opener.
func NewWithOpener(opener SessionOpener, logger *slog.Logger) *GraphStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &GraphStore{opener: opener, logger: logger}
}

// run executes one parameterized statement in its own session and collects
// all records. The session is released on every exit path; errors come back
// classified. Statement text is always a fixed template, never assembled
// from caller-provided values.
func (g *GraphStore) run(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	result, err := sess.Run(ctx, cypher, params)
	if err != nil {
		return nil, classify(err)
	}
	var records []*neo4j.Record
	for result.Next(ctx) {
		records = append(records, result.Record())
	}
	if err := result.Err(); err != nil {
		return nil, classify(err)
	}
	return records, nil
}

// write executes one mutating statement inside a managed write transaction,
// so the driver can retry it on transient cluster errors. Schema commands
// stay on run; Neo4j requires them in their own auto-commit transaction.
func (g *GraphStore) write(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	out, err := sess.ExecuteWrite(ctx, func(tx CypherRunner) (any, error) {
		result, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		var records []*neo4j.Record
		for result.Next(ctx) {
			records = append(records, result.Record())
		}
		if err := result.Err(); err != nil {
			return nil, err
		}
		return records, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	records, _ := out.([]*neo4j.Record)
	return records, nil
}

// --- Driver adapters ---

type driverOpener struct {
	driver neo4j.DriverWithContext
}

func (o driverOpener) OpenSession(ctx context.Context) CypherSession {
	return sessionAdapter{sess: o.driver.NewSession(ctx, neo4j.SessionConfig{})}
}

type sessionAdapter struct {
	sess neo4j.SessionWithContext
}

func (a sessionAdapter) Run(ctx context.Context, cypher string, params map[string]any) (CypherResult, error) {
	return a.sess.Run(ctx, cypher, params)
}

func (a sessionAdapter) ExecuteWrite(ctx context.Context, work func(tx CypherRunner) (any, error)) (any, error) {
	return a.sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return work(txRunner{tx: tx})
	})
}

func (a sessionAdapter) Close(ctx context.Context) error {
	return a.sess.Close(ctx)
}

type txRunner struct {
	tx neo4j.ManagedTransaction
}

func (r txRunner) Run(ctx context.Context, cypher string, params map[string]any) (CypherResult, error) {
	return r.tx.Run(ctx, cypher, params)
}
