// Package core wires the voting, eligibility, tagging and category
// components into one engine exposing a typed schema per content type.
// Services talk to the schemas; nothing above this package touches the
// ledger or the propagation engine directly.
package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/concordgraph/concord/internal/core/category"
	"github.com/concordgraph/concord/internal/core/schema"
	"github.com/concordgraph/concord/internal/core/tag"
	"github.com/concordgraph/concord/internal/core/vote"
	"github.com/concordgraph/concord/internal/driver"
)

type Engine struct {
	Driver driver.GraphDriver
	Log    *zap.Logger

	words       *schema.Word
	definitions *schema.Definition
	statements  *schema.Statement
	questions   *schema.Question
	answers     *schema.Answer
	categories  *schema.Category
}

// NewEngine builds the component graph. The id generator and clock are
// injectable for deterministic tests.
func NewEngine(d driver.GraphDriver, log *zap.Logger, opts ...Option) *Engine {
	deps := schema.Deps{
		Driver:     d,
		Ledger:     vote.NewLedger(d),
		Tags:       tag.NewEngine(d, log),
		Categories: category.NewAttacher(d),
		Gate:       category.NewGate(d),
		Log:        log,
		NewID:      func() string { return uuid.New().String() },
		Now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&deps)
	}
	deps.Ledger.Now = deps.Now

	return &Engine{
		Driver:      d,
		Log:         log,
		words:       schema.NewWord(deps),
		definitions: schema.NewDefinition(deps),
		statements:  schema.NewStatement(deps),
		questions:   schema.NewQuestion(deps),
		answers:     schema.NewAnswer(deps),
		categories:  schema.NewCategory(deps),
	}
}

type Option func(*schema.Deps)

// WithIDGenerator overrides the node id source.
func WithIDGenerator(gen func() string) Option {
	return func(d *schema.Deps) { d.NewID = gen }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(d *schema.Deps) { d.Now = now }
}

func (e *Engine) BuildIndices(ctx context.Context) error {
	return e.Driver.BuildIndices(ctx)
}

func (e *Engine) Words() *schema.Word             { return e.words }
func (e *Engine) Definitions() *schema.Definition { return e.definitions }
func (e *Engine) Statements() *schema.Statement   { return e.statements }
func (e *Engine) Questions() *schema.Question     { return e.questions }
func (e *Engine) Answers() *schema.Answer         { return e.answers }
func (e *Engine) Categories() *schema.Category    { return e.categories }
