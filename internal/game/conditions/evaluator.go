// Package conditions evaluates modifier trees and criteria data rows against
// a snapshot of the acting player, an optional target and the event values.
package conditions

import (
	"github.com/realmcore/achievement-server-go/internal/game/criteria"
	"github.com/realmcore/achievement-server-go/internal/game/world"
	"go.uber.org/zap"
)

// DefaultMaxDepth bounds nested modifier tree evaluation.
const DefaultMaxDepth = 32

// Context is the read-only snapshot a predicate is evaluated against.
type Context struct {
	Player world.Player
	// Target is the unit the event refers to, if any.
	Target world.Unit
	Misc1  uint64
	Misc2  uint64
}

// TargetPlayer returns the target as a player, or nil.
func (c Context) TargetPlayer() world.Player {
	if c.Target == nil || !c.Target.IsPlayer() {
		return nil
	}
	p, _ := c.Target.(world.Player)
	return p
}

// LeafFunc checks one leaf condition. It must not mutate anything and must
// return false when the data it needs is absent.
type LeafFunc func(e *Evaluator, ctx Context, m *criteria.ModifierTreeRecord) bool

// ScriptFunc is a named check referenced by script criteria data rows.
type ScriptFunc func(player world.Player, target world.Unit) bool

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithMaxDepth sets the nesting bound for modifier trees.
func WithMaxDepth(depth int) Option {
	return func(e *Evaluator) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// WithScript registers a named criteria data script.
func WithScript(name string, fn ScriptFunc) Option {
	return func(e *Evaluator) {
		e.scripts[name] = fn
	}
}

// WithServerExpansion sets the expansion the realm runs.
func WithServerExpansion(expansion uint32) Option {
	return func(e *Evaluator) {
		e.serverExpansion = expansion
	}
}

// Evaluator answers whether modifier trees and criteria data are satisfied.
// It holds no per-owner state and is safe for concurrent use once built.
type Evaluator struct {
	registry        *criteria.Registry
	globals         world.Globals
	logger          *zap.Logger
	leaves          map[criteria.ModifierType]LeafFunc
	scripts         map[string]ScriptFunc
	maxDepth        int
	serverExpansion uint32
}

// NewEvaluator creates an evaluator with the default leaf table.
func NewEvaluator(registry *criteria.Registry, globals world.Globals, logger *zap.Logger, opts ...Option) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if globals == nil {
		globals = world.NewNullGlobals(logger)
	}
	e := &Evaluator{
		registry: registry,
		globals:  globals,
		logger:   logger,
		leaves:   defaultLeaves(),
		scripts:  make(map[string]ScriptFunc),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register installs or replaces the check for a leaf kind.
func (e *Evaluator) Register(t criteria.ModifierType, fn LeafFunc) {
	if fn == nil {
		delete(e.leaves, t)
		return
	}
	e.leaves[t] = fn
}

// Globals returns the world accessor leaves consult.
func (e *Evaluator) Globals() world.Globals {
	return e.globals
}

// Satisfied reports whether the modifier tree rooted at node holds. A nil
// tree is always satisfied.
func (e *Evaluator) Satisfied(node *criteria.ModifierTreeNode, ctx Context) bool {
	if node == nil {
		return true
	}
	return e.satisfied(node, ctx, 0)
}

func (e *Evaluator) satisfied(node *criteria.ModifierTreeNode, ctx Context, depth int) bool {
	if depth >= e.maxDepth {
		e.logger.Warn("modifier tree too deep",
			zap.Uint32("modifier_tree_id", node.Entry.ID),
			zap.Int("depth", depth),
		)
		return false
	}

	switch node.Entry.Operator {
	case criteria.ModifierSingleTrue:
		return node.Entry.Type != criteria.ModifierNone && e.leaf(node.Entry, ctx, depth)
	case criteria.ModifierSingleFalse:
		return node.Entry.Type != criteria.ModifierNone && !e.leaf(node.Entry, ctx, depth)
	case criteria.ModifierAll:
		for _, child := range node.Children {
			if !e.satisfied(child, ctx, depth+1) {
				return false
			}
		}
		return true
	case criteria.ModifierSome:
		required := int(node.Entry.Amount)
		if required < 1 {
			required = 1
		}
		for _, child := range node.Children {
			if !e.satisfied(child, ctx, depth+1) {
				continue
			}
			required--
			if required == 0 {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func (e *Evaluator) leaf(m *criteria.ModifierTreeRecord, ctx Context, depth int) bool {
	if m.Type == criteria.ModifierTree {
		if e.registry == nil {
			return false
		}
		referenced := e.registry.ModifierTree(m.Asset)
		if referenced == nil {
			return false
		}
		return e.satisfied(referenced, ctx, depth+1)
	}
	if ctx.Player == nil {
		return false
	}
	fn, ok := e.leaves[m.Type]
	if !ok {
		e.logger.Debug("unhandled modifier type",
			zap.Uint32("modifier_tree_id", m.ID),
			zap.Stringer("modifier_type", m.Type),
		)
		return false
	}
	return fn(e, ctx, m)
}
