package engine

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/tapforge/minigame/internal/game"
)

// Engine is the single-threaded rule scheduler. One Tick call fully
// evaluates the rule set before returning; the host drives ticks and
// executes the returned commands asynchronously, never awaited.
//
// INVARIANTS:
//   - rules slice order NEVER changes after construction: stable sort by
//     (priority ascending, document order) fixes the evaluation order
//   - exactly one of Success/Failure is ever reached; terminal is absorbing
//   - identical (RNG seed, input-event sequence) against the same document
//     produces byte-identical state trajectories
type Engine struct {
	doc     *game.Document
	rules   []*game.Rule // evaluation order, fixed at construction
	state   *gameState
	objects *objectTable
	rng     Rand
	clock   *Clock

	effectCap int

	// per-tick scratch, reset at the top of every Tick
	commands       []game.Command
	droppedEffects int
	diagnostics    []Diagnostic
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithRand injects the randomness source. Defaults to a PCG stream seeded
// with zero, so an engine without options is already deterministic.
func WithRand(r Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// WithSeed is shorthand for WithRand(NewSeededRand(seed)).
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.rng = NewSeededRand(seed)
	}
}

// WithMaxConcurrentEffects overrides the per-tick host-facing command cap
// (normally taken from the document, default 8).
func WithMaxConcurrentEffects(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.effectCap = n
		}
	}
}

// New builds an engine from a document. The document is validated first;
// any load-time error refuses to start the engine: a LoadErrors list is
// returned and no partially started instance exists.
func New(doc *game.Document, opts ...Option) (*Engine, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	if errs := game.Validate(doc); errs != nil {
		return nil, errs
	}

	e := &Engine{
		doc:       doc,
		rng:       NewSeededRand(0),
		clock:     NewClock(),
		effectCap: doc.EffectCap(),
	}
	for _, opt := range opts {
		opt(e)
	}

	// Fix the evaluation order once: priority ascending, ties broken by
	// document order. SliceStable keeps equal priorities in input order,
	// but sorting on the recorded index makes the contract explicit.
	e.rules = make([]*game.Rule, 0, len(doc.Rules))
	for i := range doc.Rules {
		e.rules = append(e.rules, &doc.Rules[i])
	}
	sort.SliceStable(e.rules, func(i, j int) bool {
		if e.rules[i].Priority != e.rules[j].Priority {
			return e.rules[i].Priority < e.rules[j].Priority
		}
		return e.rules[i].Index() < e.rules[j].Index()
	})

	e.reset()
	return e, nil
}

// TickResult is everything one tick hands back to the host. Snapshots are
// deep copies: no caller can reach the engine's live state through them.
type TickResult struct {
	Tick        int64                 `json:"tick"`
	State       game.StateSnapshot    `json:"state"`
	Objects     []game.ObjectSnapshot `json:"objects"`
	Commands    []game.Command        `json:"commands"`
	Diagnostics []Diagnostic          `json:"diagnostics,omitempty"`
	Terminal    game.Terminal         `json:"terminal"`
}

// Hash returns the content-addressed hash of the tick's state and command
// stream, used by trace recording and replay verification.
func (r TickResult) Hash() (string, error) {
	return game.TickHash(r.State, r.Objects, r.Commands)
}

// Tick advances the game by delta seconds with the given host-reported
// touch events, evaluates all enabled rules in priority order, and returns
// the resulting snapshots and side-effect commands.
//
// Tick never panics: an internal invariant violation degrades to a
// diagnostic plus a still-running engine, since an aborted tick would
// strand the player mid-game.
func (e *Engine) Tick(delta float64, touches []game.TouchEvent) (result TickResult) {
	tick := e.clock.Next()
	e.commands = nil
	e.droppedEffects = 0
	e.diagnostics = nil

	defer func() {
		if r := recover(); r != nil {
			e.addDiagnostic(DiagInternal, "", "recovered mid-tick: %v", r)
			slog.Error("tick recovered from panic", "tick", tick, "panic", r)
			result = e.result(tick)
		}
	}()

	touchSet := make(map[touchKey]bool, len(touches))
	for _, t := range touches {
		touchSet[touchKey{object: t.ObjectID, typ: t.EventType()}] = true
	}

	e.advance(delta, tick)

	if e.state.Terminal != game.TerminalRunning {
		return e.result(tick)
	}

	e.evaluateRules(tick, touchSet)

	// The authored time limit is checked after rule evaluation so a rule
	// firing on the limit's own tick (a last-moment success) wins over the
	// timeout.
	if e.state.Terminal == game.TerminalRunning && e.state.TimeLimit != nil && e.state.Elapsed >= *e.state.TimeLimit {
		e.state.Terminal = game.TerminalFailure
		slog.Debug("time limit reached", "tick", tick, "elapsed", e.state.Elapsed)
	}

	return e.result(tick)
}

// advance moves time, motions, and animation clocks forward before any
// rule is evaluated, so same-tick conditions observe post-advance values.
// Pause freezes all clocks; previous-value bookkeeping still runs so
// edge-triggered conditions stay quiet rather than stale.
func (e *Engine) advance(delta float64, tick int64) {
	e.state.PrevElapsed = e.state.Elapsed
	if !e.state.Paused {
		e.state.Elapsed += delta
	}

	e.objects.each(func(o *objectState) {
		o.PrevX, o.PrevY = o.X, o.Y
		if e.state.Paused {
			o.PrevFrame = o.Frame
			o.PrevLoops = o.LoopCount
			return
		}
		advanceMotion(o, delta, e.objects, e.rng)
		if o.Visible {
			advanceAnimation(o, delta, tick)
		} else {
			o.PrevFrame = o.Frame
			o.PrevLoops = o.LoopCount
		}
	})
}

// evaluateRules runs the scheduler core: enabled rules in fixed order,
// matched rules' actions in declared order. Effects of an earlier-priority
// rule are visible to later rules evaluated in the same tick. Evaluation
// stops once a terminal state is reached.
func (e *Engine) evaluateRules(tick int64, touchSet map[touchKey]bool) {
	for _, rule := range e.rules {
		if !rule.IsEnabled() {
			continue
		}

		ctx := &evalContext{
			e:          e,
			tick:       tick,
			touches:    touchSet,
			ruleTarget: rule.TargetObjectID,
			ruleID:     rule.ID,
		}

		if !matchRule(ctx, rule) {
			continue
		}
		slog.Debug("rule matched", "tick", tick, "rule", rule.ID, "priority", rule.Priority)

		for _, act := range rule.Actions {
			e.applyAction(ctx, act)
		}

		if e.state.Terminal != game.TerminalRunning {
			slog.Debug("terminal state reached", "tick", tick, "rule", rule.ID, "terminal", e.state.Terminal)
			return
		}
	}
}

// Reset reinitializes all state from the document's initialState and
// layout. The injected RNG keeps its stream position and the tick counter
// keeps counting, so a restarted run stays one continuous trajectory.
func (e *Engine) Reset() {
	e.reset()
}

func (e *Engine) reset() {
	e.state = newGameState(e.doc)
	// Auto-started animations begin on the next observed tick.
	e.objects = newObjectTable(e.doc, e.clock.Current()+1)
}

// result snapshots the live state into a TickResult. Everything returned
// is a deep copy; the engine retains sole ownership of its live state.
func (e *Engine) result(tick int64) TickResult {
	commands := make([]game.Command, len(e.commands))
	copy(commands, e.commands)
	diags := make([]Diagnostic, len(e.diagnostics))
	copy(diags, e.diagnostics)

	return TickResult{
		Tick:        tick,
		State:       e.state.snapshot(),
		Objects:     e.objects.snapshots(),
		Commands:    commands,
		Diagnostics: diags,
		Terminal:    e.state.Terminal,
	}
}

// Document returns the immutable loaded document.
func (e *Engine) Document() *game.Document {
	return e.doc
}

// Clock returns the engine's logical tick clock.
func (e *Engine) Clock() *Clock {
	return e.clock
}

// Rules returns the rules in evaluation order. Used for tests and
// introspection.
func (e *Engine) Rules() []*game.Rule {
	return e.rules
}

// addDiagnostic records one recoverable tick-time degradation and logs it.
func (e *Engine) addDiagnostic(code DiagCode, ruleID, format string, args ...any) {
	d := Diagnostic{
		Code:    code,
		Tick:    e.clock.Current(),
		RuleID:  ruleID,
		Message: fmt.Sprintf(format, args...),
	}
	e.diagnostics = append(e.diagnostics, d)
	slog.Debug("tick diagnostic", "code", string(code), "tick", d.Tick, "rule", ruleID, "message", d.Message)
}
