package game

import (
	"fmt"
	"strings"
)

// Validation error codes (E100-E199). Load-time validation is strict and
// collect-all: every problem in the document is reported, and the engine
// refuses to start on any of them. This is deliberately harsher than the
// tick-time tolerance for malformed conditions.
const (
	ErrSchema           = "E100" // document violates the schema
	ErrUnknownFlag      = "E101" // flagId not declared
	ErrUnknownCounter   = "E102" // counterId not declared
	ErrUnknownObject    = "E103" // object id not placed in layout
	ErrUnknownSound     = "E104" // soundId not declared
	ErrNoActions        = "E105" // rule with zero actions
	ErrOutOfRange       = "E106" // numeric field out of range
	ErrDuplicateID      = "E107" // duplicate declaration id
	ErrUnknownAnimation = "E108" // animation index out of range
)

// LoadError is one load-time validation failure. Load-time errors are fatal
// to loading, never to a running instance.
type LoadError struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e LoadError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// LoadErrors aggregates every failure found in one document.
type LoadErrors []LoadError

// Error joins all failures, one per line.
func (e LoadErrors) Error() string {
	msgs := make([]string, len(e))
	for i, le := range e {
		msgs[i] = le.Error()
	}
	return strings.Join(msgs, "\n")
}

// Validate checks every cross-reference and numeric range in the document.
// It returns all errors found (never fail-fast) and nil when the document
// is sound.
func Validate(doc *Document) LoadErrors {
	var errs LoadErrors
	add := func(code, field, format string, args ...any) {
		errs = append(errs, LoadError{Code: code, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	flags := make(map[FlagID]bool, len(doc.Flags))
	for i, f := range doc.Flags {
		if flags[f.ID] {
			add(ErrDuplicateID, fmt.Sprintf("flags[%d]", i), "duplicate flag id %q", f.ID)
		}
		flags[f.ID] = true
	}
	counters := make(map[CounterID]bool, len(doc.Counters))
	for i, c := range doc.Counters {
		if counters[c.ID] {
			add(ErrDuplicateID, fmt.Sprintf("counters[%d]", i), "duplicate counter id %q", c.ID)
		}
		counters[c.ID] = true
	}
	sounds := make(map[SoundID]bool, len(doc.Sounds))
	for i, s := range doc.Sounds {
		if sounds[s.ID] {
			add(ErrDuplicateID, fmt.Sprintf("sounds[%d]", i), "duplicate sound id %q", s.ID)
		}
		sounds[s.ID] = true
	}
	objects := make(map[ObjectID]*ObjectLayout, len(doc.Layout))
	for i := range doc.Layout {
		o := &doc.Layout[i]
		field := fmt.Sprintf("layout[%d]", i)
		if _, dup := objects[o.ID]; dup {
			add(ErrDuplicateID, field, "duplicate object id %q", o.ID)
		}
		objects[o.ID] = o
		if o.ID == SelfTarget {
			add(ErrDuplicateID, field, "%q is a reserved object id", SelfTarget)
		}
		if o.Width < 0 || o.Height < 0 {
			add(ErrOutOfRange, field, "width and height must be non-negative")
		}
		if o.Opacity != nil && (*o.Opacity < 0 || *o.Opacity > 1) {
			add(ErrOutOfRange, field+".opacity", "opacity %v outside [0,1]", *o.Opacity)
		}
		for j, a := range o.Animations {
			af := fmt.Sprintf("%s.animations[%d]", field, j)
			if a.FrameCount < 1 {
				add(ErrOutOfRange, af, "frameCount must be at least 1")
			}
			if a.FPS <= 0 {
				add(ErrOutOfRange, af, "fps must be positive")
			}
		}
		if len(o.Animations) > 0 && (o.InitialAnimation < 0 || o.InitialAnimation >= len(o.Animations)) {
			add(ErrUnknownAnimation, field+".initialAnimation", "animation index %d out of range", o.InitialAnimation)
		}
	}

	if doc.InitialState.TimeLimit != nil && *doc.InitialState.TimeLimit <= 0 {
		add(ErrOutOfRange, "initialState.timeLimit", "time limit must be positive")
	}
	if doc.MaxConcurrentEffects < 0 {
		add(ErrOutOfRange, "maxConcurrentEffects", "must be non-negative")
	}

	refs := refChecker{flags: flags, counters: counters, sounds: sounds, objects: objects, add: add}
	for i := range doc.Rules {
		refs.rule(&doc.Rules[i], fmt.Sprintf("rules[%d]", i))
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// refChecker walks rules checking declaration references and numeric
// ranges.
type refChecker struct {
	flags    map[FlagID]bool
	counters map[CounterID]bool
	sounds   map[SoundID]bool
	objects  map[ObjectID]*ObjectLayout
	add      func(code, field, format string, args ...any)
}

func (rc refChecker) object(id ObjectID, ruleTarget ObjectID, field string) {
	if id == "" || id == SelfTarget {
		id = ruleTarget
	}
	if id == "" {
		rc.add(ErrUnknownObject, field, "self reference on a rule with no target object")
		return
	}
	if _, ok := rc.objects[id]; !ok {
		rc.add(ErrUnknownObject, field, "object %q not in layout", id)
	}
}

func (rc refChecker) rule(r *Rule, field string) {
	if r.TargetObjectID != "" {
		if _, ok := rc.objects[r.TargetObjectID]; !ok {
			rc.add(ErrUnknownObject, field+".targetObjectId", "object %q not in layout", r.TargetObjectID)
		}
	}
	if len(r.Actions) == 0 {
		rc.add(ErrNoActions, field+".actions", "rule %q has no actions", r.ID)
	}
	for i, c := range r.Triggers.Conditions {
		rc.condition(c, r.TargetObjectID, fmt.Sprintf("%s.triggers.conditions[%d]", field, i))
	}
	for i, a := range r.Actions {
		rc.action(a, r.TargetObjectID, fmt.Sprintf("%s.actions[%d]", field, i))
	}
}

func (rc refChecker) condition(c Condition, ruleTarget ObjectID, field string) {
	switch cond := c.(type) {
	case TouchCondition:
		rc.object(cond.Target, ruleTarget, field+".target")
	case TimeCondition:
		if cond.Range != nil && cond.Range.Min > cond.Range.Max {
			rc.add(ErrOutOfRange, field+".range", "min %v greater than max %v", cond.Range.Min, cond.Range.Max)
		}
	case PositionCondition:
		rc.object(cond.Target, ruleTarget, field+".target")
	case CollisionCondition:
		rc.object(cond.Target, ruleTarget, field+".target")
		rc.object(cond.OtherTarget, ruleTarget, field+".otherTarget")
	case AnimationCondition:
		rc.object(cond.Target, ruleTarget, field+".target")
		rc.animation(cond, ruleTarget, field)
	case FlagCondition:
		if !rc.flags[cond.FlagID] {
			rc.add(ErrUnknownFlag, field+".flagId", "flag %q not declared", cond.FlagID)
		}
	case CounterCondition:
		if !rc.counters[cond.CounterID] {
			rc.add(ErrUnknownCounter, field+".counterId", "counter %q not declared", cond.CounterID)
		}
	case RandomCondition:
		if cond.Probability < 0 || cond.Probability > 1 {
			rc.add(ErrOutOfRange, field+".probability", "probability %v outside [0,1]", cond.Probability)
		}
	}
}

func (rc refChecker) animation(cond AnimationCondition, ruleTarget ObjectID, field string) {
	target := cond.Target
	if target == "" || target == SelfTarget {
		target = ruleTarget
	}
	obj := rc.objects[target]
	if cond.FrameRange != nil && cond.FrameRange.Lo > cond.FrameRange.Hi {
		rc.add(ErrOutOfRange, field+".frameRange", "lo %d greater than hi %d", cond.FrameRange.Lo, cond.FrameRange.Hi)
	}
	if cond.AnimationIndex != nil && obj != nil {
		if *cond.AnimationIndex < 0 || *cond.AnimationIndex >= len(obj.Animations) {
			rc.add(ErrUnknownAnimation, field+".animationIndex", "animation index %d out of range for %q", *cond.AnimationIndex, target)
		}
	}
}

func (rc refChecker) action(a Action, ruleTarget ObjectID, field string) {
	switch act := a.(type) {
	case SuccessAction:
		// no references
	case PlaySoundAction:
		if !rc.sounds[act.SoundID] {
			rc.add(ErrUnknownSound, field+".soundId", "sound %q not declared", act.SoundID)
		}
		if act.Volume != nil && (*act.Volume < 0 || *act.Volume > 1) {
			rc.add(ErrOutOfRange, field+".volume", "volume %v outside [0,1]", *act.Volume)
		}
	case PlayBGMAction:
		if !rc.sounds[act.SoundID] {
			rc.add(ErrUnknownSound, field+".soundId", "sound %q not declared", act.SoundID)
		}
	case MoveAction:
		rc.object(act.Target, ruleTarget, field+".target")
		if act.Speed < 0 {
			rc.add(ErrOutOfRange, field+".speed", "speed must be non-negative")
		}
		if act.Duration != nil && *act.Duration < 0 {
			rc.add(ErrOutOfRange, field+".duration", "duration must be non-negative")
		}
		if act.Pattern == MoveApproach && act.Follow != "" {
			rc.object(act.Follow, ruleTarget, field+".follow")
		}
	case ShowAction:
		rc.object(act.TargetID, ruleTarget, field+".targetId")
	case HideAction:
		rc.object(act.TargetID, ruleTarget, field+".targetId")
	case SwitchAnimationAction:
		target := act.TargetID
		if target == "" || target == SelfTarget {
			target = ruleTarget
		}
		rc.object(act.TargetID, ruleTarget, field+".targetId")
		if obj := rc.objects[target]; obj != nil {
			if act.AnimationIndex < 0 || act.AnimationIndex >= len(obj.Animations) {
				rc.add(ErrUnknownAnimation, field+".animationIndex", "animation index %d out of range for %q", act.AnimationIndex, target)
			}
		}
		if act.Speed != nil && *act.Speed <= 0 {
			rc.add(ErrOutOfRange, field+".speed", "speed must be positive")
		}
	case EffectAction:
		rc.object(act.TargetID, ruleTarget, field+".targetId")
		if act.Duration < 0 {
			rc.add(ErrOutOfRange, field+".duration", "duration must be non-negative")
		}
	case SetFlagAction:
		if !rc.flags[act.FlagID] {
			rc.add(ErrUnknownFlag, field+".flagId", "flag %q not declared", act.FlagID)
		}
	case ToggleFlagAction:
		if !rc.flags[act.FlagID] {
			rc.add(ErrUnknownFlag, field+".flagId", "flag %q not declared", act.FlagID)
		}
	case CounterOpAction:
		if !rc.counters[act.CounterID] {
			rc.add(ErrUnknownCounter, field+".counterId", "counter %q not declared", act.CounterID)
		}
	}
}
