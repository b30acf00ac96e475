package engine

import (
	"errors"
	"fmt"
)

// DiagCode categorizes tick-time diagnostics.
type DiagCode string

const (
	// DiagMalformedCondition indicates a condition payload that cannot be
	// evaluated (missing bounds, unknown comparator). The condition
	// evaluated false.
	DiagMalformedCondition DiagCode = "MALFORMED_CONDITION"

	// DiagMissingObject indicates an action or condition referencing an
	// object absent from the runtime table. The action was skipped.
	DiagMissingObject DiagCode = "MISSING_OBJECT"

	// DiagMalformedAction indicates an action payload that cannot be
	// applied. The action was skipped.
	DiagMalformedAction DiagCode = "MALFORMED_ACTION"

	// DiagRandUnavailable indicates no RNG was available for a random
	// draw. The condition evaluated false.
	DiagRandUnavailable DiagCode = "RAND_UNAVAILABLE"

	// DiagEffectsCapped indicates a host-facing command was dropped
	// because the per-tick effect cap was reached.
	DiagEffectsCapped DiagCode = "EFFECTS_CAPPED"

	// DiagInternal indicates a recovered invariant violation. The tick
	// result may be partial but the engine keeps running.
	DiagInternal DiagCode = "INTERNAL"
)

// Diagnostic records one recoverable tick-time degradation. Diagnostics
// never abort evaluation: the specific condition evaluates false or the
// specific action is skipped, and all other rules continue unaffected.
type Diagnostic struct {
	Code    DiagCode `json:"code"`
	Tick    int64    `json:"tick"`
	RuleID  string   `json:"ruleId,omitempty"`
	Message string   `json:"message"`
}

// Error implements the error interface so diagnostics can travel through
// error-typed plumbing when a caller wants them to.
func (d Diagnostic) Error() string {
	if d.RuleID != "" {
		return fmt.Sprintf("%s: %s (rule=%s, tick=%d)", d.Code, d.Message, d.RuleID, d.Tick)
	}
	return fmt.Sprintf("%s: %s (tick=%d)", d.Code, d.Message, d.Tick)
}

// IsDiagnostic reports whether err is (or wraps) a Diagnostic with the
// given code.
func IsDiagnostic(err error, code DiagCode) bool {
	var d Diagnostic
	if errors.As(err, &d) {
		return d.Code == code
	}
	return false
}
