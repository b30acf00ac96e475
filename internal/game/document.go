package game

import (
	"encoding/json"
	"fmt"
)

// DefaultMaxConcurrentEffects caps host-facing commands per tick when the
// document does not declare its own limit.
const DefaultMaxConcurrentEffects = 8

// DecodeDocument parses a JSON document and records each rule's document
// index for the priority tie-break. It performs structural decoding only;
// reference validation is a separate pass (Validate).
func DecodeDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	for i := range doc.Rules {
		doc.Rules[i].index = i
	}
	return &doc, nil
}

// EffectCap returns the per-tick host-facing command cap, applying the
// default when the document leaves it unset.
func (d *Document) EffectCap() int {
	if d.MaxConcurrentEffects > 0 {
		return d.MaxConcurrentEffects
	}
	return DefaultMaxConcurrentEffects
}

// Object returns the layout entry for id, or nil.
func (d *Document) Object(id ObjectID) *ObjectLayout {
	for i := range d.Layout {
		if d.Layout[i].ID == id {
			return &d.Layout[i]
		}
	}
	return nil
}

// ruleAlias mirrors Rule for JSON round-tripping; Actions uses the tagged
// union codec.
type ruleAlias struct {
	ID             string     `json:"id"`
	Name           string     `json:"name,omitempty"`
	Enabled        *bool      `json:"enabled,omitempty"`
	Priority       int        `json:"priority"`
	TargetObjectID ObjectID   `json:"targetObjectId,omitempty"`
	Triggers       TriggerSet `json:"triggers"`
	Actions        actionList `json:"actions"`
}

// UnmarshalJSON decodes a rule, routing the action list through the tagged
// union codec.
func (r *Rule) UnmarshalJSON(data []byte) error {
	var a ruleAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = Rule{
		ID:             a.ID,
		Name:           a.Name,
		Enabled:        a.Enabled,
		Priority:       a.Priority,
		TargetObjectID: a.TargetObjectID,
		Triggers:       a.Triggers,
		Actions:        []Action(a.Actions),
	}
	return nil
}

// MarshalJSON re-encodes a rule with action type tags, so documents
// round-trip.
func (r Rule) MarshalJSON() ([]byte, error) {
	return json.Marshal(ruleAlias{
		ID:             r.ID,
		Name:           r.Name,
		Enabled:        r.Enabled,
		Priority:       r.Priority,
		TargetObjectID: r.TargetObjectID,
		Triggers:       r.Triggers,
		Actions:        actionList(r.Actions),
	})
}
