// SPDX-License-Identifier: MIT
//
// File: record.go
// Role: Record wire form, Decode/Record conversion and YAML/JSON batch parsing.

package policy

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Record is the wire/display form of a policy action, as emitted by the
// policy interpreter. Value is a pointer so an explicit 0 stays distinct
// from an absent value.
type Record struct {
	Type        Kind     `json:"type" yaml:"type"`
	TargetID    string   `json:"target_id,omitempty" yaml:"target_id,omitempty"`
	TargetTag   string   `json:"target_tag,omitempty" yaml:"target_tag,omitempty"`
	Value       *float64 `json:"value,omitempty" yaml:"value,omitempty"`
	Description string   `json:"description" yaml:"description"`
}

// Float returns a pointer to v, for Record.Value literals.
func Float(v float64) *float64 { return &v }

// Decode converts r into its Action.
//
//   - modify_speed: absent value ⇒ DefaultSpeed (non-positive is defaulted at apply time).
//   - adjust_capacity: absent value ⇒ DefaultMultiplier.
//
// Errors: ErrUnknownAction for any other type.
func Decode(r Record) (Action, error) {
	t := Target{ID: r.TargetID, Tag: r.TargetTag}
	switch r.Type {
	case KindCloseRoad:
		return CloseRoad{Target: t, Description: r.Description}, nil
	case KindModifySpeed:
		speed := DefaultSpeed
		if r.Value != nil {
			speed = *r.Value
		}
		return ModifySpeed{Target: t, Speed: speed, Description: r.Description}, nil
	case KindAdjustCapacity:
		m := DefaultMultiplier
		if r.Value != nil {
			m = *r.Value
		}
		return AdjustCapacity{Target: t, Multiplier: m, Description: r.Description}, nil
	case KindOptimizeSignal:
		return OptimizeSignal{Target: t, Description: r.Description}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, r.Type)
	}
}

// DecodeAll decodes every record. Unknown kinds are returned separately
// instead of failing the batch; they remain valid entries of an
// active-policy list but have no edge effect.
func DecodeAll(records []Record) (actions []Action, unknown []Record) {
	actions = make([]Action, 0, len(records))
	for _, r := range records {
		a, err := Decode(r)
		if err != nil {
			unknown = append(unknown, r)
			continue
		}
		actions = append(actions, a)
	}
	return actions, unknown
}

func (a CloseRoad) Record() Record {
	return Record{Type: KindCloseRoad, TargetID: a.ID, TargetTag: a.Tag, Description: a.Description}
}

func (a ModifySpeed) Record() Record {
	return Record{Type: KindModifySpeed, TargetID: a.ID, TargetTag: a.Tag, Value: Float(a.Speed), Description: a.Description}
}

func (a AdjustCapacity) Record() Record {
	return Record{Type: KindAdjustCapacity, TargetID: a.ID, TargetTag: a.Tag, Value: Float(a.Multiplier), Description: a.Description}
}

func (a OptimizeSignal) Record() Record {
	return Record{Type: KindOptimizeSignal, TargetID: a.ID, TargetTag: a.Tag, Description: a.Description}
}

// ParseRecords reads a YAML (or JSON) document holding either a list of
// records or a mapping with an "actions" list.
func ParseRecords(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("policy: read records: %w", err)
	}

	var list []Record
	if err = yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var typeErr *yaml.TypeError
	if !errors.As(err, &typeErr) {
		return nil, fmt.Errorf("policy: parse records: %w", err)
	}

	var doc struct {
		Actions []Record `yaml:"actions"`
	}
	if err = yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("policy: parse records: %w", err)
	}

	return doc.Actions, nil
}
