package model

import (
	"fmt"
	"time"
)

// Status is the review state of an Asset.
type Status string

// Asset status constants
const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusRewritten Status = "Rewritten"
)

// Terminal reports whether no further transition is possible from s.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRewritten
}

// Action is a reviewer decision on a pending Asset.
type Action string

// Action constants
const (
	ActionApprove Action = "approve"
	ActionRewrite Action = "rewrite"
)

// ParseAction converts s into an Action.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionApprove, ActionRewrite:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAction, s)
	}
}

// Status returns the status an asset ends up in after the action.
func (a Action) Status() Status {
	if a == ActionApprove {
		return StatusApproved
	}
	return StatusRewritten
}

// Score bounds for VisualScore and ComplianceScore.
const (
	MinScore = 0
	MaxScore = 100
)

// Asset is a generated marketing asset awaiting or having received a review decision.
type Asset struct {
	ID              string     `json:"id" yaml:"id"`
	Type            string     `json:"type" yaml:"type"`
	Content         string     `json:"content" yaml:"content"`
	ImageURL        *string    `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	VisualScore     int        `json:"visual_score" yaml:"visual_score"`
	ComplianceScore int        `json:"compliance_score" yaml:"compliance_score"`
	Issues          []string   `json:"issues" yaml:"issues"`
	Status          Status     `json:"status" yaml:"-"`
	ActionTimestamp *time.Time `json:"action_timestamp,omitempty" yaml:"-"`
}

// NewAsset creates a new pending Asset.
func NewAsset(id, assetType, content string, visual, compliance int, issues ...string) Asset {
	return Asset{
		ID:              id,
		Type:            assetType,
		Content:         content,
		VisualScore:     visual,
		ComplianceScore: compliance,
		Issues:          append([]string{}, issues...),
		Status:          StatusPending,
	}
}

// Compliant reports whether no issues were detected for the asset.
func (a Asset) Compliant() bool {
	return len(a.Issues) == 0
}

// TextOnly reports whether the asset has no visual.
func (a Asset) TextOnly() bool {
	return a.ImageURL == nil || *a.ImageURL == ""
}

// Clone returns a deep copy of a so callers can never alias store-owned slices.
func (a Asset) Clone() Asset {
	c := a
	if a.Issues != nil {
		c.Issues = append(make([]string, 0, len(a.Issues)), a.Issues...)
	}
	if a.ImageURL != nil {
		u := *a.ImageURL
		c.ImageURL = &u
	}
	if a.ActionTimestamp != nil {
		ts := *a.ActionTimestamp
		c.ActionTimestamp = &ts
	}
	return c
}
