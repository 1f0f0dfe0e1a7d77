package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Notification is the advisory event emitted after a review decision.
type Notification struct {
	SessionID string    `json:"session_id,omitempty"`
	AssetID   string    `json:"asset_id"`
	Action    Action    `json:"action"`
	Status    Status    `json:"status"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}

// NewNotification builds the notification for an action taken on assetID.
func NewNotification(sessionID, assetID string, action Action, at time.Time) Notification {
	var msg string
	if action == ActionApprove {
		msg = fmt.Sprintf("Asset %s Approved & Published!", assetID)
	} else {
		msg = fmt.Sprintf("Agent is rewriting Asset %s...", assetID)
	}
	return Notification{
		SessionID: sessionID,
		AssetID:   assetID,
		Action:    action,
		Status:    action.Status(),
		Message:   msg,
		At:        at,
	}
}

// ToJSON serializes the notification to JSON bytes.
func (n Notification) ToJSON() []byte {
	b, _ := json.Marshal(n)
	return b
}
