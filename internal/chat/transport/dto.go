// Package transport defines the Support Board webhook wire types.
package transport

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FlexID tolerates Support Board's habit of sending ids as either JSON
// numbers or strings depending on the event.
type FlexID string

// UnmarshalJSON accepts "42", 42 and null.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) String() string { return string(f) }

// WebhookPayload is the envelope Support Board posts to the webhook URL.
type WebhookPayload struct {
	Function string      `json:"function"`
	Key      string      `json:"key"`
	Data     WebhookData `json:"data"`
}

// WebhookData carries the event body for message events. Fields for
// other event types are ignored.
type WebhookData struct {
	ConversationID FlexID `json:"conversation_id"`
	UserID         FlexID `json:"user_id"`
	Message        string `json:"message"`
	UserName       string `json:"user_name"`
	UserPhone      string `json:"user_phone"`
}

// WebhookAck is the response body the webhook endpoint returns.
type WebhookAck struct {
	Status string `json:"status"`
}
