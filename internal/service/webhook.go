package service

import "encoding/json"

// Envelope the voice platform's webhook body: { "message": { "type": ... } }.
// Message is a pointer so a body without one is distinguishable from an
// empty message.
type Envelope struct {
	Message *WebhookMessage `json:"message"`
}

// WebhookMessage one platform event. Only the fields the handlers consume
// are modeled; the platform sends much more.
type WebhookMessage struct {
	Type         string     `json:"type"`
	Call         CallInfo   `json:"call"`
	ToolCallList []ToolCall `json:"toolCallList"`

	// Call timing also appears at the top level on end-of-call reports.
	StartedAt string `json:"startedAt"`
	EndedAt   string `json:"endedAt"`
}

// CallInfo the call object embedded in platform events.
type CallInfo struct {
	ID            string `json:"id"`
	PhoneNumberID string `json:"phoneNumberId"`

	StartedAt string `json:"startedAt"`
	EndedAt   string `json:"endedAt"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`

	Customer struct {
		Number string `json:"number"`
	} `json:"customer"`

	PhoneCallProviderDetails struct {
		SIP struct {
			Headers map[string]string `json:"headers"`
		} `json:"sip"`
	} `json:"phoneCallProviderDetails"`
}

// ToolCall one function-call invocation from the voice agent.
type ToolCall struct {
	ID       string `json:"id"`
	Function struct {
		Name string `json:"name"`
		// Arguments arrives either as a JSON object or as a JSON-encoded
		// string; decoding is deferred to the dispatcher.
		Arguments json.RawMessage `json:"arguments"`
	} `json:"function"`
}

// ToolCallResult one spoken answer, keyed by the invocation id.
type ToolCallResult struct {
	ToolCallID string `json:"toolCallId"`
	Result     string `json:"result"`
}

// ToolCallResponse the shape the platform expects back for tool-calls.
type ToolCallResponse struct {
	Results []ToolCallResult `json:"results"`
}
