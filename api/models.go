package api

// ErrorResponse is the JSON error shape shared by all endpoints.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// EventStartRequest is the JSON body for POST /api/event/start.
type EventStartRequest struct {
	Condition string `json:"condition"`
	EventType string `json:"event_type"`
}

// EventStartResponse is returned from POST /api/event/start.
type EventStartResponse struct {
	OK      bool   `json:"ok"`
	EventID string `json:"event_id"`
}

// EventEndRequest is the JSON body for POST /api/event/end. Success is a
// 0/1 flag, matching the dataset encoding.
type EventEndRequest struct {
	EventID    string `json:"event_id"`
	DurationMS int64  `json:"duration_ms"`
	Success    int    `json:"success"`
	Attempts   int    `json:"attempts"`
	Note       string `json:"note"`
}

// OKResponse is the bare success shape.
type OKResponse struct {
	OK bool `json:"ok"`
}

// SecretSetRequest is the JSON body for POST /api/secret/set.
type SecretSetRequest struct {
	Condition  string `json:"condition"`
	SecretText string `json:"secret_text"`
}

// SecretCheckRequest is the JSON body for POST /api/secret/check.
type SecretCheckRequest struct {
	Condition   string `json:"condition"`
	AttemptText string `json:"attempt_text"`
}

// SecretCheckResponse is returned from POST /api/secret/check.
type SecretCheckResponse struct {
	OK    bool `json:"ok"`
	Match bool `json:"match"`
}

// StageSubmitRequest is the JSON body for POST /api/stage/submit.
type StageSubmitRequest struct {
	Condition string `json:"condition"`
	Input     string `json:"input"`
}

// StageSubmitResponse is returned from POST /api/stage/submit.
type StageSubmitResponse struct {
	OK       bool   `json:"ok"`
	Stage    string `json:"stage"`
	Match    bool   `json:"match"`
	Attempts int    `json:"attempts"`
	Message  string `json:"message,omitempty"`
}

// StageStateResponse is returned from GET /api/stage/state.
type StageStateResponse struct {
	OK       bool   `json:"ok"`
	Stage    string `json:"stage"`
	Attempts int    `json:"attempts"`
}
