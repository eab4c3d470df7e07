package rest

import (
	"encoding/json"
	"strings"
	"time"

	"todocli/internal/service"
)

type messageJSON struct {
	Message string `json:"message"`
}

type errorJSON struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type tokenJSON struct {
	Token string `json:"token"`
}

type otpJSON struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type emailJSON struct {
	Email string `json:"email"`
}

type loginJSON struct {
	EmailOrNumber string `json:"emailOrNumber"`
	Password      string `json:"password"`
}

type taskJSON struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Completed   bool            `json:"completed"`
	CreatedAt   json.RawMessage `json:"createdAt"`
	UpdatedAt   json.RawMessage `json:"updatedAt"`
}

func (t taskJSON) task() service.Task {
	return service.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   parseTime(t.CreatedAt),
		UpdatedAt:   parseTime(t.UpdatedAt),
	}
}

// The server emits zone-less local date-times; RFC 3339 is accepted too.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// parseTime returns the zero time for null, missing or unparseable values.
func parseTime(raw json.RawMessage) time.Time {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil || s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// errorMessage extracts the human-readable message from an error body:
// the "error" field, else "message". Non-JSON bodies yield "".
func errorMessage(body []byte) string {
	var e errorJSON
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(e.Error); msg != "" {
		return msg
	}
	return strings.TrimSpace(e.Message)
}
