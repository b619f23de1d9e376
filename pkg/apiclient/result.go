package apiclient

import (
	"encoding/json"
	"fmt"
)

// Result is the outcome of every upstream operation: either Success or Failure.
// It serializes to the uniform {success, data|error, status_code?, details?} envelope.
type Result interface {
	json.Marshaler

	// OK reports whether the result is a Success.
	OK() bool

	isResult()
}

// Success carries the upstream JSON body of a 200/201 response.
type Success struct {
	Data json.RawMessage
}

// Kind classifies a Failure.
type Kind string

const (
	KindLocal      Kind = "local"      // validation failed before any I/O
	KindTransport  Kind = "transport"  // connection could not be established
	KindTimeout    Kind = "timeout"    // request exceeded its budget
	KindUpstream   Kind = "upstream"   // non-2xx status from the upstream API
	KindUnexpected Kind = "unexpected" // anything else
)

// Failure describes why an operation did not succeed.
// StatusCode and Details are only set for upstream rejections.
type Failure struct {
	Kind       Kind
	Message    string
	StatusCode int
	Details    string
}

// Fail returns a local validation failure with the given message.
func Fail(message string) Failure {
	return Failure{Kind: KindLocal, Message: message}
}

// Failf is Fail with formatting.
func Failf(format string, args ...any) Failure {
	return Fail(fmt.Sprintf(format, args...))
}

func (Success) OK() bool  { return true }
func (Success) isResult() {}

func (Failure) OK() bool  { return false }
func (Failure) isResult() {}

// Error lets a Failure travel as an error where that is convenient.
func (f Failure) Error() string {
	if f.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", f.Message, f.StatusCode)
	}
	return f.Message
}

// MarshalJSON encodes the success envelope.
func (s Success) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}{Success: true, Data: s.Data})
}

// MarshalJSON encodes the failure envelope.
func (f Failure) MarshalJSON() ([]byte, error) {
	env := struct {
		Success    bool    `json:"success"`
		Error      string  `json:"error"`
		StatusCode *int    `json:"status_code,omitempty"`
		Details    *string `json:"details,omitempty"`
	}{Error: f.Message}
	if f.StatusCode != 0 {
		env.StatusCode = &f.StatusCode
		env.Details = &f.Details
	}
	return json.Marshal(env)
}
