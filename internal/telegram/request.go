package telegram

import (
	"encoding/json"
	"errors"
	"fmt"
)

// HTTPRequest is a serialized Bot API call: the method name and its JSON
// body.
type HTTPRequest struct {
	Method string
	Body   []byte
}

// HTTPResponse is the raw transport result.
type HTTPResponse struct {
	StatusCode int
	Body       []byte
}

// Request is a typed Bot API call whose successful result decodes into T.
type Request[T any] interface {
	// Name is the Bot API method name, e.g. "sendMessage".
	Name() string
	// Serialize encodes the request body, validating wire constraints.
	Serialize() ([]byte, error)
	// Deserialize decodes the envelope and result of resp.
	Deserialize(resp HTTPResponse) (T, error)
}

// Build serializes req into an HTTPRequest.
func Build[T any](req Request[T]) (HTTPRequest, error) {
	body, err := req.Serialize()
	if err != nil {
		return HTTPRequest{}, err
	}
	return HTTPRequest{Method: req.Name(), Body: body}, nil
}

// ErrEmptyBody is returned when a response carries no body to decode.
var ErrEmptyBody = errors.New("empty response body")

// APIError is an {"ok": false} response from the Bot API. Callers reach it
// with errors.As:
//
//	var apiErr *telegram.APIError
//	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 { ... }
type APIError struct {
	Code        int
	Description string
	// RetryAfter is the flood-control wait in seconds, when given.
	RetryAfter int
	// MigrateToChatID is set when a group was upgraded to a supergroup.
	MigrateToChatID ChatID
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram: %d: %s", e.Code, e.Description)
}

type responseParameters struct {
	MigrateToChatID ChatID `json:"migrate_to_chat_id,omitempty"`
	RetryAfter      int    `json:"retry_after,omitempty"`
}

type envelope struct {
	OK          bool                `json:"ok"`
	Result      json.RawMessage     `json:"result"`
	Description string              `json:"description,omitempty"`
	ErrorCode   int                 `json:"error_code,omitempty"`
	Parameters  *responseParameters `json:"parameters,omitempty"`
}

// DecodeResult unwraps the Bot API envelope in resp and decodes its result
// into T.
func DecodeResult[T any](resp HTTPResponse) (T, error) {
	var zero T
	if len(resp.Body) == 0 {
		return zero, fmt.Errorf("status %d: %w", resp.StatusCode, ErrEmptyBody)
	}

	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return zero, fmt.Errorf("decode envelope: %w", err)
	}
	if !env.OK {
		apiErr := &APIError{Code: env.ErrorCode, Description: env.Description}
		if apiErr.Code == 0 {
			apiErr.Code = resp.StatusCode
		}
		if env.Parameters != nil {
			apiErr.RetryAfter = env.Parameters.RetryAfter
			apiErr.MigrateToChatID = env.Parameters.MigrateToChatID
		}
		return zero, apiErr
	}

	var out T
	if err := json.Unmarshal(env.Result, &out); err != nil {
		return zero, fmt.Errorf("decode result: %w", err)
	}
	return out, nil
}
