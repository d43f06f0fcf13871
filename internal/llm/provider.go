// Package llm talks to hosted language models. Every provider returns JSON
// that has already been checked against the caller's schema.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates structured output from a prompt.
type Provider interface {
	// Generate sends req to the model. When req.Schema is set the provider
	// asks for JSON in that shape and validates what comes back.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model this provider is configured to call.
	ModelID() string
}

// Request is a single-turn (or short multi-turn) generation request.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, constrains the response to JSON of this shape.
	// Without it Content holds the raw text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0,1]; zero leaves the provider default.
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserMessage is shorthand for a single user turn.
func UserMessage(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}

// Schema is a named JSON Schema.
type Schema struct {
	// Name is kebab-case, e.g. "reading-story". It doubles as the tool or
	// response-format name and as the compiled-schema cache key.
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a model's output.
type Response struct {
	// Content is schema-valid JSON when the request had a schema.
	Content json.RawMessage
	Usage   Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is "end" or "max_tokens".
	StopReason string
}

// Usage is the token count for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// finish applies the checks shared by all providers: a response cut off at
// the token limit is rejected, and structured output must match the schema.
func finish(req Request, resp *Response) (*Response, error) {
	if resp.StopReason == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: resp.Content}
	}
	if err := validateResponse(req.Schema, resp.Content); err != nil {
		return nil, err
	}
	return resp, nil
}
