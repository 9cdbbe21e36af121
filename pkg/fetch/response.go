package fetch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// GraphQLError is a single entry of a response's "errors" array.
type GraphQLError struct {
	Message   string     `json:"message"`
	Path      []any      `json:"path,omitempty"`
	Locations []Location `json:"locations,omitempty"`
}

// Location points into the query document.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (e GraphQLError) Error() string {
	return e.Message
}

// GraphQLErrors is returned when a response carries errors.
type GraphQLErrors []GraphQLError

func (e GraphQLErrors) Error() string {
	messages := make([]string, 0, len(e))
	for _, item := range e {
		messages = append(messages, item.Message)
	}
	return "fetch: graphql: " + strings.Join(messages, "; ")
}

type envelope struct {
	Data *struct {
		Thing json.RawMessage `json:"thing"`
	} `json:"data"`
	Errors GraphQLErrors `json:"errors"`
}

// DecodeResponse extracts the thing payload from a GraphQL response body.
// Errors in the body win over data; a null or absent thing is ErrNotFound.
func DecodeResponse(body []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("fetch: decode response: %w", err)
	}
	if len(env.Errors) > 0 {
		return nil, env.Errors
	}
	if env.Data == nil {
		return nil, ErrNotFound
	}
	thing := bytes.TrimSpace(env.Data.Thing)
	if len(thing) == 0 || bytes.Equal(thing, []byte("null")) {
		return nil, ErrNotFound
	}
	return thing, nil
}

// Unwrap returns the thing payload when data is a response envelope and data
// unchanged otherwise. File-backed sources accept both shapes.
func Unwrap(data []byte) ([]byte, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("fetch: decode payload: %w", err)
	}
	_, hasData := probe["data"]
	_, hasErrors := probe["errors"]
	if hasData || hasErrors {
		return DecodeResponse(data)
	}
	return data, nil
}
