package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/gqlgo/gqlgenpy/graphqljson"
)

// Request is the body of a GraphQL POST request.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// GraphQLError is one entry of the response "errors" member.
type GraphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// ErrorResponse is returned when the server answers with GraphQL errors.
type ErrorResponse struct {
	Errors []GraphQLError
}

func (e *ErrorResponse) Error() string {
	messages := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		messages = append(messages, err.Message)
	}

	return "graphql: " + strings.Join(messages, "; ")
}

type response struct {
	Data   jsontext.Value `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

func NewRequest(ctx context.Context, endpoint, operationName, query string, variables map[string]any) (*http.Request, error) {
	body, err := json.Marshal(Request{
		Query:         query,
		OperationName: operationName,
		Variables:     variables,
	})
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request struct failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json; charset=utf-8")

	return req, nil
}

// ParseResponse decodes the "data" member of resp into out.
func ParseResponse(resp *http.Response, out any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("http status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(r.Errors) > 0 {
		return &ErrorResponse{Errors: r.Errors}
	}

	if len(r.Data) == 0 {
		return nil
	}

	return graphqljson.UnmarshalData(r.Data, out)
}
