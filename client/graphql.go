package client

import (
	"context"
	"net/http"
	"strings"
)

// GraphQLService executes queries and mutations against /api/graphql.
type GraphQLService struct {
	c *Client
}

// GraphQLRequest is one query or mutation. OperationName selects the
// operation in multi-operation documents.
type GraphQLRequest struct {
	Query         string
	Variables     map[string]any
	OperationName string
}

type GraphQLResponse struct {
	Data   map[string]any `json:"data"`
	Errors []GraphQLError `json:"errors"`
}

type GraphQLError struct {
	Message string `json:"message"`
}

// Execute runs a GraphQL request. A non-empty errors array in the response
// is surfaced as a failure joining every error message in response order.
func (s *GraphQLService) Execute(ctx context.Context, req GraphQLRequest) (*GraphQLResponse, error) {
	if req.Query == "" {
		return nil, genericError(codeUnknown, "graphql query is required")
	}
	body := map[string]any{"query": req.Query}
	if req.Variables != nil {
		body["variables"] = req.Variables
	}
	if req.OperationName != "" {
		body["operationName"] = req.OperationName
	}

	out, err := doJSON[GraphQLResponse](s.c, ctx, request{
		method: http.MethodPost,
		path:   "/api/graphql",
		body:   body,
	})
	if err != nil {
		return nil, err
	}

	if len(out.Errors) > 0 {
		messages := make([]string, len(out.Errors))
		for i, e := range out.Errors {
			messages[i] = e.Message
		}
		return nil, genericError(codeGraphQL, "GraphQL errors: %s", strings.Join(messages, "; "))
	}
	return out, nil
}

// Query runs a GraphQL query with optional variables.
func (s *GraphQLService) Query(ctx context.Context, query string, variables map[string]any) (*GraphQLResponse, error) {
	return s.Execute(ctx, GraphQLRequest{Query: query, Variables: variables})
}

// Mutate runs a GraphQL mutation. Mutations travel the same wire shape as
// queries.
func (s *GraphQLService) Mutate(ctx context.Context, mutation string, variables map[string]any) (*GraphQLResponse, error) {
	return s.Execute(ctx, GraphQLRequest{Query: mutation, Variables: variables})
}

// HealthCheck queries the schema's health field.
func (s *GraphQLService) HealthCheck(ctx context.Context) (string, error) {
	out, err := s.Query(ctx, "{ health }", nil)
	if err != nil {
		return "", err
	}
	if health, ok := out.Data["health"].(string); ok {
		return health, nil
	}
	return "unknown", nil
}
