package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"

	"github.com/subeerhaldar/graphql-demo/internal/lib/logger/sl"
)

var (
	ErrMissingQuery     = errors.New("query is required")
	ErrMutationOverGET  = errors.New("mutations must be sent with POST")
	errMethodNotAllowed = errors.New("method not allowed")
)

// Request is a GraphQL request as sent in a POST body.
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

// Handler executes GraphQL requests from POST bodies or GET query parameters. GET requests may
// only run queries.
type Handler struct {
	schema graphql.Schema
	log    *slog.Logger
}

func NewHandler(schema graphql.Schema, log *slog.Logger) *Handler {
	return &Handler{
		schema: schema,
		log: log.With(
			slog.String("op", "graph.Handler"),
			slog.String("division", "graphql"),
		),
	}
}

func (h *Handler) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	request, err := readRequest(req)
	if err != nil {
		h.log.DebugContext(req.Context(), "Rejected graphql request", sl.Err(err))
		status := http.StatusBadRequest
		if errors.Is(err, errMethodNotAllowed) {
			writer.Header().Set("Allow", http.MethodGet+", "+http.MethodPost)
			status = http.StatusMethodNotAllowed
		}
		h.send(writer, req, map[string]string{"message": err.Error()}, status)
		return
	}

	if req.Method == http.MethodGet && selectsMutation(request) {
		h.log.DebugContext(req.Context(), "Rejected graphql mutation over GET",
			slog.String("operation", request.OperationName))
		writer.Header().Set("Allow", http.MethodPost)
		h.send(writer, req, map[string]string{"message": ErrMutationOverGET.Error()}, http.StatusMethodNotAllowed)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  request.Query,
		VariableValues: request.Variables,
		OperationName:  request.OperationName,
		Context:        req.Context(),
	})
	if result.HasErrors() {
		h.log.DebugContext(req.Context(), "GraphQL request returned errors",
			slog.String("operation", request.OperationName),
			slog.Any("errors", result.Errors),
		)
	}

	h.send(writer, req, result, http.StatusOK)
}

func readRequest(req *http.Request) (Request, error) {
	var request Request

	switch req.Method {
	case http.MethodGet:
		query := req.URL.Query()
		request.Query = query.Get("query")
		request.OperationName = query.Get("operationName")
		if raw := query.Get("variables"); raw != "" {
			if err := decodeJSON(strings.NewReader(raw), &request.Variables); err != nil {
				return Request{}, fmt.Errorf("invalid variables: %w", err)
			}
		}
	case http.MethodPost:
		if err := decodeJSON(req.Body, &request); err != nil {
			return Request{}, fmt.Errorf("invalid request body: %w", err)
		}
	default:
		return Request{}, fmt.Errorf("%w: %s", errMethodNotAllowed, req.Method)
	}

	if request.Query == "" {
		return Request{}, ErrMissingQuery
	}
	if request.Variables != nil {
		request.Variables, _ = normalizeNumbers(request.Variables).(map[string]any)
	}

	return request, nil
}

// decodeJSON keeps numbers as json.Number so decimals survive without a float64 round trip.
func decodeJSON(body io.Reader, out any) error {
	decoder := json.NewDecoder(body)
	decoder.UseNumber()

	return decoder.Decode(out)
}

// normalizeNumbers rewrites json.Number variables into values graphql-go coerces: integers
// that fit an int become int, every other number becomes its exact literal text.
func normalizeNumbers(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		for key, item := range typed {
			typed[key] = normalizeNumbers(item)
		}
		return typed
	case []any:
		for i, item := range typed {
			typed[i] = normalizeNumbers(item)
		}
		return typed
	case json.Number:
		if integer, err := strconv.ParseInt(typed.String(), 10, 64); err == nil &&
			integer >= math.MinInt && integer <= math.MaxInt {
			return int(integer)
		}
		return typed.String()
	}
	return value
}

// selectsMutation reports whether the operation graphql.Do would run is a mutation. Documents
// that do not parse, or name no single operation, are left to graphql.Do to reject.
func selectsMutation(request Request) bool {
	document, err := parser.Parse(parser.ParseParams{Source: request.Query})
	if err != nil {
		return false
	}

	var operations []*ast.OperationDefinition
	for _, definition := range document.Definitions {
		if operation, ok := definition.(*ast.OperationDefinition); ok {
			operations = append(operations, operation)
		}
	}

	for _, operation := range operations {
		switch {
		case request.OperationName != "":
			if operation.Name != nil && operation.Name.Value == request.OperationName {
				return operation.Operation == ast.OperationTypeMutation
			}
		case len(operations) == 1:
			return operation.Operation == ast.OperationTypeMutation
		}
	}

	return false
}

func (h *Handler) send(writer http.ResponseWriter, req *http.Request, content any, status int) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	if err := json.NewEncoder(writer).Encode(content); err != nil {
		h.log.ErrorContext(req.Context(), "Failed to write graphql response", sl.Err(err))
	}
}
