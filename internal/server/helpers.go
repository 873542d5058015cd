package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/subeerhaldar/graphql-demo/internal/lib/logger/sl"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Message string `json:"message"`
}

func sendJSON(ctx context.Context, log *slog.Logger, writer http.ResponseWriter, content any, status int) {
	response, err := json.Marshal(content)
	if err != nil {
		log.ErrorContext(ctx, "Failed to encode JSON response", sl.Err(err))
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	if _, err = writer.Write(response); err != nil {
		log.ErrorContext(ctx, "Failed to write JSON response", sl.Err(err))
	}
}

func writeClientError(ctx context.Context, log *slog.Logger, writer http.ResponseWriter, err error, status int) {
	sendJSON(ctx, log, writer, ErrorResponse{Message: err.Error()}, status)
}

func writeNotFound(ctx context.Context, log *slog.Logger, writer http.ResponseWriter, identifier int) {
	sendJSON(ctx, log, writer,
		ErrorResponse{Message: fmt.Sprintf("employee %d not found", identifier)}, http.StatusNotFound)
}

// writeInternalServerError logs err and hides it from the client.
func writeInternalServerError(ctx context.Context, log *slog.Logger, writer http.ResponseWriter, err error) {
	log.ErrorContext(ctx, "Request failed", sl.Err(err))
	sendJSON(ctx, log, writer, ErrorResponse{Message: http.StatusText(http.StatusInternalServerError)},
		http.StatusInternalServerError)
}

func parseJSONRequestBody(req *http.Request, structure any) error {
	decoder := json.NewDecoder(req.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(structure); err != nil {
		return fmt.Errorf("error parsing JSON request body: %w", err)
	}
	return nil
}
