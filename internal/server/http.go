package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/karupanerura/expression-solver/internal/batch"
	"github.com/karupanerura/expression-solver/internal/types"
)

type httpHandler struct {
	symbols *types.SymbolTable
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get("X-Request-Id")
	if _, err := uuid.Parse(requestID); err != nil {
		requestID = uuid.NewString()
	}
	w.Header().Set("X-Request-Id", requestID)

	switch r.URL.Path {
	case "/v1/eval":
		h.postJob(w, r, batch.EvalKind)
	case "/v1/root":
		h.postJob(w, r, batch.RootKind)
	case "/v1/integral":
		h.postJob(w, r, batch.IntegralKind)
	case "/v1/functions":
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		h.listFunctions(w, r)
	default:
		http.Error(w, "Not Found", http.StatusNotFound)
	}
}

func (h *httpHandler) postJob(w http.ResponseWriter, r *http.Request, kind batch.Kind) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var body map[string]any
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&body); err != nil {
		log.Printf("[%s] failed to decode request body: %v", w.Header().Get("X-Request-Id"), err)
		resError(w, http.StatusBadRequest, err)
		return
	}

	job, err := batch.NewJob(body, kind)
	if err != nil {
		var e *types.Error
		if errors.As(err, &e) {
			resError(w, http.StatusUnprocessableEntity, err)
		} else {
			resError(w, http.StatusBadRequest, err)
		}
		return
	}

	res, err := job.Execute(r.Context())
	if err != nil {
		var e *types.Error
		if errors.As(err, &e) {
			resError(w, http.StatusUnprocessableEntity, err)
			return
		}
		log.Printf("[%s] failed to execute %s: %v", w.Header().Get("X-Request-Id"), kind, err)
		resError(w, http.StatusInternalServerError, err)
		return
	}
	resJSON(w, http.StatusOK, res)
}

func (h *httpHandler) listFunctions(w http.ResponseWriter, r *http.Request) {
	resJSON(w, http.StatusOK, map[string][]types.SymbolEntry{"symbols": h.symbols.Listing()})
}

// NewHTTPHandler serves the eval, root and integral jobs over JSON. symbols is
// only used for the listing; jobs are compiled with the default table.
func NewHTTPHandler(symbols *types.SymbolTable) http.Handler {
	return &httpHandler{symbols: symbols}
}

func resError(w http.ResponseWriter, status int, err error) {
	resJSON(w, status, map[string]any{"error": batch.ErrorObject(err)})
}

func resJSON(w http.ResponseWriter, status int, v any) {
	if err := writeJSON(w, status, v); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)+1))
	w.WriteHeader(status)

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
