package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/max-moss-dev/siso/db"
	"github.com/max-moss-dev/siso/model"
	"github.com/max-moss-dev/siso/types"
)

var store db.Store
var client model.Completer

// Init wires the handlers to their collaborators. Called once from main,
// and from tests with doubles.
func Init(s db.Store, c model.Completer) {
	store = s
	client = c
}

func writeJson(w http.ResponseWriter, v interface{}) {
	bytes, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error marshalling response: %v\n", err)
		http.Error(w, "Error marshalling response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(bytes)
}

func writeApiError(w http.ResponseWriter, apiErr types.ApiError) {
	bytes, err := json.Marshal(apiErr)
	if err != nil {
		log.Printf("Error marshalling response: %v\n", err)
		// If marshalling fails, fall back to a simpler error message
		http.Error(w, "Error marshalling response", http.StatusInternalServerError)
		return
	}

	log.Printf("API Error: %v\n", apiErr.Msg)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)

	_, writeErr := w.Write(bytes)
	if writeErr != nil {
		log.Printf("Error writing response: %v\n", writeErr)
	}
}

// writeError maps the error kinds to statuses: NotFound -> 404, upstream
// failures -> 502, everything else (persistence included) -> 500.
func writeError(w http.ResponseWriter, msg string, err error) {
	status := http.StatusInternalServerError

	if errors.Is(err, db.ErrNotFound) {
		status = http.StatusNotFound
	} else if errors.Is(err, model.ErrUpstream) || errors.Is(err, model.ErrUpstreamTimeout) {
		status = http.StatusBadGateway
	}

	writeApiError(w, types.ApiError{Status: status, Msg: msg + ": " + err.Error()})
}

func readJsonBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Printf("Error parsing request body: %v\n", err)
		writeApiError(w, types.ApiError{Status: http.StatusBadRequest, Msg: "Error parsing request body"})
		return false
	}

	return true
}
