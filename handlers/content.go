package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/max-moss-dev/siso/model"
	"github.com/max-moss-dev/siso/types"
)

func GenerateContentHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received request for GenerateContentHandler")

	projectId := mux.Vars(r)["projectId"]

	var requestBody types.GenerateContentRequest
	if !readJsonBody(w, r, &requestBody) {
		return
	}

	if requestBody.BlockId == "" {
		log.Println("Received empty block_id field")
		writeApiError(w, types.ApiError{Status: http.StatusBadRequest, Msg: "block_id field is required"})
		return
	}

	content, err := model.GenerateContent(r.Context(), store, client, projectId, requestBody.BlockId)
	if err != nil {
		log.Printf("Error generating content: %v\n", err)
		writeError(w, "Error generating content", err)
		return
	}

	writeJson(w, types.GenerateContentResponse{Content: content})

	log.Println("Successfully generated content for block", requestBody.BlockId)
}

func FixContentHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received request for FixContentHandler")

	var requestBody types.FixContentRequest
	if !readJsonBody(w, r, &requestBody) {
		return
	}

	if requestBody.Content == "" {
		log.Println("Received empty content field")
		writeApiError(w, types.ApiError{Status: http.StatusBadRequest, Msg: "content field is required"})
		return
	}

	fixed, err := model.FixContent(r.Context(), client, requestBody.Content)
	if err != nil {
		log.Printf("Error fixing content: %v\n", err)
		writeError(w, "Error fixing content", err)
		return
	}

	writeJson(w, types.FixContentResponse{FixedContent: fixed})

	log.Println("Successfully fixed content")
}
