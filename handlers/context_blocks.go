package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/max-moss-dev/siso/types"
)

func ListContextBlocksHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received request for ListContextBlocksHandler")

	projectId := mux.Vars(r)["projectId"]

	blocks, err := store.ListBlocks(r.Context(), projectId)
	if err != nil {
		log.Printf("Error listing blocks: %v\n", err)
		writeError(w, "Error listing blocks", err)
		return
	}

	apiBlocks := []*types.ContextBlock{}
	for _, block := range blocks {
		apiBlocks = append(apiBlocks, block.ToApi())
	}

	writeJson(w, apiBlocks)
}

func CreateContextBlockHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received request for CreateContextBlockHandler")

	projectId := mux.Vars(r)["projectId"]

	var requestBody types.CreateContextBlockRequest
	if !readJsonBody(w, r, &requestBody) {
		return
	}

	if requestBody.Title == "" {
		log.Println("Received empty title field")
		writeApiError(w, types.ApiError{Status: http.StatusBadRequest, Msg: "title field is required"})
		return
	}

	if !requestBody.Type.IsValid() {
		log.Printf("Received invalid block type: %q\n", requestBody.Type)
		writeApiError(w, types.ApiError{Status: http.StatusBadRequest, Msg: "type must be 'string' or 'list'"})
		return
	}

	block, err := store.CreateBlock(r.Context(), projectId, requestBody.Title, requestBody.Content, requestBody.Type)
	if err != nil {
		log.Printf("Error creating block: %v\n", err)
		writeError(w, "Error creating block", err)
		return
	}

	writeJson(w, block.ToApi())

	log.Println("Successfully created block", block.Id)
}

func UpdateContextBlockHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received request for UpdateContextBlockHandler")

	vars := mux.Vars(r)
	projectId := vars["projectId"]
	blockId := vars["blockId"]

	var requestBody types.UpdateContextBlockRequest
	if !readJsonBody(w, r, &requestBody) {
		return
	}

	if requestBody.Title == "" {
		log.Println("Received empty title field")
		writeApiError(w, types.ApiError{Status: http.StatusBadRequest, Msg: "title field is required"})
		return
	}

	if !requestBody.Type.IsValid() {
		log.Printf("Received invalid block type: %q\n", requestBody.Type)
		writeApiError(w, types.ApiError{Status: http.StatusBadRequest, Msg: "type must be 'string' or 'list'"})
		return
	}

	block, err := store.UpdateBlock(r.Context(), projectId, blockId, requestBody.Title, requestBody.Content, requestBody.Type)
	if err != nil {
		log.Printf("Error updating block: %v\n", err)
		writeError(w, "Error updating block", err)
		return
	}

	writeJson(w, block.ToApi())

	log.Println("Successfully updated block", blockId)
}

func DeleteContextBlockHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received request for DeleteContextBlockHandler")

	vars := mux.Vars(r)
	projectId := vars["projectId"]
	blockId := vars["blockId"]

	err := store.DeleteBlock(r.Context(), projectId, blockId)
	if err != nil {
		log.Printf("Error deleting block: %v\n", err)
		writeError(w, "Error deleting block", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)

	log.Println("Successfully deleted block", blockId)
}

func ReorderBlocksHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received request for ReorderBlocksHandler")

	projectId := mux.Vars(r)["projectId"]

	var requestBody types.ReorderBlocksRequest
	if !readJsonBody(w, r, &requestBody) {
		return
	}

	if len(requestBody.Blocks) == 0 {
		log.Println("Received empty blocks field")
		writeApiError(w, types.ApiError{Status: http.StatusBadRequest, Msg: "blocks field is required"})
		return
	}

	err := store.ReorderBlocks(r.Context(), projectId, requestBody.Blocks)
	if err != nil {
		log.Printf("Error reordering blocks: %v\n", err)
		writeError(w, "Error reordering blocks", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)

	log.Println("Successfully reordered blocks for project", projectId)
}
