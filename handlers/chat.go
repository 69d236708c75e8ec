package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/max-moss-dev/siso/model"
	"github.com/max-moss-dev/siso/types"
)

func ChatHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received request for ChatHandler")

	projectId := mux.Vars(r)["projectId"]

	var requestBody types.ChatRequest
	if !readJsonBody(w, r, &requestBody) {
		return
	}

	if requestBody.Message == "" {
		log.Println("Received empty message field")
		writeApiError(w, types.ApiError{Status: http.StatusBadRequest, Msg: "message field is required"})
		return
	}

	resp, err := model.Chat(r.Context(), store, client, projectId, requestBody.Message)
	if err != nil {
		log.Printf("Error handling chat: %v\n", err)
		writeError(w, "Error handling chat", err)
		return
	}

	writeJson(w, resp)

	log.Println("Successfully handled chat for project", projectId)
}

func ListChatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received request for ListChatHistoryHandler")

	projectId := mux.Vars(r)["projectId"]

	messages, err := store.ListChatMessages(r.Context(), projectId)
	if err != nil {
		log.Printf("Error listing chat history: %v\n", err)
		writeError(w, "Error listing chat history", err)
		return
	}

	apiMessages := []*types.ChatMessage{}
	for _, msg := range messages {
		apiMessages = append(apiMessages, msg.ToApi())
	}

	writeJson(w, apiMessages)
}

func ClearChatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received request for ClearChatHistoryHandler")

	projectId := mux.Vars(r)["projectId"]

	err := store.ClearChatHistory(r.Context(), projectId)
	if err != nil {
		log.Printf("Error clearing chat history: %v\n", err)
		writeError(w, "Error clearing chat history", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)

	log.Println("Successfully cleared chat history for project", projectId)
}
