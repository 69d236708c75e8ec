package main

import (
	"fmt"
	"net/http"
	"os"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/max-moss-dev/siso/handlers"
)

func routes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "OK")
	})

	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		// get version from version.txt
		bytes, err := os.ReadFile("version.txt")

		if err != nil {
			http.Error(w, "Error getting version", http.StatusInternalServerError)
			return
		}

		fmt.Fprint(w, string(bytes))
	})

	r.HandleFunc("/projects", handlers.CreateProjectHandler).Methods("POST")
	r.HandleFunc("/projects", handlers.ListProjectsHandler).Methods("GET")
	r.HandleFunc("/projects/{projectId}", handlers.UpdateProjectHandler).Methods("PUT")
	r.HandleFunc("/projects/{projectId}", handlers.DeleteProjectHandler).Methods("DELETE")

	r.HandleFunc("/projects/{projectId}/context_blocks", handlers.ListContextBlocksHandler).Methods("GET")
	r.HandleFunc("/projects/{projectId}/context_blocks", handlers.CreateContextBlockHandler).Methods("POST")
	r.HandleFunc("/projects/{projectId}/context_blocks/{blockId}", handlers.UpdateContextBlockHandler).Methods("PUT")
	r.HandleFunc("/projects/{projectId}/context_blocks/{blockId}", handlers.DeleteContextBlockHandler).Methods("DELETE")
	r.HandleFunc("/projects/{projectId}/reorder_blocks", handlers.ReorderBlocksHandler).Methods("PUT")

	r.HandleFunc("/projects/{projectId}/chat", handlers.ChatHandler).Methods("POST")
	r.HandleFunc("/projects/{projectId}/chat_history", handlers.ListChatHistoryHandler).Methods("GET")
	r.HandleFunc("/projects/{projectId}/chat_history", handlers.ClearChatHistoryHandler).Methods("DELETE")

	r.HandleFunc("/projects/{projectId}/generate_content", handlers.GenerateContentHandler).Methods("POST")
	r.HandleFunc("/projects/{projectId}/fix_content", handlers.FixContentHandler).Methods("POST")

	// The local frontend runs on its own dev server port
	cors := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"http://localhost:3000"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type"}),
		gorillaHandlers.AllowCredentials(),
	)

	return cors(r)
}
