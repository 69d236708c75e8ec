package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/max-moss-dev/siso/types"
)

func CreateProjectHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received request for CreateProjectHandler")

	var requestBody types.CreateProjectRequest
	if !readJsonBody(w, r, &requestBody) {
		return
	}

	if requestBody.Name == "" {
		log.Println("Received empty name field")
		writeApiError(w, types.ApiError{Status: http.StatusBadRequest, Msg: "name field is required"})
		return
	}

	project, err := store.CreateProject(r.Context(), requestBody.Name)
	if err != nil {
		log.Printf("Error creating project: %v\n", err)
		writeError(w, "Error creating project", err)
		return
	}

	writeJson(w, project.ToApi())

	log.Println("Successfully created project", project.Id)
}

func ListProjectsHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received request for ListProjectsHandler")

	projects, err := store.ListProjects(r.Context())
	if err != nil {
		log.Printf("Error listing projects: %v\n", err)
		writeError(w, "Error listing projects", err)
		return
	}

	apiProjects := []*types.Project{}
	for _, project := range projects {
		apiProjects = append(apiProjects, project.ToApi())
	}

	writeJson(w, apiProjects)
}

func UpdateProjectHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received request for UpdateProjectHandler")

	projectId := mux.Vars(r)["projectId"]

	var requestBody types.UpdateProjectRequest
	if !readJsonBody(w, r, &requestBody) {
		return
	}

	if requestBody.Name == "" {
		log.Println("Received empty name field")
		writeApiError(w, types.ApiError{Status: http.StatusBadRequest, Msg: "name field is required"})
		return
	}

	project, err := store.RenameProject(r.Context(), projectId, requestBody.Name)
	if err != nil {
		log.Printf("Error renaming project: %v\n", err)
		writeError(w, "Error renaming project", err)
		return
	}

	writeJson(w, project.ToApi())

	log.Println("Successfully renamed project", projectId)
}

func DeleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received request for DeleteProjectHandler")

	projectId := mux.Vars(r)["projectId"]

	err := store.DeleteProject(r.Context(), projectId)
	if err != nil {
		log.Printf("Error deleting project: %v\n", err)
		writeError(w, "Error deleting project", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)

	log.Println("Successfully deleted project", projectId)
}
