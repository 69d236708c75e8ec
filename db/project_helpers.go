package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

const DefaultProjectName = "Default project"

// EnsureDefaultProject creates a default project on first startup so the
// app is usable before any project has been created explicitly.
func (s *SqlStore) EnsureDefaultProject(ctx context.Context) error {
	var count int
	err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects").Scan(&count)

	if err != nil {
		return fmt.Errorf("error counting projects: %v", err)
	}

	if count > 0 {
		return nil
	}

	project, err := s.CreateProject(ctx, DefaultProjectName)
	if err != nil {
		return fmt.Errorf("error creating default project: %v", err)
	}

	log.Println("created default project", project.Id)

	return nil
}

func (s *SqlStore) CreateProject(ctx context.Context, name string) (*Project, error) {
	var project Project
	err := s.conn.GetContext(ctx, &project, "INSERT INTO projects (name) VALUES ($1) RETURNING id, name, created_at, updated_at", name)

	if err != nil {
		return nil, fmt.Errorf("error creating project: %v", err)
	}

	return &project, nil
}

func (s *SqlStore) ListProjects(ctx context.Context) ([]*Project, error) {
	var projects []*Project
	err := s.conn.SelectContext(ctx, &projects, "SELECT id, name, created_at, updated_at FROM projects ORDER BY created_at")

	if err != nil {
		return nil, fmt.Errorf("error listing projects: %v", err)
	}

	return projects, nil
}

func (s *SqlStore) GetProject(ctx context.Context, projectId string) (*Project, error) {
	var project Project
	err := s.conn.GetContext(ctx, &project, "SELECT id, name, created_at, updated_at FROM projects WHERE id = $1", projectId)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting project: %v", err)
	}

	return &project, nil
}

func (s *SqlStore) RenameProject(ctx context.Context, projectId, name string) (*Project, error) {
	var project Project
	err := s.conn.GetContext(ctx, &project, "UPDATE projects SET name = $1, updated_at = now() WHERE id = $2 RETURNING id, name, created_at, updated_at", name, projectId)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error renaming project: %v", err)
	}

	return &project, nil
}

// DeleteProject removes the project. Its context blocks and chat messages
// go with it via ON DELETE CASCADE.
func (s *SqlStore) DeleteProject(ctx context.Context, projectId string) error {
	res, err := s.conn.ExecContext(ctx, "DELETE FROM projects WHERE id = $1", projectId)

	if err != nil {
		return fmt.Errorf("error deleting project: %v", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %v", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
