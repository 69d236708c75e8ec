package db

import (
	"database/sql"
	"time"

	"github.com/max-moss-dev/siso/types"
)

// The models below are only used server-side. Each has a ToApi() method
// converting it to the corresponding client-facing model in the types
// package, so server-only columns don't leak to the client.

type Project struct {
	Id        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (project *Project) ToApi() *types.Project {
	return &types.Project{
		Id:   project.Id,
		Name: project.Name,
	}
}

type ContextBlock struct {
	Id             string                 `db:"id"`
	ProjectId      string                 `db:"project_id"`
	Title          string                 `db:"title"`
	Content        types.BlockContent     `db:"content"`
	Type           string                 `db:"type"`
	OrderNum       int                    `db:"order_num"`
	PendingContent types.NullBlockContent `db:"pending_content"`
	CreatedAt      time.Time              `db:"created_at"`
	UpdatedAt      time.Time              `db:"updated_at"`
}

func (block *ContextBlock) ToApi() *types.ContextBlock {
	apiBlock := &types.ContextBlock{
		Id:        block.Id,
		ProjectId: block.ProjectId,
		Title:     block.Title,
		Content:   block.Content,
		Type:      types.BlockType(block.Type),
		Order:     block.OrderNum,
	}

	if block.PendingContent.Valid {
		pending := block.PendingContent.Content
		apiBlock.PendingContent = &pending
	}

	return apiBlock
}

type ChatMessage struct {
	Id            string               `db:"id"`
	ProjectId     string               `db:"project_id"`
	Role          string               `db:"role"`
	Content       sql.NullString       `db:"content"`
	ContextUpdate types.ContextUpdates `db:"context_update"`
	CreatedAt     time.Time            `db:"created_at"`
}

func (msg *ChatMessage) ToApi() *types.ChatMessage {
	apiMsg := &types.ChatMessage{
		Id:            msg.Id,
		ProjectId:     msg.ProjectId,
		Role:          msg.Role,
		Timestamp:     msg.CreatedAt,
		ContextUpdate: msg.ContextUpdate,
	}

	if msg.Content.Valid {
		content := msg.Content.String
		apiMsg.Content = &content
	}

	return apiMsg
}
