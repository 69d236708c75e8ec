package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/max-moss-dev/siso/types"
)

// StagedUpdate is a model-proposed block edit to be written to
// pending_content alongside the chat exchange that produced it.
type StagedUpdate struct {
	BlockId string
	Content types.BlockContent
}

// Store is the durable persistence layer for projects, context blocks, and
// chat history. The SQL implementation is the real one; MemStore backs
// tests. Concurrent writes against the same project's blocks are not
// serialized beyond row-level store guarantees -- last committed write
// wins.
type Store interface {
	EnsureDefaultProject(ctx context.Context) error
	CreateProject(ctx context.Context, name string) (*Project, error)
	ListProjects(ctx context.Context) ([]*Project, error)
	GetProject(ctx context.Context, projectId string) (*Project, error)
	RenameProject(ctx context.Context, projectId, name string) (*Project, error)
	DeleteProject(ctx context.Context, projectId string) error

	CreateBlock(ctx context.Context, projectId, title string, content types.BlockContent, blockType types.BlockType) (*ContextBlock, error)
	ListBlocks(ctx context.Context, projectId string) ([]*ContextBlock, error)
	GetBlock(ctx context.Context, projectId, blockId string) (*ContextBlock, error)
	UpdateBlock(ctx context.Context, projectId, blockId, title string, content types.BlockContent, blockType types.BlockType) (*ContextBlock, error)
	DeleteBlock(ctx context.Context, projectId, blockId string) error
	ReorderBlocks(ctx context.Context, projectId string, orderedBlockIds []string) error
	StagePendingContent(ctx context.Context, projectId, blockId string, newContent types.BlockContent) error
	SetBlockContent(ctx context.Context, projectId, blockId string, content types.BlockContent) error

	AppendChatMessage(ctx context.Context, projectId, role string, content *string, contextUpdate types.ContextUpdates) (*ChatMessage, error)
	ListChatMessages(ctx context.Context, projectId string) ([]*ChatMessage, error)
	ClearChatHistory(ctx context.Context, projectId string) error

	// AppendChatExchange persists a user message, the assistant's reply, and
	// any staged pending content in a single transaction. On failure neither
	// message remains committed.
	AppendChatExchange(ctx context.Context, projectId, userContent string, assistantContent *string, contextUpdate types.ContextUpdates, staged []StagedUpdate) (*ChatMessage, *ChatMessage, error)
}

type SqlStore struct {
	conn *sqlx.DB
}

func NewStore(conn *sqlx.DB) *SqlStore {
	return &SqlStore{conn: conn}
}
