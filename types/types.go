package types

import "time"

type ApiError struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
}

type BlockType string

const (
	BlockTypeString BlockType = "string"
	BlockTypeList   BlockType = "list"
)

func (t BlockType) IsValid() bool {
	return t == BlockTypeString || t == BlockTypeList
}

type Project struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type ContextBlock struct {
	Id             string        `json:"id"`
	ProjectId      string        `json:"project_id"`
	Title          string        `json:"title"`
	Content        BlockContent  `json:"content"`
	Type           BlockType     `json:"type"`
	Order          int           `json:"order"`
	PendingContent *BlockContent `json:"pending_content,omitempty"`
}

type ChatMessage struct {
	Id            string         `json:"id"`
	ProjectId     string         `json:"project_id"`
	Role          string         `json:"role"`
	Content       *string        `json:"content"`
	Timestamp     time.Time      `json:"timestamp"`
	ContextUpdate ContextUpdates `json:"context_update,omitempty"`
}

// ContextUpdate is one block edit proposed by the assistant in a chat turn.
type ContextUpdate struct {
	BlockId    string `json:"block_id"`
	BlockTitle string `json:"block_title"`
	NewContent string `json:"new_content"`
}

type ContextUpdates []ContextUpdate

type CreateProjectRequest struct {
	Name string `json:"name"`
}

type UpdateProjectRequest struct {
	Name string `json:"name"`
}

type CreateContextBlockRequest struct {
	Title   string       `json:"title"`
	Content BlockContent `json:"content"`
	Type    BlockType    `json:"type"`
}

type UpdateContextBlockRequest struct {
	Title   string       `json:"title"`
	Content BlockContent `json:"content"`
	Type    BlockType    `json:"type"`
}

type ReorderBlocksRequest struct {
	Blocks []string `json:"blocks"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Response       string         `json:"response"`
	ContextUpdates ContextUpdates `json:"context_updates,omitempty"`
}

type GenerateContentRequest struct {
	BlockId string       `json:"block_id"`
	Content BlockContent `json:"content"`
}

type GenerateContentResponse struct {
	Content BlockContent `json:"content"`
}

type FixContentRequest struct {
	BlockId string `json:"block_id"`
	Content string `json:"content"`
}

type FixContentResponse struct {
	FixedContent string `json:"fixed_content"`
}
