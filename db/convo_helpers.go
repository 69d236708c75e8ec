package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/max-moss-dev/siso/types"
)

const messageColumns = "id, project_id, role, content, context_update, created_at"

func (s *SqlStore) AppendChatMessage(ctx context.Context, projectId, role string, content *string, contextUpdate types.ContextUpdates) (*ChatMessage, error) {
	var msg ChatMessage

	err := s.conn.GetContext(ctx, &msg, "INSERT INTO chat_messages (id, project_id, role, content, context_update) VALUES ($1, $2, $3, $4, $5) RETURNING "+messageColumns,
		uuid.New().String(), projectId, role, nullString(content), contextUpdate)

	if err != nil {
		return nil, fmt.Errorf("error appending chat message: %v", err)
	}

	return &msg, nil
}

func (s *SqlStore) ListChatMessages(ctx context.Context, projectId string) ([]*ChatMessage, error) {
	var messages []*ChatMessage
	err := s.conn.SelectContext(ctx, &messages, "SELECT "+messageColumns+" FROM chat_messages WHERE project_id = $1 ORDER BY created_at", projectId)

	if err != nil {
		return nil, fmt.Errorf("error listing chat messages: %v", err)
	}

	return messages, nil
}

// ClearChatHistory deletes all messages for the project. Irreversible.
func (s *SqlStore) ClearChatHistory(ctx context.Context, projectId string) error {
	_, err := s.conn.ExecContext(ctx, "DELETE FROM chat_messages WHERE project_id = $1", projectId)

	if err != nil {
		return fmt.Errorf("error clearing chat history: %v", err)
	}

	return nil
}

// AppendChatExchange writes the user message, the assistant message, and
// any staged pending content in one transaction. The assistant message is
// inserted after the user message so created_at keeps them in turn order.
func (s *SqlStore) AppendChatExchange(ctx context.Context, projectId, userContent string, assistantContent *string, contextUpdate types.ContextUpdates, staged []StagedUpdate) (*ChatMessage, *ChatMessage, error) {
	var userMsg, assistantMsg ChatMessage

	err := s.withTx(ctx, "append chat exchange", func(tx *sqlx.Tx) error {
		err := tx.Get(&userMsg, "INSERT INTO chat_messages (id, project_id, role, content) VALUES ($1, $2, 'user', $3) RETURNING "+messageColumns,
			uuid.New().String(), projectId, userContent)
		if err != nil {
			return fmt.Errorf("error appending user message: %v", err)
		}

		err = tx.Get(&assistantMsg, "INSERT INTO chat_messages (id, project_id, role, content, context_update) VALUES ($1, $2, 'assistant', $3, $4) RETURNING "+messageColumns,
			uuid.New().String(), projectId, nullString(assistantContent), contextUpdate)
		if err != nil {
			return fmt.Errorf("error appending assistant message: %v", err)
		}

		for _, update := range staged {
			pending := types.NullBlockContent{Content: update.Content, Valid: true}
			_, err := tx.Exec("UPDATE context_blocks SET pending_content = $1, updated_at = now() WHERE project_id = $2 AND id = $3", pending, projectId, update.BlockId)
			if err != nil {
				return fmt.Errorf("error staging pending content for block %s: %v", update.BlockId, err)
			}
		}

		return nil
	})

	if err != nil {
		return nil, nil, err
	}

	return &userMsg, &assistantMsg, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
