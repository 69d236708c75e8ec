package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/max-moss-dev/siso/types"
)

const blockColumns = "id, project_id, title, content, type, order_num, pending_content, created_at, updated_at"

func (s *SqlStore) CreateBlock(ctx context.Context, projectId, title string, content types.BlockContent, blockType types.BlockType) (*ContextBlock, error) {
	var block ContextBlock

	err := s.withTx(ctx, "create block", func(tx *sqlx.Tx) error {
		exists, err := projectExistsTx(tx, projectId)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}

		// New blocks go to the end of the project's display order. Two
		// concurrent creates can race to the same order_num; accepted,
		// created_at breaks the tie on listing.
		var nextOrder int
		err = tx.QueryRow("SELECT COALESCE(MAX(order_num) + 1, 0) FROM context_blocks WHERE project_id = $1", projectId).Scan(&nextOrder)
		if err != nil {
			return fmt.Errorf("error getting next block order: %v", err)
		}

		err = tx.Get(&block, "INSERT INTO context_blocks (id, project_id, title, content, type, order_num) VALUES ($1, $2, $3, $4, $5, $6) RETURNING "+blockColumns,
			uuid.New().String(), projectId, title, content, string(blockType), nextOrder)
		if err != nil {
			return fmt.Errorf("error creating block: %v", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return &block, nil
}

func projectExistsTx(tx *sqlx.Tx, projectId string) (bool, error) {
	var count int
	err := tx.QueryRow("SELECT COUNT(*) FROM projects WHERE id = $1", projectId).Scan(&count)

	if err != nil {
		return false, fmt.Errorf("error checking if project exists: %v", err)
	}

	return count > 0, nil
}

func (s *SqlStore) ListBlocks(ctx context.Context, projectId string) ([]*ContextBlock, error) {
	var blocks []*ContextBlock
	err := s.conn.SelectContext(ctx, &blocks, "SELECT "+blockColumns+" FROM context_blocks WHERE project_id = $1 ORDER BY order_num, created_at", projectId)

	if err != nil {
		return nil, fmt.Errorf("error listing blocks: %v", err)
	}

	return blocks, nil
}

func (s *SqlStore) GetBlock(ctx context.Context, projectId, blockId string) (*ContextBlock, error) {
	var block ContextBlock
	err := s.conn.GetContext(ctx, &block, "SELECT "+blockColumns+" FROM context_blocks WHERE project_id = $1 AND id = $2", projectId, blockId)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting block: %v", err)
	}

	return &block, nil
}

// UpdateBlock fully replaces the block's mutable fields. A user edit also
// discards any staged pending content, since it was proposed against the
// content being replaced.
func (s *SqlStore) UpdateBlock(ctx context.Context, projectId, blockId, title string, content types.BlockContent, blockType types.BlockType) (*ContextBlock, error) {
	var block ContextBlock
	err := s.conn.GetContext(ctx, &block, "UPDATE context_blocks SET title = $1, content = $2, type = $3, pending_content = NULL, updated_at = now() WHERE project_id = $4 AND id = $5 RETURNING "+blockColumns,
		title, content, string(blockType), projectId, blockId)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error updating block: %v", err)
	}

	return &block, nil
}

// DeleteBlock doesn't renumber the remaining blocks -- gaps in order_num
// are permitted until the next reorder.
func (s *SqlStore) DeleteBlock(ctx context.Context, projectId, blockId string) error {
	res, err := s.conn.ExecContext(ctx, "DELETE FROM context_blocks WHERE project_id = $1 AND id = $2", projectId, blockId)

	if err != nil {
		return fmt.Errorf("error deleting block: %v", err)
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

// ReorderBlocks assigns order_num = index for each id in the given
// sequence, in one transaction. An unknown id rolls the whole reorder
// back.
func (s *SqlStore) ReorderBlocks(ctx context.Context, projectId string, orderedBlockIds []string) error {
	return s.withTx(ctx, "reorder blocks", func(tx *sqlx.Tx) error {
		for i, blockId := range orderedBlockIds {
			res, err := tx.Exec("UPDATE context_blocks SET order_num = $1, updated_at = now() WHERE project_id = $2 AND id = $3", i, projectId, blockId)
			if err != nil {
				return fmt.Errorf("error reordering block %s: %v", blockId, err)
			}

			rowsAffected, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("error getting rows affected: %v", err)
			}

			if rowsAffected == 0 {
				return ErrNotFound
			}
		}

		return nil
	})
}

// StagePendingContent writes a model-proposed value to pending_content
// without touching the live content. The user accepts or rejects it from
// the UI.
func (s *SqlStore) StagePendingContent(ctx context.Context, projectId, blockId string, newContent types.BlockContent) error {
	pending := types.NullBlockContent{Content: newContent, Valid: true}

	res, err := s.conn.ExecContext(ctx, "UPDATE context_blocks SET pending_content = $1, updated_at = now() WHERE project_id = $2 AND id = $3", pending, projectId, blockId)

	if err != nil {
		return fmt.Errorf("error staging pending content: %v", err)
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

// SetBlockContent commits content directly, bypassing staging. Used by the
// one-shot generate path.
func (s *SqlStore) SetBlockContent(ctx context.Context, projectId, blockId string, content types.BlockContent) error {
	res, err := s.conn.ExecContext(ctx, "UPDATE context_blocks SET content = $1, updated_at = now() WHERE project_id = $2 AND id = $3", content, projectId, blockId)

	if err != nil {
		return fmt.Errorf("error setting block content: %v", err)
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
