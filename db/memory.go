package db

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/max-moss-dev/siso/types"
)

// MemStore is an in-memory Store used as a test double. It mirrors the
// SQL implementation's semantics: order assignment, order_num/created_at
// list ordering, cascade delete, and all-or-nothing reorder and chat
// exchange.
type MemStore struct {
	mu       sync.Mutex
	projects map[string]*Project
	blocks   map[string]*ContextBlock
	messages map[string]*ChatMessage
	seq      map[string]int
	nextSeq  int
}

func NewMemStore() *MemStore {
	return &MemStore{
		projects: map[string]*Project{},
		blocks:   map[string]*ContextBlock{},
		messages: map[string]*ChatMessage{},
		seq:      map[string]int{},
	}
}

func (s *MemStore) record(id string) {
	s.nextSeq++
	s.seq[id] = s.nextSeq
}

func (s *MemStore) EnsureDefaultProject(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.projects) > 0 {
		return nil
	}

	s.createProjectLocked(DefaultProjectName)
	return nil
}

func (s *MemStore) createProjectLocked(name string) *Project {
	now := time.Now().UTC()
	project := &Project{
		Id:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.projects[project.Id] = project
	s.record(project.Id)
	return project
}

func (s *MemStore) CreateProject(ctx context.Context, name string) (*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project := s.createProjectLocked(name)
	copied := *project
	return &copied, nil
}

func (s *MemStore) ListProjects(ctx context.Context) ([]*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var projects []*Project
	for _, project := range s.projects {
		copied := *project
		projects = append(projects, &copied)
	}

	sort.Slice(projects, func(i, j int) bool {
		return s.seq[projects[i].Id] < s.seq[projects[j].Id]
	})

	return projects, nil
}

func (s *MemStore) GetProject(ctx context.Context, projectId string) (*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[projectId]
	if !ok {
		return nil, ErrNotFound
	}

	copied := *project
	return &copied, nil
}

func (s *MemStore) RenameProject(ctx context.Context, projectId, name string) (*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[projectId]
	if !ok {
		return nil, ErrNotFound
	}

	project.Name = name
	project.UpdatedAt = time.Now().UTC()

	copied := *project
	return &copied, nil
}

func (s *MemStore) DeleteProject(ctx context.Context, projectId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[projectId]; !ok {
		return ErrNotFound
	}

	delete(s.projects, projectId)

	for id, block := range s.blocks {
		if block.ProjectId == projectId {
			delete(s.blocks, id)
		}
	}
	for id, msg := range s.messages {
		if msg.ProjectId == projectId {
			delete(s.messages, id)
		}
	}

	return nil
}

func (s *MemStore) CreateBlock(ctx context.Context, projectId, title string, content types.BlockContent, blockType types.BlockType) (*ContextBlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[projectId]; !ok {
		return nil, ErrNotFound
	}

	nextOrder := 0
	for _, block := range s.blocks {
		if block.ProjectId == projectId && block.OrderNum >= nextOrder {
			nextOrder = block.OrderNum + 1
		}
	}

	now := time.Now().UTC()
	block := &ContextBlock{
		Id:        uuid.New().String(),
		ProjectId: projectId,
		Title:     title,
		Content:   content,
		Type:      string(blockType),
		OrderNum:  nextOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.blocks[block.Id] = block
	s.record(block.Id)

	copied := *block
	return &copied, nil
}

func (s *MemStore) listBlocksLocked(projectId string) []*ContextBlock {
	var blocks []*ContextBlock
	for _, block := range s.blocks {
		if block.ProjectId == projectId {
			copied := *block
			blocks = append(blocks, &copied)
		}
	}

	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].OrderNum != blocks[j].OrderNum {
			return blocks[i].OrderNum < blocks[j].OrderNum
		}
		return s.seq[blocks[i].Id] < s.seq[blocks[j].Id]
	})

	return blocks
}

func (s *MemStore) ListBlocks(ctx context.Context, projectId string) ([]*ContextBlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.listBlocksLocked(projectId), nil
}

func (s *MemStore) getBlockLocked(projectId, blockId string) (*ContextBlock, bool) {
	block, ok := s.blocks[blockId]
	if !ok || block.ProjectId != projectId {
		return nil, false
	}
	return block, true
}

func (s *MemStore) GetBlock(ctx context.Context, projectId, blockId string) (*ContextBlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	block, ok := s.getBlockLocked(projectId, blockId)
	if !ok {
		return nil, ErrNotFound
	}

	copied := *block
	return &copied, nil
}

func (s *MemStore) UpdateBlock(ctx context.Context, projectId, blockId, title string, content types.BlockContent, blockType types.BlockType) (*ContextBlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	block, ok := s.getBlockLocked(projectId, blockId)
	if !ok {
		return nil, ErrNotFound
	}

	block.Title = title
	block.Content = content
	block.Type = string(blockType)
	block.PendingContent = types.NullBlockContent{}
	block.UpdatedAt = time.Now().UTC()

	copied := *block
	return &copied, nil
}

func (s *MemStore) DeleteBlock(ctx context.Context, projectId, blockId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.getBlockLocked(projectId, blockId); !ok {
		return ErrNotFound
	}

	delete(s.blocks, blockId)
	return nil
}

func (s *MemStore) ReorderBlocks(ctx context.Context, projectId string, orderedBlockIds []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate all ids up front so a bad id leaves every order untouched,
	// matching the SQL store's rollback.
	for _, blockId := range orderedBlockIds {
		if _, ok := s.getBlockLocked(projectId, blockId); !ok {
			return ErrNotFound
		}
	}

	now := time.Now().UTC()
	for i, blockId := range orderedBlockIds {
		block := s.blocks[blockId]
		block.OrderNum = i
		block.UpdatedAt = now
	}

	return nil
}

func (s *MemStore) StagePendingContent(ctx context.Context, projectId, blockId string, newContent types.BlockContent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	block, ok := s.getBlockLocked(projectId, blockId)
	if !ok {
		return ErrNotFound
	}

	block.PendingContent = types.NullBlockContent{Content: newContent, Valid: true}
	block.UpdatedAt = time.Now().UTC()

	return nil
}

func (s *MemStore) SetBlockContent(ctx context.Context, projectId, blockId string, content types.BlockContent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	block, ok := s.getBlockLocked(projectId, blockId)
	if !ok {
		return ErrNotFound
	}

	block.Content = content
	block.UpdatedAt = time.Now().UTC()

	return nil
}

func (s *MemStore) appendMessageLocked(projectId, role string, content *string, contextUpdate types.ContextUpdates) *ChatMessage {
	msg := &ChatMessage{
		Id:            uuid.New().String(),
		ProjectId:     projectId,
		Role:          role,
		ContextUpdate: contextUpdate,
		CreatedAt:     time.Now().UTC(),
	}
	if content != nil {
		msg.Content = sql.NullString{String: *content, Valid: true}
	}
	s.messages[msg.Id] = msg
	s.record(msg.Id)
	return msg
}

func (s *MemStore) AppendChatMessage(ctx context.Context, projectId, role string, content *string, contextUpdate types.ContextUpdates) (*ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.appendMessageLocked(projectId, role, content, contextUpdate)
	copied := *msg
	return &copied, nil
}

func (s *MemStore) ListChatMessages(ctx context.Context, projectId string) ([]*ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var messages []*ChatMessage
	for _, msg := range s.messages {
		if msg.ProjectId == projectId {
			copied := *msg
			messages = append(messages, &copied)
		}
	}

	sort.Slice(messages, func(i, j int) bool {
		return s.seq[messages[i].Id] < s.seq[messages[j].Id]
	})

	return messages, nil
}

func (s *MemStore) ClearChatHistory(ctx context.Context, projectId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, msg := range s.messages {
		if msg.ProjectId == projectId {
			delete(s.messages, id)
		}
	}

	return nil
}

func (s *MemStore) AppendChatExchange(ctx context.Context, projectId, userContent string, assistantContent *string, contextUpdate types.ContextUpdates, staged []StagedUpdate) (*ChatMessage, *ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userMsg := s.appendMessageLocked(projectId, "user", &userContent, nil)
	assistantMsg := s.appendMessageLocked(projectId, "assistant", assistantContent, contextUpdate)

	now := time.Now().UTC()
	for _, update := range staged {
		block, ok := s.getBlockLocked(projectId, update.BlockId)
		if !ok {
			continue
		}
		block.PendingContent = types.NullBlockContent{Content: update.Content, Valid: true}
		block.UpdatedAt = now
	}

	userCopied := *userMsg
	assistantCopied := *assistantMsg
	return &userCopied, &assistantCopied, nil
}
