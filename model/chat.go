package model

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/max-moss-dev/siso/db"
	"github.com/max-moss-dev/siso/model/prompts"
	"github.com/max-moss-dev/siso/types"
)

// Reply is the model's decoded output for a chat turn. Exactly one of the
// two variants comes back from parseReply, so nothing downstream branches
// on raw payloads.
type Reply interface {
	isReply()
}

// PlainReply is a free-text answer.
type PlainReply struct {
	Text string
}

// StructuredReply carries the answer plus proposed context block edits.
type StructuredReply struct {
	Text    string
	Updates []ProposedUpdate
}

type ProposedUpdate struct {
	BlockId    string `json:"block_id"`
	NewContent string `json:"new_content"`
}

func (PlainReply) isReply()      {}
func (StructuredReply) isReply() {}

// AssembleContext formats the project's blocks, in display order, as the
// context segment of the system prompt. An empty block set yields an empty
// segment.
func AssembleContext(blocks []*db.ContextBlock) string {
	var sections []string
	for _, block := range blocks {
		sections = append(sections, fmt.Sprintf("%s: %s", block.Title, block.Content.String()))
	}
	return strings.Join(sections, "\n\n")
}

// blockIdLegend lists block ids alongside titles so the model can
// reference blocks in updateContextBlocks calls.
func blockIdLegend(blocks []*db.ContextBlock) string {
	var lines []string
	for _, block := range blocks {
		lines = append(lines, fmt.Sprintf("%s: %s", block.Id, block.Title))
	}
	return strings.Join(lines, "\n")
}

// Chat runs one conversation turn: assemble context, send history plus the
// new user message to the model, decode the reply, stage any proposed
// block updates, and persist both messages. The two history writes and the
// staging are one unit of work -- on any failure nothing is committed and
// no response is returned.
func Chat(ctx context.Context, store db.Store, client Completer, projectId, message string) (*types.ChatResponse, error) {
	_, err := store.GetProject(ctx, projectId)
	if err != nil {
		return nil, err
	}

	blocks, err := store.ListBlocks(ctx, projectId)
	if err != nil {
		return nil, err
	}

	history, err := store.ListChatMessages(ctx, projectId)
	if err != nil {
		return nil, err
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: prompts.GetChatSysPrompt(AssembleContext(blocks), blockIdLegend(blocks)),
		},
	}

	for _, msg := range history {
		content := ""
		if msg.Content.Valid {
			content = msg.Content.String
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: content,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	resp, err := createChatCompletion(ctx, client, openai.ChatCompletionRequest{
		Model:     ModelName(),
		Messages:  messages,
		Functions: []openai.FunctionDefinition{prompts.UpdateContextBlocksFn},
	})

	if err != nil {
		return nil, err
	}

	reply, err := parseReply(resp.Choices[0].Message)
	if err != nil {
		return nil, err
	}

	var replyText string
	var contextUpdates types.ContextUpdates
	var staged []db.StagedUpdate

	switch r := reply.(type) {
	case PlainReply:
		replyText = r.Text
	case StructuredReply:
		replyText = r.Text

		blocksById := make(map[string]*db.ContextBlock, len(blocks))
		for _, block := range blocks {
			blocksById[block.Id] = block
		}

		for _, update := range r.Updates {
			block, ok := blocksById[update.BlockId]
			if !ok {
				log.Printf("dropping context update for unknown block id %s\n", update.BlockId)
				continue
			}

			contextUpdates = append(contextUpdates, types.ContextUpdate{
				BlockId:    block.Id,
				BlockTitle: block.Title,
				NewContent: update.NewContent,
			})
			staged = append(staged, db.StagedUpdate{
				BlockId: block.Id,
				Content: contentForBlockType(types.BlockType(block.Type), update.NewContent),
			})
		}
	}

	var assistantContent *string
	if replyText != "" {
		assistantContent = &replyText
	}

	_, _, err = store.AppendChatExchange(ctx, projectId, message, assistantContent, contextUpdates, staged)
	if err != nil {
		return nil, err
	}

	return &types.ChatResponse{
		Response:       replyText,
		ContextUpdates: contextUpdates,
	}, nil
}

// parseReply decodes the raw completion message once, at the boundary.
// Malformed function-call arguments are an upstream failure, not a panic.
func parseReply(msg openai.ChatCompletionMessage) (Reply, error) {
	if msg.FunctionCall == nil {
		return PlainReply{Text: msg.Content}, nil
	}

	if msg.FunctionCall.Name != prompts.UpdateContextBlocksFnName {
		return nil, fmt.Errorf("%w: unexpected function call %q", ErrUpstream, msg.FunctionCall.Name)
	}

	var args struct {
		Response       string           `json:"response"`
		ContextUpdates []ProposedUpdate `json:"context_updates"`
	}
	if err := json.Unmarshal([]byte(msg.FunctionCall.Arguments), &args); err != nil {
		return nil, fmt.Errorf("%w: error parsing function call arguments: %v", ErrUpstream, err)
	}

	return StructuredReply{Text: args.Response, Updates: args.ContextUpdates}, nil
}

// contentForBlockType types a model-proposed string for the target block.
// List blocks get the text split into one item per non-empty line.
func contentForBlockType(blockType types.BlockType, text string) types.BlockContent {
	if blockType == types.BlockTypeList {
		return types.NewListContent(splitLines(text))
	}
	return types.NewStringContent(text)
}

func splitLines(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}
