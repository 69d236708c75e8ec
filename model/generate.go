package model

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/max-moss-dev/siso/db"
	"github.com/max-moss-dev/siso/model/prompts"
	"github.com/max-moss-dev/siso/types"
)

// HistoryContextLimit is how many trailing chat messages feed the
// generate prompt.
const HistoryContextLimit = 10

// GenerateContent asks the model for new content for one block, using the
// project's other blocks and recent chat history as context, and commits
// the result directly to the block's content. Unlike the chat-triggered
// update path, nothing is staged -- generate is an explicit user action on
// one block.
func GenerateContent(ctx context.Context, store db.Store, client Completer, projectId, blockId string) (types.BlockContent, error) {
	block, err := store.GetBlock(ctx, projectId, blockId)
	if err != nil {
		return types.BlockContent{}, err
	}

	blocks, err := store.ListBlocks(ctx, projectId)
	if err != nil {
		return types.BlockContent{}, err
	}

	var siblings []*db.ContextBlock
	for _, sibling := range blocks {
		if sibling.Id != blockId {
			siblings = append(siblings, sibling)
		}
	}

	history, err := store.ListChatMessages(ctx, projectId)
	if err != nil {
		return types.BlockContent{}, err
	}
	if len(history) > HistoryContextLimit {
		history = history[len(history)-HistoryContextLimit:]
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: prompts.GetGenerateSysPrompt(block.Title, block.Type, block.Content.String(), AssembleContext(siblings)),
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
		Content: prompts.GetGenerateUserPrompt(block.Title),
	})

	isList := types.BlockType(block.Type) == types.BlockTypeList

	resp, err := createChatCompletion(ctx, client, openai.ChatCompletionRequest{
		Model:        ModelName(),
		Messages:     messages,
		Functions:    []openai.FunctionDefinition{prompts.GenerateContentFn(isList)},
		FunctionCall: openai.FunctionCall{Name: prompts.GenerateContentFnName},
	})

	if err != nil {
		return types.BlockContent{}, err
	}

	content, err := parseGeneratedContent(resp.Choices[0].Message, isList)
	if err != nil {
		return types.BlockContent{}, err
	}

	err = store.SetBlockContent(ctx, projectId, blockId, content)
	if err != nil {
		return types.BlockContent{}, err
	}

	return content, nil
}

func parseGeneratedContent(msg openai.ChatCompletionMessage, isList bool) (types.BlockContent, error) {
	if msg.FunctionCall == nil {
		// The model answered in plain text despite the forced function
		// call. Usable anyway: list blocks split on newlines.
		if isList {
			return types.NewListContent(splitLines(msg.Content)), nil
		}
		return types.NewStringContent(msg.Content), nil
	}

	if isList {
		var args struct {
			Items []string `json:"items"`
		}
		if err := json.Unmarshal([]byte(msg.FunctionCall.Arguments), &args); err != nil {
			return types.BlockContent{}, fmt.Errorf("%w: error parsing generated items: %v", ErrUpstream, err)
		}
		return types.NewListContent(args.Items), nil
	}

	var args struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(msg.FunctionCall.Arguments), &args); err != nil {
		return types.BlockContent{}, fmt.Errorf("%w: error parsing generated content: %v", ErrUpstream, err)
	}
	return types.NewStringContent(args.Content), nil
}

// FixContent is a stateless single-turn correction. It never touches the
// store, whatever project or block the request mentioned.
func FixContent(ctx context.Context, client Completer, content string) (string, error) {
	resp, err := createChatCompletion(ctx, client, openai.ChatCompletionRequest{
		Model: ModelName(),
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: prompts.SysFix,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: content,
			},
		},
	})

	if err != nil {
		return "", err
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
