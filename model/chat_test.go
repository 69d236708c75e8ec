package model

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/max-moss-dev/siso/db"
	"github.com/max-moss-dev/siso/model/prompts"
	"github.com/max-moss-dev/siso/types"
)

type stubCompleter struct {
	resp openai.ChatCompletionResponse
	err  error
	reqs []openai.ChatCompletionRequest
}

func (s *stubCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.reqs = append(s.reqs, req)
	return s.resp, s.err
}

func plainResponse(text string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: text}},
		},
	}
}

func functionResponse(name, args string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{
				FinishReason: "function_call",
				Message: openai.ChatCompletionMessage{
					Role:         openai.ChatMessageRoleAssistant,
					FunctionCall: &openai.FunctionCall{Name: name, Arguments: args},
				},
			},
		},
	}
}

func setupChatProject(t *testing.T) (*db.MemStore, string, *db.ContextBlock) {
	t.Helper()
	store := db.NewMemStore()

	project, err := store.CreateProject(context.Background(), "P1")
	require.NoError(t, err)

	block, err := store.CreateBlock(context.Background(), project.Id, "Goals", types.NewStringContent("ship it"), types.BlockTypeString)
	require.NoError(t, err)

	return store, project.Id, block
}

func TestChatPlainReply(t *testing.T) {
	ctx := context.Background()
	store, projectId, _ := setupChatProject(t)
	client := &stubCompleter{resp: plainResponse("hello there")}

	resp, err := Chat(ctx, store, client, projectId, "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello there", resp.Response)
	assert.Empty(t, resp.ContextUpdates)

	messages, err := store.ListChatMessages(ctx, projectId)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].Role)
	assert.Equal(t, "hi", messages[0].Content.String)
	assert.Equal(t, "assistant", messages[1].Role)
	assert.Equal(t, "hello there", messages[1].Content.String)

	// system message carries the assembled context, history, then the user message
	require.Len(t, client.reqs, 1)
	sysMsg := client.reqs[0].Messages[0]
	assert.Equal(t, openai.ChatMessageRoleSystem, sysMsg.Role)
	assert.Contains(t, sysMsg.Content, "Goals: ship it")
	last := client.reqs[0].Messages[len(client.reqs[0].Messages)-1]
	assert.Equal(t, openai.ChatMessageRoleUser, last.Role)
	assert.Equal(t, "hi", last.Content)
}

func TestChatStructuredReplyStagesUpdates(t *testing.T) {
	ctx := context.Background()
	store, projectId, block := setupChatProject(t)

	args := `{"response": "updated your goals", "context_updates": [{"block_id": "` + block.Id + `", "new_content": "ship it tomorrow"}, {"block_id": "no-such-block", "new_content": "ignored"}]}`
	client := &stubCompleter{resp: functionResponse(prompts.UpdateContextBlocksFnName, args)}

	resp, err := Chat(ctx, store, client, projectId, "update my goals")
	require.NoError(t, err)
	assert.Equal(t, "updated your goals", resp.Response)

	// unknown block id is dropped, not an error
	require.Len(t, resp.ContextUpdates, 1)
	assert.Equal(t, block.Id, resp.ContextUpdates[0].BlockId)
	assert.Equal(t, "Goals", resp.ContextUpdates[0].BlockTitle)
	assert.Equal(t, "ship it tomorrow", resp.ContextUpdates[0].NewContent)

	got, err := store.GetBlock(ctx, projectId, block.Id)
	require.NoError(t, err)
	require.True(t, got.PendingContent.Valid)
	assert.Equal(t, "ship it tomorrow", got.PendingContent.Content.Text)
	assert.Equal(t, "ship it", got.Content.Text, "live content stays until the user accepts")

	messages, err := store.ListChatMessages(ctx, projectId)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, resp.ContextUpdates, messages[1].ContextUpdate)
}

func TestChatStructuredReplyListBlock(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemStore()

	project, err := store.CreateProject(ctx, "P1")
	require.NoError(t, err)
	block, err := store.CreateBlock(ctx, project.Id, "Todo", types.NewListContent([]string{"old"}), types.BlockTypeList)
	require.NoError(t, err)

	args := `{"response": "ok", "context_updates": [{"block_id": "` + block.Id + `", "new_content": "first\nsecond\n"}]}`
	client := &stubCompleter{resp: functionResponse(prompts.UpdateContextBlocksFnName, args)}

	_, err = Chat(ctx, store, client, project.Id, "update todo")
	require.NoError(t, err)

	got, err := store.GetBlock(ctx, project.Id, block.Id)
	require.NoError(t, err)
	require.True(t, got.PendingContent.Valid)
	assert.True(t, got.PendingContent.Content.IsList)
	assert.Equal(t, []string{"first", "second"}, got.PendingContent.Content.Items)
}

func TestChatEmptyProject(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemStore()

	project, err := store.CreateProject(ctx, "Empty")
	require.NoError(t, err)

	client := &stubCompleter{resp: plainResponse("just chatting")}

	resp, err := Chat(ctx, store, client, project.Id, "hi")
	require.NoError(t, err)
	assert.Equal(t, "just chatting", resp.Response)

	sysMsg := client.reqs[0].Messages[0]
	assert.Contains(t, sysMsg.Content, prompts.EmptyContextMsg)
}

func TestChatProjectNotFound(t *testing.T) {
	store := db.NewMemStore()
	client := &stubCompleter{resp: plainResponse("never called")}

	_, err := Chat(context.Background(), store, client, "no-such-project", "hi")
	assert.ErrorIs(t, err, db.ErrNotFound)
	assert.Empty(t, client.reqs, "request must never reach the model")
}

func TestChatUpstreamErrorWritesNothing(t *testing.T) {
	ctx := context.Background()
	store, projectId, _ := setupChatProject(t)
	client := &stubCompleter{err: errors.New("connection refused")}

	_, err := Chat(ctx, store, client, projectId, "hi")
	assert.ErrorIs(t, err, ErrUpstream)

	messages, err := store.ListChatMessages(ctx, projectId)
	require.NoError(t, err)
	assert.Empty(t, messages, "no partial history write on model failure")
}

func TestChatMalformedFunctionArgs(t *testing.T) {
	ctx := context.Background()
	store, projectId, _ := setupChatProject(t)
	client := &stubCompleter{resp: functionResponse(prompts.UpdateContextBlocksFnName, `{not json`)}

	_, err := Chat(ctx, store, client, projectId, "hi")
	assert.ErrorIs(t, err, ErrUpstream)

	messages, err := store.ListChatMessages(ctx, projectId)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestChatHistoryInOrder(t *testing.T) {
	ctx := context.Background()
	store, projectId, _ := setupChatProject(t)

	first := "first answer"
	_, _, err := store.AppendChatExchange(ctx, projectId, "first question", &first, nil, nil)
	require.NoError(t, err)

	client := &stubCompleter{resp: plainResponse("second answer")}

	_, err = Chat(ctx, store, client, projectId, "second question")
	require.NoError(t, err)

	var contents []string
	for _, msg := range client.reqs[0].Messages[1:] {
		contents = append(contents, msg.Content)
	}
	assert.Equal(t, []string{"first question", "first answer", "second question"}, contents)
}

func TestAssembleContext(t *testing.T) {
	blocks := []*db.ContextBlock{
		{Id: "1", Title: "A", Content: types.NewStringContent("alpha"), Type: "string"},
		{Id: "2", Title: "B", Content: types.NewListContent([]string{"one", "two"}), Type: "list"},
	}

	assembled := AssembleContext(blocks)
	assert.Equal(t, "A: alpha\n\nB: one\ntwo", assembled)

	assert.Equal(t, "", AssembleContext(nil))

	legend := blockIdLegend(blocks)
	assert.True(t, strings.HasPrefix(legend, "1: A"))
}
