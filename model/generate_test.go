package model

import (
	"context"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/max-moss-dev/siso/db"
	"github.com/max-moss-dev/siso/model/prompts"
	"github.com/max-moss-dev/siso/types"
)

func TestGenerateContentStringBlock(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemStore()

	project, err := store.CreateProject(ctx, "P1")
	require.NoError(t, err)
	block, err := store.CreateBlock(ctx, project.Id, "Summary", types.NewStringContent(""), types.BlockTypeString)
	require.NoError(t, err)
	_, err = store.CreateBlock(ctx, project.Id, "Background", types.NewStringContent("some facts"), types.BlockTypeString)
	require.NoError(t, err)

	client := &stubCompleter{resp: functionResponse(prompts.GenerateContentFnName, `{"content": "a fresh summary"}`)}

	content, err := GenerateContent(ctx, store, client, project.Id, block.Id)
	require.NoError(t, err)
	assert.Equal(t, "a fresh summary", content.Text)

	// committed directly, not staged
	got, err := store.GetBlock(ctx, project.Id, block.Id)
	require.NoError(t, err)
	assert.Equal(t, "a fresh summary", got.Content.Text)
	assert.False(t, got.PendingContent.Valid)

	// sibling blocks feed the prompt, the target doesn't repeat among them
	sysMsg := client.reqs[0].Messages[0].Content
	assert.Contains(t, sysMsg, "Background: some facts")
	assert.Contains(t, sysMsg, "Block title: Summary")
}

func TestGenerateContentListBlock(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemStore()

	project, err := store.CreateProject(ctx, "P1")
	require.NoError(t, err)
	block, err := store.CreateBlock(ctx, project.Id, "Todo", types.NewListContent(nil), types.BlockTypeList)
	require.NoError(t, err)

	client := &stubCompleter{resp: functionResponse(prompts.GenerateContentFnName, `{"items": ["buy milk", "walk dog"]}`)}

	content, err := GenerateContent(ctx, store, client, project.Id, block.Id)
	require.NoError(t, err)
	assert.Equal(t, []string{"buy milk", "walk dog"}, content.Items)

	got, err := store.GetBlock(ctx, project.Id, block.Id)
	require.NoError(t, err)
	assert.Equal(t, []string{"buy milk", "walk dog"}, got.Content.Items)
}

func TestGenerateContentPlainTextFallback(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemStore()

	project, err := store.CreateProject(ctx, "P1")
	require.NoError(t, err)
	block, err := store.CreateBlock(ctx, project.Id, "Todo", types.NewListContent(nil), types.BlockTypeList)
	require.NoError(t, err)

	// model ignored the forced function call; list responses split on newlines
	client := &stubCompleter{resp: plainResponse("buy milk\nwalk dog\n")}

	content, err := GenerateContent(ctx, store, client, project.Id, block.Id)
	require.NoError(t, err)
	assert.Equal(t, []string{"buy milk", "walk dog"}, content.Items)
}

func TestGenerateContentHistoryLimit(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemStore()

	project, err := store.CreateProject(ctx, "P1")
	require.NoError(t, err)
	block, err := store.CreateBlock(ctx, project.Id, "Summary", types.NewStringContent(""), types.BlockTypeString)
	require.NoError(t, err)

	for i := 0; i < 15; i++ {
		content := "message"
		_, err := store.AppendChatMessage(ctx, project.Id, "user", &content, nil)
		require.NoError(t, err)
	}

	client := &stubCompleter{resp: functionResponse(prompts.GenerateContentFnName, `{"content": "x"}`)}

	_, err = GenerateContent(ctx, store, client, project.Id, block.Id)
	require.NoError(t, err)

	// system + last 10 history messages + generate instruction
	assert.Len(t, client.reqs[0].Messages, 1+HistoryContextLimit+1)
}

func TestGenerateContentBlockNotFound(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemStore()

	project, err := store.CreateProject(ctx, "P1")
	require.NoError(t, err)

	client := &stubCompleter{}

	_, err = GenerateContent(ctx, store, client, project.Id, "no-such-block")
	assert.ErrorIs(t, err, db.ErrNotFound)
	assert.Empty(t, client.reqs)
}

func TestFixContent(t *testing.T) {
	client := &stubCompleter{resp: plainResponse("This is a test.\n")}

	fixed, err := FixContent(context.Background(), client, "Ths is a tset.")
	require.NoError(t, err)
	assert.Equal(t, "This is a test.", fixed)

	req := client.reqs[0]
	assert.Equal(t, prompts.SysFix, req.Messages[0].Content)
	assert.Equal(t, "Ths is a tset.", req.Messages[1].Content)
	assert.Empty(t, req.Functions, "fix is a plain single-turn call")
}

func TestGenerateContentFnSchema(t *testing.T) {
	stringFn := prompts.GenerateContentFn(false)
	assert.Equal(t, prompts.GenerateContentFnName, stringFn.Name)

	listFn := prompts.GenerateContentFn(true)
	assert.Equal(t, prompts.GenerateContentFnName, listFn.Name)
	assert.NotEqual(t, stringFn.Parameters, listFn.Parameters)
}

var _ Completer = (*openai.Client)(nil)
