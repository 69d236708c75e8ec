package prompts

import (
	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

const SysChat = "You are an AI assistant for a project workspace. The user maintains a set of named context blocks, listed below in display order. Treat them as authoritative background for the conversation. If the conversation shows that one or more blocks should change, call the 'updateContextBlocks' function with your reply and the proposed new content for each affected block, referencing blocks by their id. Proposed updates are staged for the user to review, not applied immediately. Otherwise answer normally in plain text. Don't call any other function."

const EmptyContextMsg = "No context blocks defined yet. Proceeding with general conversation."

var UpdateContextBlocksFnName = "updateContextBlocks"

var UpdateContextBlocksFn = openai.FunctionDefinition{
	Name:        UpdateContextBlocksFnName,
	Description: "Reply to the user and propose new content for one or more context blocks",
	Parameters: &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"response": {
				Type:        jsonschema.String,
				Description: "The conversational reply to the user.",
			},
			"context_updates": {
				Type:        jsonschema.Array,
				Description: "Proposed edits to context blocks. Include only blocks that should change.",
				Items: &jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"block_id": {
							Type:        jsonschema.String,
							Description: "The id of the block to update, exactly as listed in the context.",
						},
						"new_content": {
							Type:        jsonschema.String,
							Description: "The full replacement content for the block. For list blocks, one item per line.",
						},
					},
					Required: []string{"block_id", "new_content"},
				},
			},
		},
		Required: []string{"response"},
	},
}

func GetChatSysPrompt(contextSection, idLegend string) string {
	if contextSection == "" {
		return SysChat + "\n\n" + EmptyContextMsg
	}
	return SysChat + "\n\nContext blocks:\n\n" + contextSection + "\n\nBlock ids:\n" + idLegend
}
