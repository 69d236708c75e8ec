package prompts

import (
	"fmt"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

const SysGenerate = `You are an AI assistant that generates or improves the content of a single context block. Provide concise, relevant, factual content with no conversational elements.

Guidelines:
1. Generate content for the named block only, in the block's declared format.
2. If the current content is empty, generate appropriate content from the block's title. If it exists, improve it.
3. Keep the content self-contained, factual, and consistent with the other context blocks.
4. No greetings, no offers to help, no references to this conversation.`

var GenerateContentFnName = "generateContent"

// GenerateContentFn returns the function definition for the block's
// declared type: plain string content or a list of items.
func GenerateContentFn(isList bool) openai.FunctionDefinition {
	var params jsonschema.Definition

	if isList {
		params = jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"items": {
					Type:        jsonschema.Array,
					Description: "The generated list items, in order.",
					Items: &jsonschema.Definition{
						Type: jsonschema.String,
					},
				},
			},
			Required: []string{"items"},
		}
	} else {
		params = jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"content": {
					Type:        jsonschema.String,
					Description: "The generated content for the block.",
				},
			},
			Required: []string{"content"},
		}
	}

	return openai.FunctionDefinition{
		Name:        GenerateContentFnName,
		Description: "Generate or improve content for a context block",
		Parameters:  &params,
	}
}

func GetGenerateSysPrompt(title, blockType, currentContent, siblingsSection string) string {
	prompt := SysGenerate + fmt.Sprintf("\n\nBlock title: %s\nBlock type: %s\nCurrent content:\n%s", title, blockType, currentContent)

	if siblingsSection != "" {
		prompt += "\n\nOther context blocks:\n\n" + siblingsSection
	}

	return prompt
}

func GetGenerateUserPrompt(title string) string {
	return fmt.Sprintf("Generate or improve the content for the context block named '%s' using the '%s' function. Only call the '%s' function in your response. Don't call any other function.", title, GenerateContentFnName, GenerateContentFnName)
}
