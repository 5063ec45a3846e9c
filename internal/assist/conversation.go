// Package assist is the AI assistant layer: structured tool definitions
// over the store, a dispatcher that executes tool calls, and an
// interactive REPL speaking to the Anthropic API.
package assist

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/crewdeck/crewdeck/internal/storage"
)

const (
	// AIActor is the actor recorded on mutations the assistant makes
	AIActor = "assistant"
	// MaxConversationIterations prevents infinite tool-use loops
	MaxConversationIterations = 10
)

// Conversation holds one assistant session's state
type Conversation struct {
	client  *anthropic.Client
	model   string
	history []anthropic.MessageParam
	store   storage.Storage
}

// NewConversation creates a conversation backed by the given store.
// Requires ANTHROPIC_API_KEY in the environment.
func NewConversation(store storage.Storage) (*Conversation, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &Conversation{
		client:  &client,
		model:   "claude-sonnet-4-5-20250929",
		history: make([]anthropic.MessageParam, 0),
		store:   store,
	}, nil
}

// SendMessage sends a user message and runs the tool-use loop until the
// model produces a final text response.
func (c *Conversation) SendMessage(ctx context.Context, userMessage string) (string, error) {
	// The first message carries the system context inline
	var fullMessage string
	if len(c.history) == 0 {
		fullMessage = c.systemPrompt() + "\n\n---\n\nUser: " + userMessage
	} else {
		fullMessage = userMessage
	}

	c.history = append(c.history, anthropic.NewUserMessage(
		anthropic.NewTextBlock(fullMessage),
	))

	for iteration := 0; iteration < MaxConversationIterations; iteration++ {
		response, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(c.model),
			MaxTokens: 4096,
			Messages:  c.history,
			Tools:     Tools(),
		})
		if err != nil {
			return "", fmt.Errorf("API call failed: %w", err)
		}

		if response.StopReason == "end_turn" {
			var responseText string
			for _, block := range response.Content {
				if block.Type == "text" {
					responseText += block.Text
				}
			}

			c.history = append(c.history, anthropic.NewAssistantMessage(
				anthropic.NewTextBlock(responseText),
			))
			return responseText, nil
		}

		if response.StopReason == "tool_use" {
			// Keep the assistant's tool-use blocks in history
			c.history = append(c.history, response.ToParam())

			var toolResults []anthropic.ContentBlockParamUnion
			for _, block := range response.Content {
				variant := block.AsAny()
				if toolUse, ok := variant.(anthropic.ToolUseBlock); ok {
					result, err := c.ExecuteTool(ctx, toolUse.Name, toolUse.Input)
					if err != nil {
						toolResults = append(toolResults, anthropic.NewToolResultBlock(toolUse.ID, fmt.Sprintf("Error: %v", err), true))
					} else {
						toolResults = append(toolResults, anthropic.NewToolResultBlock(toolUse.ID, result, false))
					}
				}
			}

			c.history = append(c.history, anthropic.NewUserMessage(toolResults...))
			continue
		}

		return "", fmt.Errorf("unexpected stop reason: %s", response.StopReason)
	}

	return "", fmt.Errorf("conversation exceeded maximum iterations (%d)", MaxConversationIterations)
}

// ClearHistory resets the conversation
func (c *Conversation) ClearHistory() {
	c.history = make([]anthropic.MessageParam, 0)
}
