package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/slotdesk/slotdesk/pkg/logging"
)

const systemPrompt = "You are a friendly appointment booking assistant. " +
	"Help the customer pick a slot, then call create_appointment exactly once " +
	"with the resolved name, date and time. Relay the tool result back to the " +
	"customer in one short sentence."

// Assistant drives a Gemini chat session with the booking tool attached.
type Assistant struct {
	client *genai.Client
	model  *genai.GenerativeModel
	tool   *BookingTool
	logger *logging.Logger
}

// New creates an assistant bound to the given Gemini model and booking tool.
func New(ctx context.Context, apiKey, modelID string, tool *BookingTool, logger *logging.Logger) (*Assistant, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("assistant: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.5-flash"
	}
	if logger == nil {
		logger = logging.Default()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("assistant: failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelID)
	model.Tools = []*genai.Tool{tool.Declaration()}
	model.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))

	return &Assistant{client: client, model: model, tool: tool, logger: logger}, nil
}

// Session is one chat conversation with tool-call handling.
type Session struct {
	cs        *genai.ChatSession
	assistant *Assistant
}

// StartSession opens a fresh chat session.
func (a *Assistant) StartSession() *Session {
	return &Session{cs: a.model.StartChat(), assistant: a}
}

// Send delivers one user message and resolves any tool calls the model
// makes before returning its final text reply.
func (s *Session) Send(ctx context.Context, text string) (string, error) {
	resp, err := s.cs.SendMessage(ctx, genai.Text(text))
	if err != nil {
		return "", fmt.Errorf("assistant: send message: %w", err)
	}

	// The model may chain a few tool calls before answering; cap the
	// round trips so a confused model cannot loop forever.
	for round := 0; round < 4; round++ {
		call := findFunctionCall(resp)
		if call == nil {
			break
		}
		s.assistant.logger.Info("tool call requested", "function", call.Name)

		var result string
		if call.Name == CreateAppointmentTool {
			result = s.assistant.tool.Invoke(ctx, call.Args)
		} else {
			result = fmt.Sprintf("Unknown function %q.", call.Name)
		}

		resp, err = s.cs.SendMessage(ctx, genai.FunctionResponse{
			Name:     call.Name,
			Response: map[string]any{"result": result},
		})
		if err != nil {
			return "", fmt.Errorf("assistant: send tool response: %w", err)
		}
	}

	return responseText(resp), nil
}

// Close releases the underlying Gemini client.
func (a *Assistant) Close() error {
	if a.client != nil {
		return a.client.Close()
	}
	return nil
}

func findFunctionCall(resp *genai.GenerateContentResponse) *genai.FunctionCall {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if fc, ok := part.(genai.FunctionCall); ok {
				return &fc
			}
		}
	}
	return nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	return strings.TrimSpace(b.String())
}
