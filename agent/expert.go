package agent

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// maxCallRounds bounds the function calls an expert can chain before answering.
const maxCallRounds = 8

// Expert is a Gemini chat specialized on one topic, it can call the
// functions of its Library to answer.
//
// Experts are functions themselves: the facilitator asks them questions.
type Expert struct {
	Name        string                       `json:"name"`
	Description string                       `json:"description"`
	ModelName   string                       `json:"model_name"`
	Config      *genai.GenerateContentConfig `json:"config"`
	Library     Library
	Logger      *zap.Logger // nil discards logs
	chat        *genai.Chat
}

// NewExpert returns an expert without model nor library.
func NewExpert(name, description string) *Expert {
	return &Expert{Name: name, Description: description}
}

func (e *Expert) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// Start opens the expert's chat.
func (e *Expert) Start(ctx context.Context, client *genai.Client) error {
	chat, err := client.Chats.Create(ctx, e.ModelName, e.Config, nil)
	if err != nil {
		return fmt.Errorf("starting expert %s: %w", e.Name, err)
	}
	e.chat = chat
	return nil
}

var errNoAnswer = errors.New("empty answer")

// Ask sends parts to the expert and returns its answer, serving the
// function calls it makes on the way.
func (e *Expert) Ask(ctx context.Context, parts ...*genai.Part) (*genai.Content, error) {
	if e.chat == nil {
		return nil, fmt.Errorf("expert %s is not started", e.Name)
	}
	for range maxCallRounds {
		resp, err := e.chat.Send(ctx, parts...)
		if err != nil {
			return nil, fmt.Errorf("asking %s: %w", e.Name, err)
		}
		content, err := answer(resp)
		if err != nil {
			return nil, fmt.Errorf("asking %s: %w", e.Name, err)
		}
		call := content.Parts[0].FunctionCall
		if call == nil {
			return content, nil
		}
		if e.Library == nil {
			return nil, fmt.Errorf("expert %s cannot call %s: no library", e.Name, call.Name)
		}
		e.logger().Debug("function call", zap.String("expert", e.Name), zap.String("function", call.Name))
		parts = []*genai.Part{{FunctionResponse: e.Library(ctx, call)}}
	}
	return nil, fmt.Errorf("expert %s made more than %d function calls", e.Name, maxCallRounds)
}

// answer returns the first candidate's content.
func answer(resp *genai.GenerateContentResponse) (*genai.Content, error) {
	if len(resp.Candidates) == 0 {
		return nil, errNoAnswer
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return nil, errNoAnswer
	}
	return content, nil
}

// Declaration declares the expert as a function taking a question.
func (e *Expert) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        e.Name,
		Description: e.Description,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				questionArg: {Type: genai.TypeString, Description: "The question to ask the expert."},
			},
			Required: []string{questionArg},
		},
		Response: &genai.Schema{Type: genai.TypeString, Description: "The expert's answer."},
	}
}

const questionArg = "question"

// Call asks the question found in args.
func (e *Expert) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	question, err := stringArg(args, questionArg, "")
	if err != nil {
		return errorResponse(id, e.Name, err)
	}
	if question == "" {
		return errorResponse(id, e.Name, fmt.Errorf("argument %q is required", questionArg))
	}

	content, err := e.Ask(ctx, &genai.Part{Text: question})
	if err != nil {
		return errorResponse(id, e.Name, err)
	}
	text := content.Parts[0].Text
	e.logger().Debug("expert answered", zap.String("expert", e.Name), zap.String("question", question), zap.String("answer", text))
	return outputResponse(id, e.Name, text)
}
