package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name: "Facilitator",
		// Used by facilitators to know what they can expected from the expert
		Description: ``,
		ModelName:   model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user holds a few stock positions, and is here primarily to understand their value,
			their profit and loss, and the news that moves them.

			Devise a plan of questions to ask to each experts and come up with the best reponse to the user's request.

			The user will assume that you know about their symbols, ask the Accountant first to learn what they are.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

func NewTrader() *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader,
		Very well aware of the stock markets and the listed companies,
		about the latest news about them.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a expert in Trading, you can search and find about anything related to
			listed companies, markets and their tickers. You Leverage Google Search to
			ground your assertions in a solid truth.
			You can get the latests news too, and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// ReportFunc values the user's holdings at current prices.
type ReportFunc func(ctx context.Context) (*holdings.Report, error)

// NewAccountant creates the expert in charge of the user's holdings, it reads
// them through 'report'.
func NewAccountant(report ReportFunc) *Expert {
	lib := []Function{PortfolioReport(report)}

	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. He is in charge of the user's holdings.
		He knows the positions (symbol, shares, cost basis), their current value and the profit and loss.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an accountant in charge of the user's holdings.
				You know how to use the Tools to extract relevant information about the user's positions.
				You are part of a team of experts, yours is everything about the user's holdings. They might ask
				you questions about the user's portfolio, pardon their approximative language and figure out what they meant.

				The cost basis is the average price paid per share. When a symbol is bought several times
				the method used to average the prices is part of the report.

				Some quotes might be unavailable, their positions are then left out of the totals, say so.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

const portfolioReport = "portfolio_report"

// PortfolioReport returns the function that values the holdings with 'report'.
func PortfolioReport(report ReportFunc) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: portfolioReport,
			Description: `portfolio_report values every position at the latest market price.

			For each symbol it details the shares, the cost basis, the investment, the current price and value,
			the profit and loss in amount and percent. Totals only include the positions with a price.
			`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"format": {
						Type:        genai.TypeString,
						Description: "Either 'json' (default) or 'markdown'.",
						Enum:        []string{"json", "markdown"},
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The valuation report.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			format, err := stringArg(args, "format", "json")
			if err != nil {
				return errorResponse(id, portfolioReport, err)
			}
			r, err := report(ctx)
			if err != nil {
				return errorResponse(id, portfolioReport, fmt.Errorf("could not value the portfolio: %w", err))
			}
			switch format {
			case "markdown":
				return outputResponse(id, portfolioReport, renderer.ReportMarkdown(r))
			case "json":
				data, err := json.Marshal(r)
				if err != nil {
					return errorResponse(id, portfolioReport, err)
				}
				return outputResponse(id, portfolioReport, string(data))
			default:
				return errorResponse(id, portfolioReport, fmt.Errorf("unknown format %q, use 'json' or 'markdown'", format))
			}
		},
	}
}

// stringArg returns the string argument 'name', or 'def' if it is missing.
func stringArg(args map[string]any, name, def string) (string, error) {
	v, ok := args[name]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return def, fmt.Errorf("argument %q is not a string as expected but %T", name, v)
	}
	if s == "" {
		return def, nil
	}
	return s, nil
}
