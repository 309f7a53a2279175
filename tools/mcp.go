package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	bazaar "github.com/vitwit/x402-bazaar"
)

// RegisterMCP registers bazaar tools on an MCP server so agent hosts that
// speak the Model Context Protocol can call paid marketplace endpoints.
func RegisterMCP(s *server.MCPServer, bazaarTools ...*BazaarTool) {
	for _, t := range bazaarTools {
		t := t
		tool := mcp.NewTool(t.Name(),
			mcp.WithDescription(t.Description()),
			mcp.WithString("input",
				mcp.Required(),
				mcp.Description("The query or input for the API endpoint."),
			),
		)

		s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			input, err := req.RequireString("input")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			out, err := t.Call(ctx, input)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText(out), nil
		})
	}
}

// NewMCPServer builds an MCP server exposing all pre-configured tools backed
// by client.
func NewMCPServer(client *bazaar.Client) *server.MCPServer {
	s := server.NewMCPServer("x402-bazaar", bazaar.Version,
		server.WithToolCapabilities(false),
	)

	RegisterMCP(s,
		SearchMarketplace(client),
		WebSearch(client),
		Scrape(client),
		Weather(client),
		Crypto(client),
		Image(client),
	)

	return s
}
