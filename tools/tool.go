// Package tools wraps x402 Bazaar endpoints as agent-framework tools.
//
// Each tool binds one endpoint and one query-parameter name to a shared
// bazaar.Client, so all tools draw from the same spending budget. The tools
// satisfy the LangChain tool interface and can also be served over MCP.
package tools

import (
	"context"
	"fmt"

	lctools "github.com/tmc/langchaingo/tools"

	bazaar "github.com/vitwit/x402-bazaar"
)

var _ lctools.Tool = (*BazaarTool)(nil)

// BazaarTool calls a single marketplace endpoint with automatic USDC payment.
type BazaarTool struct {
	name        string
	description string
	endpoint    string
	paramName   string
	client      *bazaar.Client
}

// New creates a tool binding endpoint+paramName to client.
func New(client *bazaar.Client, name, description, endpoint, paramName string) *BazaarTool {
	return &BazaarTool{
		name:        name,
		description: description,
		endpoint:    endpoint,
		paramName:   paramName,
		client:      client,
	}
}

// Name implements the LangChain tool interface.
func (t *BazaarTool) Name() string {
	return t.name
}

// Description implements the LangChain tool interface.
func (t *BazaarTool) Description() string {
	return t.description
}

// Call invokes the bound endpoint with input as the query value. Failures are
// reported in the tool output rather than as an error, so the agent can read
// them and adjust instead of aborting the run.
func (t *BazaarTool) Call(ctx context.Context, input string) (string, error) {
	result, err := t.client.CallAPI(ctx, t.endpoint, map[string]string{t.paramName: input})
	if err != nil {
		return fmt.Sprintf("error calling x402 Bazaar (%s): %v", t.endpoint, err), nil
	}
	return string(result), nil
}

// Endpoint returns the bound marketplace path.
func (t *BazaarTool) Endpoint() string {
	return t.endpoint
}

// Pre-configured tools for the marketplace's built-in services.

// SearchMarketplace searches the marketplace service index. Free.
func SearchMarketplace(client *bazaar.Client) *BazaarTool {
	return New(client,
		"x402_search_marketplace",
		"Search the x402 Bazaar marketplace for API services. " +
			"Input is a search query. Returns matching services with " +
			"name, description, price, and endpoint URL.",
		bazaar.PathServices,
		"q",
	)
}

// WebSearch searches the web. Costs 0.001 USDC per query.
func WebSearch(client *bazaar.Client) *BazaarTool {
	return New(client,
		"x402_web_search",
		"Search the web using x402 Bazaar's search API (DuckDuckGo). " +
			"Costs 0.001 USDC per query, paid automatically in USDC. " +
			"Input is the search query. Returns web search results.",
		bazaar.PathSearch,
		"q",
	)
}

// Scrape extracts a webpage as markdown. Costs 0.002 USDC per page.
func Scrape(client *bazaar.Client) *BazaarTool {
	return New(client,
		"x402_scrape",
		"Scrape a webpage and extract its content as markdown " +
			"using x402 Bazaar's scraper API. Costs 0.002 USDC per page. " +
			"Input is the full URL to scrape (e.g., https://example.com).",
		bazaar.PathScrape,
		"url",
	)
}

// Weather returns current weather data. Costs 0.001 USDC per query.
func Weather(client *bazaar.Client) *BazaarTool {
	return New(client,
		"x402_weather",
		"Get current weather data for a city using x402 Bazaar's " +
			"weather API. Costs 0.001 USDC per query. " +
			"Input is the city name (e.g., 'Paris', 'New York').",
		bazaar.PathWeather,
		"city",
	)
}

// Crypto returns cryptocurrency prices. Costs 0.001 USDC per query.
func Crypto(client *bazaar.Client) *BazaarTool {
	return New(client,
		"x402_crypto",
		"Get current cryptocurrency prices using x402 Bazaar's " +
			"crypto API. Costs 0.001 USDC per query. " +
			"Input is the coin name (e.g., 'bitcoin', 'ethereum', 'solana').",
		bazaar.PathCrypto,
		"coin",
	)
}

// Image generates an image via DALL-E 3. Costs 0.05 USDC per image.
func Image(client *bazaar.Client) *BazaarTool {
	return New(client,
		"x402_image",
		"Generate an image using DALL-E 3 via x402 Bazaar's image API. " +
			"Costs 0.05 USDC per image. " +
			"Input is a text description of the image to generate.",
		bazaar.PathImage,
		"prompt",
	)
}

// All returns every pre-configured tool sharing the given client.
func All(client *bazaar.Client) []lctools.Tool {
	return []lctools.Tool{
		SearchMarketplace(client),
		WebSearch(client),
		Scrape(client),
		Weather(client),
		Crypto(client),
		Image(client),
	}
}
