package bazaar

import (
	"context"
	"encoding/json"

	"github.com/vitwit/x402-bazaar/types"
)

// Marketplace API paths.
const (
	PathServices = "/api/services"
	PathSearch   = "/api/search"
	PathScrape   = "/api/scrape"
	PathWeather  = "/api/weather"
	PathCrypto   = "/api/crypto"
	PathImage    = "/api/image"
)

// ListServices returns all services registered on the marketplace. Free.
func (c *Client) ListServices(ctx context.Context) ([]types.ServiceListing, error) {
	raw, err := c.Get(ctx, PathServices, nil)
	if err != nil {
		return nil, err
	}
	return types.DecodeServiceList(raw)
}

// SearchServices returns marketplace services matching query. Free.
func (c *Client) SearchServices(ctx context.Context, query string) ([]types.ServiceListing, error) {
	raw, err := c.Get(ctx, PathServices, map[string]string{"q": query})
	if err != nil {
		return nil, err
	}
	return types.DecodeServiceList(raw)
}

// Info returns marketplace health and stats from the root endpoint.
func (c *Client) Info(ctx context.Context) (*types.MarketplaceInfo, error) {
	raw, err := c.Get(ctx, "/", nil)
	if err != nil {
		return nil, err
	}

	var info types.MarketplaceInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, &types.BazaarError{
			Code:    types.ErrAPIError,
			Message: "unexpected marketplace info shape: " + err.Error(),
		}
	}
	return &info, nil
}

// CallAPI calls an arbitrary marketplace endpoint with query parameters,
// handling the 402 payment flow automatically.
func (c *Client) CallAPI(ctx context.Context, path string, params map[string]string) (json.RawMessage, error) {
	return c.Get(ctx, path, params)
}

// WebSearch runs a web search. Paid.
func (c *Client) WebSearch(ctx context.Context, query string) (json.RawMessage, error) {
	return c.Get(ctx, PathSearch, map[string]string{"q": query})
}

// Scrape fetches a webpage as markdown. Paid.
func (c *Client) Scrape(ctx context.Context, pageURL string) (json.RawMessage, error) {
	return c.Get(ctx, PathScrape, map[string]string{"url": pageURL})
}

// Weather returns current weather for a city. Paid.
func (c *Client) Weather(ctx context.Context, city string) (json.RawMessage, error) {
	return c.Get(ctx, PathWeather, map[string]string{"city": city})
}

// Crypto returns current prices for a coin. Paid.
func (c *Client) Crypto(ctx context.Context, coin string) (json.RawMessage, error) {
	return c.Get(ctx, PathCrypto, map[string]string{"coin": coin})
}

// GenerateImage generates an image from a prompt. Paid.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (json.RawMessage, error) {
	return c.Get(ctx, PathImage, map[string]string{"prompt": prompt})
}
