package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rkanzaki/shopscout/internal/domain"
	"github.com/rkanzaki/shopscout/internal/observability"
)

const yahooSearchURL = "https://shopping.yahooapis.jp/ShoppingWebService/V3/itemSearch"

// YahooAdapter searches the Yahoo Shopping item search API (V3).
type YahooAdapter struct {
	appID   string
	baseURL string
	client  *http.Client
}

func NewYahooAdapter(appID string, httpClient *http.Client) *YahooAdapter {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &YahooAdapter{
		appID:   appID,
		baseURL: yahooSearchURL,
		client:  httpClient,
	}
}

func (a *YahooAdapter) ID() domain.SourceID {
	return domain.SourceYahoo
}

type yahooResponse struct {
	Hits []struct {
		Name  string `json:"name"`
		Price int    `json:"price"`
		URL   string `json:"url"`
		Image struct {
			Medium string `json:"medium"`
		} `json:"image"`
		Review struct {
			Rate float64 `json:"rate"`
		} `json:"review"`
	} `json:"hits"`
}

// Search follows the same fail-soft contract as the Rakuten adapter.
func (a *YahooAdapter) Search(ctx context.Context, query string, limit int) ([]domain.Listing, error) {
	log := observability.LoggerFromContext(ctx).With("source", a.ID())

	params := url.Values{}
	params.Set("appid", a.appID)
	params.Set("query", query)
	params.Set("results", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		log.Warn("yahoo request build failed", "error", err)
		return nil, nil
	}

	res, err := a.client.Do(req)
	if err != nil {
		log.Warn("yahoo search failed", "error", err)
		return nil, nil
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		log.Warn("yahoo search non-200", "status", res.StatusCode)
		return nil, nil
	}

	var body yahooResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		log.Warn("yahoo response decode failed", "error", err)
		return nil, nil
	}

	listings := make([]domain.Listing, 0, len(body.Hits))
	for _, hit := range body.Hits {
		listings = append(listings, domain.Listing{
			Name:   hit.Name,
			Price:  hit.Price,
			Rating: clampRating(hit.Review.Rate),
			URL:    hit.URL,
			Image:  hit.Image.Medium,
			Source: domain.SourceYahoo,
		})
	}

	return listings, nil
}
