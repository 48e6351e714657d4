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

const rakutenSearchURL = "https://app.rakuten.co.jp/services/api/IchibaItem/Search/20170706"

// RakutenAdapter searches the Rakuten Ichiba item API.
type RakutenAdapter struct {
	appID       string
	affiliateID string
	baseURL     string
	client      *http.Client
}

// NewRakutenAdapter creates the live Rakuten adapter. httpClient may be
// nil, in which case http.DefaultClient is used; per-call deadlines come
// from the caller's context.
func NewRakutenAdapter(appID, affiliateID string, httpClient *http.Client) *RakutenAdapter {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &RakutenAdapter{
		appID:       appID,
		affiliateID: affiliateID,
		baseURL:     rakutenSearchURL,
		client:      httpClient,
	}
}

func (a *RakutenAdapter) ID() domain.SourceID {
	return domain.SourceRakuten
}

// Ichiba response shape, only the fields we map.
type rakutenResponse struct {
	Items []struct {
		Item struct {
			ItemName        string  `json:"itemName"`
			ItemPrice       int     `json:"itemPrice"`
			ReviewAverage   float64 `json:"reviewAverage"`
			AffiliateURL    string  `json:"affiliateUrl"`
			MediumImageURLs []struct {
				ImageURL string `json:"imageUrl"`
			} `json:"mediumImageUrls"`
		} `json:"Item"`
	} `json:"Items"`
}

// Search is fail-soft: any transport, status or decode problem yields an
// empty slice so the aggregator treats it like "no results".
func (a *RakutenAdapter) Search(ctx context.Context, query string, limit int) ([]domain.Listing, error) {
	log := observability.LoggerFromContext(ctx).With("source", a.ID())

	params := url.Values{}
	params.Set("applicationId", a.appID)
	if a.affiliateID != "" {
		params.Set("affiliateId", a.affiliateID)
	}
	params.Set("keyword", query)
	params.Set("format", "json")
	params.Set("hits", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		log.Warn("rakuten request build failed", "error", err)
		return nil, nil
	}

	res, err := a.client.Do(req)
	if err != nil {
		log.Warn("rakuten search failed", "error", err)
		return nil, nil
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		log.Warn("rakuten search non-200", "status", res.StatusCode)
		return nil, nil
	}

	var body rakutenResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		log.Warn("rakuten response decode failed", "error", err)
		return nil, nil
	}

	listings := make([]domain.Listing, 0, len(body.Items))
	for _, wrapped := range body.Items {
		item := wrapped.Item

		image := ""
		if len(item.MediumImageURLs) > 0 {
			image = item.MediumImageURLs[0].ImageURL
		}

		listings = append(listings, domain.Listing{
			Name:   item.ItemName,
			Price:  item.ItemPrice,
			Rating: clampRating(item.ReviewAverage),
			URL:    item.AffiliateURL,
			Image:  image,
			Source: domain.SourceRakuten,
		})
	}

	return listings, nil
}

// clampRating keeps ratings inside [0,5] so ranking has a total order
// even when a backend sends garbage.
func clampRating(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 5 {
		return 5
	}
	return r
}
