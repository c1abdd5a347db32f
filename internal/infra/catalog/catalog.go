package infra_catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/reelmatch/core/internal/model"
)

// HTTPCatalogClient asks the catalog service to assemble a candidate pool.
// Called exactly once per session, at the start transition; pool ranking and
// provider matching are entirely the catalog's business.
type HTTPCatalogClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func New(baseURL string) *HTTPCatalogClient {
	return &HTTPCatalogClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		logger: slog.Default(),
	}
}

type poolRequest struct {
	MediaFilter string   `json:"media_filter"`
	ProviderIDs []string `json:"provider_ids"`
	Region      string   `json:"region"`
}

type poolItemResponse struct {
	TitleID    string   `json:"title_id"`
	MediaType  string   `json:"media_type"`
	Title      string   `json:"title"`
	PosterLink string   `json:"poster_link"`
	Rating     float64  `json:"rating"`
	Year       int      `json:"year"`
	Genres     []string `json:"genres"`
}

type poolResponse struct {
	Items []poolItemResponse `json:"items"`
}

func (c *HTTPCatalogClient) BuildPool(ctx context.Context, filter model.MediaFilter, providerIDs []string, region string) ([]model.PoolItem, error) {
	reqBody := poolRequest{
		MediaFilter: filter,
		ProviderIDs: providerIDs,
		Region:      region,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pool", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to build pool: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog service returned status: %d", resp.StatusCode)
	}

	var poolResp poolResponse
	if err := json.NewDecoder(resp.Body).Decode(&poolResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	items := make([]model.PoolItem, 0, len(poolResp.Items))
	for i, item := range poolResp.Items {
		items = append(items, model.PoolItem{
			TitleID:    item.TitleID,
			MediaType:  item.MediaType,
			Position:   i,
			Title:      item.Title,
			PosterLink: item.PosterLink,
			Rating:     item.Rating,
			Year:       item.Year,
			Genres:     item.Genres,
		})
	}

	c.logger.Info("catalog pool built", slog.Int("items", len(items)), slog.String("filter", filter))
	return items, nil
}
