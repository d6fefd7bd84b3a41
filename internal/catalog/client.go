// Package catalog provides a read-only client for the public recipe catalog
// (TheMealDB). All operations are plain GET requests; the client is stateless
// beyond its rate limiter.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the free-tier catalog endpoint.
const DefaultBaseURL = "https://www.themealdb.com/api/json/v1/1"

// Dimension is one of the three filterable vocabularies.
type Dimension string

const (
	DimCategory   Dimension = "category"
	DimArea       Dimension = "area"
	DimIngredient Dimension = "ingredient"
)

// param returns the query-string discriminator the catalog uses for this
// dimension on filter.php and list.php.
func (d Dimension) param() string {
	switch d {
	case DimCategory:
		return "c"
	case DimArea:
		return "a"
	default:
		return "i"
	}
}

// vocabularyKey is the field name carrying the value in list.php responses.
func (d Dimension) vocabularyKey() string {
	switch d {
	case DimCategory:
		return "strCategory"
	case DimArea:
		return "strArea"
	default:
		return "strIngredient"
	}
}

// Client issues requests against the catalog.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Client for the given base URL (DefaultBaseURL if empty).
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Every(250*time.Millisecond), 4), // be gentle with the free tier
	}
}

// mealsResponse is the envelope every catalog endpoint uses.
// "meals" is null when there are no matches.
type mealsResponse struct {
	Meals []map[string]string `json:"meals"`
}

// Search runs a free-text search. Returns an empty slice on no matches.
func (c *Client) Search(ctx context.Context, text string) ([]Recipe, error) {
	resp, err := c.get(ctx, "/search.php", url.Values{"s": {text}})
	if err != nil {
		return nil, err
	}
	return convertMeals(resp.Meals), nil
}

// Lookup fetches a single recipe by id. Returns nil when the id is unknown.
func (c *Client) Lookup(ctx context.Context, id string) (*Recipe, error) {
	resp, err := c.get(ctx, "/lookup.php", url.Values{"i": {id}})
	if err != nil {
		return nil, err
	}
	if len(resp.Meals) == 0 {
		return nil, nil
	}
	r := convertMeal(resp.Meals[0])
	return &r, nil
}

// Filter lists recipes matching a single dimension value. The catalog
// returns partial recipes here (id, name, thumb only).
func (c *Client) Filter(ctx context.Context, dim Dimension, value string) ([]Recipe, error) {
	resp, err := c.get(ctx, "/filter.php", url.Values{dim.param(): {value}})
	if err != nil {
		return nil, err
	}
	return convertMeals(resp.Meals), nil
}

// ListVocabulary enumerates every known value for a dimension.
func (c *Client) ListVocabulary(ctx context.Context, dim Dimension) ([]string, error) {
	resp, err := c.get(ctx, "/list.php", url.Values{dim.param(): {"list"}})
	if err != nil {
		return nil, err
	}
	key := dim.vocabularyKey()
	out := make([]string, 0, len(resp.Meals))
	for _, m := range resp.Meals {
		if v := m[key]; v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*mealsResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "recetario/1.0 (https://github.com/benjaelizalde/recetario)")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog error: %d %s", resp.StatusCode, resp.Status)
	}

	var body mealsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	return &body, nil
}

func convertMeals(meals []map[string]string) []Recipe {
	out := make([]Recipe, 0, len(meals))
	for _, m := range meals {
		out = append(out, convertMeal(m))
	}
	return out
}
