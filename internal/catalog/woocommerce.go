package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	appErr "github.com/xxxsen/ragway/internal/pkg/errors"
)

const fetchTimeout = 30 * time.Second

// Attribute is one WooCommerce product attribute; the Variation flag
// splits the list into variation and plain attribute groups.
type Attribute struct {
	Name      string   `json:"name"`
	Variation bool     `json:"variation"`
	Options   []string `json:"options"`
}

type RemoteProduct struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Permalink   string      `json:"permalink"`
	Attributes  []Attribute `json:"attributes"`
}

// Client pulls the product catalog from a WooCommerce-compatible REST
// endpoint.
type Client struct {
	url    string
	key    string
	secret string
	client *http.Client
}

func New(endpoint, key, secret string) *Client {
	return &Client{
		url:    endpoint,
		key:    key,
		secret: secret,
		client: &http.Client{Timeout: fetchTimeout},
	}
}

func (c *Client) FetchProducts(ctx context.Context) ([]RemoteProduct, error) {
	if c.key == "" || c.secret == "" {
		return nil, fmt.Errorf("%w: catalog API credentials are not set", appErr.ErrInvalid)
	}
	endpoint, err := url.Parse(c.url)
	if err != nil {
		return nil, err
	}
	query := endpoint.Query()
	query.Set("consumer_key", c.key)
	query.Set("consumer_secret", c.secret)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog fetch: status %d", resp.StatusCode)
	}
	var products []RemoteProduct
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, err
	}
	return products, nil
}

// SplitAttributes serializes variation and non-variation attributes into
// the two JSON columns stored per product.
func SplitAttributes(attrs []Attribute) (variations string, attributes string) {
	varList := make([]Attribute, 0)
	attrList := make([]Attribute, 0)
	for _, attr := range attrs {
		if attr.Variation {
			varList = append(varList, attr)
			continue
		}
		attrList = append(attrList, attr)
	}
	variations = marshalList(varList)
	attributes = marshalList(attrList)
	return variations, attributes
}

func marshalList(attrs []Attribute) string {
	data, err := json.Marshal(attrs)
	if err != nil {
		return "[]"
	}
	return strings.TrimSpace(string(data))
}
