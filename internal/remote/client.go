// Package remote talks to the external product collection over HTTP.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"github.com/talkincode/productdesk/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const productsEndpoint = "/products"

// Client issues list/create/update/delete requests against {baseURL}/products.
// It does not retry and does not cache.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// Options tune the transport. Zero values select defaults.
type Options struct {
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
	HTTPClient    *http.Client
}

func NewClient(baseURL string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	var limiter *rate.Limiter
	if opts.RatePerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		limiter: limiter,
	}
}

// productRecord is the wire shape. Unknown fields (rating, etc) are dropped.
type productRecord struct {
	ID          int64   `mapstructure:"id" json:"id,omitempty"`
	Title       string  `mapstructure:"title" json:"title"`
	Price       float64 `mapstructure:"price" json:"price"`
	Category    string  `mapstructure:"category" json:"category"`
	Description string  `mapstructure:"description" json:"description"`
	Image       string  `mapstructure:"image" json:"image"`
}

func (r productRecord) toProduct() domain.Product {
	return domain.Product{
		ID:          r.ID,
		Title:       r.Title,
		Price:       r.Price,
		Category:    r.Category,
		Description: r.Description,
		Image:       r.Image,
		Origin:      domain.OriginRemote,
	}
}

func recordOf(p domain.Product) productRecord {
	return productRecord{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Category:    p.Category,
		Description: p.Description,
		Image:       p.Image,
	}
}

// List fetches the whole remote collection in server order.
func (c *Client) List(ctx context.Context) ([]domain.Product, error) {
	body, err := c.do(ctx, http.MethodGet, productsEndpoint, nil)
	if err != nil {
		return nil, err
	}
	var raw []map[string]interface{}
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, remoteError(0, "Remote catalog returned an unreadable list", err)
	}
	products := make([]domain.Product, 0, len(raw))
	for _, item := range raw {
		rec, err := decodeRecord(item)
		if err != nil {
			return nil, remoteError(0, "Remote catalog returned an invalid product", err)
		}
		products = append(products, rec.toProduct())
	}
	return products, nil
}

// Create posts a new product and returns the stored record.
func (c *Client) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	rec := recordOf(p)
	rec.ID = 0
	body, err := c.do(ctx, http.MethodPost, productsEndpoint, rec)
	if err != nil {
		return domain.Product{}, err
	}
	return c.echoed(body, p)
}

// Update replaces every field of product id.
func (c *Client) Update(ctx context.Context, id int64, p domain.Product) (domain.Product, error) {
	rec := recordOf(p)
	rec.ID = id
	body, err := c.do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", productsEndpoint, id), rec)
	if err != nil {
		return domain.Product{}, err
	}
	p.ID = id
	return c.echoed(body, p)
}

// Delete removes product id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", productsEndpoint, id), nil)
	return err
}

// echoed decodes the record returned by a write. Servers that answer with
// an empty body get the sent product back.
func (c *Client) echoed(body string, sent domain.Product) (domain.Product, error) {
	sent.Origin = domain.OriginRemote
	if strings.TrimSpace(body) == "" {
		return sent, nil
	}
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return domain.Product{}, remoteError(0, "Remote catalog returned an unreadable product", err)
	}
	rec, err := decodeRecord(raw)
	if err != nil {
		return domain.Product{}, remoteError(0, "Remote catalog returned an invalid product", err)
	}
	if rec.ID == 0 {
		rec.ID = sent.ID
	}
	return rec.toProduct(), nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload interface{}) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", remoteError(0, "Remote request was cancelled", err)
		}
	}

	url := c.baseURL + endpoint
	var (
		body string
		code int
		err  error
	)
	start := time.Now()
	switch method {
	case http.MethodGet:
		err = gout.New(c.http).GET(url).WithContext(ctx).
			BindBody(&body).Code(&code).Do()
	case http.MethodPost:
		err = gout.New(c.http).POST(url).WithContext(ctx).
			SetJSON(payload).BindBody(&body).Code(&code).Do()
	case http.MethodPut:
		err = gout.New(c.http).PUT(url).WithContext(ctx).
			SetJSON(payload).BindBody(&body).Code(&code).Do()
	case http.MethodDelete:
		err = gout.New(c.http).DELETE(url).WithContext(ctx).
			BindBody(&body).Code(&code).Do()
	default:
		return "", remoteError(0, "Unsupported remote method "+method, nil)
	}

	fields := []zap.Field{
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", code),
		zap.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		zap.L().Warn("remote catalog request failed", append(fields, zap.Error(err))...)
		return "", remoteError(code, "Remote catalog is unreachable", err)
	}
	if code < 200 || code > 299 {
		zap.L().Warn("remote catalog rejected request", fields...)
		return "", remoteError(code, fmt.Sprintf("Remote catalog answered %d", code), nil)
	}
	zap.L().Debug("remote catalog request", fields...)
	return body, nil
}

func decodeRecord(raw map[string]interface{}) (productRecord, error) {
	var rec productRecord
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &rec,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return rec, err
	}
	if err := dec.Decode(raw); err != nil {
		return rec, err
	}
	return rec, nil
}

func remoteError(status int, message string, err error) *domain.Error {
	e := domain.NewError(domain.CodeRemote, message, err)
	e.Status = status
	return e
}
