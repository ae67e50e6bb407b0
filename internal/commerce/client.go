// Package commerce is the client side of the Storefront GraphQL API: a
// thin transport, typed product and collection reads, and the remote cart
// manager. Requests are plain POSTs with a query/variables body and a
// token header; the backend is treated as the single source of truth and
// every mutation response replaces the local cart snapshot wholesale.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	defaultAPIVersion = "2024-01"
	defaultTimeout    = 10 * time.Second

	tokenHeader = "X-Shopify-Storefront-Access-Token"
)

// Config holds the two credentials the backend requires. When either is
// absent, every dependent operation degrades to a safe no-op or empty
// result instead of failing.
type Config struct {
	StoreDomain string
	AccessToken string
	APIVersion  string
	Timeout     time.Duration
}

// Configured reports whether both credentials are present.
func (c Config) Configured() bool {
	return c.StoreDomain != "" && c.AccessToken != ""
}

func (c Config) endpoint() string {
	version := c.APIVersion
	if version == "" {
		version = defaultAPIVersion
	}
	return fmt.Sprintf("https://%s/api/%s/graphql.json", c.StoreDomain, version)
}

// Client executes GraphQL requests against the Storefront API.
type Client struct {
	cfg  Config
	http *http.Client

	// endpointOverride replaces the derived endpoint URL. Tests use it to
	// point the client at a local server.
	endpointOverride string
}

// NewClient creates a Client. The underlying transport is instrumented
// with otelhttp so backend calls show up in traces.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Configured reports whether the backend credentials are present.
func (c *Client) Configured() bool {
	return c.cfg.Configured()
}

// do executes one GraphQL request and unmarshals the data payload into
// out. It maps failures to the package error taxonomy: non-2xx status to
// TransportError, a GraphQL error list to BackendError, and an empty
// response to ErrNoData.
func (c *Client) do(ctx context.Context, query string, variables, out any) error {
	if !c.cfg.Configured() {
		return ErrNotConfigured
	}

	body, err := encodeRequest(query, variables)
	if err != nil {
		return errors.Wrap(err, "encode request")
	}

	endpoint := c.cfg.endpoint()
	if c.endpointOverride != "" {
		endpoint = c.endpointOverride
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(tokenHeader, c.cfg.AccessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "post query")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}

	data, err := decodeEnvelope(raw)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "decode data payload")
	}
	return nil
}

// encodeRequest builds the {"query": ..., "variables": ...} body.
func encodeRequest(query string, variables any) ([]byte, error) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("query")
	e.Str(query)
	if variables != nil {
		vars, err := json.Marshal(variables)
		if err != nil {
			return nil, errors.Wrap(err, "marshal variables")
		}
		e.FieldStart("variables")
		e.Raw(vars)
	}
	e.ObjEnd()
	return e.Bytes(), nil
}

// decodeEnvelope extracts the data payload from a GraphQL response,
// surfacing the error list when present. A response with neither data nor
// errors yields ErrNoData.
func decodeEnvelope(raw []byte) (jx.Raw, error) {
	var (
		data     jx.Raw
		messages []string
	)
	d := jx.DecodeBytes(raw)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "data":
			v, err := d.Raw()
			if err != nil {
				return errors.Wrap(err, "data")
			}
			data = v
			return nil
		case "errors":
			return d.Arr(func(d *jx.Decoder) error {
				return d.Obj(func(d *jx.Decoder, key string) error {
					if key != "message" {
						return d.Skip()
					}
					msg, err := d.Str()
					if err != nil {
						return errors.Wrap(err, "error message")
					}
					messages = append(messages, msg)
					return nil
				})
			})
		default:
			return d.Skip()
		}
	}); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}

	if len(messages) > 0 {
		return nil, &BackendError{Messages: messages}
	}
	if len(data) == 0 || data.Type() == jx.Null {
		return nil, ErrNoData
	}
	return data, nil
}

// logNotConfigured records the advisory for a degraded operation. Missing
// credentials are a deployment mode, not an error.
func logNotConfigured(ctx context.Context, op string) {
	zctx.From(ctx).Info("Commerce backend not configured, skipping operation",
		zap.String("op", op),
	)
}
