package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"

	"github.com/nao1215/imgsaveas/internal/config"
	"github.com/nao1215/imgsaveas/internal/dataurl"
)

// maxRedirects bounds redirect chains.
const maxRedirects = 10

// Options configures a Client.
type Options struct {
	// Timeout bounds the whole request including the body read.
	Timeout time.Duration

	// UserAgent is sent with every request. Empty means Go's default.
	UserAgent string

	// MaxBodySize is the largest accepted body in bytes. Zero means no limit.
	MaxBodySize int64

	// Proxy is an optional SOCKS5 proxy address in "host:port" format.
	Proxy string
}

// OptionsFromConfig extracts fetch options from the application config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Timeout:     cfg.Timeout,
		UserAgent:   cfg.UserAgent,
		MaxBodySize: cfg.MaxBodySize,
		Proxy:       cfg.Proxy,
	}
}

// Result is a fetched image body.
type Result struct {
	// URL is the final URL after redirects.
	URL string

	// ContentType is the response media type, possibly with parameters.
	ContentType string

	// Body is the full response body.
	Body []byte
}

// Client fetches images over HTTP(S), optionally through a SOCKS5 proxy.
type Client struct {
	httpClient  *http.Client
	userAgent   string
	maxBodySize int64
}

// NewClient creates a Client. The proxy, when set, is validated but not
// contacted until the first request.
func NewClient(opts Options) (*Client, error) {
	transport := &http.Transport{
		// Environment proxies are ignored; only Options.Proxy applies.
		Proxy:               nil,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	}

	if opts.Proxy != "" {
		if !config.IsValidProxyAddress(opts.Proxy) {
			return nil, ErrInvalidProxyAddress
		}
		dialer, err := proxy.SOCKS5("tcp", opts.Proxy, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.DialContext = dialContext(dialer)
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
			// No Jar: requests never carry cookies.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				req.Header.Del("Authorization")
				return nil
			},
		},
		userAgent:   opts.UserAgent,
		maxBodySize: opts.MaxBodySize,
	}, nil
}

// dialContext adapts a proxy.Dialer to http.Transport.DialContext.
// The SOCKS5 dialer from x/net supports contexts directly; other dialers are
// raced against ctx.
func dialContext(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		type dialResult struct {
			conn net.Conn
			err  error
		}
		resultCh := make(chan dialResult, 1)
		go func() {
			conn, err := d.Dial(network, addr)
			resultCh <- dialResult{conn, err}
		}()

		select {
		case result := <-resultCh:
			return result.conn, result.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Fetch retrieves rawURL. A non-2xx response yields *FetchFailedError.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	if dataurl.IsDataURL(rawURL) {
		mediaType, body, err := dataurl.Decode(rawURL)
		if err != nil {
			return nil, err
		}
		if c.maxBodySize > 0 && int64(len(body)) > c.maxBodySize {
			return nil, ErrBodyTooLarge
		}
		return &Result{URL: rawURL, ContentType: mediaType, Body: body}, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "image/avif,image/webp,image/png,image/jpeg,image/*;q=0.8,*/*;q=0.5")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck // best effort
		return nil, &FetchFailedError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := c.readBody(resp)
	if err != nil {
		return nil, err
	}

	return &Result{
		URL:         resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func (c *Client) readBody(resp *http.Response) ([]byte, error) {
	if c.maxBodySize <= 0 {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read body: %w", err)
		}
		return body, nil
	}

	if resp.ContentLength > c.maxBodySize {
		return nil, ErrBodyTooLarge
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, ErrBodyTooLarge
	}
	return body, nil
}
