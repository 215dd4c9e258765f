package whttp

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

type Header struct {
	Name  string
	Value string
}

type Request struct {
	Method  string
	URL     string
	Body    string // JSON request body, optional
	Headers []Header
}

type Response struct {
	StatusCode int
	BodyString string
}

var defaultClient = newClient()

func newClient() *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.Logger = stdlog.New(io.Discard, "", 0)
	c.RetryMax = 3
	c.HTTPClient.Timeout = 30 * time.Second
	return c
}

// GetDefaultClient returns the shared client used by all API calls unless a
// custom one is passed to Send.
func GetDefaultClient() *retryablehttp.Client {
	return defaultClient
}

// SetupProxy routes the default client through an HTTP proxy.
func SetupProxy(proxy string) error {
	proxyURL, err := url.Parse(proxy)
	if err != nil {
		return fmt.Errorf("invalid proxy URL: %w", err)
	}
	defaultClient.HTTPClient.Transport = &http.Transport{
		Proxy: http.ProxyURL(proxyURL),
	}
	return nil
}

func Send(ctx context.Context, wReq *Request, client *retryablehttp.Client) (*Response, error) {
	if client == nil {
		client = defaultClient
	}

	var body io.Reader
	if wReq.Body != "" {
		body = strings.NewReader(wReq.Body)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, wReq.Method, wReq.URL, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if wReq.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range wReq.Headers {
		req.Header.Set(h.Name, h.Value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode,
		BodyString: string(bodyBytes),
	}, nil
}
