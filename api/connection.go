package api

import (
	"net/http"
	"net/url"
	"time"
)

type Connection interface {
	Request(endpoint *url.URL) (*http.Response, error)
}

type ClientHost struct {
	client    *http.Client
	host      string
	userAgent string
}

type Client struct {
	Connection Connection
}

func (conn *ClientHost) Request(endpoint *url.URL) (*http.Response, error) {
	endpoint.Scheme = "https"
	endpoint.Host = conn.host
	targetUrl := endpoint.String()

	req, err := http.NewRequest(http.MethodGet, targetUrl, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", conn.userAgent)

	return conn.client.Do(req)
}

func ClientFactory(host string, userAgent string, timeout time.Duration) *Client {
	client := &http.Client{
		Timeout: timeout,
	}

	clientHost := &ClientHost{
		client:    client,
		host:      host,
		userAgent: userAgent,
	}

	return &Client{
		Connection: clientHost,
	}
}
