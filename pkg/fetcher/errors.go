package fetcher

import (
	"errors"
	"fmt"
	"net"
	"syscall"
)

// ErrorKind 抓取失败分类
type ErrorKind string

const (
	KindHTTPStatus  ErrorKind = "http_status"
	KindDNS         ErrorKind = "dns"
	KindConnRefused ErrorKind = "conn_refused"
	KindEmpty       ErrorKind = "empty"
	KindOther       ErrorKind = "other"
)

// FetchError 抓取失败，Error() 返回可直接展示给用户的文案
type FetchError struct {
	Kind       ErrorKind
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("Failed to fetch URL: %d %s", e.StatusCode, e.Status)
	case KindDNS:
		return fmt.Sprintf("Could not resolve hostname for URL: %s. Please check the URL.", e.URL)
	case KindConnRefused:
		return fmt.Sprintf("Connection refused for URL: %s. The server might be down or blocking requests.", e.URL)
	case KindEmpty:
		return "Failed to fetch content or content was empty."
	}
	msg := "unknown error"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("Error fetching URL. Please ensure it's correct and accessible: %s", msg)
}

func (e *FetchError) Unwrap() error { return e.Err }

// classify 将传输层错误映射为 FetchError
func classify(rawURL string, err error) *FetchError {
	var dnsErr *net.DNSError
	switch {
	case errors.As(err, &dnsErr):
		return &FetchError{Kind: KindDNS, URL: rawURL, Err: err}
	case errors.Is(err, syscall.ECONNREFUSED):
		return &FetchError{Kind: KindConnRefused, URL: rawURL, Err: err}
	}
	return &FetchError{Kind: KindOther, URL: rawURL, Err: err}
}
