package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// failingTransport fails every round trip the way a dropped connection would.
type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection reset")
}

// fakeService starts an httptest server for h and returns its URL and client.
func fakeService(t *testing.T, h http.HandlerFunc) (string, HTTPClient) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv.URL, srv.Client()
}
