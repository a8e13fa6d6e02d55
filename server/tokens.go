package server

import (
	"net/http"
	"time"

	"github.com/woped/bpmn-pnml-transformer/errs"
)

// TokenChecker asks the rate-limit collaborator for a request token before a
// transformation runs. The collaborator is opaque to the core: HTTP 400
// means the quota is exhausted, any transport failure means the check could
// not be performed.
type TokenChecker struct {
	url    string
	client *http.Client
}

// NewTokenChecker creates a checker for the given endpoint; an empty url
// disables checking.
func NewTokenChecker(url string) *TokenChecker {
	return &TokenChecker{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Check consumes one request token.
func (c *TokenChecker) Check() error {
	if c.url == "" {
		return nil
	}
	resp, err := c.client.Get(c.url)
	if err != nil {
		return errs.TokenCheckUnsuccessful()
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusBadRequest {
		return errs.NoRequestTokensAvailable()
	}
	if resp.StatusCode != http.StatusOK {
		return errs.TokenCheckUnsuccessful()
	}
	return nil
}
