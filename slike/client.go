package slike

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const (
	// ProductionURL is the default production RPC endpoint. Some
	// deployments front the API with a different host (e.g. the b2b
	// cluster), so clients can override it via NewClientWithEndpoints.
	ProductionURL = "https://app.sli.ke/rpc"
	// DevelopmentURL is the development RPC endpoint. local.sli.ke is
	// expected to resolve to a developer machine running the real API
	// or a stub of it.
	DevelopmentURL = "https://local.sli.ke:8443/rpc"
)

type Client struct {
	productionURL  string
	developmentURL string
	// HTTPClient issues the publish request. Replace it to configure
	// timeouts or proxies; certificate verification must stay enabled.
	HTTPClient *http.Client
}

// NewClient returns a Client bound to the standard Slike endpoints.
func NewClient() *Client {
	return &Client{
		productionURL:  ProductionURL,
		developmentURL: DevelopmentURL,
		HTTPClient:     http.DefaultClient,
	}
}

// NewClientWithEndpoints returns a Client bound to custom RPC endpoints,
// one per environment.
func NewClientWithEndpoints(productionURL url.URL, developmentURL url.URL) *Client {
	return &Client{
		productionURL:  productionURL.String(),
		developmentURL: developmentURL.String(),
		HTTPClient:     http.DefaultClient,
	}
}

/*
PublishMedia submits one media asset to the platform over JSON-RPC and
returns the decoded response body untouched.

The request is validated before anything is sent: missing required fields
and unrecognized environment tags surface as *InvalidInputError without
network activity. Transport failures, non-JSON bodies, HTTP error statuses
and JSON-RPC error fields all surface as *APIError. There is exactly one
POST per call; no retries.
*/
func (c Client) PublishMedia(req PublishRequest) (Response, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	env, err := ParseEnvironment(req.Environment)
	if err != nil {
		return nil, err
	}

	token := selectToken(env, req.Token, req.TokenDev)

	body, err := json.Marshal(req.payload())
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.endpointURL(env), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(env.TokenHeader(), token)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("failed to publish media on Slike: %v", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to publish media on Slike: %v", err)}
	}

	return interpretResponse(resp.StatusCode, respBody)
}

func (c Client) endpointURL(env Environment) string {
	if env == EnvironmentDevelopment {
		return c.developmentURL
	}
	return c.productionURL
}

// interpretResponse turns the raw HTTP response into either the decoded
// body or an *APIError. A body that is not a JSON object is malformed
// regardless of status; an HTTP error status wins over a JSON-RPC error
// field; an error field that decodes to an empty value is not a failure.
func interpretResponse(statusCode int, body []byte) (Response, error) {
	var result Response
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &APIError{StatusCode: statusCode, Message: fmt.Sprintf("invalid JSON response: %s", body)}
	}

	if statusCode >= 400 {
		msg := string(body)
		if raw, ok := result["error"]; ok && !valueIsEmpty(raw) {
			msg = errorMessage(raw)
		}
		return nil, &APIError{StatusCode: statusCode, Message: fmt.Sprintf("HTTP %d: %s", statusCode, msg)}
	}

	if raw, ok := result["error"]; ok && !valueIsEmpty(raw) {
		return nil, &APIError{StatusCode: statusCode, Message: fmt.Sprintf("JSON-RPC error: %s", errorMessage(raw))}
	}

	return result, nil
}
