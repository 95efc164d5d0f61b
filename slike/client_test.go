package slike

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func clientForServer(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	u, err := url.Parse(server.URL)
	assert.NoError(t, err)
	return NewClientWithEndpoints(*u, *u)
}

func validPublishRequest() PublishRequest {
	return PublishRequest{
		URL:         "https://drive.google.com/file/d/1knH6zj4KAL_IfHxf6z-lhx6hd107X9jK/view",
		Title:       "test media title",
		Description: "test media desc",
		Type:        "gdrive",
		Token:       "8b2a3c03-af9a-35d8-ad37-e7b70bfaf367",
	}
}

func TestPublishMediaSuccess(t *testing.T) {
	t.Run("returns the response body unchanged", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"result":{"id":"abc123"}}`)
		}))
		defer server.Close()

		resp, err := clientForServer(t, server).PublishMedia(validPublishRequest())
		assert.NoError(t, err)
		assert.Equal(t, Response{"result": map[string]any{"id": "abc123"}}, resp)
		assert.Equal(t, "abc123", resp.MediaID())
	})

	t.Run("an empty error field is not a failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"result":{},"error":""}`)
		}))
		defer server.Close()

		resp, err := clientForServer(t, server).PublishMedia(validPublishRequest())
		assert.NoError(t, err)
		assert.Equal(t, Response{"result": map[string]any{}, "error": ""}, resp)
	})

	t.Run("a null error field is not a failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"result":{"id":"ok"},"error":null}`)
		}))
		defer server.Close()

		_, err := clientForServer(t, server).PublishMedia(validPublishRequest())
		assert.NoError(t, err)
	})
}

func TestPublishMediaEnvelope(t *testing.T) {
	t.Run("sends the fixed JSON-RPC envelope with required params only", func(t *testing.T) {
		var captured map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			fmt.Fprint(w, `{"result":{"id":"x"}}`)
		}))
		defer server.Close()

		_, err := clientForServer(t, server).PublishMedia(validPublishRequest())
		assert.NoError(t, err)

		assert.Equal(t, "2.0", captured["jsonrpc"])
		assert.Equal(t, float64(17), captured["id"])
		assert.Equal(t, "media.publish", captured["method"])

		params, ok := captured["params"].(map[string]any)
		assert.True(t, ok, "params must be an object")
		assert.Equal(t, "test media title", params["title"])
		assert.Equal(t, "test media desc", params["desc"])
		assert.Equal(t, validPublishRequest().URL, params["url"])
		assert.Equal(t, "gdrive", params["type"])
		assert.Equal(t, true, params["auto_publish"])

		_, hasTags := params["tags"]
		assert.False(t, hasTags, "tags must be omitted when not supplied")
		_, hasPresetMeta := params["preset_meta"]
		assert.False(t, hasPresetMeta, "preset_meta must be omitted when not supplied")
		_, hasAssetType := params["asset_type"]
		assert.False(t, hasAssetType, "asset_type must be omitted when not supplied")
	})

	t.Run("includes optional params verbatim when supplied", func(t *testing.T) {
		var captured map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			fmt.Fprint(w, `{"result":{"id":"x"}}`)
		}))
		defer server.Close()

		autoPublish := false
		req := validPublishRequest()
		req.Tags = []string{"tag1", "tag2"}
		req.PresetMeta = "nph9gl6gzo"
		req.AssetType = "shorts"
		req.AutoPublish = &autoPublish

		_, err := clientForServer(t, server).PublishMedia(req)
		assert.NoError(t, err)

		params := captured["params"].(map[string]any)
		assert.Equal(t, []any{"tag1", "tag2"}, params["tags"])
		assert.Equal(t, "nph9gl6gzo", params["preset_meta"])
		assert.Equal(t, "shorts", params["asset_type"])
		assert.Equal(t, false, params["auto_publish"])
	})
}

func TestPublishMediaCredentials(t *testing.T) {
	testCases := []struct {
		description string
		environment string
		tokenDev    string
		wantHeader  string
		wantToken   string
	}{
		{"development sends the dev token under token-dev", "dev", "dev-secret", "token-dev", "dev-secret"},
		{"development without a dev token falls back to the primary token", "development", "", "token-dev", "primary-secret"},
		{"production ignores the dev token", "prod", "dev-secret", "token", "primary-secret"},
		{"empty environment is production", "", "dev-secret", "token", "primary-secret"},
		{"environment tags are case-insensitive", "DEV", "dev-secret", "token-dev", "dev-secret"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			var gotToken, gotTokenDev string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotToken = r.Header.Get("token")
				gotTokenDev = r.Header.Get("token-dev")
				fmt.Fprint(w, `{"result":{"id":"x"}}`)
			}))
			defer server.Close()

			req := validPublishRequest()
			req.Token = "primary-secret"
			req.TokenDev = testCase.tokenDev
			req.Environment = testCase.environment

			_, err := clientForServer(t, server).PublishMedia(req)
			assert.NoError(t, err)

			if testCase.wantHeader == "token-dev" {
				assert.Equal(t, testCase.wantToken, gotTokenDev)
				assert.Empty(t, gotToken, "only one credential header may be sent")
			} else {
				assert.Equal(t, testCase.wantToken, gotToken)
				assert.Empty(t, gotTokenDev, "only one credential header may be sent")
			}
		})
	}
}

func TestPublishMediaEndpointRouting(t *testing.T) {
	prodHits, devHits := 0, 0
	prodServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prodHits++
		fmt.Fprint(w, `{"result":{"id":"prod"}}`)
	}))
	defer prodServer.Close()
	devServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		devHits++
		fmt.Fprint(w, `{"result":{"id":"dev"}}`)
	}))
	defer devServer.Close()

	prodURL, err := url.Parse(prodServer.URL)
	assert.NoError(t, err)
	devURL, err := url.Parse(devServer.URL)
	assert.NoError(t, err)
	client := NewClientWithEndpoints(*prodURL, *devURL)

	req := validPublishRequest()
	resp, err := client.PublishMedia(req)
	assert.NoError(t, err)
	assert.Equal(t, "prod", resp.MediaID())

	req.Environment = "dev"
	resp, err = client.PublishMedia(req)
	assert.NoError(t, err)
	assert.Equal(t, "dev", resp.MediaID())

	assert.Equal(t, 1, prodHits)
	assert.Equal(t, 1, devHits)
}

func TestPublishMediaFailures(t *testing.T) {
	t.Run("HTTP error status with a string error field", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":"not found"}`)
		}))
		defer server.Close()

		resp, err := clientForServer(t, server).PublishMedia(validPublishRequest())
		assert.Nil(t, resp)
		var apiErr *APIError
		assert.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Contains(t, apiErr.Message, "404")
		assert.Contains(t, apiErr.Message, "not found")
	})

	t.Run("HTTP error status without an error field embeds the raw body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprint(w, `{"detail":"upstream exploded"}`)
		}))
		defer server.Close()

		_, err := clientForServer(t, server).PublishMedia(validPublishRequest())
		var apiErr *APIError
		assert.ErrorAs(t, err, &apiErr)
		assert.Contains(t, apiErr.Message, "502")
		assert.Contains(t, apiErr.Message, "upstream exploded")
	})

	t.Run("JSON-RPC error object composes message, code and data", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"error":{"message":"bad url","code":400,"data":"detail"}}`)
		}))
		defer server.Close()

		resp, err := clientForServer(t, server).PublishMedia(validPublishRequest())
		assert.Nil(t, resp)
		assert.EqualError(t, err, "JSON-RPC error: bad url (code: 400) - detail")
	})

	t.Run("JSON-RPC error object without data omits the suffix", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"error":{"message":"bad url","code":400}}`)
		}))
		defer server.Close()

		_, err := clientForServer(t, server).PublishMedia(validPublishRequest())
		assert.EqualError(t, err, "JSON-RPC error: bad url (code: 400)")
	})

	t.Run("JSON-RPC string error is stringified directly", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"error":"quota exceeded"}`)
		}))
		defer server.Close()

		_, err := clientForServer(t, server).PublishMedia(validPublishRequest())
		assert.EqualError(t, err, "JSON-RPC error: quota exceeded")
	})

	t.Run("non-JSON body embeds the raw text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "definitely not json")
		}))
		defer server.Close()

		_, err := clientForServer(t, server).PublishMedia(validPublishRequest())
		var apiErr *APIError
		assert.ErrorAs(t, err, &apiErr)
		assert.Contains(t, apiErr.Message, "invalid JSON response")
		assert.Contains(t, apiErr.Message, "definitely not json")
	})

	t.Run("non-JSON body on an error status still reports the malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, "Internal Server Error")
		}))
		defer server.Close()

		_, err := clientForServer(t, server).PublishMedia(validPublishRequest())
		var apiErr *APIError
		assert.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Contains(t, apiErr.Message, "invalid JSON response")
	})

	t.Run("a JSON body that is not an object is malformed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[1,2,3]`)
		}))
		defer server.Close()

		_, err := clientForServer(t, server).PublishMedia(validPublishRequest())
		var apiErr *APIError
		assert.ErrorAs(t, err, &apiErr)
		assert.Contains(t, apiErr.Message, "invalid JSON response")
	})

	t.Run("transport failures surface as API errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		client := clientForServer(t, server)
		server.Close()

		resp, err := client.PublishMedia(validPublishRequest())
		assert.Nil(t, resp)
		var apiErr *APIError
		assert.ErrorAs(t, err, &apiErr)
		assert.Zero(t, apiErr.StatusCode)
		assert.Contains(t, apiErr.Message, "failed to publish media on Slike")
	})
}
