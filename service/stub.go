package service

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lucsky/cuid"
	log "github.com/sirupsen/logrus"
)

// StubServer stands in for local.sli.ke during development: it serves a
// minimal media.publish implementation at /rpc plus a healthcheck at /.
// With a cert/key pair it speaks TLS so clients keep certificate
// verification on.
type StubServer struct {
	Server   http.Server
	CertFile string
	KeyFile  string
}

func NewStubServer(port int, certFile string, keyFile string) *StubServer {
	mux := http.NewServeMux()
	mux.Handle("/", handleHealthcheck())
	mux.Handle("/rpc", handlePublishRPC())
	return &StubServer{
		Server: http.Server{
			Addr:    fmt.Sprintf("0.0.0.0:%d", port),
			Handler: mux,
		},
		CertFile: certFile,
		KeyFile:  keyFile,
	}
}

func (s *StubServer) ListenAndServe() error {
	if s.CertFile != "" && s.KeyFile != "" {
		return s.Server.ListenAndServeTLS(s.CertFile, s.KeyFile)
	}
	return s.Server.ListenAndServe()
}

func handleHealthcheck() http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			log.Debug("received healthcheck request")
			// This will have a status of 200
			fmt.Fprintf(w, "all good in the hood")
		},
	)
}

func handlePublishRPC() http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			if r.Header.Get("token") == "" && r.Header.Get("token-dev") == "" {
				writeRPCError(w, http.StatusUnauthorized, "missing token header")
				return
			}

			var req struct {
				JSONRPC string         `json:"jsonrpc"`
				ID      int            `json:"id"`
				Method  string         `json:"method"`
				Params  map[string]any `json:"params"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeRPCError(w, http.StatusBadRequest, fmt.Sprintf("malformed request: %v", err))
				return
			}
			if req.Method != "media.publish" {
				writeRPCError(w, http.StatusOK, fmt.Sprintf("unknown method: %s", req.Method))
				return
			}
			for _, param := range []string{"url", "title", "desc"} {
				value, _ := req.Params[param].(string)
				if value == "" {
					writeRPCError(w, http.StatusOK, fmt.Sprintf("missing param: %s", param))
					return
				}
			}

			mediaID := cuid.New()
			log.WithField("url", req.Params["url"]).WithField("mediaID", mediaID).Info("stub accepted publish")
			json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0",
				"id":      req.ID,
				"result":  map[string]any{"id": mediaID},
			})
		},
	)
}

func writeRPCError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"jsonrpc": "2.0",
		"id":      nil,
		"error":   map[string]any{"message": message, "code": status},
	})
}
