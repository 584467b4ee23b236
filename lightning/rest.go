package lightning

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bolt-observer/nodectl/entities"
	"github.com/golang/glog"
)

const (
	defaultRequestTimeout = 30 * time.Second
	maxLoggedBody         = 4096
	maxStreamErrorBody    = 64 * 1024
)

// GetDoFunc = signature for Do function
type GetDoFunc func(req *http.Request) (*http.Response, error)

// HTTPAPI is the transport used by all adapters. It keeps no per-node state.
type HTTPAPI struct {
	// DoFunc replaces the real HTTP client (used in tests)
	DoFunc GetDoFunc
	// Timeout of one request, the transport must fail rather than hang forever
	Timeout time.Duration
}

// NewHTTPAPI returns a new HTTPAPI
func NewHTTPAPI() *HTTPAPI {
	return &HTTPAPI{Timeout: defaultRequestTimeout}
}

// Do - invokes HTTP request against node
func (h *HTTPAPI) Do(node *entities.NodeDescriptor, req *http.Request) (*http.Response, error) {
	if h.DoFunc != nil {
		return h.DoFunc(req)
	}

	client, err := h.clientFor(node, req.URL.Scheme == "https")
	if err != nil {
		return nil, err
	}

	return client.Do(req)
}

func (h *HTTPAPI) clientFor(node *entities.NodeDescriptor, secure bool) (*http.Client, error) {
	timeout := h.Timeout
	if timeout == 0 {
		timeout = defaultRequestTimeout
	}

	transport := &http.Transport{DisableKeepAlives: true}

	if secure {
		tlsConfig, err := getTLSConfig(node.Credentials.TLSCert)
		if err != nil {
			return nil, err
		}
		transport.TLSClientConfig = tlsConfig
	}

	return &http.Client{Transport: transport, Timeout: timeout}, nil
}

func getTLSConfig(certBytes []byte) (*tls.Config, error) {
	if len(certBytes) == 0 {
		return nil, classifyf(ErrConfiguration, "no TLS certificate")
	}

	cp := x509.NewCertPool()
	if !cp.AppendCertsFromPEM(certBytes) {
		return nil, classifyf(ErrConfiguration, "could not parse TLS certificate")
	}

	return &tls.Config{RootCAs: cp, MinVersion: tls.VersionTLS12}, nil
}

var (
	idMutex  sync.Mutex
	idSource = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// correlationID is only used to pair request and response in logs
func correlationID() int64 {
	idMutex.Lock()
	defer idMutex.Unlock()

	return idSource.Int63()
}

// request describes one native API call
type request struct {
	method  string
	secure  bool
	path    string
	headers map[string]string
	body    any
	// stream responses are only read up to the first JSON message
	stream bool
}

func (r request) url(node *entities.NodeDescriptor) string {
	scheme := "http"
	if r.secure {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s/%s", scheme, node.RESTHost(), strings.TrimPrefix(r.path, "/"))
}

// doRequest performs the call and decodes the JSON response into out (which may be nil)
func (h *HTTPAPI) doRequest(ctx context.Context, node *entities.NodeDescriptor, r request, out any) error {
	id := correlationID()
	url := r.url(node)

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, url, body)
	if err != nil {
		return classifyf(ErrConfiguration, "new request %v", err)
	}

	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	glog.V(2).Infof("%s API: [request] %s %d %s %q", node.Implementation, node.Name, id, r.method, url)

	resp, err := h.Do(node, req)
	if err != nil {
		if IsConfigurationError(err) {
			return err
		}
		return classify(ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := readBody(resp.Body, r.stream)
	if err != nil {
		return classify(ErrNetwork, err)
	}

	glog.V(2).Infof("%s API: [response] %s %d %d %s", node.Implementation, node.Name, id, resp.StatusCode, truncate(data, maxLoggedBody))

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return classifyf(ErrAuth, "http status %d: %s", resp.StatusCode, truncate(data, 256))
	}

	if nativeErr := parseNativeError(data, resp.StatusCode); nativeErr != nil {
		return nativeErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &NativeAPIError{Code: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return classifyf(ErrProtocol, "decode %s: %v", r.path, err)
	}

	return nil
}

// parseNativeError inspects the response envelope for an error reported by the node
func parseNativeError(data []byte, status int) *NativeAPIError {
	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Code    *int            `json:"code"`
		Message string          `json:"message"`
	}

	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil
	}

	failed := status < 200 || status >= 300

	code := status
	if envelope.Code != nil {
		code = *envelope.Code
	}

	if len(envelope.Error) > 0 {
		switch envelope.Error[0] {
		case '{':
			var obj struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			}
			if err := json.Unmarshal(envelope.Error, &obj); err == nil {
				return &NativeAPIError{Code: obj.Code, Message: obj.Message}
			}
		case '"':
			var text string
			if err := json.Unmarshal(envelope.Error, &text); err == nil && text != "" && failed {
				return &NativeAPIError{Code: code, Message: text}
			}
		}
	}

	if failed && envelope.Message != "" {
		return &NativeAPIError{Code: code, Message: envelope.Message}
	}

	return nil
}

func readBody(body io.Reader, stream bool) ([]byte, error) {
	if !stream {
		return io.ReadAll(body)
	}

	var raw bytes.Buffer

	var first json.RawMessage
	err := json.NewDecoder(io.TeeReader(body, &raw)).Decode(&first)
	switch {
	case err == nil && (first[0] == '{' || first[0] == '['):
		return first, nil
	case errors.Is(err, io.EOF):
		return nil, nil
	}

	var syntaxErr *json.SyntaxError
	if err != nil && !errors.As(err, &syntaxErr) {
		return nil, err
	}

	// Not a JSON document, keep the body as sent and let the status code decide
	if _, err := io.Copy(&raw, io.LimitReader(body, maxStreamErrorBody)); err != nil {
		return nil, err
	}

	return raw.Bytes(), nil
}

func truncate(data []byte, max int) string {
	if len(data) <= max {
		return string(data)
	}

	return string(data[:max]) + "..."
}
