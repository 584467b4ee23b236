package lightning

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/bolt-observer/nodectl/entities"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/lightningnetwork/lnd/zpay32"
	"github.com/stretchr/testify/require"
	"gopkg.in/macaroon.v2"
)

const (
	alicePubkey = "0294889f2da326c29cee423723492ac8220b471d5971e1e32e0165f0d9ae2f740e"
	bobPubkey   = "027a2540c23664a4b98b295fa078c77f13f90f94e56cce5f1770fe874b642e92d6"
	bobRPCUrl   = bobPubkey + "@bob:9735"
)

type fakeCall struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   string
}

type fakeHandler func(call fakeCall) (int, string)

// fakeNode answers native API calls from registered routes and records every call
type fakeNode struct {
	t      *testing.T
	mu     sync.Mutex
	routes map[string]fakeHandler
	calls  []fakeCall
}

func newFakeNode(t *testing.T) *fakeNode {
	return &fakeNode{t: t, routes: make(map[string]fakeHandler)}
}

func (f *fakeNode) on(method, path string, h fakeHandler) {
	f.routes[method+" "+path] = h
}

func (f *fakeNode) reply(method, path string, status int, body string) {
	f.on(method, path, func(fakeCall) (int, string) {
		return status, body
	})
}

// replyAll answers every call with the same response
func (f *fakeNode) replyAll(status int, body string) {
	f.on("*", "*", func(fakeCall) (int, string) {
		return status, body
	})
}

func (f *fakeNode) do(req *http.Request) (*http.Response, error) {
	call := fakeCall{
		Method: req.Method,
		Path:   req.URL.Path,
		Query:  req.URL.RawQuery,
		Header: req.Header,
	}
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		call.Body = string(data)
	}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	h, ok := f.routes[req.Method+" "+req.URL.Path]
	if !ok {
		h, ok = f.routes["* *"]
	}
	f.mu.Unlock()

	if !ok {
		f.t.Errorf("unexpected call %s %s", req.Method, req.URL.Path)
		return response(http.StatusNotFound, `{"message":"not found"}`), nil
	}

	status, body := h(call)
	return response(status, body), nil
}

func (f *fakeNode) transport() *HTTPAPI {
	return &HTTPAPI{DoFunc: f.do}
}

// called returns "METHOD /path" of every call in order
func (f *fakeNode) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	ret := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		ret = append(ret, c.Method+" "+c.Path)
	}
	return ret
}

func (f *fakeNode) count(method, path string) int {
	n := 0
	for _, c := range f.called() {
		if c == method+" "+path {
			n++
		}
	}
	return n
}

func (f *fakeNode) last(method, path string) fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Method == method && f.calls[i].Path == path {
			return f.calls[i]
		}
	}

	f.t.Fatalf("no call %s %s", method, path)
	return fakeCall{}
}

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     make(http.Header),
	}
}

func testMacaroon(t *testing.T, caveats ...string) []byte {
	mac, err := macaroon.New([]byte("root-key"), []byte("id"), "lnd", macaroon.LatestVersion)
	require.NoError(t, err)

	for _, c := range caveats {
		require.NoError(t, mac.AddFirstPartyCaveat([]byte(c)))
	}

	data, err := mac.MarshalBinary()
	require.NoError(t, err)

	return data
}

func testNode(t *testing.T, implementation entities.Implementation) *entities.NodeDescriptor {
	return &entities.NodeDescriptor{
		Name:           "alice",
		Implementation: implementation,
		Status:         entities.Started,
		Ports:          entities.Ports{REST: 8080},
		Credentials:    entities.Credentials{Macaroon: testMacaroon(t)},
	}
}

// testInvoice returns a regtest invoice signed by a fresh key and the hex pubkey of that key
func testInvoice(t *testing.T, msat uint64) (string, string) {
	key, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	options := []func(*zpay32.Invoice){zpay32.Description("test")}
	if msat > 0 {
		options = append(options, zpay32.Amount(lnwire.MilliSatoshi(msat)))
	}

	invoice, err := zpay32.NewInvoice(&chaincfg.RegressionNetParams, sha256.Sum256([]byte("preimage")), time.Now(), options...)
	require.NoError(t, err)

	encoded, err := invoice.Encode(zpay32.MessageSigner{
		SignCompact: func(msg []byte) ([]byte, error) {
			hash := sha256.Sum256(msg)
			return ecdsa.SignCompact(key, hash[:], true)
		},
	})
	require.NoError(t, err)

	return encoded, hex.EncodeToString(key.PubKey().SerializeCompressed())
}
