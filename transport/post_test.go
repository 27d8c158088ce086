package transport

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/net/http2"
)

type captured struct {
	method      string
	contentType string
	body        []byte
}

func TestPost(t *testing.T) {
	requests := make(chan captured, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests <- captured{method: r.Method, contentType: r.Header.Get("Content-Type"), body: body}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	payload := []byte(`{"recorded_at":"2024-01-01T00:00:00.000Z"}`)
	resp, err := Post(context.Background(), srv.Client(), srv.URL, payload)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Len(t, requests, 1)
	got := <-requests
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "application/json", got.contentType)
	assert.Equal(t, payload, got.body)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestPostReturnsErrorStatusUnmodified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("down"))
	}))
	defer srv.Close()

	resp, err := Post(context.Background(), srv.Client(), srv.URL, []byte(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "down", string(b))
}

func TestPostTransportError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	refused := errors.New("connection refused")
	client := NewMockHTTPClient(ctrl)
	client.EXPECT().Do(gomock.Any()).Return(nil, refused).Times(1)

	resp, err := Post(context.Background(), client, "http://collector.invalid/fp", []byte(`{}`))
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, refused)
}

func TestPostBadURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := NewMockHTTPClient(ctrl)

	_, err := Post(context.Background(), client, "://missing-scheme", nil)
	assert.Error(t, err)
}

func TestBuildClient(t *testing.T) {
	client, err := BuildClient(TLSFiles{})
	require.NoError(t, err)
	assert.Zero(t, client.Timeout)
	assert.Nil(t, client.Transport)
}

func TestBuildClientIncompleteFiles(t *testing.T) {
	tests := []struct {
		name  string
		files TLSFiles
		want  string
	}{
		{"no cert", TLSFiles{Key: "k", CA: "c"}, "incomplete TLS files, missing cert"},
		{"no key", TLSFiles{Cert: "c", CA: "c"}, "incomplete TLS files, missing key"},
		{"only ca", TLSFiles{CA: "c"}, "incomplete TLS files, missing cert, key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildClient(tt.files)
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestBuildClientMissingFiles(t *testing.T) {
	dir := t.TempDir()

	_, err := BuildClient(TLSFiles{
		Cert: filepath.Join(dir, "client.cert.pem"),
		Key:  filepath.Join(dir, "client.key.pem"),
		CA:   filepath.Join(dir, "ca.cert.pem"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load client key pair")
}

func TestBuildClientMutualTLS(t *testing.T) {
	files := writeKeyPair(t)

	client, err := BuildClient(files)
	require.NoError(t, err)

	h2, ok := client.Transport.(*http2.Transport)
	require.True(t, ok, "transport is %T", client.Transport)
	assert.Equal(t, uint16(tls.VersionTLS13), h2.TLSClientConfig.MinVersion)
	assert.Len(t, h2.TLSClientConfig.Certificates, 1)
	assert.NotNil(t, h2.TLSClientConfig.RootCAs)
}

func TestBuildClientRejectsEmptyCABundle(t *testing.T) {
	files := writeKeyPair(t)
	require.NoError(t, os.WriteFile(files.CA, []byte("not pem"), 0o600))

	_, err := BuildClient(files)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no certificates in CA bundle")
}

// writeKeyPair writes a self-signed certificate that doubles as its own CA.
func writeKeyPair(t *testing.T) TLSFiles {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "knowu-test"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	dir := t.TempDir()
	files := TLSFiles{
		Cert: filepath.Join(dir, "client.cert.pem"),
		Key:  filepath.Join(dir, "client.key.pem"),
		CA:   filepath.Join(dir, "ca.cert.pem"),
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	require.NoError(t, os.WriteFile(files.Cert, certPEM, 0o600))
	require.NoError(t, os.WriteFile(files.CA, certPEM, 0o600))
	require.NoError(t, os.WriteFile(files.Key, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0o600))
	return files
}
