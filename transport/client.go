// Package transport builds the HTTP client fingerprints are posted with and
// performs the POST itself.
package transport

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/net/http2"
)

// TLSFiles names the PEM files for mutual TLS with the collection endpoint.
type TLSFiles struct {
	Cert string
	Key  string
	CA   string
}

// Empty reports whether no TLS material is configured.
func (f TLSFiles) Empty() bool {
	return f == TLSFiles{}
}

func (f TLSFiles) missing() []string {
	var names []string
	for _, field := range []struct{ name, path string }{
		{"cert", f.Cert},
		{"key", f.Key},
		{"ca", f.CA},
	} {
		if field.path == "" {
			names = append(names, field.name)
		}
	}
	return names
}

// load reads the key pair and CA pool into a TLS 1.3-only config.
func (f TLSFiles) load() (*tls.Config, error) {
	if missing := f.missing(); len(missing) > 0 {
		return nil, fmt.Errorf("incomplete TLS files, missing %s", strings.Join(missing, ", "))
	}

	pair, err := tls.LoadX509KeyPair(f.Cert, f.Key)
	if err != nil {
		return nil, fmt.Errorf("load client key pair: %w", err)
	}
	pem, err := os.ReadFile(f.CA)
	if err != nil {
		return nil, fmt.Errorf("read CA bundle: %w", err)
	}
	roots := x509.NewCertPool()
	if !roots.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates in CA bundle %s", f.CA)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{pair},
		RootCAs:      roots,
		MinVersion:   tls.VersionTLS13,
		MaxVersion:   tls.VersionTLS13,
	}, nil
}

// BuildClient returns a plain HTTP client for empty files and an HTTP/2 client
// authenticating with the configured key pair otherwise. The client carries no
// timeout: a send lasts as long as the caller's context allows.
func BuildClient(files TLSFiles) (*http.Client, error) {
	if files.Empty() {
		return &http.Client{}, nil
	}

	tlsConfig, err := files.load()
	if err != nil {
		return nil, err
	}
	return &http.Client{
		Transport: &http2.Transport{TLSClientConfig: tlsConfig},
	}, nil
}
