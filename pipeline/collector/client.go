package collector

import (
	"crypto/tls"
	"net/http"
	"time"

	"github.com/jing2626/legislativeai/config"
)

// NewHTTPClient builds the client used for listing pages and document
// downloads. The legislative site runs on an aging TLS stack, so the
// insecure mode relaxes verification and allows renegotiation the way a
// browser would.
func NewHTTPClient(cfg config.CrawlerConfig) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureLegacyTLS {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
			MinVersion:         tls.VersionTLS10,
			Renegotiation:      tls.RenegotiateOnceAsClient,
		}
	}
	return &http.Client{
		Transport: transport,
		Timeout:   time.Duration(cfg.DownloadTimeoutSec) * time.Second,
	}
}
