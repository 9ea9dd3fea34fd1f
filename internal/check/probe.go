package check

import (
	"context"
	"crypto/tls"
	"log"
	"net"
	"time"
)

const (
	tlsDialTimeout = 5 * time.Second
	lookupTimeout  = 10 * time.Second
)

// Prober determines the two expiry signals for a hostname. Probes never
// return errors: DNS failures, refused connections, handshake problems
// and timeouts all collapse to nil so one bad domain cannot crash a
// batch.
type Prober interface {
	TLSExpiry(ctx context.Context, hostname string) *time.Time
	RegistrationExpiry(ctx context.Context, hostname string) *time.Time
}

// LiveProber performs real network probes.
type LiveProber struct {
	// Registration lookup strategies, tried in order. Defaults to the
	// whois protocol followed by the HTTP mirrors.
	Strategies []RegistrationStrategy
}

// NewLiveProber returns a prober with the default strategy chain.
func NewLiveProber() *LiveProber {
	return &LiveProber{Strategies: DefaultStrategies()}
}

// TLSExpiry opens a validating TLS connection to port 443 and returns
// the earliest NotAfter in the presented chain, or nil if the
// certificate could not be read.
func (p *LiveProber) TLSExpiry(ctx context.Context, hostname string) *time.Time {
	dialer := &net.Dialer{Timeout: tlsDialTimeout}
	if deadline, ok := ctx.Deadline(); ok {
		dialer.Deadline = deadline
	}

	conn, err := tls.DialWithDialer(dialer, "tcp", hostname+":443", nil)
	if err != nil {
		log.Printf("probe: tls %s: %v", hostname, err)
		return nil
	}
	defer conn.Close()

	certs := conn.ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return nil
	}

	notAfter := certs[0].NotAfter
	for _, cert := range certs {
		if cert.NotAfter.Before(notAfter) {
			notAfter = cert.NotAfter
		}
	}
	return &notAfter
}

// RegistrationExpiry walks the strategy chain; the first strategy that
// yields an expiry ends the search.
func (p *LiveProber) RegistrationExpiry(ctx context.Context, hostname string) *time.Time {
	for _, s := range p.Strategies {
		expiry, err := s.Fetch(ctx, hostname)
		if err != nil {
			log.Printf("probe: registration %s via %s: %v", hostname, s.Name(), err)
			continue
		}
		return &expiry
	}
	return nil
}
