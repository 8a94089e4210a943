package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/hamed0406/sentinel/internal/domain"
)

// TLSChecker opens a TLS connection to port 443 and grades the leaf
// certificate by days until expiry. LatencyMS carries the remaining days
// so operators can chart the countdown.
type TLSChecker struct {
	Timeout time.Duration
	Port    string
}

func NewTLSChecker(timeout time.Duration) *TLSChecker {
	return &TLSChecker{Timeout: timeout, Port: "443"}
}

func (c *TLSChecker) Check(ctx context.Context, t domain.Target) domain.Outcome {
	host := hostOnly(t.Address)

	dctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	d := tls.Dialer{
		NetDialer: &net.Dialer{Timeout: c.Timeout},
		Config:    &tls.Config{ServerName: host},
	}
	conn, err := d.DialContext(dctx, "tcp", net.JoinHostPort(host, c.Port))
	if err != nil {
		return down(t, "tls handshake: "+err.Error(), 100)
	}
	defer conn.Close()

	certs := conn.(*tls.Conn).ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return down(t, "tls: no peer certificate presented", 100)
	}
	return certOutcome(t, certs[0].NotAfter, time.Now().UTC())
}

// certOutcome grades certificate expiry: expired is DOWN, under a week is
// DOWN flagged critical, under a month is UP with a warning.
func certOutcome(t domain.Target, notAfter, now time.Time) domain.Outcome {
	remaining := int(notAfter.Sub(now).Hours() / 24)
	days := float64(remaining)

	switch {
	case remaining <= 0:
		zero := 0.0
		return outcome(t, domain.StatusDown, &zero, 100,
			fmt.Sprintf("certificate expired %s", notAfter.Format("2006-01-02")))
	case remaining < 7:
		return outcome(t, domain.StatusDown, &days, 0,
			fmt.Sprintf("critical: certificate expires in %d days", remaining))
	case remaining < 30:
		return outcome(t, domain.StatusUp, &days, 0,
			fmt.Sprintf("warning: certificate expires in %d days", remaining))
	default:
		return outcome(t, domain.StatusUp, &days, 0,
			"certificate valid till "+notAfter.Format("2006-01-02"))
	}
}
