package apiclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
)

// Messages used for transport-level failures.
const (
	MsgNetworkError = "Network connection error"
	MsgTimeout      = "Request timeout"
)

var statusCategories = map[int]string{
	400: "Bad request",
	401: "Invalid API key",
	404: "Not found",
	409: "Already exists",
	422: "Validation error",
	429: "Rate limit exceeded",
	500: "Server error",
}

// Normalize maps a non-success HTTP status and its raw body to a Failure.
// Unknown statuses fall back to "HTTP <status>".
func Normalize(status int, body string) Failure {
	category, ok := statusCategories[status]
	if !ok {
		category = fmt.Sprintf("HTTP %d", status)
	}
	return Failure{
		Kind:       KindUpstream,
		Message:    category,
		StatusCode: status,
		Details:    body,
	}
}

// classify turns a transport error into a Failure.
func classify(err error) Failure {
	switch {
	case isTimeout(err):
		return Failure{Kind: KindTimeout, Message: MsgTimeout}
	case isConnectError(err):
		return Failure{Kind: KindTransport, Message: MsgNetworkError}
	default:
		return Failure{Kind: KindUnexpected, Message: err.Error()}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// isConnectError reports failures to establish a session: dialing, proxy
// CONNECT, name resolution and the TLS handshake.
func isConnectError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && (opErr.Op == "dial" || opErr.Op == "proxyconnect") {
		return true
	}
	var (
		dnsErr       *net.DNSError
		certErr      *tls.CertificateVerificationError
		recordErr    tls.RecordHeaderError
		authorityErr x509.UnknownAuthorityError
		hostErr      x509.HostnameError
		invalidErr   x509.CertificateInvalidError
	)
	return errors.As(err, &dnsErr) ||
		errors.As(err, &certErr) ||
		errors.As(err, &recordErr) ||
		errors.As(err, &authorityErr) ||
		errors.As(err, &hostErr) ||
		errors.As(err, &invalidErr)
}
