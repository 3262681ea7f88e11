// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors turns transport failures against the analysis service into
// troubleshooting hints.
package httperrors

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// Category is the detected class of a network failure.
type Category string

const (
	Timeout           Category = "timeout"
	DNS               Category = "dns"
	ConnectionRefused Category = "connection_refused"
	TLS               Category = "tls"
	Server            Category = "server"
	Generic           Category = "generic"
)

// Classify inspects err and returns its category.
func Classify(err error) Category {
	switch {
	case err == nil:
		return ""
	case isTimeoutError(err):
		return Timeout
	case isDNSError(err):
		return DNS
	case isConnectionRefusedError(err):
		return ConnectionRefused
	case isSSLError(err):
		return TLS
	case isServerError(err.Error()):
		return Server
	}
	return Generic
}

// Hint renders troubleshooting lines for err while talking to serviceURL.
// It returns "" for a nil error.
func Hint(err error, serviceURL string) string {
	host := ExtractHostFromURL(serviceURL)
	var lines []string
	switch Classify(err) {
	case "":
		return ""
	case Timeout:
		lines = []string{
			fmt.Sprintf("Connection to %s timed out.", host),
			"  • The analysis service may be busy with a large LAS file",
			"  • A proxy or firewall may be dropping the connection",
		}
	case DNS:
		lines = []string{
			fmt.Sprintf("Cannot resolve %s.", host),
			"  • Check the service URL (wellplot --service-url or WELLPLOT_SERVICE_URL)",
			"  • Check DNS settings",
		}
	case ConnectionRefused:
		lines = []string{
			fmt.Sprintf("Connection refused by %s.", host),
			"  • Is the analysis service running?",
			"  • Check the port in the service URL",
		}
	case TLS:
		lines = []string{
			fmt.Sprintf("Secure connection to %s failed.", host),
			"  • Check the certificate and the system clock",
			"  • Use http:// for a local service",
		}
	case Server:
		lines = []string{
			fmt.Sprintf("%s reported an internal error.", host),
			"  • Check the analysis service logs",
		}
	default:
		lines = []string{
			fmt.Sprintf("Cannot reach the analysis service at %s.", host),
			"  • Check your network and the service URL",
		}
	}
	return strings.Join(lines, "\n")
}

func isTimeoutError(err error) bool {
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

func isServerError(errStr string) bool {
	lower := strings.ToLower(errStr)
	return strings.Contains(lower, "internal server error") ||
		strings.Contains(lower, "bad gateway") ||
		strings.Contains(lower, "service unavailable") ||
		strings.Contains(lower, "gateway timeout")
}

// ExtractHostFromURL extracts the host from a URL for messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
