// Copyright (c) 2025 Tag Sense
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors classifies transport failures against the local services
// and renders troubleshooting hints for them.
package httperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/pterm/pterm"
)

// Cause is the broad reason a request never produced an HTTP response.
type Cause int

const (
	CauseUnknown Cause = iota
	CauseTimeout
	CauseDNS
	CauseRefused
	CauseReset
)

func (c Cause) String() string {
	switch c {
	case CauseTimeout:
		return "timeout"
	case CauseDNS:
		return "dns"
	case CauseRefused:
		return "connection refused"
	case CauseReset:
		return "connection reset"
	default:
		return "transport error"
	}
}

// Classify returns the cause of a transport error.
func Classify(err error) Cause {
	switch {
	case err == nil:
		return CauseUnknown
	case isTimeoutError(err):
		return CauseTimeout
	case isDNSError(err):
		return CauseDNS
	case isConnectionRefusedError(err):
		return CauseRefused
	case isConnectionResetError(err):
		return CauseReset
	}
	return CauseUnknown
}

// Describe returns a one-line summary of a transport failure against service
// at addr, e.g. "backend at http://127.0.0.1:5000 did not answer within 5s".
func Describe(err error, service, addr string, timeout time.Duration) string {
	where := fmt.Sprintf("%s at %s", service, ExtractHostFromURL(addr))
	switch Classify(err) {
	case CauseTimeout:
		return fmt.Sprintf("%s did not answer within %s", where, timeout)
	case CauseDNS:
		return fmt.Sprintf("cannot resolve %s", where)
	case CauseRefused:
		return fmt.Sprintf("%s refused the connection", where)
	case CauseReset:
		return fmt.Sprintf("%s closed the connection", where)
	default:
		return fmt.Sprintf("request to %s failed", where)
	}
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded")
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isConnectionResetError(err error) bool {
	if errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection reset")
}

// Show prints troubleshooting hints for a failed call to service.
// startHint is the command that starts the service, e.g. "ollama serve".
func Show(cause Cause, service, startHint string) {
	switch cause {
	case CauseTimeout:
		showTimeoutError(service)
	case CauseRefused:
		showConnectionRefusedError(service, startHint)
	case CauseDNS:
		showDNSError(service)
	default:
		showGenericError(service, startHint)
	}
}

func showTimeoutError(service string) {
	pterm.Printf("⏱️  The %s took too long to respond\n", service)
	pterm.Println()
	pterm.Println("This could mean:")
	pterm.Println("  • The model is still loading into memory")
	pterm.Println("  • A large folder is still being processed")
	pterm.Println("  • The machine is under heavy load")
	pterm.Println()
	pterm.Println("Please try again in a few moments.")
	pterm.Println()
}

func showDNSError(service string) {
	pterm.Printf("🌐 Cannot resolve the %s address\n", service)
	pterm.Println()
	pterm.Println("Check the configured URL with: tagsense config show")
	pterm.Println()
}

func showConnectionRefusedError(service, startHint string) {
	pterm.Printf("🚫 The %s is not running\n", service)
	pterm.Println()
	if startHint != "" {
		pterm.Printf("Start it with: %s\n", startHint)
	}
	pterm.Println("Then check with: tagsense status")
	pterm.Println()
}

func showGenericError(service, startHint string) {
	pterm.Printf("❌ Cannot reach the %s\n", service)
	pterm.Println()
	pterm.Println("Please check:")
	pterm.Println("  • The service is running")
	if startHint != "" {
		pterm.Printf("    (%s)\n", startHint)
	}
	pterm.Println("  • The configured URL is correct (tagsense config show)")
	pterm.Println()
}

// ExtractHostFromURL returns scheme://host of urlStr for messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return urlStr
	}
	return u.Scheme + "://" + u.Host
}
