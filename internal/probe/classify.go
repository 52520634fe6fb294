package probe

import (
	"context"
	"errors"
	"net"
	"syscall"
)

const detailTimeout = "timeout reached"

// classify maps a dial error onto a Reason and the detail text to report.
func classify(err error) (Reason, string) {
	if isTimeout(err) {
		return ReasonTimeout, detailTimeout
	}

	var de *net.DNSError
	if errors.As(err, &de) {
		return ReasonDNS, err.Error()
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return ReasonRefused, err.Error()
	case errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.EHOSTUNREACH):
		return ReasonUnreachable, err.Error()
	}
	return ReasonError, err.Error()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
