package probe

import (
	"context"
	"net"
	"sort"
	"time"

	"github.com/hamed0406/serverchecker/internal/domain"
)

// Reason tells why a host was offline. Online results carry ReasonNone.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonTimeout     Reason = "timeout"
	ReasonRefused     Reason = "refused"
	ReasonDNS         Reason = "dns"
	ReasonUnreachable Reason = "unreachable"
	ReasonError       Reason = "error"
)

// Dialer opens the TCP connection for a probe. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Result is the outcome of probing one host.
//
// Status is the tag: Elapsed is only meaningful for StatusOnline, Reason only
// for StatusOffline. Detail is free text meant for display.
type Result struct {
	Host    string
	Status  domain.Status
	Elapsed time.Duration
	Reason  Reason
	Detail  string
}

// Online reports whether the connection succeeded.
func (r Result) Online() bool { return r.Status == domain.StatusOnline }

// Record maps the result onto its external representation.
func (r Result) Record() domain.CheckResult {
	out := domain.CheckResult{
		Server:       r.Host,
		Status:       r.Status,
		ResponseTime: domain.NotAvailable,
		Details:      r.Detail,
		Reason:       string(r.Reason),
	}
	if r.Online() {
		out.ResponseTime = r.Elapsed.String()
	}
	return out
}

// Report is everything one batch produced.
type Report struct {
	ID        string
	Port      uint16
	Timeout   time.Duration
	StartedAt time.Time
	Elapsed   time.Duration
	Results   []Result
}

// Counts returns how many hosts were online and offline.
func (r *Report) Counts() (online, offline int) {
	for _, res := range r.Results {
		if res.Online() {
			online++
		} else {
			offline++
		}
	}
	return online, offline
}

// SortByHost orders results by hostname; duplicates keep their relative order.
func (r *Report) SortByHost() {
	sort.SliceStable(r.Results, func(i, j int) bool {
		return r.Results[i].Host < r.Results[j].Host
	})
}

// Record maps the report onto its external representation.
func (r *Report) Record() domain.Report {
	online, offline := r.Counts()
	out := domain.Report{
		ID:        r.ID,
		Port:      r.Port,
		TimeoutMS: r.Timeout.Milliseconds(),
		StartedAt: r.StartedAt,
		ElapsedMS: r.Elapsed.Seconds() * 1000,
		Online:    online,
		Offline:   offline,
		Results:   make([]domain.CheckResult, 0, len(r.Results)),
	}
	for _, res := range r.Results {
		out.Results = append(out.Results, res.Record())
	}
	return out
}
