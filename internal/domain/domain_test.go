package domain

import (
	"encoding/json"
	"testing"
)

func TestCheckResult_WireFieldNames(t *testing.T) {
	b, err := json.Marshal(CheckResult{
		Server:       "example.com",
		Status:       StatusOffline,
		ResponseTime: NotAvailable,
		Details:      "timeout reached",
		Reason:       "timeout",
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"server", "status", "response_time", "details", "reason"} {
		if _, ok := got[k]; !ok {
			t.Fatalf("missing key %q in %s", k, b)
		}
	}
	if got["status"] != "Offline" || got["response_time"] != "N/A" {
		t.Fatalf("unexpected values: %s", b)
	}
}

func TestCheckResult_OmitsEmptyReason(t *testing.T) {
	b, _ := json.Marshal(CheckResult{Server: "a", Status: StatusOnline, ResponseTime: "1ms"})
	var got map[string]any
	_ = json.Unmarshal(b, &got)
	if _, ok := got["reason"]; ok {
		t.Fatalf("reason should be omitted for online hosts: %s", b)
	}
}
