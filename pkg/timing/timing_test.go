package timing

import (
	"testing"
	"time"
)

func TestTimerAccumulatesStages(t *testing.T) {
	tm := NewTimer()

	tm.StartDNS()
	time.Sleep(time.Millisecond)
	tm.EndDNS()

	tm.StartTCP()
	time.Sleep(time.Millisecond)
	tm.EndTCP()

	tm.StartTTFB()
	time.Sleep(time.Millisecond)
	tm.EndTTFB()

	m := tm.GetMetrics()
	if m.DNSLookup <= 0 {
		t.Error("expected a positive DNSLookup duration")
	}
	if m.TCPConnect <= 0 {
		t.Error("expected a positive TCPConnect duration")
	}
	if m.TTFB <= 0 {
		t.Error("expected a positive TTFB duration")
	}
	if m.TLSHandshake != 0 {
		t.Error("expected zero TLSHandshake when Start/EndTLS were never called")
	}
	if m.TotalTime <= 0 {
		t.Error("expected a positive TotalTime")
	}
}

func TestMetricsConnectionAndServerTime(t *testing.T) {
	m := Metrics{
		DNSLookup:    10 * time.Millisecond,
		TCPConnect:   20 * time.Millisecond,
		TLSHandshake: 30 * time.Millisecond,
		TTFB:         40 * time.Millisecond,
	}
	if got, want := m.ConnectionTime(), 60*time.Millisecond; got != want {
		t.Errorf("ConnectionTime = %v, want %v", got, want)
	}
	if got, want := m.ServerTime(), 40*time.Millisecond; got != want {
		t.Errorf("ServerTime = %v, want %v", got, want)
	}
}

func TestMetricsString(t *testing.T) {
	m := Metrics{TotalTime: time.Second}
	s := m.String()
	if s == "" {
		t.Error("expected a non-empty summary string")
	}
}
