package httpmiddleware

import (
	"testing"
	"time"
)

func TestLimiterBurstAndRefill(t *testing.T) {
	l := NewLimiter(2)
	now := time.Now()

	if !l.allow("ip1", now) {
		t.Fatal("first request must pass")
	}
	if !l.allow("ip1", now) {
		t.Fatal("second request within burst must pass")
	}
	if l.allow("ip1", now) {
		t.Fatal("third request at the same instant must be limited")
	}

	// after a minute the bucket has refilled
	if !l.allow("ip1", now.Add(time.Minute)) {
		t.Fatal("request after refill must pass")
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l := NewLimiter(1)
	now := time.Now()

	if !l.allow("ip1", now) {
		t.Fatal("ip1 must pass")
	}
	if !l.allow("ip2", now) {
		t.Fatal("ip2 must not share ip1's bucket")
	}
	if l.allow("ip1", now) {
		t.Fatal("ip1 must be limited")
	}
}
