package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 1 {
		t.Errorf("expected default burst 1 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://www.sec.gov/Archives/edgar/data/1/a.txt"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	if err := limiter.Wait(ctx, "https://data.sec.gov/submissions/CIK0000000001.json"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 100; i++ {
		if !limiter.Allow("https://www.sec.gov/") {
			t.Fatalf("request %d should pass with limiting disabled", i)
		}
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	limiter := NewLimiter(1, 1)
	url := "https://www.sec.gov/cgi-bin/browse-edgar"

	if err := limiter.Wait(context.Background(), url); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	if limiter.Allow(url) {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	if !limiter.Allow("https://data.sec.gov/") {
		t.Errorf("expected allow for other host")
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(10, 10)
	host := "slow.example.com"

	limiter.SetHostRate(host, 0.1, 1)

	if !limiter.Allow("http://" + host) {
		t.Errorf("first request should pass")
	}
	if limiter.Allow("http://" + host) {
		t.Errorf("second request should fail")
	}
	if !limiter.Allow("http://fast.example.com") {
		t.Errorf("other host should pass")
	}
}

func TestLimiter_SlowHost(t *testing.T) {
	limiter := NewLimiter(100, 1)
	limiter.SlowHost("www.sec.gov", 10*time.Second)

	if !limiter.Allow("https://www.sec.gov/a") {
		t.Errorf("first request should pass")
	}
	if limiter.Allow("https://www.sec.gov/b") {
		t.Errorf("second request should wait for the crawl delay")
	}
}

func TestHostOf(t *testing.T) {
	host, err := hostOf("https://www.sec.gov/Archives/edgar/full-index/")
	if err != nil {
		t.Fatalf("hostOf failed: %v", err)
	}
	if host != "www.sec.gov" {
		t.Errorf("expected www.sec.gov, got %s", host)
	}

	if _, err := hostOf("::invalid"); err == nil {
		t.Errorf("expected error for invalid URL")
	}
}
