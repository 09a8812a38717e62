package core

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeProbe struct {
	name string
	err  error
	fn   func(ctx context.Context) error
}

func (p *fakeProbe) Name() string { return p.name }

func (p *fakeProbe) Check(ctx context.Context) error {
	if p.fn != nil {
		return p.fn(ctx)
	}
	return p.err
}

func runHealth(t *testing.T, probes ...HealthProbe) (*httptest.ResponseRecorder, healthResponse) {
	t.Helper()
	s := newTestServer(t)
	s.HealthProbes = probes

	w := httptest.NewRecorder()
	s.HandleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body healthResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	return w, body
}

func TestHandleHealth_NoProbes(t *testing.T) {
	w, body := runHealth(t)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if body.Status != "healthy" {
		t.Errorf("status = %q, want healthy", body.Status)
	}
}

func TestHandleHealth_AllHealthy(t *testing.T) {
	w, body := runHealth(t,
		&fakeProbe{name: "weather"},
		&fakeProbe{name: "insights"},
	)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if body.Components["weather"].Status != "healthy" {
		t.Errorf("weather component = %+v", body.Components["weather"])
	}
}

func TestHandleHealth_FailingProbe(t *testing.T) {
	w, body := runHealth(t,
		&fakeProbe{name: "weather"},
		&fakeProbe{name: "insights", err: errors.New("connection refused")},
	)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
	if body.Status != "unhealthy" {
		t.Errorf("status = %q, want unhealthy", body.Status)
	}
	if body.Components["insights"].Status != "unhealthy" {
		t.Errorf("insights component = %+v", body.Components["insights"])
	}
	if body.Components["weather"].Status != "healthy" {
		t.Errorf("weather component = %+v", body.Components["weather"])
	}
}

func TestHandleHealth_PanickingProbe(t *testing.T) {
	w, body := runHealth(t,
		&fakeProbe{name: "weather", fn: func(context.Context) error {
			panic("probe exploded")
		}},
	)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
	if body.Components["weather"].Status != "unhealthy" {
		t.Errorf("weather component = %+v", body.Components["weather"])
	}
}

func TestHandleHealth_TimedOutProbe(t *testing.T) {
	w, body := runHealth(t,
		&fakeProbe{name: "weather", fn: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}},
	)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
	if body.Components["weather"].Status != "unhealthy" {
		t.Errorf("weather component = %+v", body.Components["weather"])
	}
}
