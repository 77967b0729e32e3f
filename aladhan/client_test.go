package aladhan

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yllada/prayer-times/common"
	"github.com/yllada/prayer-times/prayer"
)

const okBody = `{
  "code": 200,
  "status": "OK",
  "data": {
    "timings": {
      "Fajr": "04:48", "Sunrise": "06:05", "Dhuhr": "12:15", "Asr": "15:38",
      "Sunset": "18:22", "Maghrib": "18:22", "Isha": "19:52", "Imsak": "04:38"
    },
    "date": {
      "readable": "14 Mar 2026",
      "hijri": {
        "date": "25-09-1447", "day": "25", "month": {"en": "Ramaḍān"}, "year": "1447",
        "designation": {"abbreviated": "AH"}
      }
    },
    "meta": {"timezone": "Asia/Riyadh", "method": {"id": 4, "name": "Umm Al-Qura University, Makkah"}}
  }
}`

var testLoc = common.Location{City: "Jeddah", Country: "Saudi Arabia", Method: 4}

func testDay() time.Time {
	return time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
}

func newTestClient(srv *httptest.Server, opts ...Option) *Client {
	base := []Option{
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithRetry(3, time.Millisecond),
	}
	return New(append(base, opts...)...)
}

func TestFetch_Success(t *testing.T) {
	var gotPath, gotCity, gotMethod, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCity = r.URL.Query().Get("city")
		gotMethod = r.URL.Query().Get("method")
		gotReqID = r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	res, err := newTestClient(srv).Fetch(context.Background(), testLoc, testDay())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if gotPath != "/v1/timingsByCity/14-03-2026" {
		t.Errorf("path = %q", gotPath)
	}
	if gotCity != "Jeddah" || gotMethod != "4" {
		t.Errorf("query city=%q method=%q", gotCity, gotMethod)
	}
	if gotReqID == "" {
		t.Error("request id header not set")
	}

	if len(res.Schedule) != 6 {
		t.Errorf("schedule has %d entries, want 6", len(res.Schedule))
	}
	if res.Schedule[prayer.Dhuhr] != "12:15" {
		t.Errorf("Dhuhr = %q", res.Schedule[prayer.Dhuhr])
	}
	if res.Hijri != "25 Ramaḍān 1447 AH" {
		t.Errorf("Hijri = %q", res.Hijri)
	}
	if res.Timezone != "Asia/Riyadh" || res.Readable != "14 Mar 2026" {
		t.Errorf("meta = %q, %q", res.Timezone, res.Readable)
	}
	if res.Location != testLoc {
		t.Errorf("Location = %v", res.Location)
	}
}

func TestFetch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"api code not ok", http.StatusOK, `{"code":400,"status":"BAD_REQUEST","data":"Unable to locate city"}`, common.ErrCityNotFound},
		{"http 400", http.StatusBadRequest, `{"code":400,"status":"BAD_REQUEST","data":"Unable to locate city"}`, common.ErrCityNotFound},
		{"http 404 plain body", http.StatusNotFound, `not found`, common.ErrCityNotFound},
		{"invalid json", http.StatusOK, `{"code":200,`, common.ErrMalformedResponse},
		{"no timings", http.StatusOK, `{"code":200,"status":"OK","data":{"timings":{}}}`, common.ErrMalformedResponse},
		{"data is a string", http.StatusOK, `{"code":200,"status":"OK","data":"oops"}`, common.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv).Fetch(context.Background(), testLoc, testDay())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Fetch() error = %v, want %v", err, tt.wantErr)
			}
			if n := atomic.LoadInt32(&calls); n != 1 {
				t.Errorf("server called %d times, want 1 (no retry)", n)
			}
		})
	}
}

func TestFetch_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	res, err := newTestClient(srv).Fetch(context.Background(), testLoc, testDay())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if res.Schedule[prayer.Fajr] != "04:48" {
		t.Errorf("Fajr = %q", res.Schedule[prayer.Fajr])
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("server called %d times, want 3", n)
	}
}

func TestFetch_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Fetch(context.Background(), testLoc, testDay())
	if !errors.Is(err, common.ErrFetchFailed) {
		t.Fatalf("Fetch() error = %v, want ErrFetchFailed", err)
	}
	if got := common.StatusText(err); got != "Connection failed. Try again." {
		t.Errorf("StatusText() = %q", got)
	}
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	hc := srv.Client()
	hc.Timeout = 50 * time.Millisecond
	c := New(WithBaseURL(srv.URL), WithHTTPClient(hc), WithRetry(1, 0))

	_, err := c.Fetch(context.Background(), testLoc, testDay())
	if !errors.Is(err, common.ErrFetchFailed) || !errors.Is(err, common.ErrTimeout) {
		t.Fatalf("Fetch() error = %v, want ErrFetchFailed and ErrTimeout", err)
	}
}

func TestFetch_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(srv, WithCacheTTL(0)).Fetch(ctx, testLoc, testDay())
	if !errors.Is(err, common.ErrCancelled) {
		t.Fatalf("Fetch() error = %v, want ErrCancelled", err)
	}
}

func TestFetch_Cache(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	c := newTestClient(srv, WithCacheTTL(time.Hour))
	ctx := context.Background()

	first, err := c.Fetch(ctx, testLoc, testDay())
	if err != nil {
		t.Fatalf("first Fetch() error = %v", err)
	}
	first.Schedule[prayer.Fajr] = "mutated"

	second, err := c.Fetch(ctx, common.Location{City: " jeddah", Country: "SAUDI ARABIA", Method: 4}, testDay())
	if err != nil {
		t.Fatalf("second Fetch() error = %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("server called %d times, want 1", n)
	}
	if second.Schedule[prayer.Fajr] != "04:48" {
		t.Errorf("cached schedule was mutated by caller: %q", second.Schedule[prayer.Fajr])
	}

	if _, err := c.Fetch(ctx, testLoc, testDay().AddDate(0, 0, 1)); err != nil {
		t.Fatalf("next day Fetch() error = %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("different date should miss the cache, calls = %d", n)
	}

	c.Invalidate(testLoc, testDay())
	if _, err := c.Fetch(ctx, testLoc, testDay()); err != nil {
		t.Fatalf("Fetch() after Invalidate error = %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("Invalidate should force a refetch, calls = %d", n)
	}
}

func TestResult_Zone(t *testing.T) {
	var nilResult *Result
	if nilResult.Zone() != nil {
		t.Error("nil result should have no zone")
	}
	if (&Result{Timezone: "Not/AZone"}).Zone() != nil {
		t.Error("unknown zone should be nil")
	}
	if z := (&Result{Timezone: "UTC"}).Zone(); z == nil || z.String() != "UTC" {
		t.Errorf("Zone() = %v", z)
	}
}

func TestMethods(t *testing.T) {
	tests := []struct {
		id        int
		wantValid bool
		wantName  string
	}{
		{2, true, "Islamic Society of North America (ISNA)"},
		{4, true, "Umm Al-Qura University, Makkah"},
		{6, false, ""},
		{24, false, ""},
		{-1, false, ""},
	}

	for _, tt := range tests {
		if got := ValidMethod(tt.id); got != tt.wantValid {
			t.Errorf("ValidMethod(%d) = %v, want %v", tt.id, got, tt.wantValid)
		}
		if got := MethodName(tt.id); got != tt.wantName {
			t.Errorf("MethodName(%d) = %q, want %q", tt.id, got, tt.wantName)
		}
	}

	for i := 1; i < len(Methods); i++ {
		if Methods[i].ID <= Methods[i-1].ID {
			t.Errorf("Methods not sorted at %d", i)
		}
	}
}
