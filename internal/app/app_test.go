package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/five82/courtcheck/internal/availability"
	"github.com/five82/courtcheck/internal/config"
)

type bookingSite struct {
	mu       sync.Mutex
	requests []string // LID|useDate|categoryId
}

func (b *bookingSite) seen() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

// newBookingSite serves open evening courts at WSSC on 2024-06-01 only and
// fails XYSC. Every other location has no rows.
func newBookingSite(t *testing.T) (*httptest.Server, *bookingSite) {
	t.Helper()
	site := &bookingSite{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		site.mu.Lock()
		site.requests = append(site.requests, q.Get("LID")+"|"+q.Get("useDate")+"|"+q.Get("categoryId"))
		site.mu.Unlock()

		switch {
		case q.Get("LID") == "XYSC":
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
		case q.Get("LID") == "WSSC" && q.Get("useDate") == "2024-06-01":
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"rows": [
				{"Status": "預約", "StartTime": {"Hours": 19}, "EndTime": {"Hours": 20}, "LIDName": "文山運動中心", "LSIDName": "羽球5", "TotalPrice": 350},
				{"Status": "預約", "StartTime": {"Hours": 8}, "EndTime": {"Hours": 9}, "LIDName": "文山運動中心", "LSIDName": "羽球1", "TotalPrice": 250},
				{"Status": "已預約", "StartTime": {"Hours": 20}, "EndTime": {"Hours": 21}, "LIDName": "文山運動中心", "LSIDName": "羽球2", "TotalPrice": 350}
			]}`)
		default:
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"rows": []}`)
		}
	}))
	t.Cleanup(server.Close)
	return server, site
}

// isolate points config at an empty temp dir and the endpoint at server.
func isolate(t *testing.T, server *httptest.Server) string {
	t.Helper()
	t.Setenv(config.EnvEndpoint, server.URL+"/Location/findAllowBookingList")
	t.Setenv(config.EnvCategory, "")
	t.Setenv(config.EnvLogLevel, "")
	return filepath.Join(t.TempDir(), "config.toml")
}

var fixedNow = func() time.Time { return time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC) }

func TestRunOnce_JSONSingleLocation(t *testing.T) {
	server, site := newBookingSite(t)
	cfgPath := isolate(t, server)

	var out bytes.Buffer
	err := RunOnce(context.Background(), Options{
		ConfigPath: cfgPath,
		Until:      "2024-06-02",
		TimeBucket: "Evening",
		Location:   "文山",
		Format:     "json",
		Out:        &out,
		ErrOut:     io.Discard,
		Now:        fixedNow,
	})
	if err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}

	want := []string{"WSSC|2024-06-01|Badminton", "WSSC|2024-06-02|Badminton"}
	if got := site.seen(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("requests = %v, want %v", got, want)
	}

	var days []struct {
		Date  string           `json:"date"`
		Slots []map[string]any `json:"slots"`
	}
	if err := json.Unmarshal(out.Bytes(), &days); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if len(days) != 2 {
		t.Fatalf("days = %d, want 2", len(days))
	}
	if len(days[0].Slots) != 1 || days[0].Slots[0]["Place"] != "羽球5" || days[0].Slots[0]["Time"] != "19-20" {
		t.Fatalf("first day slots = %v, want only the evening court", days[0].Slots)
	}
	if len(days[1].Slots) != 0 {
		t.Fatalf("second day slots = %v, want none", days[1].Slots)
	}
}

func TestRunOnce_TableAllLocationsReportsFailures(t *testing.T) {
	server, site := newBookingSite(t)
	cfgPath := isolate(t, server)
	if err := os.WriteFile(cfgPath, []byte("category = \"Tennis\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var out bytes.Buffer
	err := RunOnce(context.Background(), Options{
		ConfigPath: cfgPath,
		Date:       "2024-06-01",
		Out:        &out,
		ErrOut:     io.Discard,
		Now:        fixedNow,
	})
	if err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}

	seen := site.seen()
	if len(seen) != 10 {
		t.Fatalf("requests = %d, want one per location", len(seen))
	}
	if !strings.HasSuffix(seen[0], "|Tennis") {
		t.Fatalf("request %q did not use the configured category", seen[0])
	}

	text := out.String()
	for _, want := range []string{"Date: 2024-06-01", "羽球5", "羽球1", "! XYSC: api XYSC returned status 503"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "羽球2") {
		t.Fatalf("booked court listed as available:\n%s", text)
	}
}

func TestRunOnce_YAMLEmptyDay(t *testing.T) {
	server, _ := newBookingSite(t)
	cfgPath := isolate(t, server)

	var out bytes.Buffer
	err := RunOnce(context.Background(), Options{
		ConfigPath: cfgPath,
		Date:       "2024-06-05",
		Location:   "DASC",
		Format:     "yaml",
		Out:        &out,
		ErrOut:     io.Discard,
		Now:        fixedNow,
	})
	if err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}
	if !strings.Contains(out.String(), "date: \"2024-06-05\"") || !strings.Contains(out.String(), "slots: []") {
		t.Fatalf("yaml output = %q", out.String())
	}
}

func TestRunOnce_InputErrors(t *testing.T) {
	server, site := newBookingSite(t)
	cfgPath := isolate(t, server)

	cases := []struct {
		name string
		opts Options
		want string
	}{
		{"bad format", Options{Format: "csv"}, "unknown output format"},
		{"bad date", Options{Date: "tomorrow"}, "invalid date"},
		{"reversed range", Options{Date: "2024-06-03", Until: "2024-06-01"}, "before start date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := tc.opts
			opts.ConfigPath = cfgPath
			opts.Out = io.Discard
			opts.ErrOut = io.Discard
			opts.Now = fixedNow
			err := RunOnce(context.Background(), opts)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("RunOnce error = %v, want %q", err, tc.want)
			}
		})
	}
	if n := len(site.seen()); n != 0 {
		t.Fatalf("input errors still sent %d requests", n)
	}
}

func TestRunOnce_CancelledContext(t *testing.T) {
	server, _ := newBookingSite(t)
	cfgPath := isolate(t, server)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := RunOnce(ctx, Options{ConfigPath: cfgPath, Format: availability.FormatJSON, Out: &out, ErrOut: io.Discard, Now: fixedNow})
	if err == nil || !strings.Contains(err.Error(), "check interrupted after 0 of 1 dates") {
		t.Fatalf("RunOnce error = %v, want interruption", err)
	}
	if strings.TrimSpace(out.String()) != "[]" {
		t.Fatalf("output = %q, want empty list", out.String())
	}
}

func TestRunOnce_InvalidConfig(t *testing.T) {
	server, _ := newBookingSite(t)
	cfgPath := isolate(t, server)
	if err := os.WriteFile(cfgPath, []byte("page_size = [oops"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	err := RunOnce(context.Background(), Options{ConfigPath: cfgPath, Out: io.Discard, ErrOut: io.Discard})
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("RunOnce error = %v, want config error", err)
	}
}
