package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	if got := New(0).checkTimeout; got != 5*time.Second {
		t.Errorf("default timeout = %v, want 5s", got)
	}
	if got := New(time.Second).checkTimeout; got != time.Second {
		t.Errorf("timeout = %v, want 1s", got)
	}
}

func TestCheckReadiness(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]CheckFunc
		want   string
	}{
		{name: "no checks", want: StatusReady},
		{
			name: "all healthy",
			checks: map[string]CheckFunc{
				"a": func(context.Context) error { return nil },
				"b": func(context.Context) error { return nil },
			},
			want: StatusReady,
		},
		{
			name: "one failing",
			checks: map[string]CheckFunc{
				"a": func(context.Context) error { return nil },
				"b": func(context.Context) error { return errors.New("broken") },
			},
			want: StatusDegraded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(time.Second)
			for name, check := range tt.checks {
				c.RegisterCheck(name, check)
			}

			status := c.CheckReadiness(context.Background())
			if status.Status != tt.want {
				t.Errorf("Status = %q, want %q", status.Status, tt.want)
			}
			if len(status.Checks) != len(tt.checks) {
				t.Errorf("got %d results, want %d", len(status.Checks), len(tt.checks))
			}
		})
	}
}

func TestCheckReadiness_Timeout(t *testing.T) {
	c := New(20 * time.Millisecond)
	c.RegisterCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		return nil
	})

	status := c.CheckReadiness(context.Background())
	if status.Checks["slow"].Message != "health check timeout" {
		t.Errorf("slow check = %+v, want timeout", status.Checks["slow"])
	}
}

func TestListChecks(t *testing.T) {
	c := New(0)
	c.RegisterCheck("sources", PathsCheck(nil))
	c.RegisterCheck("build", (&BuildState{}).Check)
	c.RegisterCheck("build", (&BuildState{}).Check)

	got := strings.Join(c.ListChecks(), ",")
	if got != "build,sources" {
		t.Errorf("ListChecks() = %s", got)
	}
}

func TestBuildState(t *testing.T) {
	var state BuildState
	ctx := context.Background()

	if err := state.Check(ctx); !errors.Is(err, ErrNoBuild) {
		t.Errorf("Check() before build = %v, want ErrNoBuild", err)
	}

	boom := errors.New("2 diagnostics")
	state.Record(boom)
	if err := state.Check(ctx); !errors.Is(err, boom) {
		t.Errorf("Check() after failure = %v, want wrapped %v", err, boom)
	}

	state.Record(nil)
	if err := state.Check(ctx); err != nil {
		t.Errorf("Check() after success = %v", err)
	}
	if state.Builds() != 2 {
		t.Errorf("Builds() = %d, want 2", state.Builds())
	}
}

func TestPathsCheck(t *testing.T) {
	dir := t.TempDir()
	if err := PathsCheck([]string{dir})(context.Background()); err != nil {
		t.Errorf("existing path: %v", err)
	}
	if err := PathsCheck([]string{dir, filepath.Join(dir, "gone")})(context.Background()); err == nil {
		t.Error("missing path should fail")
	}
}

func TestEndpoints(t *testing.T) {
	c := New(time.Second)
	var state BuildState
	c.RegisterCheck("build", state.Check)

	mux := http.NewServeMux()
	Mount(c, VersionInfo{Version: "1.0.0", Commit: "abc"})(mux)

	get := func(method, path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
		return rec
	}

	if rec := get(http.MethodGet, LivenessPath); rec.Code != http.StatusOK {
		t.Errorf("liveness code = %d", rec.Code)
	}

	rec := get(http.MethodGet, ReadinessPath)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("readiness before build = %d, want 503", rec.Code)
	}
	var status HealthStatus
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if status.Checks["build"].Message != ErrNoBuild.Error() {
		t.Errorf("build check = %+v", status.Checks["build"])
	}

	state.Record(nil)
	if rec := get(http.MethodGet, ReadinessPath); rec.Code != http.StatusOK {
		t.Errorf("readiness after build = %d, want 200", rec.Code)
	}

	rec = get(http.MethodGet, VersionPath)
	var info VersionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info.Version != "1.0.0" || info.GoVersion == "" {
		t.Errorf("version = %+v", info)
	}

	if rec := get(http.MethodHead, LivenessPath); rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("HEAD liveness = %d with %d bytes", rec.Code, rec.Body.Len())
	}
	if rec := get(http.MethodPost, LivenessPath); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST liveness = %d, want 405", rec.Code)
	}
}
