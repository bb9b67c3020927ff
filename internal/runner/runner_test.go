package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/maxvaer/shockprobe/internal/config"
	"github.com/maxvaer/shockprobe/internal/output"
	"github.com/maxvaer/shockprobe/internal/scanner"
)

type fixedConfirmer struct {
	answer bool
	asked  int
}

func (c *fixedConfirmer) Confirm(string) (bool, error) {
	c.asked++
	return c.answer, nil
}

func cgiServer(vulnerable bool) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if vulnerable && strings.HasPrefix(r.UserAgent(), "() { :; };") {
			fmt.Fprint(w, "\nVULNERABLE\n")
			return
		}
		fmt.Fprint(w, "<html><body>status ok</body></html>")
	}))
}

func closedURL() string {
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()
	return u
}

func testOpts(t *testing.T, targets ...string) *config.Options {
	t.Helper()
	opts := config.Defaults()
	opts.Targets = targets
	opts.Threads = 2
	opts.Timeout = 5 * time.Second
	opts.Quiet = true
	opts.NoColor = true
	opts.AssumeYes = true
	return &opts
}

func TestRunScenario(t *testing.T) {
	vuln := cgiServer(true)
	defer vuln.Close()
	safe := cgiServer(false)
	defer safe.Close()

	targets := []string{vuln.URL + "/cgi-bin/test", safe.URL + "/cgi-bin/test", closedURL() + "/"}
	opts := testOpts(t, targets...)
	opts.OutputFile = filepath.Join(t.TempDir(), "results.json")

	var stdout bytes.Buffer
	report, err := Run(context.Background(), opts, Env{Stdout: &stdout, Stderr: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}

	if report.Stats.Vulnerable != 1 || report.Stats.NotVulnerable != 1 || report.Stats.Errors != 1 {
		t.Errorf("stats = %+v, want one of each", report.Stats)
	}

	saved, err := output.LoadJSON(opts.OutputFile)
	if err != nil {
		t.Fatal(err)
	}
	if saved[targets[0]].Status != "Vulnerable" {
		t.Errorf("%s: %+v", targets[0], saved[targets[0]])
	}
	if saved[targets[1]].Status != "Not Vulnerable" {
		t.Errorf("%s: %+v", targets[1], saved[targets[1]])
	}
	if saved[targets[2]].Status != "Error" || saved[targets[2]].Details == "" {
		t.Errorf("%s: %+v", targets[2], saved[targets[2]])
	}

	table := stdout.String()
	for _, u := range targets {
		if !strings.Contains(table, u) {
			t.Errorf("table missing %s", u)
		}
	}
	// Default sort restores input order in the table.
	if strings.Index(table, targets[0]) > strings.Index(table, targets[1]) ||
		strings.Index(table, targets[1]) > strings.Index(table, targets[2]) {
		t.Errorf("table not in input order:\n%s", table)
	}
}

func TestRunDeclined(t *testing.T) {
	hits := 0
	counting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }))
	defer counting.Close()

	opts := testOpts(t, counting.URL)
	opts.AssumeYes = false
	opts.Quiet = false
	confirm := &fixedConfirmer{answer: false}
	var stderr bytes.Buffer

	report, err := Run(context.Background(), opts, Env{Stdout: &bytes.Buffer{}, Stderr: &stderr, Confirmer: confirm})
	if err != nil {
		t.Fatal(err)
	}
	if !report.Cancelled {
		t.Error("expected cancelled report")
	}
	if confirm.asked != 1 {
		t.Errorf("confirm asked %d times", confirm.asked)
	}
	if hits != 0 {
		t.Errorf("declined run sent %d requests", hits)
	}
	if !strings.Contains(stderr.String(), "Test cancelled.") {
		t.Errorf("stderr = %q", stderr.String())
	}
	if !strings.Contains(stderr.String(), `"URLs to test": 1`) {
		t.Errorf("configuration panel missing: %q", stderr.String())
	}
}

func TestRunConfirmed(t *testing.T) {
	srv := cgiServer(false)
	defer srv.Close()

	opts := testOpts(t, srv.URL)
	opts.AssumeYes = false
	confirm := &fixedConfirmer{answer: true}

	report, err := Run(context.Background(), opts, Env{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}, Confirmer: confirm})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Outcomes) != 1 || report.Outcomes[0].Verdict != scanner.NotVulnerable {
		t.Errorf("outcomes = %+v", report.Outcomes)
	}
}

func TestRunNoConfirmerWithoutYes(t *testing.T) {
	opts := testOpts(t, "http://a.test/")
	opts.AssumeYes = false
	if _, err := Run(context.Background(), opts, Env{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error without confirmer")
	}
}

func TestRunNoTargets(t *testing.T) {
	opts := testOpts(t)
	_, err := Run(context.Background(), opts, Env{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
	if !errors.Is(err, config.ErrNoTargets) {
		t.Fatalf("error = %v, want ErrNoTargets", err)
	}
}

func TestRunBadOutputPathFailsBeforeProbing(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }))
	defer srv.Close()

	opts := testOpts(t, srv.URL)
	opts.OutputFile = filepath.Join(t.TempDir(), "missing-dir", "results.json")

	if _, err := Run(context.Background(), opts, Env{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for unwritable output path")
	}
	if hits != 0 {
		t.Errorf("sent %d requests before failing", hits)
	}
}

type panickyProber struct{}

func (panickyProber) Probe(_ context.Context, target string) scanner.Outcome {
	if strings.Contains(target, "bad") {
		panic("nil map write")
	}
	return scanner.Outcome{URL: target, Verdict: scanner.NotVulnerable, Detail: "Status Code: 200, Content Length: 0"}
}

func TestRunInternalFaultBecomesErrorOutcome(t *testing.T) {
	opts := testOpts(t, "http://good.test/", "http://bad.test/", "http://good2.test/")
	opts.OutputFile = filepath.Join(t.TempDir(), "results.json")

	report, err := Run(context.Background(), opts, Env{
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
		Prober: panickyProber{},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(report.Outcomes))
	}
	saved, err := output.LoadJSON(opts.OutputFile)
	if err != nil {
		t.Fatal(err)
	}
	if saved["http://bad.test/"].Status != "Error" {
		t.Errorf("bad.test saved as %+v", saved["http://bad.test/"])
	}
}

func TestRunCSVOutput(t *testing.T) {
	srv := cgiServer(true)
	defer srv.Close()

	opts := testOpts(t, srv.URL+"/cgi-bin/a", srv.URL+"/cgi-bin/b")
	opts.OutputFile = filepath.Join(t.TempDir(), "results.csv")
	opts.OutputFormat = "csv"

	if _, err := Run(context.Background(), opts, Env{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}); err != nil {
		t.Fatal(err)
	}
}

func TestRunReportsFailedSave(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("needs /dev/full")
	}
	srv := cgiServer(false)
	defer srv.Close()

	opts := testOpts(t, srv.URL+"/cgi-bin/a")
	opts.OutputFile = "/dev/full"

	_, err := Run(context.Background(), opts, Env{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
	if err == nil || !strings.Contains(err.Error(), "saving results") {
		t.Fatalf("err = %v, want a saving results error", err)
	}
}
