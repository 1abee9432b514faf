// Package breach implements the k-anonymity breach lookup: only the first
// five hex characters of the candidate secret's SHA-1 digest ever leave the
// process; the corpus answers with every suffix sharing that prefix.
package breach

import (
	"bufio"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Status classifies a checked secret. An Inconclusive verdict means the
// check could not run to completion; it must never be read as Clean.
type Status int

const (
	StatusClean Status = iota
	StatusExposed
	StatusInconclusive
)

func (s Status) String() string {
	switch s {
	case StatusClean:
		return "clean"
	case StatusExposed:
		return "exposed"
	case StatusInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

// Result is the outcome of one lookup. Count is the corpus exposure count
// and is meaningful only when Status is StatusExposed.
type Result struct {
	Status Status
	Count  int64
}

// Checker decides whether a candidate secret appears in a breach corpus.
type Checker interface {
	Check(ctx context.Context, secret string) (*Result, error)
}

const prefixLength = 5

// HTTPChecker queries a pwnedpasswords-compatible range endpoint.
type HTTPChecker struct {
	endpoint string
	client   *http.Client
}

// NewHTTPChecker builds a checker against endpoint (no trailing slash) with
// an explicit per-request timeout.
func NewHTTPChecker(endpoint string, timeout time.Duration) *HTTPChecker {
	return &HTTPChecker{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
	}
}

// Check returns the corpus verdict for secret. Every transport or protocol
// failure (request error, non-200 status, malformed record) yields a
// StatusInconclusive result together with the underlying error; the secret
// and its full digest are never transmitted.
func (c *HTTPChecker) Check(ctx context.Context, secret string) (*Result, error) {
	digest := sha1.Sum([]byte(secret))
	full := strings.ToUpper(hex.EncodeToString(digest[:]))
	prefix, suffix := full[:prefixLength], full[prefixLength:]

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/"+prefix, nil)
	if err != nil {
		return &Result{Status: StatusInconclusive}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &Result{Status: StatusInconclusive}, fmt.Errorf("range query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &Result{Status: StatusInconclusive}, fmt.Errorf("range query status: %s", resp.Status)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		candidate, countText, ok := strings.Cut(line, ":")
		if !ok {
			return &Result{Status: StatusInconclusive}, fmt.Errorf("malformed corpus record: %q", line)
		}

		if !strings.EqualFold(candidate, suffix) {
			continue
		}

		count, err := strconv.ParseInt(strings.TrimSpace(countText), 10, 64)
		if err != nil {
			return &Result{Status: StatusInconclusive}, fmt.Errorf("malformed exposure count: %q", line)
		}

		return &Result{Status: StatusExposed, Count: count}, nil
	}

	if err := scanner.Err(); err != nil {
		return &Result{Status: StatusInconclusive}, fmt.Errorf("reading corpus response: %w", err)
	}

	return &Result{Status: StatusClean}, nil
}
