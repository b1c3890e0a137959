// Package gitlab posts analyzer reports as merge-request notes through
// the GitLab REST API.
package gitlab

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"cdk-cost/adapters/comment"
	"cdk-cost/internal/errors"
)

const (
	// TokenEnvVar names the environment variable carrying the API token
	TokenEnvVar = "GITLAB_TOKEN"

	// BaseURLEnvVar overrides the API endpoint for self-hosted instances
	BaseURLEnvVar = "GITLAB_API_URL"

	// defaultBaseURL is the gitlab.com API endpoint
	defaultBaseURL = "https://gitlab.com/api/v4"

	requestTimeout = 30 * time.Second
)

// Adapter implements comment.Client against merge-request notes.
type Adapter struct {
	httpClient *http.Client
	baseURL    string
	token      string
	project    string
	mergeReqID int
}

// New creates an adapter for one merge request. Token comes from
// GITLAB_TOKEN; GITLAB_API_URL overrides the endpoint.
func New(project string, mergeReqID int) (*Adapter, error) {
	token := os.Getenv(TokenEnvVar)
	if token == "" {
		return nil, errors.Newf(errors.TypeIntegration, "%s is not set", TokenEnvVar)
	}

	baseURL := os.Getenv(BaseURLEnvVar)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Adapter{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		project:    project,
		mergeReqID: mergeReqID,
	}, nil
}

// note is the wire shape of a merge-request note
type note struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
}

// List returns the merge request's existing notes.
func (a *Adapter) List(ctx context.Context) ([]comment.Comment, error) {
	var all []comment.Comment
	page := 1

	for {
		var notes []note
		var nextPage string
		err := comment.Retry(ctx, func() error {
			body, headers, reqErr := a.do(ctx, http.MethodGet,
				fmt.Sprintf("%s?per_page=100&page=%d", a.notesURL(), page), nil)
			if reqErr != nil {
				return reqErr
			}
			nextPage = headers.Get("X-Next-Page")
			return json.Unmarshal(body, &notes)
		}, isRetryable)
		if err != nil {
			return nil, a.wrap("listing notes", err)
		}

		for _, n := range notes {
			all = append(all, comment.Comment{ID: n.ID, Body: n.Body})
		}
		if nextPage == "" {
			return all, nil
		}
		page++
	}
}

// Post creates a new note.
func (a *Adapter) Post(ctx context.Context, body string) error {
	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return errors.Wrap(errors.TypeInternal, "encoding note payload", err)
	}

	err = comment.Retry(ctx, func() error {
		_, _, reqErr := a.do(ctx, http.MethodPost, a.notesURL(), payload)
		return reqErr
	}, isRetryable)
	if err != nil {
		return a.wrap("posting note", err)
	}
	return nil
}

// Update replaces an existing note's body.
func (a *Adapter) Update(ctx context.Context, id int64, body string) error {
	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return errors.Wrap(errors.TypeInternal, "encoding note payload", err)
	}

	err = comment.Retry(ctx, func() error {
		_, _, reqErr := a.do(ctx, http.MethodPut,
			fmt.Sprintf("%s/%d", a.notesURL(), id), payload)
		return reqErr
	}, isRetryable)
	if err != nil {
		return a.wrap("updating note", err)
	}
	return nil
}

// Delete removes an existing note.
func (a *Adapter) Delete(ctx context.Context, id int64) error {
	err := comment.Retry(ctx, func() error {
		_, _, reqErr := a.do(ctx, http.MethodDelete,
			fmt.Sprintf("%s/%d", a.notesURL(), id), nil)
		return reqErr
	}, isRetryable)
	if err != nil {
		return a.wrap("deleting note", err)
	}
	return nil
}

// notesURL builds the notes collection endpoint for the merge request.
func (a *Adapter) notesURL() string {
	return fmt.Sprintf("%s/projects/%s/merge_requests/%d/notes",
		a.baseURL, url.PathEscape(a.project), a.mergeReqID)
}

// statusError carries an HTTP status for retry classification
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.status, e.body)
}

// do issues one request and returns the response body and headers.
// Non-2xx responses become statusError.
func (a *Adapter) do(ctx context.Context, method, rawURL string, payload []byte) ([]byte, http.Header, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("PRIVATE-TOKEN", a.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, &statusError{status: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}
	return body, resp.Header, nil
}

// isRetryable treats 429 and 5xx as transient; other HTTP errors and
// malformed payloads fail fast, transport errors retry.
func isRetryable(err error) bool {
	var statusErr *statusError
	if stderrors.As(err, &statusErr) {
		return statusErr.status == http.StatusTooManyRequests || statusErr.status >= 500
	}
	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return false
	}
	return true
}

// wrap builds an integration error with the token scrubbed out.
func (a *Adapter) wrap(operation string, err error) error {
	return errors.Newf(errors.TypeIntegration, "%s: %s",
		operation, comment.ScrubTokens(err.Error(), a.token))
}
