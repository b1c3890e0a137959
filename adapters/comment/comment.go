// Package comment defines the pull-request comment contract shared by
// the GitHub and GitLab adapters: a hidden marker identifies the
// analyzer's own comment, and a strategy decides how a new report
// replaces the previous one.
package comment

import (
	"context"
	"strings"
	"time"

	"gopkg.in/matryer/try.v1"

	"cdk-cost/internal/errors"
)

// Marker is the hidden HTML fragment that identifies analyzer comments.
const Marker = "<!-- cdk-cost-analyzer -->"

// Strategy controls how a new report interacts with an existing comment
type Strategy string

const (
	// StrategyNew always posts a fresh comment
	StrategyNew Strategy = "new"

	// StrategyUpdate edits the existing marked comment in place, or
	// posts when none exists
	StrategyUpdate Strategy = "update"

	// StrategyDeleteAndNew deletes the existing marked comment and
	// posts a fresh one, keeping it at the bottom of the thread
	StrategyDeleteAndNew Strategy = "delete-and-new"
)

// Comment is one existing comment on a pull or merge request
type Comment struct {
	// ID is the provider-assigned comment id
	ID int64

	// Body is the comment text
	Body string
}

// Client is the provider-side comment API
type Client interface {
	// List returns the existing comments on the request
	List(ctx context.Context) ([]Comment, error)

	// Post creates a new comment
	Post(ctx context.Context, body string) error

	// Update replaces the body of an existing comment
	Update(ctx context.Context, id int64, body string) error

	// Delete removes an existing comment
	Delete(ctx context.Context, id int64) error
}

// Publisher applies a strategy over a provider client
type Publisher struct {
	client   Client
	strategy Strategy
}

// NewPublisher creates a publisher. An empty strategy defaults to
// update.
func NewPublisher(client Client, strategy Strategy) *Publisher {
	if strategy == "" {
		strategy = StrategyUpdate
	}
	return &Publisher{client: client, strategy: strategy}
}

// Publish posts the report body according to the configured strategy.
// The marker is prepended so a later run can find the comment again.
func (p *Publisher) Publish(ctx context.Context, body string) error {
	marked := Marker + "\n" + body

	if p.strategy == StrategyNew {
		return p.client.Post(ctx, marked)
	}

	comments, err := p.client.List(ctx)
	if err != nil {
		return errors.Wrap(errors.TypeIntegration, "listing existing comments", err)
	}

	existing, found := FindMarked(comments)
	if !found {
		return p.client.Post(ctx, marked)
	}

	switch p.strategy {
	case StrategyUpdate:
		return p.client.Update(ctx, existing.ID, marked)
	case StrategyDeleteAndNew:
		if err := p.client.Delete(ctx, existing.ID); err != nil {
			return errors.Wrap(errors.TypeIntegration, "deleting previous comment", err)
		}
		return p.client.Post(ctx, marked)
	default:
		return errors.Newf(errors.TypeIntegration, "unknown comment strategy %q", p.strategy)
	}
}

// FindMarked returns the first comment carrying the marker.
func FindMarked(comments []Comment) (Comment, bool) {
	for _, c := range comments {
		if strings.Contains(c.Body, Marker) {
			return c, true
		}
	}
	return Comment{}, false
}

// ScrubTokens removes secret values from a message before it can reach
// logs or error text.
func ScrubTokens(message string, tokens ...string) string {
	for _, token := range tokens {
		if token == "" {
			continue
		}
		message = strings.ReplaceAll(message, token, "***")
	}
	return message
}

const retryAttempts = 4

// retryBackoffBase is a variable so tests can shrink the delays.
var retryBackoffBase = time.Second

func init() {
	if try.MaxRetries < retryAttempts {
		try.MaxRetries = retryAttempts
	}
}

// Retry runs op with exponential backoff on transient provider
// failures. isRetryable decides which errors are worth another attempt
// (429 and 5xx in practice).
func Retry(ctx context.Context, op func() error, isRetryable func(error) bool) error {
	return try.Do(func(attempt int) (bool, error) {
		err := op()
		if err == nil {
			return false, nil
		}
		if !isRetryable(err) || attempt >= retryAttempts {
			return false, err
		}
		delay := retryBackoffBase << (attempt - 1)
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(delay):
		}
		return true, err
	})
}
