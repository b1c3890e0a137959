// Package github posts analyzer reports as pull-request comments.
package github

import (
	"context"
	"net/http"
	"os"

	gh "github.com/google/go-github/v67/github"
	"golang.org/x/oauth2"

	"cdk-cost/adapters/comment"
	"cdk-cost/internal/errors"
)

// TokenEnvVar names the environment variable carrying the API token.
const TokenEnvVar = "GITHUB_TOKEN"

// Adapter implements comment.Client against the GitHub issues API.
// Pull-request comments are issue comments in that API.
type Adapter struct {
	client *gh.Client
	owner  string
	repo   string
	number int
	token  string
}

// New creates an adapter for one pull request. The token is read from
// GITHUB_TOKEN.
func New(ctx context.Context, owner, repo string, number int) (*Adapter, error) {
	token := os.Getenv(TokenEnvVar)
	if token == "" {
		return nil, errors.Newf(errors.TypeIntegration, "%s is not set", TokenEnvVar)
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := gh.NewClient(oauth2.NewClient(ctx, source))

	return &Adapter{
		client: client,
		owner:  owner,
		repo:   repo,
		number: number,
		token:  token,
	}, nil
}

// List returns the pull request's existing comments.
func (a *Adapter) List(ctx context.Context) ([]comment.Comment, error) {
	var all []comment.Comment
	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	for {
		var page []*gh.IssueComment
		var resp *gh.Response
		err := comment.Retry(ctx, func() error {
			var listErr error
			page, resp, listErr = a.client.Issues.ListComments(ctx, a.owner, a.repo, a.number, opts)
			return listErr
		}, a.isRetryable)
		if err != nil {
			return nil, a.wrap("listing comments", err)
		}

		for _, c := range page {
			all = append(all, comment.Comment{ID: c.GetID(), Body: c.GetBody()})
		}
		if resp.NextPage == 0 {
			return all, nil
		}
		opts.Page = resp.NextPage
	}
}

// Post creates a new comment.
func (a *Adapter) Post(ctx context.Context, body string) error {
	err := comment.Retry(ctx, func() error {
		_, _, postErr := a.client.Issues.CreateComment(ctx, a.owner, a.repo, a.number,
			&gh.IssueComment{Body: gh.String(body)})
		return postErr
	}, a.isRetryable)
	if err != nil {
		return a.wrap("posting comment", err)
	}
	return nil
}

// Update replaces an existing comment's body.
func (a *Adapter) Update(ctx context.Context, id int64, body string) error {
	err := comment.Retry(ctx, func() error {
		_, _, editErr := a.client.Issues.EditComment(ctx, a.owner, a.repo, id,
			&gh.IssueComment{Body: gh.String(body)})
		return editErr
	}, a.isRetryable)
	if err != nil {
		return a.wrap("updating comment", err)
	}
	return nil
}

// Delete removes an existing comment.
func (a *Adapter) Delete(ctx context.Context, id int64) error {
	err := comment.Retry(ctx, func() error {
		_, delErr := a.client.Issues.DeleteComment(ctx, a.owner, a.repo, id)
		return delErr
	}, a.isRetryable)
	if err != nil {
		return a.wrap("deleting comment", err)
	}
	return nil
}

// isRetryable treats rate limiting and server errors as transient.
func (a *Adapter) isRetryable(err error) bool {
	if _, ok := err.(*gh.RateLimitError); ok {
		return true
	}
	if _, ok := err.(*gh.AbuseRateLimitError); ok {
		return true
	}
	if errResp, ok := err.(*gh.ErrorResponse); ok && errResp.Response != nil {
		code := errResp.Response.StatusCode
		return code == http.StatusTooManyRequests || code >= 500
	}
	// Transport-level failures have no status and are worth retrying
	return true
}

// wrap builds an integration error with the token scrubbed out.
func (a *Adapter) wrap(operation string, err error) error {
	return errors.Newf(errors.TypeIntegration, "%s: %s",
		operation, comment.ScrubTokens(err.Error(), a.token))
}
