package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/playforge/refkit/pkg/log"
	"github.com/playforge/refkit/pkg/ref"
)

// Sentinel errors for remote failure classification
var (
	ErrNotFound    = errors.New("repository not found")
	ErrRateLimited = errors.New("github rate limit exhausted")
	ErrRemote      = errors.New("github request failed")
)

// requestTimeout bounds every remote call so a hung fetch cannot stall
// a resolution indefinitely
const requestTimeout = 30 * time.Second

// TreeEntry is one node of a repository file listing
type TreeEntry struct {
	Path string
	Size int
	Kind string // "blob" or "tree"
}

// Client handles GitHub operations
type Client struct {
	gh      *github.Client
	limiter *rate.Limiter
	logger  *log.Logger
}

// New creates a new GitHub client. An empty token is allowed: requests go
// out unauthenticated with a tighter local rate limit.
func New(logger *log.Logger, token string) *Client {
	var hc *http.Client
	limit := rate.NewLimiter(rate.Limit(1), 3)

	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		hc = oauth2.NewClient(context.Background(), ts)
		limit = rate.NewLimiter(rate.Limit(5), 10)
	}

	return &Client{
		gh:      github.NewClient(hc),
		limiter: limit,
		logger:  logger,
	}
}

// FetchTree fetches the recursive file listing of the repository's default
// branch. An empty tree is a valid result, not an error.
func (c *Client) FetchTree(ctx context.Context, r ref.Ref) ([]TreeEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemote, err)
	}

	repo, resp, err := c.gh.Repositories.Get(ctx, r.Owner, r.Name)
	if err != nil {
		return nil, classify(resp, err)
	}

	branch := repo.GetDefaultBranch()
	if branch == "" {
		branch = "main"
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemote, err)
	}

	tree, resp, err := c.gh.Git.GetTree(ctx, r.Owner, r.Name, branch, true)
	if err != nil {
		return nil, classify(resp, err)
	}

	entries := make([]TreeEntry, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		entries = append(entries, TreeEntry{
			Path: e.GetPath(),
			Size: e.GetSize(),
			Kind: e.GetType(),
		})
	}

	c.logger.Debug("Fetched tree for %s: %d entries", r, len(entries))
	return entries, nil
}

// FetchFileContent fetches one file's raw content. ok is false when the
// content cannot be decoded as text; callers should skip the file and
// continue with the rest of the batch.
func (c *Client) FetchFileContent(ctx context.Context, r ref.Ref, path string) (content string, ok bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrRemote, err)
	}

	file, _, resp, err := c.gh.Repositories.GetContents(
		ctx,
		r.Owner,
		r.Name,
		path,
		&github.RepositoryContentGetOptions{},
	)
	if err != nil {
		return "", false, classify(resp, err)
	}
	if file == nil {
		return "", false, nil
	}

	decoded, err := file.GetContent()
	if err != nil {
		c.logger.Debug("Skipping undecodable file %s: %v", path, err)
		return "", false, nil
	}

	return decoded, true, nil
}

// classify maps a go-github failure onto the sentinel error taxonomy
func classify(resp *github.Response, err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}

	if resp != nil {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case http.StatusForbidden, http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
	}

	return fmt.Errorf("%w: %v", ErrRemote, err)
}
