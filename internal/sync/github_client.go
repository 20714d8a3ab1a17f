package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"resume-sync/internal/config"
	"resume-sync/internal/infrastructure/cache"

	"github.com/pkg/errors"
)

// RemoteRepo is the subset of a GitHub repository record the sync cares
// about. GitHub returns a much larger object; only these fields are read.
type RemoteRepo struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	HTMLURL     string    `json:"html_url"`
	Homepage    string    `json:"homepage"`
	Language    string    `json:"language"`
	Fork        bool      `json:"fork"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Stars       int       `json:"stargazers_count"`
	Forks       int       `json:"forks_count"`
	OpenIssues  int       `json:"open_issues_count"`
}

type RepoLister interface {
	ListRepos(ctx context.Context, handle string) ([]RemoteRepo, error)
}

const repoCacheTTL = 60 * time.Second

// GithubClient lists a user's repositories over the REST API. Responses are
// briefly cached so back-to-back manual syncs do not burn rate limit.
type GithubClient struct {
	client  *http.Client
	apiBase string
	token   string
	cache   *cache.Redis
}

func NewGithubClient(cfg config.SyncConfig, c *cache.Redis) *GithubClient {
	return &GithubClient{
		client:  &http.Client{Timeout: cfg.FetchTimeout},
		apiBase: strings.TrimRight(cfg.GithubAPIURL, "/"),
		token:   cfg.GithubToken,
		cache:   c,
	}
}

func (g *GithubClient) ListRepos(ctx context.Context, handle string) ([]RemoteRepo, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, errors.New("empty github handle")
	}

	cacheKey := "github:repos:" + handle
	if b, ok := g.cache.GetBytes(ctx, cacheKey); ok {
		var cached []RemoteRepo
		if err := json.Unmarshal(b, &cached); err == nil {
			return cached, nil
		}
	}

	url := fmt.Sprintf("%s/users/%s/repos?sort=updated&per_page=100", g.apiBase, handle)
	body, err := g.getWithRetry(ctx, url, 3)
	if err != nil {
		return nil, errors.Wrapf(err, "list github repos for %s", handle)
	}

	var out []RemoteRepo
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, errors.Wrap(err, "decode github repo list")
	}

	if b, err := json.Marshal(out); err == nil {
		g.cache.SetBytes(ctx, cacheKey, b, repoCacheTTL)
	}

	return out, nil
}

func (g *GithubClient) getWithRetry(ctx context.Context, url string, attempts int) ([]byte, error) {
	if attempts <= 0 {
		attempts = 1
	}
	var body []byte
	var lastErr error
	for i := 0; i < attempts; i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/vnd.github.v3+json")
		req.Header.Set("User-Agent", "resume-sync")
		if g.token != "" {
			req.Header.Set("Authorization", "Bearer "+g.token)
		}

		resp, err := g.client.Do(req)
		if err != nil {
			lastErr = err
			retryBackoff(i, attempts)
			continue
		}
		func() {
			defer resp.Body.Close()
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				lastErr = fmt.Errorf("status %d", resp.StatusCode)
				return
			}
			b, err := readAllLimit(resp.Body, 5<<20)
			if err != nil {
				lastErr = err
				return
			}
			lastErr = nil
			body = b
		}()
		if lastErr == nil {
			return body, nil
		}
		retryBackoff(i, attempts)
	}
	return nil, lastErr
}

// retryBackoff sleeps between attempts; after the last one the caller
// returns immediately.
func retryBackoff(i, attempts int) {
	if i < attempts-1 {
		time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
	}
}

func readAllLimit(r io.Reader, max int64) ([]byte, error) {
	lr := &io.LimitedReader{R: r, N: max}
	b, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if lr.N <= 0 {
		return nil, fmt.Errorf("response too large")
	}
	return b, nil
}
