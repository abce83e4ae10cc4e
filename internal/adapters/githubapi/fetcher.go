// Package githubapi fetches bounded repository snapshots from the GitHub
// REST and GraphQL APIs. A snapshot is shaped for LLM consumption: every
// content field is truncated and every sub-fetch failure degrades to an
// empty value instead of failing the snapshot.
package githubapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/go-github/v61/github"
	"github.com/shurcooL/graphql"
	"golang.org/x/oauth2"

	"github.com/hackfest/vibeboard/internal/domain/model"
	"github.com/hackfest/vibeboard/pkg/logger"
)

// Sentinel kinds for fetch errors.
var (
	// ErrInvalidReference means the repository URL does not contain an
	// owner/repo pair.
	ErrInvalidReference = errors.New("invalid repository reference")

	// ErrRepoNotFound means the provider cannot resolve the repository
	// at all. This is the only sub-failure escalated to callers.
	ErrRepoNotFound = errors.New("repository not found")
)

// Defaults for snapshot bounding.
const (
	defaultTruncateBytes = 4000
	defaultKeyFileLimit  = 6
	truncationMarker     = "\n... [truncated]"

	maxBranches       = 10
	maxCommitBranches = 5
	maxCommits        = 15
	commitsPerPage    = 15
	fallbackBranch    = "main"
)

// repoRefPattern extracts owner/repo from the tail of a repository URL,
// tolerating a .git suffix and a trailing slash.
var repoRefPattern = regexp.MustCompile(`(?:github\.com[:/])([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+?)(?:\.git)?/?$`)

// keyFilePatterns selects "key" source files in priority order: readme,
// entry points, then package manifests. First match wins its position.
var keyFilePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^readme\.md$`),
	regexp.MustCompile(`^(?:cmd/[^/]+/)?main\.go$`),
	regexp.MustCompile(`^(?:src/)?(?:index|app|main)\.(?:js|jsx|ts|tsx|py)$`),
	regexp.MustCompile(`^(?:src/)?(?:server|api)\.(?:js|ts|py)$`),
	regexp.MustCompile(`^package\.json$`),
	regexp.MustCompile(`^go\.mod$`),
	regexp.MustCompile(`^(?:requirements\.txt|pyproject\.toml|Cargo\.toml)$`),
}

// Option applies a configuration option to the Fetcher.
type Option func(*Fetcher)

// WithKeyFileLimit bounds how many key files are fetched per snapshot.
func WithKeyFileLimit(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.keyFileLimit = n
		}
	}
}

// WithTruncateBytes sets the per-field content byte ceiling.
func WithTruncateBytes(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.truncateBytes = n
		}
	}
}

// WithLogger sets the fetcher logger.
func WithLogger(log logger.Logger) Option {
	return func(f *Fetcher) {
		if log != nil {
			f.log = log
		}
	}
}

// Fetcher resolves repository snapshots. The GraphQL client is only
// available with a token; metadata falls back to REST without one.
type Fetcher struct {
	rest *github.Client
	gql  *graphql.Client

	keyFileLimit  int
	truncateBytes int
	log           logger.Logger
}

// New builds a Fetcher. The token is optional; without it requests run
// unauthenticated against REST at lower rate limits.
func New(token string, opts ...Option) *Fetcher {
	f := &Fetcher{
		keyFileLimit:  defaultKeyFileLimit,
		truncateBytes: defaultTruncateBytes,
	}

	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient := oauth2.NewClient(context.Background(), src)
		f.rest = github.NewClient(httpClient)
		f.gql = graphql.NewClient("https://api.github.com/graphql", httpClient)
	} else {
		f.rest = github.NewClient(nil)
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.log == nil {
		f.log = logger.Get().Named("githubapi")
	}

	return f
}

// ParseRepoRef extracts owner and repo from a repository URL.
func ParseRepoRef(repoURL string) (owner, repo string, err error) {
	m := repoRefPattern.FindStringSubmatch(strings.TrimSpace(repoURL))
	if m == nil {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidReference, repoURL)
	}
	return m[1], m[2], nil
}

// Fetch retrieves a bounded snapshot of the repository at repoURL.
// A malformed URL or an unresolvable repository fails hard; every other
// sub-fetch degrades to an empty or default value.
func (f *Fetcher) Fetch(ctx context.Context, repoURL string) (model.RepoSnapshot, error) {
	owner, repo, err := ParseRepoRef(repoURL)
	if err != nil {
		return model.RepoSnapshot{}, err
	}

	branch, totalBytes, err := f.resolveMetadata(ctx, owner, repo)
	if err != nil {
		return model.RepoSnapshot{}, err
	}

	snap := model.RepoSnapshot{
		DefaultBranch: branch,
		TotalBytes:    totalBytes,
	}

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		snap.Readme = f.fetchReadme(ctx, owner, repo)
	}()

	var treePaths []string
	go func() {
		defer wg.Done()
		treePaths = f.fetchTree(ctx, owner, repo, branch)
	}()

	var branches []string
	var commits []string
	var commitCount int
	go func() {
		defer wg.Done()
		branches, commits, commitCount = f.fetchCommits(ctx, owner, repo)
	}()

	wg.Wait()

	snap.FilePaths = treePaths
	snap.Branches = branches
	snap.RecentCommits = commits
	snap.CommitCount = commitCount
	snap.KeyFiles = f.fetchKeyFiles(ctx, owner, repo, branch, treePaths)

	return snap, nil
}

// resolveMetadata returns the default branch and approximate byte size.
// GraphQL is preferred when authenticated; REST is the fallback. Only a
// definitive not-found escalates; other failures degrade to main/0.
func (f *Fetcher) resolveMetadata(ctx context.Context, owner, repo string) (string, int, error) {
	if f.gql != nil {
		var q struct {
			Repository struct {
				DefaultBranchRef struct {
					Name graphql.String
				}
				DiskUsage graphql.Int
			} `graphql:"repository(owner: $owner, name: $name)"`
		}
		vars := map[string]interface{}{
			"owner": graphql.String(owner),
			"name":  graphql.String(repo),
		}
		if err := f.gql.Query(ctx, &q, vars); err == nil {
			branch := string(q.Repository.DefaultBranchRef.Name)
			if branch == "" {
				branch = fallbackBranch
			}
			// DiskUsage is reported in kilobytes.
			return branch, int(q.Repository.DiskUsage) * 1024, nil
		}
		f.log.Warn(ctx, "graphql metadata query failed, falling back to rest",
			logger.String("repo", owner+"/"+repo))
	}

	r, _, err := f.rest.Repositories.Get(ctx, owner, repo)
	if err != nil {
		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
			return "", 0, fmt.Errorf("%w: %s/%s", ErrRepoNotFound, owner, repo)
		}
		f.log.Warn(ctx, "repository metadata unavailable",
			logger.String("repo", owner+"/"+repo), logger.Error(err))
		return fallbackBranch, 0, nil
	}

	branch := r.GetDefaultBranch()
	if branch == "" {
		branch = fallbackBranch
	}
	// Size is reported in kilobytes.
	return branch, r.GetSize() * 1024, nil
}

func (f *Fetcher) fetchReadme(ctx context.Context, owner, repo string) string {
	readme, _, err := f.rest.Repositories.GetReadme(ctx, owner, repo, nil)
	if err != nil {
		return ""
	}
	content, err := readme.GetContent()
	if err != nil {
		return ""
	}
	return f.truncate(content)
}

func (f *Fetcher) fetchTree(ctx context.Context, owner, repo, branch string) []string {
	tree, _, err := f.rest.Git.GetTree(ctx, owner, repo, branch, true)
	if err != nil {
		f.log.Warn(ctx, "tree fetch failed",
			logger.String("repo", owner+"/"+repo), logger.Error(err))
		return nil
	}

	paths := make([]string, 0, len(tree.Entries))
	for _, te := range tree.Entries {
		if te == nil || te.GetType() != "blob" {
			continue
		}
		paths = append(paths, te.GetPath())
	}
	return paths
}

type commitEntry struct {
	message string
	date    time.Time
}

// fetchCommits lists up to maxBranches branches and pulls one page of
// commits from each of the first maxCommitBranches. The commit count is
// approximated from the provider's pagination metadata (Link header page
// index); it is best-effort, not exact.
func (f *Fetcher) fetchCommits(ctx context.Context, owner, repo string) ([]string, []string, int) {
	branches, _, err := f.rest.Repositories.ListBranches(ctx, owner, repo, &github.BranchListOptions{
		ListOptions: github.ListOptions{PerPage: maxBranches},
	})
	if err != nil {
		f.log.Warn(ctx, "branch list failed",
			logger.String("repo", owner+"/"+repo), logger.Error(err))
		return nil, nil, 0
	}

	names := make([]string, 0, len(branches))
	for _, b := range branches {
		names = append(names, b.GetName())
	}

	seen := make(map[string]bool)
	var entries []commitEntry
	commitCount := 0

	limit := len(names)
	if limit > maxCommitBranches {
		limit = maxCommitBranches
	}
	for _, name := range names[:limit] {
		commits, resp, err := f.rest.Repositories.ListCommits(ctx, owner, repo, &github.CommitsListOptions{
			SHA:         name,
			ListOptions: github.ListOptions{PerPage: commitsPerPage},
		})
		if err != nil {
			continue
		}

		// One page per branch; the Link header's last-page index
		// approximates branch depth. Best-effort, not exact.
		if resp != nil && resp.LastPage > 0 {
			commitCount += resp.LastPage * commitsPerPage
		} else {
			commitCount += len(commits)
		}

		for _, c := range commits {
			msg := strings.SplitN(c.GetCommit().GetMessage(), "\n", 2)[0]
			if msg == "" || seen[msg] {
				continue
			}
			seen[msg] = true
			entries = append(entries, commitEntry{
				message: msg,
				date:    c.GetCommit().GetAuthor().GetDate().Time,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].date.After(entries[j].date)
	})
	if len(entries) > maxCommits {
		entries = entries[:maxCommits]
	}

	msgs := make([]string, len(entries))
	for i, e := range entries {
		msgs[i] = e.message
	}
	return names, msgs, commitCount
}

// fetchKeyFiles matches tree paths against the priority pattern list and
// fetches at most keyFileLimit files, truncated at the byte ceiling.
func (f *Fetcher) fetchKeyFiles(ctx context.Context, owner, repo, branch string, paths []string) []model.KeyFile {
	var selected []string
	chosen := make(map[string]bool)

	for _, pat := range keyFilePatterns {
		if len(selected) >= f.keyFileLimit {
			break
		}
		for _, p := range paths {
			if chosen[p] || !pat.MatchString(p) {
				continue
			}
			chosen[p] = true
			selected = append(selected, p)
			break
		}
	}

	var out []model.KeyFile
	for _, p := range selected {
		file, _, _, err := f.rest.Repositories.GetContents(ctx, owner, repo, p, &github.RepositoryContentGetOptions{Ref: branch})
		if err != nil || file == nil {
			continue
		}
		content, err := file.GetContent()
		if err != nil || content == "" {
			continue
		}
		out = append(out, model.KeyFile{Path: p, Content: f.truncate(content)})
	}
	return out
}

func (f *Fetcher) truncate(s string) string {
	if len(s) <= f.truncateBytes {
		return s
	}
	return s[:f.truncateBytes] + truncationMarker
}
