// Package scoring turns repository snapshots into rubric scores by
// prompting an LLM and parsing the bounded JSON payload out of its
// free-text reply.
package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/hackfest/vibeboard/internal/domain/model"
)

// Score bounds and defaults.
const (
	minScore     = 1.0
	maxScore     = 5.0
	neutralScore = 3.0
)

// Default generator configuration.
const (
	defaultMaxTokens  = 1200
	defaultEventMax   = 120
	defaultTreeCap    = 80
	defaultRandomSeed = 7
)

// Completer abstracts the LLM completion API: one prompt in, free text
// out, honoring a maximum output token budget.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Result carries the parsed, clamped scores for one team.
type Result struct {
	Problem    float64
	Solution   float64
	Execution  float64
	Total      float64
	Commentary string
}

// EventKind selects the flavor of celebratory commentary.
type EventKind string

const (
	EventRankUp      EventKind = "rank_up"
	EventScoreChange EventKind = "score_change"
	EventNewCommits  EventKind = "new_commits"
	EventGeneral     EventKind = "general"
)

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithMaxTokens sets the output budget for scoring completions.
func WithMaxTokens(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxTokens = n
		}
	}
}

// WithTreeCap bounds how many file paths are embedded in the prompt.
func WithTreeCap(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.treeCap = n
		}
	}
}

// WithRandomSeed seeds fallback commentary selection, for deterministic tests.
func WithRandomSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // non-cryptographic selection
	}
}

// Generator scores teams against a track rubric via a Completer.
type Generator struct {
	completer Completer
	maxTokens int
	treeCap   int
	rng       *rand.Rand
}

// NewGenerator creates a Generator with default configuration.
func NewGenerator(completer Completer, opts ...Option) *Generator {
	g := &Generator{
		completer: completer,
		maxTokens: defaultMaxTokens,
		treeCap:   defaultTreeCap,
		rng:       rand.New(rand.NewSource(defaultRandomSeed)), //nolint:gosec // non-cryptographic selection
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// rawScores mirrors the JSON object expected inside the model reply.
// Pointers distinguish missing fields from zero values.
type rawScores struct {
	Problem    *float64 `json:"problem"`
	Solution   *float64 `json:"solution"`
	Execution  *float64 `json:"execution"`
	Commentary string   `json:"commentary"`
}

// Score prompts the model with the team's snapshot and the track rubric
// and returns clamped sub-scores. A failed invocation, a reply without a
// JSON object, or an unparseable object all return ErrAnalysisFailed;
// only individually missing fields inside an otherwise parseable object
// default to the neutral midpoint.
func (g *Generator) Score(ctx context.Context, team model.Team, snap model.RepoSnapshot) (Result, error) {
	prompt := g.buildPrompt(team, snap)

	reply, err := g.completer.Complete(ctx, prompt, g.maxTokens)
	if err != nil {
		return Result{}, fmt.Errorf("%w: completion: %w", ErrAnalysisFailed, err)
	}

	payload, err := ExtractJSON(reply)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	var raw rawScores
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return Result{}, fmt.Errorf("%w: parse: %w", ErrAnalysisFailed, err)
	}

	res := Result{
		Problem:    clampScore(raw.Problem),
		Solution:   clampScore(raw.Solution),
		Execution:  clampScore(raw.Execution),
		Commentary: strings.TrimSpace(raw.Commentary),
	}
	res.Total = round1(res.Problem + res.Solution + res.Execution)

	if res.Commentary == "" {
		res.Commentary = fmt.Sprintf("Team %s shipped something the judges are still digesting.", team.Name)
	}

	return res, nil
}

func (g *Generator) buildPrompt(team model.Team, snap model.RepoSnapshot) string {
	var b strings.Builder

	b.WriteString("You are a hackathon judge. Score the project below against the rubric.\n\n")
	b.WriteString(RubricForTrack(team.Track))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "TEAM: %s\n", team.Name)
	fmt.Fprintf(&b, "DEFAULT BRANCH: %s\n\n", snap.DefaultBranch)

	b.WriteString("README:\n")
	if snap.Readme == "" {
		b.WriteString("(none)\n")
	} else {
		b.WriteString(snap.Readme)
		b.WriteString("\n")
	}

	b.WriteString("\nFILE TREE:\n")
	paths := snap.FilePaths
	if len(paths) > g.treeCap {
		for _, p := range paths[:g.treeCap] {
			b.WriteString(p)
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "... and %d more files\n", len(paths)-g.treeCap)
	} else {
		for _, p := range paths {
			b.WriteString(p)
			b.WriteString("\n")
		}
	}

	for _, kf := range snap.KeyFiles {
		fmt.Fprintf(&b, "\nFILE %s:\n%s\n", kf.Path, kf.Content)
	}

	if len(snap.RecentCommits) > 0 {
		b.WriteString("\nRECENT COMMITS:\n")
		for _, c := range snap.RecentCommits {
			b.WriteString("- ")
			b.WriteString(c)
			b.WriteString("\n")
		}
	}

	b.WriteString("\nReply with a single JSON object: ")
	b.WriteString(`{"problem": <1-5>, "solution": <1-5>, "execution": <1-5>, "commentary": "<two punchy sentences>"}`)
	b.WriteString("\nYou may reason in prose around it, but include exactly one JSON object.")

	return b.String()
}

// Canned fallback lines keyed by event kind, used when the commentary
// completion fails.
var fallbackLines = map[EventKind][]string{
	EventRankUp: {
		"%s is climbing the board. Someone check their commit cadence.",
		"Movement on the leaderboard: %s just leapfrogged the field.",
		"%s found another gear. The standings have noticed.",
	},
	EventScoreChange: {
		"Fresh numbers in for %s and the judges raised an eyebrow.",
		"%s's score just moved. The repo does not lie.",
		"New scores posted for %s. The delta speaks for itself.",
	},
	EventNewCommits: {
		"%s is still pushing commits like the deadline is a suggestion.",
		"The commit log for %s keeps growing. Respect.",
	},
	EventGeneral: {
		"%s remains a team to watch.",
		"Keep an eye on %s. Quiet repos hide loud demos.",
	},
}

// EventCommentary generates a one-line celebratory message for the feed.
// On any failure it returns a canned line instead of an error: the feed
// is decorative and must never block a refresh.
func (g *Generator) EventCommentary(ctx context.Context, kind EventKind, teamName, details string) string {
	prompt := fmt.Sprintf(
		"You are the hype announcer for a hackathon leaderboard.\n"+
			"Event: %s\nTeam: %s\nDetails: %s\n"+
			"Reply with one JSON object: {\"message\": \"<one energetic sentence, max 140 chars>\"}",
		kind, teamName, details)

	reply, err := g.completer.Complete(ctx, prompt, defaultEventMax)
	if err == nil {
		if payload, jerr := ExtractJSON(reply); jerr == nil {
			var out struct {
				Message string `json:"message"`
			}
			if json.Unmarshal([]byte(payload), &out) == nil && strings.TrimSpace(out.Message) != "" {
				return strings.TrimSpace(out.Message)
			}
		}
	}

	lines := fallbackLines[kind]
	if len(lines) == 0 {
		lines = fallbackLines[EventGeneral]
	}
	return fmt.Sprintf(lines[g.rng.Intn(len(lines))], teamName)
}

// ExtractJSON locates the JSON object embedded in free text by scanning
// from the first '{' to the last '}'. The model may wrap the object in
// prose; strict whole-reply parsing is deliberately not attempted.
func ExtractJSON(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end <= start {
		return "", ErrNoJSON
	}
	return s[start : end+1], nil
}

// clampScore bounds a sub-score to [1,5] at one-decimal precision.
// Missing values take the neutral midpoint.
func clampScore(v *float64) float64 {
	if v == nil {
		return neutralScore
	}
	switch {
	case *v < minScore:
		return minScore
	case *v > maxScore:
		return maxScore
	default:
		return round1(*v)
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
