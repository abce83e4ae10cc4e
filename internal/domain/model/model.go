// Package model contains domain models passed between layers.
package model

import "time"

// Team is one roster entry. Loaded from configuration at startup and
// never mutated afterwards.
type Team struct {
	ID      string   `yaml:"id" json:"teamId"`
	Name    string   `yaml:"name" json:"teamName"`
	RepoURL string   `yaml:"repo" json:"repo"`
	Track   int      `yaml:"track" json:"track"`
	Members []string `yaml:"members,omitempty" json:"members,omitempty"`
}

// KeyFile is one selected source file with truncated content.
type KeyFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// RepoSnapshot is a bounded capture of a repository used as LLM input.
// It lives only for the duration of one scoring call.
type RepoSnapshot struct {
	DefaultBranch string    `json:"defaultBranch"`
	Readme        string    `json:"readme"`
	FilePaths     []string  `json:"filePaths"`
	KeyFiles      []KeyFile `json:"keyFiles"`
	RecentCommits []string  `json:"recentCommits"`
	Branches      []string  `json:"branches"`
	CommitCount   int       `json:"commitCount"`
	TotalBytes    int       `json:"totalBytes"`
}

// ScoreRecord is the persisted scoring result for one team.
// Invariants: Total == Problem+Solution+Execution; each sub-score is in
// [1,5] with one-decimal precision, or all three are zero for a failed
// analysis; CurrentRank values over a stored set are a contiguous 1..N
// permutation consistent with descending Total.
type ScoreRecord struct {
	TeamID       string    `json:"teamId"`
	TeamName     string    `json:"teamName"`
	Problem      float64   `json:"problem"`
	Solution     float64   `json:"solution"`
	Execution    float64   `json:"execution"`
	Total        float64   `json:"total"`
	EstimatedLOC int       `json:"estimatedLoc"`
	Commentary   string    `json:"commentary"`
	UpdatedAt    time.Time `json:"updatedAt"`
	PreviousRank *int      `json:"previousRank,omitempty"`
	CurrentRank  *int      `json:"currentRank,omitempty"`
}

// CommentaryEvent is one entry in the bounded celebratory feed.
type CommentaryEvent struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// CommentaryLimit bounds the commentary feed; oldest entries drop first.
const CommentaryLimit = 50

// RefreshSummary reports the outcome of one refresh pass.
type RefreshSummary struct {
	TeamsProcessed int           `json:"teamsProcessed"`
	EventsEmitted  int           `json:"eventsEmitted"`
	Duration       time.Duration `json:"duration"`
}
