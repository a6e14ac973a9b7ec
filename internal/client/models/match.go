package models

import "time"

type MatchStatus string

const (
	MatchCompleted MatchStatus = "completed"
	MatchDisputed  MatchStatus = "disputed"
	MatchCancelled MatchStatus = "cancelled"
)

type PlayerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Team is one side of a match: one player in singles, two in doubles.
type Team struct {
	Players []PlayerRef `json:"players"`
}

// SetScore holds games won by team 0 (A) and team 1 (B).
type SetScore struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Match is a backend match record. Winner is the winning team index, or -1.
type Match struct {
	ID       string      `json:"id"`
	PlayedAt time.Time   `json:"playedAt"`
	Sport    string      `json:"sport"`
	Division string      `json:"division"`
	Status   MatchStatus `json:"status"`
	Teams    [2]Team     `json:"teams"`
	Sets     []SetScore  `json:"sets"`
	Winner   int         `json:"winner"`
}

// MatchPage is one page of /api/match/history.
type MatchPage struct {
	Matches    []Match `json:"matches"`
	Page       int     `json:"page"`
	TotalPages int     `json:"totalPages"`
}

// HistoryRow is a match seen from one player's side, ready to print.
type HistoryRow struct {
	ID        string
	PlayedAt  time.Time
	Division  string
	Partner   string
	Opponents string
	Score     string
	Result    string
	Status    MatchStatus
}

// HistoryPage is a transformed page plus paging hints.
type HistoryPage struct {
	Rows    []HistoryRow
	Page    int
	HasNext bool
}
