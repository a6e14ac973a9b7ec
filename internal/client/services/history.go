package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/deuceleague/deucecli/internal/client/client"
	"github.com/deuceleague/deucecli/internal/client/models"
)

// HistoryService pages through the signed-in player's matches.
type HistoryService interface {
	Page(ctx context.Context, page int) (*models.HistoryPage, error)
}

type historyService struct {
	client   client.Client
	auth     AuthService
	pageSize int
}

func NewHistoryService(client client.Client, auth AuthService, pageSize int) HistoryService {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &historyService{client: client, auth: auth, pageSize: pageSize}
}

// Page fetches page (1-based) and converts it to rows seen from the
// signed-in player's side.
func (h *historyService) Page(ctx context.Context, page int) (*models.HistoryPage, error) {
	if page < 1 {
		page = 1
	}

	sess, err := h.auth.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}

	mp, err := h.client.MatchHistory(ctx, sess.AccessToken, page, h.pageSize)
	if errors.Is(err, client.ErrUnauthorized) {
		_ = h.auth.Logout(ctx)
		return nil, fmt.Errorf("%w: %w", ErrNotLoggedIn, err)
	}
	if err != nil {
		return nil, fmt.Errorf("match history: %w", err)
	}

	return BuildHistoryPage(sess.Subject, mp), nil
}

// BuildHistoryPage orders matches newest first and renders each from the
// perspective of playerID.
func BuildHistoryPage(playerID string, mp *models.MatchPage) *models.HistoryPage {
	matches := make([]models.Match, len(mp.Matches))
	copy(matches, mp.Matches)
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].PlayedAt.After(matches[j].PlayedAt)
	})

	out := &models.HistoryPage{
		Rows:    make([]models.HistoryRow, 0, len(matches)),
		Page:    mp.Page,
		HasNext: mp.Page < mp.TotalPages,
	}
	for _, m := range matches {
		out.Rows = append(out.Rows, historyRow(playerID, m))
	}
	return out
}

func historyRow(playerID string, m models.Match) models.HistoryRow {
	side := teamOf(playerID, m)
	own, opp := m.Teams[0], m.Teams[1]
	if side == 1 {
		own, opp = opp, own
	}

	row := models.HistoryRow{
		ID:        m.ID,
		PlayedAt:  m.PlayedAt,
		Division:  m.Division,
		Opponents: names(opp.Players, ""),
		Partner:   names(own.Players, playerID),
		Score:     formatScore(m.Sets, side == 1),
		Result:    "-",
		Status:    m.Status,
	}
	if side < 0 {
		row.Partner = ""
		row.Opponents = names(m.Teams[0].Players, "") + " vs " + names(m.Teams[1].Players, "")
	}

	if m.Status == models.MatchCompleted && side >= 0 && (m.Winner == 0 || m.Winner == 1) {
		if m.Winner == side {
			row.Result = "W"
		} else {
			row.Result = "L"
		}
	}
	return row
}

// teamOf returns the team index holding playerID, or -1.
func teamOf(playerID string, m models.Match) int {
	for i, t := range m.Teams {
		for _, p := range t.Players {
			if p.ID == playerID {
				return i
			}
		}
	}
	return -1
}

func names(players []models.PlayerRef, skipID string) string {
	var out []string
	for _, p := range players {
		if p.ID == skipID {
			continue
		}
		out = append(out, p.Name)
	}
	return strings.Join(out, " / ")
}

// formatScore renders sets as "6-4 3-6", swapped when the player is on team B.
func formatScore(sets []models.SetScore, swap bool) string {
	parts := make([]string, 0, len(sets))
	for _, s := range sets {
		a, b := s.A, s.B
		if swap {
			a, b = b, a
		}
		parts = append(parts, strconv.Itoa(a)+"-"+strconv.Itoa(b))
	}
	return strings.Join(parts, " ")
}
