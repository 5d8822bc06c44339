package workbook

import (
	"strconv"
	"strings"
	"time"

	"github.com/fieldworks/parts-order-api/internal/models"
)

// ListRegions returns the region code rows. Regions and teams each have
// their own sheet; the legacy single-sheet layout with a blank separator row
// is not supported.
func (s *Store) ListRegions(activeOnly bool) ([]models.Region, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer s.observed("regions", "list", start)

	rows, err := s.listSheet(SheetRegions, regionHeaderToKey, nil)
	if err != nil {
		return nil, err
	}
	regions := make([]models.Region, 0, len(rows))
	for _, row := range rows {
		active := isYes(row["active"])
		if activeOnly && !active {
			continue
		}
		order, _ := strconv.Atoi(strings.TrimSpace(row["sortOrder"]))
		regions = append(regions, models.Region{
			Code:      strings.TrimSpace(row["code"]),
			Name:      strings.TrimSpace(row["name"]),
			Active:    active,
			SortOrder: order,
		})
	}
	return regions, nil
}

// ListTeams returns the team code rows, optionally restricted to a region.
func (s *Store) ListTeams(region string, activeOnly bool) ([]models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer s.observed("teams", "list", start)

	rows, err := s.listSheet(SheetTeams, teamHeaderToKey, nil)
	if err != nil {
		return nil, err
	}
	teams := make([]models.Team, 0, len(rows))
	for _, row := range rows {
		active := isYes(row["active"])
		if activeOnly && !active {
			continue
		}
		if region != "" && strings.TrimSpace(row["region"]) != strings.TrimSpace(region) {
			continue
		}
		teams = append(teams, models.Team{
			Code:   strings.TrimSpace(row["code"]),
			Name:   strings.TrimSpace(row["name"]),
			Region: strings.TrimSpace(row["region"]),
			Active: active,
		})
	}
	return teams, nil
}
