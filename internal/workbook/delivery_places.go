package workbook

import (
	"strings"
	"time"

	"github.com/fieldworks/parts-order-api/internal/models"
)

func deliveryPlaceFromRecord(r map[string]string) models.DeliveryPlace {
	return models.DeliveryPlace{
		Name:    strings.TrimSpace(r["name"]),
		Team:    strings.TrimSpace(r["team"]),
		Address: r["address"],
		Contact: r["contact"],
		Manager: r["manager"],
		Active:  isYes(r["active"]),
		Remarks: r["remarks"],
	}
}

func deliveryPlaceToRecord(p models.DeliveryPlace) map[string]string {
	return map[string]string{
		"name":    strings.TrimSpace(p.Name),
		"team":    strings.TrimSpace(p.Team),
		"address": strings.TrimSpace(p.Address),
		"contact": strings.TrimSpace(p.Contact),
		"manager": strings.TrimSpace(p.Manager),
		"active":  yesNo(p.Active),
		"remarks": strings.TrimSpace(p.Remarks),
	}
}

// ListDeliveryPlaces returns delivery place rows, optionally restricted to a
// team and to active entries.
func (s *Store) ListDeliveryPlaces(team string, activeOnly bool) ([]models.DeliveryPlace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer s.observed("delivery_places", "list", start)

	rows, err := s.listSheet(SheetDeliveryPlaces, deliveryPlaceHeaderToKey, nil)
	if err != nil {
		return nil, err
	}
	places := make([]models.DeliveryPlace, 0, len(rows))
	for _, row := range rows {
		place := deliveryPlaceFromRecord(row)
		if activeOnly && !place.Active {
			continue
		}
		if team != "" && place.Team != strings.TrimSpace(team) {
			continue
		}
		places = append(places, place)
	}
	return places, nil
}

// CreateDeliveryPlace appends one delivery place row.
func (s *Store) CreateDeliveryPlace(place models.DeliveryPlace) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer s.observed("delivery_places", "create", start)

	return s.mutate(SheetDeliveryPlaces, deliveryPlaceHeaders, deliveryPlaceHeaderToKey, nil, nil, func(rows []map[string]string) ([]map[string]string, error) {
		return append(rows, deliveryPlaceToRecord(place)), nil
	})
}

// UpdateDeliveryPlace updates the row identified by the (name, team) pair.
func (s *Store) UpdateDeliveryPlace(name, team string, upd models.DeliveryPlaceUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer s.observed("delivery_places", "update", start)

	found := false
	targetName := strings.TrimSpace(name)
	targetTeam := strings.TrimSpace(team)
	err := s.mutate(SheetDeliveryPlaces, deliveryPlaceHeaders, deliveryPlaceHeaderToKey, nil, nil, func(rows []map[string]string) ([]map[string]string, error) {
		for _, row := range rows {
			if strings.TrimSpace(row["name"]) != targetName || strings.TrimSpace(row["team"]) != targetTeam {
				continue
			}
			found = true
			if upd.Name != nil {
				row["name"] = strings.TrimSpace(*upd.Name)
			}
			if upd.Team != nil {
				row["team"] = strings.TrimSpace(*upd.Team)
			}
			if upd.Address != nil {
				row["address"] = strings.TrimSpace(*upd.Address)
			}
			if upd.Contact != nil {
				row["contact"] = strings.TrimSpace(*upd.Contact)
			}
			if upd.Manager != nil {
				row["manager"] = strings.TrimSpace(*upd.Manager)
			}
			if upd.Active != nil {
				row["active"] = yesNo(*upd.Active)
			}
			if upd.Remarks != nil {
				row["remarks"] = strings.TrimSpace(*upd.Remarks)
			}
			return rows, nil
		}
		return nil, nil
	})
	return found, err
}
