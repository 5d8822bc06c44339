package workbook

import (
	"strings"
	"time"

	"github.com/fieldworks/parts-order-api/internal/models"
	appErrors "github.com/fieldworks/parts-order-api/pkg/errors"
)

func userFromRecord(r map[string]string) models.User {
	return models.User{
		ID:           strings.TrimSpace(r["userId"]),
		PasswordHash: r["passwordHash"],
		Name:         r["name"],
		EmployeeCode: r["employeeCode"],
		Team:         r["team"],
		Region:       r["region"],
		Role:         models.UserRole(strings.TrimSpace(r["role"])),
		Active:       isYes(r["active"]),
	}
}

func userToRecord(u models.User) map[string]string {
	role := u.Role
	if role == "" {
		role = models.RoleRequester
	}
	return map[string]string{
		"userId":       strings.TrimSpace(u.ID),
		"passwordHash": u.PasswordHash,
		"name":         strings.TrimSpace(u.Name),
		"employeeCode": strings.TrimSpace(u.EmployeeCode),
		"team":         strings.TrimSpace(u.Team),
		"region":       strings.TrimSpace(u.Region),
		"role":         string(role),
		"active":       yesNo(u.Active),
	}
}

// ListUsers returns every account row.
func (s *Store) ListUsers() ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer s.observed("users", "list", start)

	rows, err := s.listSheet(SheetUsers, userHeaderToKey, nil)
	if err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, userFromRecord(row))
	}
	return users, nil
}

// GetUserByID finds an account by trimmed id. Missing users are (nil, nil).
func (s *Store) GetUserByID(userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer s.observed("users", "get", start)

	rows, err := s.listSheet(SheetUsers, userHeaderToKey, nil)
	if err != nil {
		return nil, err
	}
	target := strings.TrimSpace(userID)
	for _, row := range rows {
		if strings.TrimSpace(row["userId"]) == target {
			user := userFromRecord(row)
			return &user, nil
		}
	}
	return nil, nil
}

// CreateUser appends a new account row, rejecting duplicate ids.
func (s *Store) CreateUser(user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer s.observed("users", "create", start)

	target := strings.TrimSpace(user.ID)
	return s.mutate(SheetUsers, userHeaders, userHeaderToKey, nil, nil, func(rows []map[string]string) ([]map[string]string, error) {
		for _, row := range rows {
			if strings.TrimSpace(row["userId"]) == target {
				return nil, appErrors.Clone(appErrors.ErrConflict, "user id already exists")
			}
		}
		return append(rows, userToRecord(user)), nil
	})
}

// UpdateUser applies partial account fields in place. Accounts are never
// removed; set Active=false to deactivate.
func (s *Store) UpdateUser(userID string, upd models.UserUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer s.observed("users", "update", start)

	found := false
	target := strings.TrimSpace(userID)
	err := s.mutate(SheetUsers, userHeaders, userHeaderToKey, nil, nil, func(rows []map[string]string) ([]map[string]string, error) {
		for _, row := range rows {
			if strings.TrimSpace(row["userId"]) != target {
				continue
			}
			found = true
			if upd.Name != nil {
				row["name"] = strings.TrimSpace(*upd.Name)
			}
			if upd.EmployeeCode != nil {
				row["employeeCode"] = strings.TrimSpace(*upd.EmployeeCode)
			}
			if upd.Team != nil {
				row["team"] = strings.TrimSpace(*upd.Team)
			}
			if upd.Region != nil {
				row["region"] = strings.TrimSpace(*upd.Region)
			}
			if upd.Role != nil {
				row["role"] = string(*upd.Role)
			}
			if upd.Active != nil {
				row["active"] = yesNo(*upd.Active)
			}
			if upd.PasswordHash != nil {
				row["passwordHash"] = *upd.PasswordHash
			}
			return rows, nil
		}
		return nil, nil
	})
	return found, err
}
