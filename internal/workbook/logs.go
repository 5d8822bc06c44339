package workbook

import (
	"time"

	"github.com/fieldworks/parts-order-api/internal/models"
)

// AppendLog adds one audit row. Entries are append-only; nothing ever
// rewrites or removes them.
func (s *Store) AppendLog(entry models.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer s.observed("logs", "append", start)

	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	if entry.Level == "" {
		entry.Level = models.LogLevelInfo
	}
	return s.mutate(SheetLogs, logHeaders, logHeaderToKey, nil, nil, func(rows []map[string]string) ([]map[string]string, error) {
		return append(rows, map[string]string{
			"timestamp": entry.Timestamp,
			"level":     entry.Level,
			"action":    entry.Action,
			"requestNo": entry.RequestNo,
			"userId":    entry.UserID,
			"detail":    entry.Detail,
		}), nil
	})
}

// ListLogs returns every audit row in sheet order.
func (s *Store) ListLogs() ([]models.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer s.observed("logs", "list", start)

	rows, err := s.listSheet(SheetLogs, logHeaderToKey, nil)
	if err != nil {
		return nil, err
	}
	entries := make([]models.LogEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.LogEntry{
			Timestamp: row["timestamp"],
			Level:     row["level"],
			Action:    row["action"],
			RequestNo: row["requestNo"],
			UserID:    row["userId"],
			Detail:    row["detail"],
		})
	}
	return entries, nil
}
