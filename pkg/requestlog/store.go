package requestlog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Record is one classified link in the persistent log. Records are
// immutable once written; the log only grows.
type Record struct {
	Date         string `json:"date"` // YYYY-MM-DD
	Subject      string `json:"subject"`
	RawLabel     string `json:"raw_label,omitempty"` // model output before taxonomy validation
	OriginalLink string `json:"original_link"`
	SavedAt      string `json:"saved_at"` // ISO-8601
}

// Store keeps the log as a single JSON array file: full read and full
// rewrite on every append. The mutex serializes the read-modify-write
// across concurrent sessions.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Append adds a record to the log and returns the new total count. SavedAt
// is stamped here unless the caller set it already.
func (s *Store) Append(record Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readLocked()
	if err != nil {
		return 0, err
	}

	if record.SavedAt == "" {
		record.SavedAt = time.Now().Format(time.RFC3339)
	}
	records = append(records, record)

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return 0, fmt.Errorf("marshal log: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return 0, fmt.Errorf("write log: %w", err)
	}

	return len(records), nil
}

// ReadAll returns every record in log order. An absent file is an empty
// log, not an error.
func (s *Store) ReadAll() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

func (s *Store) readLocked() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("read log: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		// Tolerate a file holding a single object instead of an array.
		var single Record
		if err2 := json.Unmarshal(data, &single); err2 == nil {
			return []Record{single}, nil
		}
		return nil, fmt.Errorf("parse log: %w", err)
	}
	return records, nil
}

// Filter returns the records for one subject saved at or after the cutoff,
// in original log order. A record whose SavedAt doesn't parse is included
// rather than dropped.
func Filter(records []Record, subject string, cutoff time.Time) []Record {
	filtered := make([]Record, 0)
	for _, r := range records {
		if r.Subject != subject {
			continue
		}
		savedAt, err := time.Parse(time.RFC3339, r.SavedAt)
		if err != nil || !savedAt.Before(cutoff) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
