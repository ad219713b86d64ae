package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// UserID returns the persistent identity sent in the X-User-ID header.
// Generated as user_<uuid> on first call and reused forever after,
// like the web client did with localStorage.
func (s *Store) UserID() (string, error) {
	id, err := s.GetSetting("user_id")
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	id = "user_" + uuid.NewString()
	if err := s.SetSetting("user_id", id); err != nil {
		return "", fmt.Errorf("persist user id: %w", err)
	}
	return id, nil
}

// ViewPrefs returns the remembered filter/sort selections. Unreadable
// values fall back to the defaults seeded by the migration.
func (s *Store) ViewPrefs() ViewPrefs {
	p := ViewPrefs{FilterCategory: "All", SortKey: "created_at", SortDir: "desc"}
	settings, err := s.GetAllSettings()
	if err != nil {
		return p
	}
	for _, st := range settings {
		switch st.Key {
		case "filter_category":
			p.FilterCategory = st.Value
		case "sort_key":
			p.SortKey = st.Value
		case "sort_dir":
			p.SortDir = st.Value
		}
	}
	return p
}

func (s *Store) SaveViewPrefs(p ViewPrefs) error {
	if err := s.SetSetting("filter_category", p.FilterCategory); err != nil {
		return err
	}
	if err := s.SetSetting("sort_key", p.SortKey); err != nil {
		return err
	}
	return s.SetSetting("sort_dir", p.SortDir)
}
