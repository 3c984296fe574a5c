package store

import (
	"database/sql"
	"errors"
)

const categoryColumns = "id, name, display_order, sync_id, created_at, updated_at, sync_status"

func scanCategory(row interface{ Scan(...any) error }) (Category, error) {
	var c Category
	var syncID, createdAt, updatedAt sql.NullString
	err := row.Scan(&c.ID, &c.Name, &c.DisplayOrder, &syncID, &createdAt, &updatedAt, &c.SyncStatus)
	if err != nil {
		return c, err
	}
	c.SyncID = strPtr(syncID)
	c.CreatedAt = strPtr(createdAt)
	c.UpdatedAt = strPtr(updatedAt)
	return c, nil
}

// CreateCategory inserts a new local category marked pending for the next push
func (s *Store) CreateCategory(name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := Now()
	res, err := s.db.Exec(`
		INSERT INTO categories (name, display_order, created_at, updated_at, sync_status)
		VALUES (?, (SELECT COALESCE(MAX(display_order), 0) + 1 FROM categories), ?, ?, 'pending')
	`, name, now, now)
	if err != nil {
		return 0, &StoreError{Op: "CreateCategory", Entity: "category", Err: err}
	}
	return res.LastInsertId()
}

// GetAllCategories returns every category row, tombstones included
func (s *Store) GetAllCategories() ([]Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT " + categoryColumns + " FROM categories ORDER BY display_order, id")
	if err != nil {
		return nil, &StoreError{Op: "GetAllCategories", Entity: "category", Err: err}
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, &StoreError{Op: "GetAllCategories", Entity: "category", Err: err}
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetPendingCategories returns categories that still need pushing: anything
// not marked synced, plus rows that never received a sync id
func (s *Store) GetPendingCategories() ([]Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT " + categoryColumns + " FROM categories WHERE sync_status != 'synced' OR sync_id IS NULL ORDER BY id")
	if err != nil {
		return nil, &StoreError{Op: "GetPendingCategories", Entity: "category", Err: err}
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, &StoreError{Op: "GetPendingCategories", Entity: "category", Err: err}
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategoryBySyncID returns the category with the given remote id, or nil
// when no local row carries it
func (s *Store) GetCategoryBySyncID(syncID string) (*Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow("SELECT "+categoryColumns+" FROM categories WHERE sync_id = ?", syncID)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "GetCategoryBySyncID", Entity: "category", Err: err}
	}
	return &c, nil
}

// AssignCategorySyncID stores the remote id on a local row without changing
// its sync status
func (s *Store) AssignCategorySyncID(id int64, syncID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE categories SET sync_id = ? WHERE id = ?", syncID, id)
	if err != nil {
		return &StoreError{Op: "AssignCategorySyncID", Entity: "category", Err: err}
	}
	return nil
}

// MarkCategorySynced records that the row now matches the remote copy
func (s *Store) MarkCategorySynced(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE categories SET sync_status = 'synced' WHERE id = ?", id)
	if err != nil {
		return &StoreError{Op: "MarkCategorySynced", Entity: "category", Err: err}
	}
	return nil
}

// MarkCategoryDeleted tombstones a category so the next push removes it remotely
func (s *Store) MarkCategoryDeleted(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE categories SET sync_status = 'deleted', updated_at = ? WHERE id = ?", Now(), id)
	if err != nil {
		return &StoreError{Op: "MarkCategoryDeleted", Entity: "category", Err: err}
	}
	return nil
}

// DeleteCategory removes the row permanently
func (s *Store) DeleteCategory(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return &StoreError{Op: "DeleteCategory", Entity: "category", Err: err}
	}
	return nil
}

// InsertCategoryFromRemote upserts a remote category keyed by sync id. The
// inserted row is already synced, so the next push skips it.
func (s *Store) InsertCategoryFromRemote(c Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO categories (name, display_order, sync_id, created_at, updated_at, sync_status)
		VALUES (?, ?, ?, ?, ?, 'synced')
		ON CONFLICT(sync_id) DO UPDATE SET
			name = excluded.name,
			display_order = excluded.display_order,
			updated_at = excluded.updated_at,
			sync_status = 'synced'
	`, c.Name, c.DisplayOrder, nullStr(c.SyncID), nullStr(c.CreatedAt), nullStr(c.UpdatedAt))
	if err != nil {
		return &StoreError{Op: "InsertCategoryFromRemote", Entity: "category", Err: err}
	}
	return nil
}

// UpdateCategoryFromRemote overwrites a local row with the remote copy,
// keeping the remote updated_at so later comparisons stay consistent
func (s *Store) UpdateCategoryFromRemote(id int64, c Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		UPDATE categories
		SET name = ?, display_order = ?, updated_at = ?, sync_status = 'synced'
		WHERE id = ?
	`, c.Name, c.DisplayOrder, nullStr(c.UpdatedAt), id)
	if err != nil {
		return &StoreError{Op: "UpdateCategoryFromRemote", Entity: "category", Err: err}
	}
	return nil
}
