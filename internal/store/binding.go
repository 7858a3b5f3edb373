package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Binding ties a gesture label to a plugin action.
type Binding struct {
	ID         string
	Gesture    string
	PluginName string
	ActionName string
	Params     json.RawMessage
	Enabled    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BindingRepository provides CRUD operations for bindings.
type BindingRepository struct {
	db *sql.DB
}

// Bindings returns the binding repository for this store.
func (s *Store) Bindings() *BindingRepository {
	return &BindingRepository{db: s.db}
}

const bindingColumns = `id, gesture, plugin_name, action_name, params, enabled, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanBinding(row scanner) (*Binding, error) {
	b := &Binding{}
	var params string
	var enabled int

	if err := row.Scan(&b.ID, &b.Gesture, &b.PluginName, &b.ActionName, &params, &enabled, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}

	b.Params = json.RawMessage(params)
	b.Enabled = enabled != 0
	return b, nil
}

func paramsOrEmpty(p json.RawMessage) string {
	if len(p) == 0 {
		return "{}"
	}
	return string(p)
}

// Create inserts a new binding. Gesture labels are unique.
func (r *BindingRepository) Create(b *Binding) error {
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO bindings (`+bindingColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Gesture, b.PluginName, b.ActionName, paramsOrEmpty(b.Params), b.Enabled, b.CreatedAt, b.UpdatedAt,
	)
	return err
}

// GetByID retrieves a binding by its ID.
func (r *BindingRepository) GetByID(id string) (*Binding, error) {
	b, err := scanBinding(r.db.QueryRow(`SELECT `+bindingColumns+` FROM bindings WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetByGesture retrieves the binding for a gesture label.
func (r *BindingRepository) GetByGesture(gesture string) (*Binding, error) {
	b, err := scanBinding(r.db.QueryRow(`SELECT `+bindingColumns+` FROM bindings WHERE gesture = ?`, gesture))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// List retrieves all bindings ordered by gesture label.
func (r *BindingRepository) List() ([]*Binding, error) {
	rows, err := r.db.Query(`SELECT ` + bindingColumns + ` FROM bindings ORDER BY gesture`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bindings []*Binding
	for rows.Next() {
		b, err := scanBinding(rows)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bindings, nil
}

// Count returns the number of stored bindings.
func (r *BindingRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM bindings`).Scan(&n)
	return n, err
}

// Update modifies an existing binding.
func (r *BindingRepository) Update(b *Binding) error {
	b.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE bindings SET gesture = ?, plugin_name = ?, action_name = ?, params = ?, enabled = ?, updated_at = ?
		 WHERE id = ?`,
		b.Gesture, b.PluginName, b.ActionName, paramsOrEmpty(b.Params), b.Enabled, b.UpdatedAt, b.ID,
	)
	if err != nil {
		return err
	}

	return expectOneRow(result)
}

// Delete removes a binding by its ID.
func (r *BindingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM bindings WHERE id = ?`, id)
	if err != nil {
		return err
	}

	return expectOneRow(result)
}

func expectOneRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
