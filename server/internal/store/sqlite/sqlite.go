package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FluffyKas/cooking-helper/server/internal/model"
	"github.com/FluffyKas/cooking-helper/server/internal/store"
)

// NewWithDB constructs a SQLite-backed store over an opened and migrated database.
func NewWithDB(db *sql.DB) store.Store { return &sqliteStore{db: db} }

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Meals() store.Meals         { return &meals{db: s.db} }
func (s *sqliteStore) Favorites() store.Favorites { return &favorites{db: s.db} }
func (s *sqliteStore) Users() store.Users         { return &users{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *sqliteStore) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }

// Close releases the underlying database.
func (s *sqliteStore) Close() error { return s.db.Close() }

const mealColumns = `meal_id, user_id, name, complexity, cuisine, ingredients, instructions, image, labels,
        prep_time, servings, spiciness, calories, protein, carbs, fat, created_at, updated_at`

func prefixed(alias string) string {
	cols := strings.Split(mealColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeal(row rowScanner) (*model.Meal, error) {
	var (
		m                           model.Meal
		complexity                  string
		ingredients, labels         string
		prep, cal, prot, carbs, fat sql.NullInt64
		createdNanos, updatedNanos  int64
	)
	if err := row.Scan(&m.ID, &m.UserID, &m.Name, &complexity, &m.Cuisine, &ingredients, &m.Instructions, &m.Image, &labels,
		&prep, &m.Servings, &m.Spiciness, &cal, &prot, &carbs, &fat, &createdNanos, &updatedNanos); err != nil {
		return nil, err
	}
	m.Complexity = model.Complexity(complexity)
	if err := json.Unmarshal([]byte(ingredients), &m.Ingredients); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	if err := json.Unmarshal([]byte(labels), &m.Labels); err != nil {
		return nil, fmt.Errorf("decode labels: %w", err)
	}
	if len(m.Ingredients) == 0 {
		m.Ingredients = nil
	}
	if len(m.Labels) == 0 {
		m.Labels = nil
	}
	m.PrepTime = intPtr(prep)
	m.Calories = intPtr(cal)
	m.Protein = intPtr(prot)
	m.Carbs = intPtr(carbs)
	m.Fat = intPtr(fat)
	m.CreatedAt = time.Unix(0, createdNanos).UTC()
	m.UpdatedAt = time.Unix(0, updatedNanos).UTC()
	return &m, nil
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullable(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func encodeList(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	return string(b), err
}

// --- Meals ---
type meals struct{ db *sql.DB }

func (r *meals) Create(ctx context.Context, m *model.Meal) (*model.Meal, error) {
	out := *m
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	out.CreatedAt, out.UpdatedAt = now, now

	ingredients, err := encodeList(out.Ingredients)
	if err != nil {
		return nil, err
	}
	labels, err := encodeList(out.Labels)
	if err != nil {
		return nil, err
	}
	_, err = r.db.ExecContext(ctx, `
        INSERT INTO meals (`+mealColumns+`)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
    `, out.ID, out.UserID, out.Name, string(out.Complexity), out.Cuisine, ingredients, out.Instructions, out.Image, labels,
		nullable(out.PrepTime), out.Servings, out.Spiciness, nullable(out.Calories), nullable(out.Protein),
		nullable(out.Carbs), nullable(out.Fat), now.UnixNano(), now.UnixNano())
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("meal %s: %w", out.ID, model.ErrConflict)
		}
		return nil, err
	}
	return &out, nil
}

func (r *meals) Get(ctx context.Context, mealID string) (*model.Meal, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+mealColumns+` FROM meals WHERE meal_id=?`, mealID)
	m, err := scanMeal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("meal %s: %w", mealID, model.ErrNotFound)
	}
	return m, err
}

func (r *meals) List(ctx context.Context, req model.ListMealsRequest) (*model.MealPage, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM meals`).Scan(&total); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `
        SELECT `+mealColumns+`
        FROM meals ORDER BY created_at DESC, rowid DESC
        LIMIT ? OFFSET ?
    `, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.Meal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return model.NewMealPage(res, total, req.Offset), nil
}

func (r *meals) Update(ctx context.Context, m *model.Meal) (*model.Meal, error) {
	ingredients, err := encodeList(m.Ingredients)
	if err != nil {
		return nil, err
	}
	labels, err := encodeList(m.Labels)
	if err != nil {
		return nil, err
	}
	res, err := r.db.ExecContext(ctx, `
        UPDATE meals SET name=?, complexity=?, cuisine=?, ingredients=?, instructions=?, image=?, labels=?,
            prep_time=?, servings=?, spiciness=?, calories=?, protein=?, carbs=?, fat=?, updated_at=?
        WHERE meal_id=?
    `, m.Name, string(m.Complexity), m.Cuisine, ingredients, m.Instructions, m.Image, labels,
		nullable(m.PrepTime), m.Servings, m.Spiciness, nullable(m.Calories), nullable(m.Protein),
		nullable(m.Carbs), nullable(m.Fat), time.Now().UTC().UnixNano(), m.ID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("meal %s: %w", m.ID, model.ErrNotFound)
	}
	return r.Get(ctx, m.ID)
}

func (r *meals) Delete(ctx context.Context, mealID string) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM favorites WHERE meal_id=?`, mealID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM meals WHERE meal_id=?`, mealID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("meal %s: %w", mealID, model.ErrNotFound)
	}
	return tx.Commit()
}

func (r *meals) Labels(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT j.value FROM meals, json_each(meals.labels) AS j`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var labels []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return model.SortedLabelSet(labels), nil
}

// --- Favorites ---
type favorites struct{ db *sql.DB }

func (r *favorites) Add(ctx context.Context, userID, mealID string) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO favorites (user_id, meal_id, created_at) VALUES (?,?,?)
        ON CONFLICT (user_id, meal_id) DO NOTHING
    `, userID, mealID, time.Now().UTC().UnixNano())
	return err
}

func (r *favorites) Remove(ctx context.Context, userID, mealID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id=? AND meal_id=?`, userID, mealID)
	return err
}

func (r *favorites) ListMealIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT meal_id FROM favorites WHERE user_id=? ORDER BY created_at DESC, rowid DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *favorites) ListMeals(ctx context.Context, userID string) ([]*model.Meal, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT `+prefixed("m")+`
        FROM favorites f JOIN meals m ON m.meal_id = f.meal_id
        WHERE f.user_id=? ORDER BY f.created_at DESC, f.rowid DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	res := []*model.Meal{}
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

func (r *favorites) DeleteForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id=?`, userID)
	return err
}

// --- Users ---
type users struct{ db *sql.DB }

func (r *users) Create(ctx context.Context, u *model.User) (*model.User, error) {
	out := *u
	if out.UserID == "" {
		out.UserID = uuid.New().String()
	}
	out.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO users (user_id, email, password_hash, created_at) VALUES (?,?,?,?)
    `, out.UserID, out.Email, out.PasswordHash, out.CreatedAt.UnixNano())
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %s: %w", out.Email, model.ErrConflict)
		}
		return nil, err
	}
	return &out, nil
}

func (r *users) Get(ctx context.Context, userID string) (*model.User, error) {
	return r.scanOne(ctx, `SELECT user_id, email, password_hash, created_at FROM users WHERE user_id=?`, userID)
}

func (r *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.scanOne(ctx, `SELECT user_id, email, password_hash, created_at FROM users WHERE email=?`, email)
}

func (r *users) scanOne(ctx context.Context, query, arg string) (*model.User, error) {
	var (
		u       model.User
		created int64
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.UserID, &u.Email, &u.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", arg, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = time.Unix(0, created).UTC()
	return &u, nil
}

func (r *users) Delete(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE user_id=?`, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", userID, model.ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY constraint failed")
}
