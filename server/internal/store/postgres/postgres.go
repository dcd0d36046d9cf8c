package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/FluffyKas/cooking-helper/server/internal/model"
	"github.com/FluffyKas/cooking-helper/server/internal/store"
)

//go:embed schema.sql
var schemaSQL string

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the embedded schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}

// NewWithDB constructs a native Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Meals() store.Meals         { return &meals{db: s.db} }
func (s *pgStore) Favorites() store.Favorites { return &favorites{db: s.db} }
func (s *pgStore) Users() store.Users         { return &users{db: s.db} }

// HealthPing implements health.HealthPinger for Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *pgStore) Close() error { return s.db.Close() }

// Bootstrap performs a connectivity check to ensure Postgres is reachable.
func Bootstrap(ctx context.Context, dsn string) error {
	if dsn == "" {
		return nil
	}
	db, err := Open(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return db.PingContext(ctx)
}

const mealColumns = `m.meal_id, m.user_id, m.name, m.complexity, m.cuisine, m.ingredients, m.instructions, m.image,
        m.labels, m.prep_time, m.servings, m.spiciness, m.calories, m.protein, m.carbs, m.fat,
        m.created_at, m.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeal(row rowScanner) (*model.Meal, error) {
	var (
		m                           model.Meal
		complexity                  string
		ingredients, labels         []byte
		prep, cal, prot, carbs, fat sql.NullInt32
	)
	if err := row.Scan(&m.ID, &m.UserID, &m.Name, &complexity, &m.Cuisine, &ingredients, &m.Instructions, &m.Image,
		&labels, &prep, &m.Servings, &m.Spiciness, &cal, &prot, &carbs, &fat, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Complexity = model.Complexity(complexity)
	if err := json.Unmarshal(ingredients, &m.Ingredients); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	if err := json.Unmarshal(labels, &m.Labels); err != nil {
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
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	return &m, nil
}

func intPtr(n sql.NullInt32) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int32)
	return &v
}

func nullable(p *int) any {
	if p == nil {
		return nil
	}
	return int32(*p)
}

func encodeList(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	return string(b), err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --- Meals ---
type meals struct{ db *sql.DB }

func (r *meals) Create(ctx context.Context, m *model.Meal) (*model.Meal, error) {
	out := *m
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	ingredients, err := encodeList(out.Ingredients)
	if err != nil {
		return nil, err
	}
	labels, err := encodeList(out.Labels)
	if err != nil {
		return nil, err
	}
	var created time.Time
	row := r.db.QueryRowContext(ctx, `
        INSERT INTO meals (meal_id, user_id, name, complexity, cuisine, ingredients, instructions, image, labels,
            prep_time, servings, spiciness, calories, protein, carbs, fat)
        VALUES ($1,$2,$3,$4,$5,$6::jsonb,$7,$8,$9::jsonb,$10,$11,$12,$13,$14,$15,$16)
        RETURNING created_at
    `, out.ID, out.UserID, out.Name, string(out.Complexity), out.Cuisine, ingredients, out.Instructions, out.Image, labels,
		nullable(out.PrepTime), out.Servings, out.Spiciness, nullable(out.Calories), nullable(out.Protein),
		nullable(out.Carbs), nullable(out.Fat))
	if err := row.Scan(&created); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("meal %s: %w", out.ID, model.ErrConflict)
		}
		return nil, err
	}
	out.CreatedAt = created.UTC()
	out.UpdatedAt = out.CreatedAt
	return &out, nil
}

func (r *meals) Get(ctx context.Context, mealID string) (*model.Meal, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+mealColumns+` FROM meals m WHERE m.meal_id=$1`, mealID)
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
        FROM meals m ORDER BY m.created_at DESC, m.seq DESC
        LIMIT $1 OFFSET $2
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
        UPDATE meals SET name=$1, complexity=$2, cuisine=$3, ingredients=$4::jsonb, instructions=$5, image=$6,
            labels=$7::jsonb, prep_time=$8, servings=$9, spiciness=$10, calories=$11, protein=$12, carbs=$13,
            fat=$14, updated_at=now()
        WHERE meal_id=$15
    `, m.Name, string(m.Complexity), m.Cuisine, ingredients, m.Instructions, m.Image, labels,
		nullable(m.PrepTime), m.Servings, m.Spiciness, nullable(m.Calories), nullable(m.Protein),
		nullable(m.Carbs), nullable(m.Fat), m.ID)
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

	if _, err := tx.ExecContext(ctx, `DELETE FROM favorites WHERE meal_id=$1`, mealID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM meals WHERE meal_id=$1`, mealID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("meal %s: %w", mealID, model.ErrNotFound)
	}
	return tx.Commit()
}

func (r *meals) Labels(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT DISTINCT l FROM meals, jsonb_array_elements_text(meals.labels) AS l
    `)
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
        INSERT INTO favorites (user_id, meal_id) VALUES ($1,$2)
        ON CONFLICT (user_id, meal_id) DO NOTHING
    `, userID, mealID)
	return err
}

func (r *favorites) Remove(ctx context.Context, userID, mealID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id=$1 AND meal_id=$2`, userID, mealID)
	return err
}

func (r *favorites) ListMealIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT meal_id FROM favorites WHERE user_id=$1 ORDER BY created_at DESC, seq DESC
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
        SELECT `+mealColumns+`
        FROM favorites f JOIN meals m ON m.meal_id = f.meal_id
        WHERE f.user_id=$1 ORDER BY f.created_at DESC, f.seq DESC
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
	_, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id=$1`, userID)
	return err
}

// --- Users ---
type users struct{ db *sql.DB }

func (r *users) Create(ctx context.Context, u *model.User) (*model.User, error) {
	out := *u
	if out.UserID == "" {
		out.UserID = uuid.New().String()
	}
	var created time.Time
	row := r.db.QueryRowContext(ctx, `
        INSERT INTO users (user_id, email, password_hash) VALUES ($1,$2,$3)
        RETURNING created_at
    `, out.UserID, out.Email, out.PasswordHash)
	if err := row.Scan(&created); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %s: %w", out.Email, model.ErrConflict)
		}
		return nil, err
	}
	out.CreatedAt = created.UTC()
	return &out, nil
}

func (r *users) Get(ctx context.Context, userID string) (*model.User, error) {
	return r.scanOne(ctx, `SELECT user_id, email, password_hash, created_at FROM users WHERE user_id=$1`, userID)
}

func (r *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.scanOne(ctx, `SELECT user_id, email, password_hash, created_at FROM users WHERE email=$1`, email)
}

func (r *users) scanOne(ctx context.Context, query, arg string) (*model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.UserID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", arg, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

func (r *users) Delete(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE user_id=$1`, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", userID, model.ErrNotFound)
	}
	return nil
}
