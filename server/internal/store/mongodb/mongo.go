package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/FluffyKas/cooking-helper/server/internal/model"
	"github.com/FluffyKas/cooking-helper/server/internal/store"
)

const (
	mealsCollection     = "meals"
	favoritesCollection = "favorites"
	usersCollection     = "users"
)

// Connect dials MongoDB and verifies the primary is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo URI is empty")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// New returns a store over database name and ensures its indexes exist.
func New(ctx context.Context, client *mongo.Client, database string) (store.Store, error) {
	db := client.Database(database)
	s := &mongoStore{client: client, db: db}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("mongo indexes: %w", err)
	}
	return s, nil
}

type mongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func (s *mongoStore) Meals() store.Meals {
	return &meals{col: s.db.Collection(mealsCollection), favs: s.db.Collection(favoritesCollection)}
}

func (s *mongoStore) Favorites() store.Favorites {
	return &favorites{col: s.db.Collection(favoritesCollection), meals: s.db.Collection(mealsCollection)}
}

func (s *mongoStore) Users() store.Users { return &users{col: s.db.Collection(usersCollection)} }

// HealthPing implements health.HealthPinger.
func (s *mongoStore) HealthPing(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *mongoStore) Close() error { return s.client.Disconnect(context.Background()) }

func (s *mongoStore) ensureIndexes(ctx context.Context) error {
	if _, err := s.db.Collection(mealsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "sortKey", Value: -1}},
	}); err != nil {
		return err
	}
	if _, err := s.db.Collection(favoritesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "mealId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	_, err := s.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

type mealDoc struct {
	ID           string    `bson:"_id"`
	UserID       string    `bson:"userId"`
	Name         string    `bson:"name"`
	Complexity   string    `bson:"complexity"`
	Cuisine      string    `bson:"cuisine"`
	Ingredients  []string  `bson:"ingredients"`
	Instructions string    `bson:"instructions"`
	Image        string    `bson:"image"`
	Labels       []string  `bson:"labels"`
	PrepTime     *int      `bson:"prepTime,omitempty"`
	Servings     int       `bson:"servings"`
	Spiciness    int       `bson:"spiciness"`
	Calories     *int      `bson:"calories,omitempty"`
	Protein      *int      `bson:"protein,omitempty"`
	Carbs        *int      `bson:"carbs,omitempty"`
	Fat          *int      `bson:"fat,omitempty"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
	// SortKey keeps nanosecond creation order; BSON dates stop at milliseconds.
	SortKey int64 `bson:"sortKey"`
}

func toDoc(m *model.Meal) mealDoc {
	ingredients, labels := m.Ingredients, m.Labels
	if ingredients == nil {
		ingredients = []string{}
	}
	if labels == nil {
		labels = []string{}
	}
	return mealDoc{
		ID: m.ID, UserID: m.UserID, Name: m.Name, Complexity: string(m.Complexity), Cuisine: m.Cuisine,
		Ingredients: ingredients, Instructions: m.Instructions, Image: m.Image, Labels: labels,
		PrepTime: m.PrepTime, Servings: m.Servings, Spiciness: m.Spiciness,
		Calories: m.Calories, Protein: m.Protein, Carbs: m.Carbs, Fat: m.Fat,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt, SortKey: m.CreatedAt.UnixNano(),
	}
}

func (d mealDoc) toModel() *model.Meal {
	m := &model.Meal{
		ID: d.ID, UserID: d.UserID, Name: d.Name, Complexity: model.Complexity(d.Complexity), Cuisine: d.Cuisine,
		Ingredients: d.Ingredients, Instructions: d.Instructions, Image: d.Image, Labels: d.Labels,
		PrepTime: d.PrepTime, Servings: d.Servings, Spiciness: d.Spiciness,
		Calories: d.Calories, Protein: d.Protein, Carbs: d.Carbs, Fat: d.Fat,
		CreatedAt: d.CreatedAt.UTC(), UpdatedAt: d.UpdatedAt.UTC(),
	}
	if len(m.Ingredients) == 0 {
		m.Ingredients = nil
	}
	if len(m.Labels) == 0 {
		m.Labels = nil
	}
	return m
}

// --- Meals ---
type meals struct {
	col  *mongo.Collection
	favs *mongo.Collection
}

func (r *meals) Create(ctx context.Context, m *model.Meal) (*model.Meal, error) {
	out := *m
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	out.CreatedAt, out.UpdatedAt = now, now
	if _, err := r.col.InsertOne(ctx, toDoc(&out)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("meal %s: %w", out.ID, model.ErrConflict)
		}
		return nil, err
	}
	// round-trip through BSON precision so callers see what Get will return
	out.CreatedAt = out.CreatedAt.Truncate(time.Millisecond)
	out.UpdatedAt = out.CreatedAt
	return &out, nil
}

func (r *meals) Get(ctx context.Context, mealID string) (*model.Meal, error) {
	var d mealDoc
	err := r.col.FindOne(ctx, bson.M{"_id": mealID}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("meal %s: %w", mealID, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return d.toModel(), nil
}

func (r *meals) List(ctx context.Context, req model.ListMealsRequest) (*model.MealPage, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "sortKey", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(req.Offset)).
		SetLimit(int64(req.Limit))
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var docs []mealDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	res := make([]*model.Meal, 0, len(docs))
	for _, d := range docs {
		res = append(res, d.toModel())
	}
	return model.NewMealPage(res, int(total), req.Offset), nil
}

func (r *meals) Update(ctx context.Context, m *model.Meal) (*model.Meal, error) {
	d := toDoc(m)
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": m.ID}, bson.M{"$set": bson.M{
		"name": d.Name, "complexity": d.Complexity, "cuisine": d.Cuisine, "ingredients": d.Ingredients,
		"instructions": d.Instructions, "image": d.Image, "labels": d.Labels,
		"prepTime": d.PrepTime, "servings": d.Servings, "spiciness": d.Spiciness,
		"calories": d.Calories, "protein": d.Protein, "carbs": d.Carbs, "fat": d.Fat,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("meal %s: %w", m.ID, model.ErrNotFound)
	}
	return r.Get(ctx, m.ID)
}

func (r *meals) Delete(ctx context.Context, mealID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": mealID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("meal %s: %w", mealID, model.ErrNotFound)
	}
	_, err = r.favs.DeleteMany(ctx, bson.M{"mealId": mealID})
	return err
}

func (r *meals) Labels(ctx context.Context) ([]string, error) {
	vals, err := r.col.Distinct(ctx, "labels", bson.M{})
	if err != nil {
		return nil, err
	}
	labels := make([]string, 0, len(vals))
	for _, v := range vals {
		if s, ok := v.(string); ok {
			labels = append(labels, s)
		}
	}
	return model.SortedLabelSet(labels), nil
}

// --- Favorites ---
type favorites struct {
	col   *mongo.Collection
	meals *mongo.Collection
}

type favoriteDoc struct {
	UserID    string    `bson:"userId"`
	MealID    string    `bson:"mealId"`
	CreatedAt time.Time `bson:"createdAt"`
	SortKey   int64     `bson:"sortKey"`
}

func (r *favorites) Add(ctx context.Context, userID, mealID string) error {
	now := time.Now().UTC()
	_, err := r.col.UpdateOne(ctx,
		bson.M{"userId": userID, "mealId": mealID},
		bson.M{"$setOnInsert": favoriteDoc{UserID: userID, MealID: mealID, CreatedAt: now, SortKey: now.UnixNano()}},
		options.Update().SetUpsert(true),
	)
	// two concurrent upserts can both miss and race on the unique index
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}

func (r *favorites) Remove(ctx context.Context, userID, mealID string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"userId": userID, "mealId": mealID})
	return err
}

func (r *favorites) ListMealIDs(ctx context.Context, userID string) ([]string, error) {
	cur, err := r.col.Find(ctx, bson.M{"userId": userID}, options.Find().SetSort(bson.D{{Key: "sortKey", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var docs []favoriteDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.MealID)
	}
	return ids, nil
}

func (r *favorites) ListMeals(ctx context.Context, userID string) ([]*model.Meal, error) {
	ids, err := r.ListMealIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	res := []*model.Meal{}
	if len(ids) == 0 {
		return res, nil
	}
	cur, err := r.meals.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var docs []mealDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	byID := make(map[string]mealDoc, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			res = append(res, d.toModel())
		}
	}
	return res, nil
}

func (r *favorites) DeleteForUser(ctx context.Context, userID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

// --- Users ---
type users struct{ col *mongo.Collection }

type userDoc struct {
	UserID       string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash"`
	CreatedAt    time.Time `bson:"createdAt"`
}

func (r *users) Create(ctx context.Context, u *model.User) (*model.User, error) {
	out := *u
	if out.UserID == "" {
		out.UserID = uuid.New().String()
	}
	out.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	_, err := r.col.InsertOne(ctx, userDoc{
		UserID: out.UserID, Email: out.Email, PasswordHash: out.PasswordHash, CreatedAt: out.CreatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("user %s: %w", out.Email, model.ErrConflict)
		}
		return nil, err
	}
	return &out, nil
}

func (r *users) Get(ctx context.Context, userID string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": userID}, userID)
}

func (r *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, email)
}

func (r *users) findOne(ctx context.Context, filter bson.M, key string) (*model.User, error) {
	var d userDoc
	err := r.col.FindOne(ctx, filter).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("user %s: %w", key, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &model.User{UserID: d.UserID, Email: d.Email, PasswordHash: d.PasswordHash, CreatedAt: d.CreatedAt.UTC()}, nil
}

func (r *users) Delete(ctx context.Context, userID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("user %s: %w", userID, model.ErrNotFound)
	}
	return nil
}
