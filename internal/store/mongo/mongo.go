// Package mongo implements the store ports on a MongoDB database.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"financas/internal/core"
	"financas/internal/store"
)

// Store wraps the MongoDB client and the two collections the app uses.
type Store struct {
	client       *mongo.Client
	transactions *mongo.Collection
	users        *mongo.Collection
}

// transactionDoc is the wire shape of a ledger record. Field names are
// stable: existing deployments depend on them.
type transactionDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Month       string             `bson:"month"`
	Year        int                `bson:"year"`
	Category    string             `bson:"category"`
	Type        string             `bson:"type"`
	Value       float64            `bson:"value"`
	Observation string             `bson:"observation"`
	CreatedAt   time.Time          `bson:"created_at"`
	Paid        bool               `bson:"paid"`
	PaymentDate *time.Time         `bson:"payment_date"`
	UserID      string             `bson:"user_id"`
}

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Password  []byte             `bson:"password"`
	Name      string             `bson:"name"`
	CreatedAt time.Time          `bson:"created_at"`
}

// New connects to MongoDB and pings it before returning a usable store.
// The caller owns the handle and must Close it on shutdown.
func New(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	db := client.Database(dbName)
	s := &Store{
		client:       client,
		transactions: db.Collection("transactions"),
		users:        db.Collection("users"),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Connected to MongoDB", "database", dbName)
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.transactions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "year", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create transactions index: %w", err)
	}
	_, err = s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users index: %w", err)
	}
	return nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Insert implements store.TransactionStore.
func (s *Store) Insert(ctx context.Context, t core.Transaction) (string, error) {
	doc := transactionDoc{
		Month:       string(t.Month),
		Year:        t.Year,
		Category:    t.Category,
		Type:        string(t.Type),
		Value:       t.Value,
		Observation: t.Observation,
		CreatedAt:   t.CreatedAt,
		Paid:        t.Paid,
		PaymentDate: t.PaymentDate,
		UserID:      t.OwnerID,
	}
	res, err := s.transactions.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// List implements store.TransactionStore.
func (s *Store) List(ctx context.Context, ownerID string, year int) ([]core.Transaction, error) {
	filter := bson.M{"user_id": ownerID}
	if year != 0 {
		filter["year"] = year
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.transactions.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var out []core.Transaction
	for cursor.Next(ctx) {
		var doc transactionDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode transaction: %w", err)
		}
		out = append(out, doc.toCore())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (d transactionDoc) toCore() core.Transaction {
	return core.Transaction{
		ID:          d.ID.Hex(),
		OwnerID:     d.UserID,
		Month:       core.Month(d.Month),
		Year:        d.Year,
		Category:    d.Category,
		Type:        core.TransactionType(d.Type),
		Value:       d.Value,
		Observation: d.Observation,
		CreatedAt:   d.CreatedAt,
		Paid:        d.Paid,
		PaymentDate: d.PaymentDate,
	}
}

// ownedFilter matches a single owned document. Matching on both _id and
// user_id in one filter makes the ownership check and the mutation a
// single atomic operation.
func ownedFilter(ownerID, id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrNotFound
	}
	return bson.M{"_id": oid, "user_id": ownerID}, nil
}

// Update implements store.TransactionStore.
func (s *Store) Update(ctx context.Context, ownerID, id string, fields core.TransactionUpdate) error {
	filter, err := ownedFilter(ownerID, id)
	if err != nil {
		return err
	}

	set := bson.M{}
	if fields.Month != nil {
		set["month"] = string(*fields.Month)
	}
	if fields.Year != nil {
		set["year"] = *fields.Year
	}
	if fields.Category != nil {
		set["category"] = *fields.Category
	}
	if fields.Type != nil {
		set["type"] = string(*fields.Type)
	}
	if fields.Value != nil {
		set["value"] = *fields.Value
	}
	if fields.Observation != nil {
		set["observation"] = *fields.Observation
	}
	if len(set) == 0 {
		return nil
	}

	res, err := s.transactions.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Delete implements store.TransactionStore.
func (s *Store) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	filter, err := ownedFilter(ownerID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	res, err := s.transactions.DeleteOne(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// SetPaid implements store.TransactionStore.
func (s *Store) SetPaid(ctx context.Context, ownerID, id string, paid bool, paidAt time.Time) error {
	filter, err := ownedFilter(ownerID, id)
	if err != nil {
		return err
	}

	set := bson.M{"paid": paid}
	if paid {
		set["payment_date"] = paidAt
	} else {
		set["payment_date"] = nil
	}

	res, err := s.transactions.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// CreateUser implements store.UserStore.
func (s *Store) CreateUser(ctx context.Context, u store.User) (string, error) {
	doc := userDoc{
		Email:     u.Email,
		Password:  u.PasswordHash,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
	res, err := s.users.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", store.ErrEmailTaken
		}
		return "", fmt.Errorf("insert user: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// FindUserByEmail implements store.UserStore.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (store.User, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.User{}, store.ErrUserNotFound
		}
		return store.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return doc.toStore(), nil
}

// FindUserByID implements store.UserStore.
func (s *Store) FindUserByID(ctx context.Context, id string) (store.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.User{}, store.ErrUserNotFound
	}
	var doc userDoc
	err = s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.User{}, store.ErrUserNotFound
		}
		return store.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return doc.toStore(), nil
}

func (d userDoc) toStore() store.User {
	return store.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.Password,
		Name:         d.Name,
		CreatedAt:    d.CreatedAt,
	}
}
