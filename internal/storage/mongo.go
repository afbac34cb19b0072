package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"pagesmith/internal/domain"
)

// MongoStore implements domain.DocumentStore on a MongoDB collection. The
// aggregate is stored as its canonical JSON payload next to the few fields
// the scheduler queries on, so SQL and Mongo backends stay byte-compatible
// on the document shape.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoDocument struct {
	ID        string     `bson:"_id"`
	Slug      string     `bson:"slug"`
	Status    string     `bson:"status"`
	PublishAt *time.Time `bson:"publishAt,omitempty"`
	CreatedAt time.Time  `bson:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt"`
	Payload   string     `bson:"payload"`
}

// NewMongoStore connects to MongoDB and targets the documents collection of
// the configured database.
func NewMongoStore(ctx context.Context, cfg Config) (*MongoStore, error) {
	uri := buildMongoURI(cfg)
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	dbName := cfg.Database
	if dbName == "" {
		dbName = "pagesmith"
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(dbName).Collection("documents"),
	}, nil
}

// buildMongoURI assembles a connection URI. A Host that is already a full
// mongodb:// or mongodb+srv:// string is used as-is.
func buildMongoURI(cfg Config) string {
	if strings.HasPrefix(cfg.Host, "mongodb://") || strings.HasPrefix(cfg.Host, "mongodb+srv://") {
		return cfg.Host
	}
	port := cfg.Port
	if port == 0 {
		port = 27017
	}
	if cfg.Username != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.Username, cfg.Password, cfg.Host, port)
	}
	return fmt.Sprintf("mongodb://%s:%d", cfg.Host, port)
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

func toMongo(d *domain.Document) (*mongoDocument, error) {
	payload, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return &mongoDocument{
		ID:        d.ID,
		Slug:      d.Slug,
		Status:    d.Status,
		PublishAt: d.PublishAt,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		Payload:   string(payload),
	}, nil
}

func fromMongo(m *mongoDocument) (*domain.Document, error) {
	var d domain.Document
	if err := json.Unmarshal([]byte(m.Payload), &d); err != nil {
		return nil, fmt.Errorf("unmarshal document %s: %w", m.ID, err)
	}
	return &d, nil
}

func (s *MongoStore) CreateDocument(ctx context.Context, d *domain.Document) error {
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	m, err := toMongo(d)
	if err != nil {
		return err
	}
	if _, err := s.coll.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (s *MongoStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	var m mongoDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return fromMongo(&m)
}

func (s *MongoStore) UpdateDocument(ctx context.Context, d *domain.Document) error {
	d.UpdatedAt = time.Now().UTC()
	m, err := toMongo(d)
	if err != nil {
		return err
	}
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": d.ID}, m)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteDocument(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (s *MongoStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer cursor.Close(ctx)
	return s.collect(ctx, cursor)
}

func (s *MongoStore) ListDueScheduled(ctx context.Context, now time.Time) ([]domain.Document, error) {
	filter := bson.M{
		"status":    domain.StatusScheduled,
		"publishAt": bson.M{"$lte": now.UTC()},
	}
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.M{"publishAt": 1}))
	if err != nil {
		return nil, fmt.Errorf("list due scheduled: %w", err)
	}
	defer cursor.Close(ctx)
	return s.collect(ctx, cursor)
}

func (s *MongoStore) collect(ctx context.Context, cursor *mongo.Cursor) ([]domain.Document, error) {
	var docs []domain.Document
	for cursor.Next(ctx) {
		var m mongoDocument
		if err := cursor.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		d, err := fromMongo(&m)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	return docs, cursor.Err()
}
