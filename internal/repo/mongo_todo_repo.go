package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	dom "github.com/patelseth/TodoApp/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const todosCollection = "todos"

// todoDoc is the stored shape of a Todo.
type todoDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func toDoc(t dom.Todo) (todoDoc, error) {
	d := todoDoc{
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.ID != "" {
		oid, err := primitive.ObjectIDFromHex(t.ID)
		if err != nil {
			return todoDoc{}, fmt.Errorf("todo id %q: %w", t.ID, err)
		}
		d.ID = oid
	}
	return d, nil
}

func (d todoDoc) toDomain() dom.Todo {
	return dom.Todo{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Status:      dom.TodoStatus(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// MongoTodoRepo stores todos in a MongoDB collection.
type MongoTodoRepo struct {
	col *mongo.Collection
}

func NewMongoTodoRepo(db *mongo.Database) *MongoTodoRepo {
	return &MongoTodoRepo{col: db.Collection(todosCollection)}
}

// EnsureIndexes creates the unique index on title. Safe to call on every
// startup; Mongo treats an identical existing index as a no-op.
func (r *MongoTodoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "title", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("todos title index: %w", err)
	}
	return nil
}

func (r *MongoTodoRepo) GetByID(ctx context.Context, id string) (dom.Todo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Malformed ids cannot resolve to a live document.
		return dom.Todo{}, ErrNotFound
	}
	var d todoDoc
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return dom.Todo{}, ErrNotFound
	}
	if err != nil {
		return dom.Todo{}, err
	}
	return d.toDomain(), nil
}

func (r *MongoTodoRepo) GetByTitle(ctx context.Context, title string) (dom.Todo, error) {
	var d todoDoc
	err := r.col.FindOne(ctx, bson.M{"title": title}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return dom.Todo{}, ErrNotFound
	}
	if err != nil {
		return dom.Todo{}, err
	}
	return d.toDomain(), nil
}

func (r *MongoTodoRepo) List(ctx context.Context) ([]dom.Todo, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []todoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	list := make([]dom.Todo, len(docs))
	for i := range docs {
		list[i] = docs[i].toDomain()
	}
	return list, nil
}

func (r *MongoTodoRepo) Insert(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	d, err := toDoc(t)
	if err != nil {
		return dom.Todo{}, err
	}
	res, err := r.col.InsertOne(ctx, d)
	if mongo.IsDuplicateKeyError(err) {
		return dom.Todo{}, ErrDuplicateTitle
	}
	if err != nil {
		return dom.Todo{}, err
	}
	d.ID = res.InsertedID.(primitive.ObjectID)
	return d.toDomain(), nil
}

func (r *MongoTodoRepo) Replace(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	d, err := toDoc(t)
	if err != nil {
		return dom.Todo{}, err
	}
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": d.ID}, d)
	if mongo.IsDuplicateKeyError(err) {
		return dom.Todo{}, ErrDuplicateTitle
	}
	if err != nil {
		return dom.Todo{}, err
	}
	if res.MatchedCount == 0 {
		return dom.Todo{}, ErrNotFound
	}
	return d.toDomain(), nil
}

func (r *MongoTodoRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
