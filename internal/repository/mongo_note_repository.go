package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "notely/internal/errors"
	"notely/internal/model"
)

const notesCollection = "notes"

type noteDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Tags      []string           `bson:"tags"`
	IsPinned  bool               `bson:"isPinned"`
	UserID    primitive.ObjectID `bson:"userId"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d noteDocument) toModel() model.Note {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return model.Note{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		Tags:      tags,
		IsPinned:  d.IsPinned,
		UserID:    d.UserID.Hex(),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type mongoNoteRepository struct {
	coll *mongo.Collection
}

// NewMongoNoteRepository builds a repository over the notes collection.
func NewMongoNoteRepository(db *mongo.Database) NoteRepository {
	return &mongoNoteRepository{coll: db.Collection(notesCollection)}
}

func (r *mongoNoteRepository) Create(ctx context.Context, note *model.Note) error {
	owner, err := primitive.ObjectIDFromHex(note.UserID)
	if err != nil {
		return apperrors.ErrUnauthorized
	}
	now := time.Now().UTC()
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}
	doc := noteDocument{
		ID:        primitive.NewObjectID(),
		Title:     note.Title,
		Content:   note.Content,
		Tags:      tags,
		IsPinned:  note.IsPinned,
		UserID:    owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	*note = doc.toModel()
	return nil
}

func (r *mongoNoteRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Note, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return []model.Note{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "isPinned", Value: -1}})
	return r.find(ctx, bson.M{"userId": owner}, opts)
}

func (r *mongoNoteRepository) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Note, error) {
	filter, ok := ownedNoteFilter(id, ownerID)
	if !ok {
		return nil, apperrors.ErrNoteNotFound
	}
	var doc noteDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translateMongoNoteErr(err)
	}
	note := doc.toModel()
	return &note, nil
}

func (r *mongoNoteRepository) Update(ctx context.Context, id, ownerID string, patch model.NotePatch) (*model.Note, error) {
	if patch.IsEmpty() {
		return r.FindByIDAndOwner(ctx, id, ownerID)
	}
	filter, ok := ownedNoteFilter(id, ownerID)
	if !ok {
		return nil, apperrors.ErrNoteNotFound
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Tags != nil {
		tags := *patch.Tags
		if tags == nil {
			tags = []string{}
		}
		set["tags"] = tags
	}
	if patch.IsPinned != nil {
		set["isPinned"] = *patch.IsPinned
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc noteDocument
	if err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, translateMongoNoteErr(err)
	}
	note := doc.toModel()
	return &note, nil
}

func (r *mongoNoteRepository) Delete(ctx context.Context, id, ownerID string) error {
	filter, ok := ownedNoteFilter(id, ownerID)
	if !ok {
		return apperrors.ErrNoteNotFound
	}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrNoteNotFound
	}
	return nil
}

func (r *mongoNoteRepository) Search(ctx context.Context, ownerID, query string) ([]model.Note, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return []model.Note{}, nil
	}
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{
		"userId": owner,
		"$or": bson.A{
			bson.M{"title": pattern},
			bson.M{"content": pattern},
		},
	}
	return r.find(ctx, filter)
}

func (r *mongoNoteRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]model.Note, error) {
	cursor, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find notes: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []noteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}

	notes := make([]model.Note, 0, len(docs))
	for _, d := range docs {
		notes = append(notes, d.toModel())
	}
	return notes, nil
}

// ownedNoteFilter builds the joint (_id, userId) filter. Ids that are not
// valid ObjectIDs cannot match anything.
func ownedNoteFilter(id, ownerID string) (bson.M, bool) {
	noteID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": noteID, "userId": owner}, true
}

func translateMongoNoteErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperrors.ErrNoteNotFound
	}
	return fmt.Errorf("find note: %w", err)
}
