package archive

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/fatou/pkg/errors"
	"github.com/matzehuels/fatou/pkg/httputil"
)

// DefaultDatabase is the database used when none is configured.
const DefaultDatabase = "fatou"

const renderCollection = "renders"

// MongoStore is a MongoDB-backed archive for durable storage.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and prepares the render collection.
// If database is empty, [DefaultDatabase] is used. The connection is
// verified with a ping so configuration errors surface immediately.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if err := errors.ValidateMongoURI(uri); err != nil {
		return nil, err
	}
	if database == "" {
		database = DefaultDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connecting to archive store")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "reaching archive store")
	}

	coll := client.Database(database).Collection(renderCollection)

	// Listings sort newest-first; index creation is best-effort so a
	// user without index privileges can still read and write.
	_, _ = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})

	return &MongoStore{client: client, coll: coll}, nil
}

// Save records an entry, overwriting any previous entry with the same ID.
// Transient driver errors are retried with backoff.
func (s *MongoStore) Save(ctx context.Context, e Entry) error {
	err := httputil.RetryWithBackoff(ctx, func() error {
		_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": e.ID}, e, options.Replace().SetUpsert(true))
		return retryable(err)
	})
	if err != nil {
		return wrapStoreErr(err, "saving render %s", e.ID)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (Entry, error) {
	var e Entry
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return Entry{}, errors.New(errors.ErrCodeRenderNotFound, "no archived render %q", id)
	}
	if err != nil {
		return Entry{}, wrapStoreErr(err, "loading render %s", id)
	}
	return e, nil
}

func (s *MongoStore) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	filter := bson.M{}
	if opts.Family != "" {
		filter["family"] = opts.Family
	}
	if !opts.Since.IsZero() {
		filter["created_at"] = bson.M{"$gte": opts.Since}
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cur, err := s.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, wrapStoreErr(err, "listing renders")
	}

	var entries []Entry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, wrapStoreErr(err, "decoding renders")
	}
	return entries, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return wrapStoreErr(err, "deleting render %s", id)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// retryable wraps transient driver errors so Retry attempts them again.
func retryable(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return &httputil.RetryableError{Err: err}
	}
	return err
}

// wrapStoreErr assigns an error code matching the driver failure class.
// The driver helpers unwrap, so wrapped retry errors classify correctly.
func wrapStoreErr(err error, format string, args ...any) error {
	switch {
	case mongo.IsTimeout(err):
		return errors.Wrap(errors.ErrCodeTimeout, err, format, args...)
	case mongo.IsNetworkError(err):
		return errors.Wrap(errors.ErrCodeNetwork, err, format, args...)
	default:
		return errors.Wrap(errors.ErrCodeInternal, err, format, args...)
	}
}
