package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo keeps each table in a collection, with the primary key as _id.
type Mongo struct {
	db *mongo.Database
}

var _ Backend = (*Mongo)(nil)

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

// ConnectMongo dials the deployment and pings the primary.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(uri)
	opts.SetServerSelectionTimeout(10 * time.Second)
	opts.SetRetryReads(false)
	opts.SetRetryWrites(false)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

func (m *Mongo) Get(ctx context.Context, table, key string) ([]byte, bool, error) {
	var doc bson.M
	err := m.db.Collection(table).FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	out, err := fromBSON(doc)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (m *Mongo) Put(ctx context.Context, table, key string, doc []byte) error {
	fields := bson.M{}
	if err := json.Unmarshal(doc, &fields); err != nil {
		return err
	}
	fields["_id"] = key
	_, err := m.db.Collection(table).ReplaceOne(ctx, bson.M{"_id": key}, fields, options.Replace().SetUpsert(true))
	return err
}

func (m *Mongo) Scan(ctx context.Context, table string, filter Filter) ([][]byte, error) {
	query := bson.M{}
	pushed := true
	switch f := filter.(type) {
	case nil:
	case Equals:
		query[f.Attribute] = f.Value
	case Between:
		query[f.Attribute] = bson.M{"$gte": f.Lower, "$lte": f.Upper}
	default:
		pushed = false
	}

	cur, err := m.db.Collection(table).Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([][]byte, 0, len(docs))
	for _, d := range docs {
		raw, err := fromBSON(d)
		if err != nil {
			return nil, err
		}
		if !pushed {
			ok, err := matches(filter, raw)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, raw)
	}
	return out, nil
}

func (m *Mongo) Update(ctx context.Context, table, key string, attrs Attributes) error {
	set, err := normalize(attrs)
	if err != nil {
		return err
	}
	res, err := m.db.Collection(table).UpdateOne(ctx, bson.M{"_id": key}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) Delete(ctx context.Context, table, key string) error {
	_, err := m.db.Collection(table).DeleteOne(ctx, bson.M{"_id": key})
	return err
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.db.Client().Ping(ctx, nil)
}

func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.db.Client().Disconnect(ctx)
}

func fromBSON(doc bson.M) ([]byte, error) {
	delete(doc, "_id")
	return json.Marshal(doc)
}
