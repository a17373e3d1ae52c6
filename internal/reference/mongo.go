package reference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"indoor-network/internal/models"

	"github.com/tidwall/gjson"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens the reference store and verifies it with a ping.
func Connect(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to reference store: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping reference store: %w", err)
	}
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Raw(ctx context.Context, collection, displayName string) ([]byte, error) {
	var raw bson.Raw
	err := s.db.Collection(collection).
		FindOne(ctx, bson.M{"displayName": displayName}).
		Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return bson.MarshalExtJSON(raw, false, false)
}

func (s *MongoStore) Units(ctx context.Context, displayName string) ([]models.FacilityUnit, error) {
	doc, err := s.Raw(ctx, CollectionUnits, displayName)
	if err != nil {
		return nil, err
	}
	return decodeUnits(doc), nil
}

func (s *MongoStore) Units3D(ctx context.Context, displayName string) ([]models.Unit3D, error) {
	doc, err := s.Raw(ctx, Collection3DUnits, displayName)
	if err != nil {
		return nil, err
	}
	return decodeUnits3D(doc), nil
}

func (s *MongoStore) Levels(ctx context.Context, displayName string) ([]models.Level, error) {
	doc, err := s.Raw(ctx, CollectionLevels, displayName)
	if err != nil {
		return nil, err
	}
	return decodeLevels(doc), nil
}

func (s *MongoStore) Openings(ctx context.Context, displayName string) ([]models.Opening, error) {
	doc, err := s.Raw(ctx, CollectionOpenings, displayName)
	if err != nil {
		return nil, err
	}
	return decodeOpenings(doc), nil
}

func (s *MongoStore) Buildings(ctx context.Context, displayName string) ([]models.BuildingInfo, error) {
	cur, err := s.db.Collection(CollectionBuildingInfo).Find(ctx, bson.M{"displayName": displayName})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.BuildingInfo
	for cur.Next(ctx) {
		doc, err := bson.MarshalExtJSON(cur.Current, false, false)
		if err != nil {
			return nil, err
		}
		out = append(out, decodeBuilding(gjson.ParseBytes(doc)))
	}
	return out, cur.Err()
}

func (s *MongoStore) BuildingByCSUID(ctx context.Context, csuid string) (*models.BuildingInfo, error) {
	var raw bson.Raw
	err := s.db.Collection(CollectionBuildingInfo).
		FindOne(ctx, bson.M{"buildingCSUID": csuid}).
		Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	doc, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return nil, err
	}
	b := decodeBuilding(gjson.ParseBytes(doc))
	return &b, nil
}
