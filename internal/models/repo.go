package models

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Validate = validator.New()

const (
	DBName        = "hostelhub"
	HostelColName = "hostels"
	BookingCol    = "bookings"
	UserColName   = "users"
)

type MongodbRepo struct {
	mongodbClient *mongo.Client
}

func MongodbNewRepo(mongodbClient *mongo.Client) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
	}
}

func (mdb *MongodbRepo) GetCollection(dbName, colName string) *mongo.Collection {
	return mdb.mongodbClient.Database(dbName).Collection(colName)
}

// EnsureIndexes creates the unique indexes the workflow relies on: hostel
// codes and account emails.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	hostels := mdb.GetCollection(DBName, HostelColName)
	if _, err := hostels.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("create hostel code index: %w", err)
	}

	users := mdb.GetCollection(DBName, UserColName)
	if _, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("create user email index: %w", err)
	}

	bookings := mdb.GetCollection(DBName, BookingCol)
	if _, err := bookings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "hostel_code", Value: 1}, {Key: "status", Value: 1}},
	}); err != nil {
		return fmt.Errorf("create booking hostel/status index: %w", err)
	}

	return nil
}
