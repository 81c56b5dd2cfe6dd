package models

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hostelhub/server/internal/apperr"
)

type HostelRepo interface {
	CreateHostel(ctx context.Context, hostel *Hostel) (*Hostel, error)
	GetHostelByCode(ctx context.Context, code string) (*Hostel, error)
	ListHostels(ctx context.Context, offset, limit int) ([]*Hostel, int, error)
	UpdateHostel(ctx context.Context, code string, fields map[string]interface{}) (*Hostel, error)
	DeleteHostel(ctx context.Context, code string) error
	ReserveRoom(ctx context.Context, code, roomType string) error
	ReleaseRoom(ctx context.Context, code, roomType string) error
}

func (mdb *MongodbRepo) CreateHostel(ctx context.Context, hostel *Hostel) (*Hostel, error) {
	col := mdb.GetCollection(DBName, HostelColName)

	if _, err := col.InsertOne(ctx, hostel); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Newf(apperr.Conflict, "hostel with code %s already exists", hostel.Code)
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to create hostel", err)
	}

	return hostel, nil
}

func (mdb *MongodbRepo) GetHostelByCode(ctx context.Context, code string) (*Hostel, error) {
	col := mdb.GetCollection(DBName, HostelColName)

	var hostel Hostel
	err := col.FindOne(ctx, bson.M{"code": code}).Decode(&hostel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.New(apperr.NotFound, "hostel not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to get hostel", err)
	}

	return &hostel, nil
}

func (mdb *MongodbRepo) ListHostels(ctx context.Context, offset, limit int) ([]*Hostel, int, error) {
	col := mdb.GetCollection(DBName, HostelColName)

	total, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, "failed to count hostels", err)
	}

	opts := options.Find().
		SetSkip(int64(offset)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, "failed to list hostels", err)
	}
	defer cursor.Close(ctx)

	var hostels []*Hostel
	for cursor.Next(ctx) {
		var h Hostel
		if err := cursor.Decode(&h); err != nil {
			return nil, 0, apperr.Wrap(apperr.Internal, "failed to decode hostel", err)
		}
		hostels = append(hostels, &h)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, "cursor error listing hostels", err)
	}

	return hostels, int(total), nil
}

func (mdb *MongodbRepo) UpdateHostel(ctx context.Context, code string, fields map[string]interface{}) (*Hostel, error) {
	col := mdb.GetCollection(DBName, HostelColName)

	update := bson.M{"$set": fields}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Hostel
	err := col.FindOneAndUpdate(ctx, bson.M{"code": code}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.New(apperr.NotFound, "hostel not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to update hostel", err)
	}

	return &updated, nil
}

func (mdb *MongodbRepo) DeleteHostel(ctx context.Context, code string) error {
	col := mdb.GetCollection(DBName, HostelColName)

	res, err := col.DeleteOne(ctx, bson.M{"code": code})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to delete hostel", err)
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "hostel not found")
	}

	return nil
}

// ReserveRoom takes one unit of the given room type. The decrement is a
// single conditional update guarded by available > 0, so two concurrent
// reservations for the last unit cannot both succeed: the server matches the
// array element at most once and the loser sees ModifiedCount 0.
func (mdb *MongodbRepo) ReserveRoom(ctx context.Context, code, roomType string) error {
	col := mdb.GetCollection(DBName, HostelColName)

	filter := bson.M{"code": code}
	update := bson.M{
		"$inc": bson.M{"room_types.$[rt].available": -1},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"rt.label": roomType, "rt.available": bson.M{"$gt": 0}},
		},
	})

	res, err := col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to reserve room", err)
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "hostel not found")
	}
	if res.ModifiedCount == 0 {
		return apperr.New(apperr.Conflict, "no available rooms for this type")
	}

	return nil
}

// ReleaseRoom returns one unit to the given room type. Callers are
// responsible for the at-most-once guarantee; the guarded status transition
// in the booking workflow ensures this runs once per cancellation.
func (mdb *MongodbRepo) ReleaseRoom(ctx context.Context, code, roomType string) error {
	col := mdb.GetCollection(DBName, HostelColName)

	filter := bson.M{"code": code}
	update := bson.M{
		"$inc": bson.M{"room_types.$[rt].available": 1},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"rt.label": roomType},
		},
	})

	res, err := col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to release room", err)
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "hostel not found")
	}
	if res.ModifiedCount == 0 {
		return apperr.New(apperr.NotFound, "room type not found")
	}

	return nil
}
