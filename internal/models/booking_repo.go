package models

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hostelhub/server/internal/apperr"
)

type BookingRepo interface {
	InsertBooking(ctx context.Context, booking *Booking) (*Booking, error)
	GetBookingByID(ctx context.Context, id string) (*Booking, error)
	ListBookingsByUser(ctx context.Context, userID string, offset, limit int) ([]*Booking, int, error)
	ListBookings(ctx context.Context, offset, limit int) ([]*Booking, int, error)
	TransitionStatus(ctx context.Context, id string, from []BookingStatus, to BookingStatus) (bool, error)
	CountActiveByHostel(ctx context.Context, hostelCode string) (int, error)
}

func (mdb *MongodbRepo) InsertBooking(ctx context.Context, booking *Booking) (*Booking, error) {
	col := mdb.GetCollection(DBName, BookingCol)

	if _, err := col.InsertOne(ctx, booking); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to persist booking", err)
	}

	return booking, nil
}

func (mdb *MongodbRepo) GetBookingByID(ctx context.Context, id string) (*Booking, error) {
	col := mdb.GetCollection(DBName, BookingCol)

	var booking Booking
	err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.New(apperr.NotFound, "booking not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to get booking", err)
	}

	return &booking, nil
}

func (mdb *MongodbRepo) ListBookingsByUser(ctx context.Context, userID string, offset, limit int) ([]*Booking, int, error) {
	return mdb.listBookings(ctx, bson.M{"user_id": userID}, offset, limit)
}

func (mdb *MongodbRepo) ListBookings(ctx context.Context, offset, limit int) ([]*Booking, int, error) {
	return mdb.listBookings(ctx, bson.M{}, offset, limit)
}

func (mdb *MongodbRepo) listBookings(ctx context.Context, filter bson.M, offset, limit int) ([]*Booking, int, error) {
	col := mdb.GetCollection(DBName, BookingCol)

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, "failed to count bookings", err)
	}

	opts := options.Find().
		SetSkip(int64(offset)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, "failed to list bookings", err)
	}
	defer cursor.Close(ctx)

	var bookings []*Booking
	for cursor.Next(ctx) {
		var b Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, 0, apperr.Wrap(apperr.Internal, "failed to decode booking", err)
		}
		bookings = append(bookings, &b)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, "cursor error listing bookings", err)
	}

	return bookings, int(total), nil
}

// TransitionStatus moves a booking to the target status only while its
// current status is one of from, as a single guarded update. The returned
// bool reports whether the document actually changed; a false with no error
// means another caller got there first, which is how cancel stays
// at-most-once on the restock.
func (mdb *MongodbRepo) TransitionStatus(ctx context.Context, id string, from []BookingStatus, to BookingStatus) (bool, error) {
	col := mdb.GetCollection(DBName, BookingCol)

	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": from},
	}
	update := bson.M{"$set": bson.M{"status": to}}
	update["$currentDate"] = bson.M{"updated_at": true}

	res, err := col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, apperr.Wrap(apperr.Internal, "failed to update booking status", err)
	}

	return res.ModifiedCount > 0, nil
}

func (mdb *MongodbRepo) CountActiveByHostel(ctx context.Context, hostelCode string) (int, error) {
	col := mdb.GetCollection(DBName, BookingCol)

	filter := bson.M{
		"hostel_code": hostelCode,
		"status":      bson.M{"$in": []BookingStatus{BookingPending, BookingConfirmed}},
	}

	count, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, apperr.Wrap(apperr.Internal, "failed to count active bookings", err)
	}

	return int(count), nil
}
