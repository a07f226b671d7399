package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type MongoArchive struct {
	URI    string
	DBName string

	client     *mongo.Client
	tickets    *mongo.Collection
	violations *mongo.Collection
}

func (m *MongoArchive) Init() error {
	if m.URI == "" || m.DBName == "" {
		return fmt.Errorf("database.mongodb.uri and database.mongodb.database must be set to use driver=mongodb")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(m.URI))
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	m.client = client

	db := client.Database(m.DBName)
	m.tickets = db.Collection("tickets")
	m.violations = db.Collection("violations")

	if _, err := m.tickets.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "channel_id", Value: 1}},
	}); err != nil {
		log.Printf("[db] Failed to create tickets index: %v", err)
	}
	if _, err := m.violations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "guild_id", Value: 1}, {Key: "timestamp", Value: -1}},
	}); err != nil {
		log.Printf("[db] Failed to create violations index: %v", err)
	}

	log.Printf("[db] MongoDB archive initialised (%s)", m.DBName)
	return nil
}

func (m *MongoArchive) Close() error {
	if m.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func (m *MongoArchive) RecordTicket(t TicketRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := m.tickets.InsertOne(ctx, t)
	return err
}

func (m *MongoArchive) UpdateTicketStatus(channelID, status, actorID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// A ticket going back to open carries no close metadata.
	set := bson.M{
		"status":    status,
		"closed_by": "",
		"closed_at": "",
	}
	if status != TicketOpen {
		set["closed_by"] = actorID
		set["closed_at"] = time.Now().Format(time.RFC3339)
	}

	_, err := m.tickets.UpdateOne(ctx,
		bson.M{"channel_id": channelID},
		bson.M{"$set": set},
	)
	return err
}

func (m *MongoArchive) Tickets(guildID string, limit int) ([]TicketRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := m.tickets.Find(ctx,
		bson.M{"guild_id": guildID},
		options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tickets []TicketRecord
	return tickets, cursor.All(ctx, &tickets)
}

func (m *MongoArchive) RecordViolation(v ViolationRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := m.violations.InsertOne(ctx, v)
	return err
}

func (m *MongoArchive) RecentViolations(guildID string, limit int) ([]ViolationRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := m.violations.Find(ctx,
		bson.M{"guild_id": guildID},
		options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var violations []ViolationRecord
	return violations, cursor.All(ctx, &violations)
}
