package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectDB opens the MongoDB connection and returns the application
// database handle. The caller owns the client and disconnects it on
// shutdown.
func ConnectDB() (*mongo.Client, *mongo.Database, error) {
	log.Println("Attempting to connect to database...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(AppConfig.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("database ping failed: %w", err)
	}

	db := client.Database(AppConfig.MongoDBName)

	if err := ensureIndexes(ctx, db); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	log.Println("Successfully connected to the database")
	return client, db, nil
}

// ensureIndexes creates the unique email index on users. Everything else
// runs on the collections' defaults.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
