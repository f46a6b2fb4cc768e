package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ResidencesCollection *mongo.Collection
	SettingsCollection   *mongo.Collection
	UserCollection       *mongo.Collection
	Client               *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ClientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), ClientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	ResidencesCollection = Client.Database("villadb").Collection("residences")
	SettingsCollection = Client.Database("villadb").Collection("settings")
	UserCollection = Client.Database("villadb").Collection("users")
}
