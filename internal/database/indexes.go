package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("products").Indexes()

	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("category_index"),
		},
		{
			Keys:    bson.D{{Key: "homeCategory", Value: 1}},
			Options: options.Index().SetName("homeCategory_index"),
		},
	}

	log.Println("EnsureProductIndexes: creating category indexes")
	_, err := indexes.CreateMany(ctx, models)
	if err != nil {
		log.Println("EnsureProductIndexes: index error:", err)
		return err
	}
	return nil
}

// EnsureCartIndexes creates the unique cartId lookup index and the TTL
// index that expires abandoned carts after the configured retention.
func EnsureCartIndexes(db *mongo.Database, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("carts").Indexes()

	cartIDIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "cartId", Value: 1}},
		Options: options.Index().
			SetName("cartId_unique").
			SetUnique(true),
	}

	ttlIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "updatedAt", Value: 1}},
		Options: options.Index().
			SetName("cart_ttl").
			SetExpireAfterSeconds(int32(ttl / time.Second)),
	}

	log.Println("EnsureCartIndexes: creating cartId_unique and cart_ttl indexes")
	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{cartIDIndex, ttlIndex})
	if err != nil {
		log.Println("EnsureCartIndexes: index error:", err)
		return err
	}
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("orders").Indexes()

	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("userId_index"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("status_index"),
		},
	}

	log.Println("EnsureOrderIndexes: creating userId and status indexes")
	_, err := indexes.CreateMany(ctx, models)
	if err != nil {
		log.Println("EnsureOrderIndexes: index error:", err)
		return err
	}
	return nil
}

func EnsureReviewIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("reviews").Indexes()

	productTypeIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "productId", Value: 1},
			{Key: "type", Value: 1},
		},
		Options: options.Index().SetName("productId_type_index"),
	}

	log.Println("EnsureReviewIndexes: creating productId_type_index")
	_, err := indexes.CreateOne(ctx, productTypeIndex)
	if err != nil {
		log.Println("EnsureReviewIndexes: index error:", err)
		return err
	}
	return nil
}
