package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

// meanRating is the arithmetic mean of the ratings, 0 when there are
// none. Recomputing from scratch on every submission avoids the drift
// an incremental average accumulates.
func meanRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, review := range reviews {
		sum += review.Rating
	}
	return float64(sum) / float64(len(reviews))
}

type submitReviewRequest struct {
	ProductID string `json:"productId"`
	UserName  string `json:"userName"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	Type      string `json:"type"`
}

// SubmitReview persists a review and, for product reviews, rewrites the
// product's rating as the mean of all its reviews.
func SubmitReview(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/reviews"
		defer handlePanic(c, route)

		var req submitReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		if strings.TrimSpace(req.UserName) == "" || strings.TrimSpace(req.Comment) == "" || req.Rating == 0 {
			respondWithError(c, http.StatusBadRequest, route, "Name, rating, and comment are required")
			return
		}
		if req.Rating < 1 || req.Rating > 5 {
			respondWithError(c, http.StatusBadRequest, route, "rating must be between 1 and 5")
			return
		}

		reviewType := strings.TrimSpace(req.Type)
		if reviewType == "" {
			reviewType = models.ReviewTypeProduct
		}
		if reviewType != models.ReviewTypeProduct && reviewType != models.ReviewTypeStore {
			respondWithError(c, http.StatusBadRequest, route, "invalid review type")
			return
		}

		review := models.Review{
			UserName:  strings.TrimSpace(req.UserName),
			Rating:    req.Rating,
			Comment:   strings.TrimSpace(req.Comment),
			Type:      reviewType,
			CreatedAt: time.Now(),
		}

		if reviewType == models.ReviewTypeProduct {
			if strings.TrimSpace(req.ProductID) == "" {
				respondWithError(c, http.StatusBadRequest, route, "Product ID is required for product reviews")
				return
			}
			productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.ProductID))
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid productId")
				return
			}
			review.ProductID = &productID
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("reviews").InsertOne(ctx, review)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "failed to submit review")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			review.ID = id
		}

		if review.ProductID != nil {
			if err := recomputeProductRating(ctx, db, *review.ProductID); err != nil {
				// The review is saved; a failed recompute self-heals on
				// the next submission for this product.
				log.Printf("[%s] rating recompute failed for %s: %v", route, review.ProductID.Hex(), err)
			}
		}

		c.JSON(http.StatusCreated, review)
	}
}

func recomputeProductRating(ctx context.Context, db *mongo.Database, productID primitive.ObjectID) error {
	cursor, err := db.Collection("reviews").Find(ctx, bson.M{
		"productId": productID,
		"type":      models.ReviewTypeProduct,
	})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return err
	}

	_, err = db.Collection("products").UpdateOne(
		ctx,
		bson.M{"_id": productID},
		bson.M{"$set": bson.M{"rating": meanRating(reviews)}},
	)
	return err
}

func GetStoreReviews(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/reviews/store"
		defer handlePanic(c, route)

		listReviews(c, db, route, bson.M{"type": models.ReviewTypeStore})
	}
}

func GetProductReviews(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/reviews/:productId"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
		if err != nil {
			respondWithError(c, http.StatusNotFound, route, "reviews not found")
			return
		}

		listReviews(c, db, route, bson.M{
			"productId": productID,
			"type":      models.ReviewTypeProduct,
		})
	}
}

func listReviews(c *gin.Context, db *mongo.Database, route string, filter bson.M) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := db.Collection("reviews").Find(ctx, filter, findOptions)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, route, "db error")
		return
	}
	defer cursor.Close(ctx)

	reviews := make([]models.Review, 0)
	if err := cursor.All(ctx, &reviews); err != nil {
		respondWithError(c, http.StatusInternalServerError, route, "decode error")
		return
	}

	c.JSON(http.StatusOK, reviews)
}
