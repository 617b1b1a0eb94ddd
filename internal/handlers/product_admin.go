package handlers

import (
	"context"
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

type createProductRequest struct {
	Name          string                  `json:"name" binding:"required"`
	Description   string                  `json:"description"`
	Price         float64                 `json:"price" binding:"required"`
	PreviousPrice *float64                `json:"previousPrice"`
	ImageURL      string                  `json:"imageUrl"`
	Images        []string                `json:"images"`
	Variants      []models.ProductVariant `json:"variants"`
	Quantity      int                     `json:"quantity"`
	Category      string                  `json:"category"`
	HomeCategory  string                  `json:"homeCategory"`
}

func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products"
		defer handlePanic(c, route)

		var req createProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		if req.Price <= 0 {
			respondWithError(c, http.StatusBadRequest, route, "price must be greater than zero")
			return
		}
		if req.Quantity < 0 {
			respondWithError(c, http.StatusBadRequest, route, "quantity must not be negative")
			return
		}

		category := strings.TrimSpace(req.Category)
		if category == "" {
			category = "Other"
		}
		if !models.IsValidCategory(category) {
			respondWithError(c, http.StatusBadRequest, route, "invalid category")
			return
		}
		if !models.IsValidHomeCategory(strings.TrimSpace(req.HomeCategory)) {
			respondWithError(c, http.StatusBadRequest, route, "invalid homeCategory")
			return
		}

		images := req.Images
		if images == nil {
			images = []string{}
		}

		product := models.Product{
			Name:          strings.TrimSpace(req.Name),
			Description:   strings.TrimSpace(req.Description),
			Price:         req.Price,
			PreviousPrice: req.PreviousPrice,
			ImageURL:      strings.TrimSpace(req.ImageURL),
			Images:        images,
			Variants:      req.Variants,
			Quantity:      req.Quantity,
			Category:      category,
			HomeCategory:  strings.TrimSpace(req.HomeCategory),
			CreatedAt:     time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "failed to create product")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			product.ID = id
		}

		c.JSON(http.StatusCreated, product)
	}
}

type updateProductRequest struct {
	Name          *string                  `json:"name"`
	Description   *string                  `json:"description"`
	Price         *float64                 `json:"price"`
	PreviousPrice *float64                 `json:"previousPrice"`
	ImageURL      *string                  `json:"imageUrl"`
	Images        *[]string                `json:"images"`
	Variants      *[]models.ProductVariant `json:"variants"`
	Quantity      *int                     `json:"quantity"`
	Category      *string                  `json:"category"`
	HomeCategory  *string                  `json:"homeCategory"`
}

// UpdateProduct patches catalog fields. Stock set here is an absolute
// admin correction; order flow reservations still go through the
// conditional decrement path.
func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/products/:id"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req updateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		set := bson.M{}
		if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
			set["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			set["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Price != nil {
			if *req.Price <= 0 {
				respondWithError(c, http.StatusBadRequest, route, "price must be greater than zero")
				return
			}
			set["price"] = *req.Price
		}
		if req.PreviousPrice != nil {
			set["previousPrice"] = *req.PreviousPrice
		}
		if req.ImageURL != nil {
			set["imageUrl"] = strings.TrimSpace(*req.ImageURL)
		}
		if req.Images != nil {
			set["images"] = *req.Images
		}
		if req.Variants != nil {
			set["variants"] = *req.Variants
		}
		if req.Quantity != nil {
			if *req.Quantity < 0 {
				respondWithError(c, http.StatusBadRequest, route, "quantity must not be negative")
				return
			}
			set["quantity"] = *req.Quantity
		}
		if req.Category != nil {
			if !models.IsValidCategory(*req.Category) {
				respondWithError(c, http.StatusBadRequest, route, "invalid category")
				return
			}
			set["category"] = *req.Category
		}
		if req.HomeCategory != nil {
			if !models.IsValidHomeCategory(*req.HomeCategory) {
				respondWithError(c, http.StatusBadRequest, route, "invalid homeCategory")
				return
			}
			set["homeCategory"] = *req.HomeCategory
		}
		if len(set) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "no fields to update")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err = db.Collection("products").FindOneAndUpdate(
			ctx,
			bson.M{"_id": productID},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&product)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "failed to update product")
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/products/:id"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("products").DeleteOne(ctx, bson.M{"_id": productID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "failed to delete product")
			return
		}
		if result.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "id": productID.Hex()})
	}
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

func BulkDeleteProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products/bulk-delete"
		defer handlePanic(c, route)

		var req bulkDeleteRequest
		if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "No IDs provided")
			return
		}

		ids := make([]primitive.ObjectID, 0, len(req.IDs))
		for _, raw := range req.IDs {
			id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid id: "+raw)
				return
			}
			ids = append(ids, id)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("products").DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "failed to delete products")
			return
		}
		if result.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "no products found to delete")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "count": result.DeletedCount})
	}
}
