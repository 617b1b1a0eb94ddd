package handlers

import "go.mongodb.org/mongo-driver/bson/primitive"

// outOfStockError carries the live remaining quantity so the client can
// retry with a corrected amount instead of failing blindly.
type outOfStockError struct {
	ProductID primitive.ObjectID
	Available int
	Requested int
}

func (e outOfStockError) Error() string {
	return "insufficient stock"
}

type productNotFoundError struct {
	ProductID primitive.ObjectID
}

func (e productNotFoundError) Error() string {
	return "product not found"
}
