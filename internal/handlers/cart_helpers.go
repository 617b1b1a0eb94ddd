package handlers

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

var errCartLineNotFound = errors.New("item not found in cart")

// mergeCartLine adds incoming to the item list, folding it into an
// existing line when product and variant selection match. The resulting
// line quantity must fit within liveStock; on failure the returned
// error carries how many units can still be added and the original list
// is left untouched.
func mergeCartLine(items []models.CartItem, incoming models.CartItem, liveStock int) ([]models.CartItem, error) {
	for i, item := range items {
		if !item.SameLine(incoming.ProductID, incoming.Color, incoming.Size, incoming.Variants) {
			continue
		}

		newQty := item.Quantity + incoming.Quantity
		if newQty > liveStock {
			available := liveStock - item.Quantity
			if available < 0 {
				available = 0
			}
			return nil, outOfStockError{
				ProductID: incoming.ProductID,
				Available: available,
				Requested: incoming.Quantity,
			}
		}

		updated := make([]models.CartItem, len(items))
		copy(updated, items)
		updated[i].Quantity = newQty
		updated[i].Stock = liveStock
		return updated, nil
	}

	if incoming.Quantity > liveStock {
		return nil, outOfStockError{
			ProductID: incoming.ProductID,
			Available: liveStock,
			Requested: incoming.Quantity,
		}
	}

	incoming.Stock = liveStock
	updated := make([]models.CartItem, len(items), len(items)+1)
	copy(updated, items)
	return append(updated, incoming), nil
}

// setCartLineQuantity updates a line to newQty, validated against the
// product's live stock. newQty <= 0 removes the line. The bool result
// reports whether the line was removed.
func setCartLineQuantity(items []models.CartItem, productID primitive.ObjectID, newQty, liveStock int) ([]models.CartItem, bool, error) {
	index := -1
	for i, item := range items {
		if item.ProductID == productID {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, false, errCartLineNotFound
	}

	if newQty <= 0 {
		updated := make([]models.CartItem, 0, len(items)-1)
		updated = append(updated, items[:index]...)
		updated = append(updated, items[index+1:]...)
		return updated, true, nil
	}

	if newQty > liveStock {
		return nil, false, outOfStockError{
			ProductID: productID,
			Available: liveStock,
			Requested: newQty,
		}
	}

	updated := make([]models.CartItem, len(items))
	copy(updated, items)
	updated[index].Quantity = newQty
	updated[index].Stock = liveStock
	return updated, false, nil
}
