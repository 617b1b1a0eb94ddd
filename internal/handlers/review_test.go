package handlers

import (
	"bytes"
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
)

func TestMeanRatingEmpty(t *testing.T) {
	if got := meanRating(nil); got != 0 {
		t.Fatalf("expected 0 for no reviews, got %v", got)
	}
}

func TestMeanRatingSingle(t *testing.T) {
	reviews := []models.Review{{Rating: 4}}
	if got := meanRating(reviews); got != 4 {
		t.Fatalf("expected 4, got %v", got)
	}
}

func TestMeanRatingMany(t *testing.T) {
	reviews := []models.Review{
		{Rating: 5}, {Rating: 4}, {Rating: 3}, {Rating: 5}, {Rating: 1},
	}
	want := 18.0 / 5.0
	if got := meanRating(reviews); math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func submitReviewWithBody(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/reviews", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	// Validation failures return before any database access.
	SubmitReview(nil)(c)
	return w
}

func TestSubmitReviewRequiresFields(t *testing.T) {
	w := submitReviewWithBody(t, `{"rating": 5, "comment": "great"}`)
	if w.Code != 400 {
		t.Fatalf("expected 400 for missing name, got %d", w.Code)
	}
}

func TestSubmitReviewRejectsRatingOutOfRange(t *testing.T) {
	for _, body := range []string{
		`{"userName": "a", "rating": 6, "comment": "x"}`,
		`{"userName": "a", "rating": -1, "comment": "x"}`,
	} {
		w := submitReviewWithBody(t, body)
		if w.Code != 400 {
			t.Fatalf("expected 400 for out-of-range rating, got %d", w.Code)
		}
	}
}

func TestSubmitReviewProductTypeRequiresProductID(t *testing.T) {
	w := submitReviewWithBody(t, `{"userName": "a", "rating": 5, "comment": "x", "type": "product"}`)
	if w.Code != 400 {
		t.Fatalf("expected 400 for product review without productId, got %d", w.Code)
	}
}

func TestSubmitReviewRejectsUnknownType(t *testing.T) {
	w := submitReviewWithBody(t, `{"userName": "a", "rating": 5, "comment": "x", "type": "vendor"}`)
	if w.Code != 400 {
		t.Fatalf("expected 400 for unknown review type, got %d", w.Code)
	}
}
