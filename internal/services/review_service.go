package services

import (
	"fmt"
	"strings"

	"megano/internal/domain"
	"megano/internal/repos"
	"megano/internal/validate"
)

type ReviewService struct {
	Reviews *repos.ReviewRepo
	Prods   *repos.ProductRepo
}

func NewReviewService(reviews *repos.ReviewRepo, prods *repos.ProductRepo) *ReviewService {
	return &ReviewService{Reviews: reviews, Prods: prods}
}

// Create stores a review, refreshes the product rating and returns the
// product's reviews.
func (s *ReviewService) Create(userID, productID int64, text string, rate int) ([]domain.Review, error) {
	errs := validate.Errors{}
	if !validate.Rate(rate) {
		errs["rate"] = "rate must be between 0 and 10"
	}
	if strings.TrimSpace(text) == "" {
		errs["text"] = "review text is required"
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	if _, err := s.Prods.Get(productID); err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	if _, err := s.Reviews.Create(userID, productID, strings.TrimSpace(text), rate); err != nil {
		return nil, fmt.Errorf("save review: %w", err)
	}
	if _, err := s.Prods.RecomputeRating(productID); err != nil {
		return nil, fmt.Errorf("recompute rating: %w", err)
	}
	return s.Reviews.ListByProduct(productID)
}
