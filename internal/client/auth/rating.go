package auth

import (
	"context"

	"github.com/iudanet/geotaste/internal/validation"
	pkgapi "github.com/iudanet/geotaste/pkg/api"
)

type rateCall func(ctx context.Context, id pkgapi.ID, req pkgapi.RatingRequest) (*pkgapi.MessageResponse, error)

// SubmitRecipeRating оценивает рецепт (1..5)
func (s *Store) SubmitRecipeRating(ctx context.Context, id pkgapi.ID, rating int, comment string) (string, error) {
	return s.submitRating(ctx, s.apiClient.RateRecipe, id, rating, comment)
}

// SubmitRestaurantRating оценивает ресторан (1..5)
func (s *Store) SubmitRestaurantRating(ctx context.Context, id pkgapi.ID, rating int, comment string) (string, error) {
	return s.submitRating(ctx, s.apiClient.RateRestaurant, id, rating, comment)
}

func (s *Store) submitRating(ctx context.Context, call rateCall, id pkgapi.ID, rating int, comment string) (string, error) {
	s.begin()
	if err := s.requireAuth(); err != nil {
		return "", s.finish(err)
	}
	if id == "" {
		return "", s.finish(&ValidationError{Field: "id", Message: "id is required"})
	}
	if err := validation.Validate(validation.Rating{Value: rating, Comment: comment}); err != nil {
		return "", s.finish(validationError(err))
	}

	resp, err := call(ctx, id, pkgapi.RatingRequest{Rating: rating, Comment: comment})
	if err != nil {
		return "", s.finish(opRate.normalize(err))
	}

	_ = s.finish(nil)
	return resp.Message, nil
}
