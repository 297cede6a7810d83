package card

import "errors"

// Sentinel errors for the card package.
// Use errors.Is to check: errors.Is(err, card.ErrInvalidRating)
var (
	ErrInvalidRating = errors.New("card: invalid rating")
	ErrInvalidScope  = errors.New("card: invalid scope")
)
