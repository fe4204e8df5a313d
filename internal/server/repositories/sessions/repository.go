package sessions

import "context"

type Repository interface {
	// Add appends a token to the user's session set.
	Add(ctx context.Context, userID string, token string) error
	// Remove drops one token from the set; removing an absent token is a no-op.
	Remove(ctx context.Context, userID string, token string) error
	// RemoveAll clears the user's entire session set.
	RemoveAll(ctx context.Context, userID string) error
}
