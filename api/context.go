package api

import (
	"context"
	"errors"
)

type keyType string

const userIDKey keyType = "userID"

// ctxWithUserID adds a user ID to the context
func ctxWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// ctxGetUserID retrieves the acting user's ID from the context
func ctxGetUserID(ctx context.Context) (string, error) {
	ctxValue := ctx.Value(userIDKey)
	if ctxValue == nil {
		return "", errors.New("userID not found in context")
	}
	userID, ok := ctxValue.(string)
	if !ok {
		return "", errors.New("userID is not of type `string`")
	}
	return userID, nil
}
