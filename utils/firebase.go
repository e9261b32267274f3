// utils/firebase.go
package utils

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// NewFirestoreClient initializes the Firebase App and returns its Firestore client.
func NewFirestoreClient(ctx context.Context, credentialsPath, projectID string) (*firestore.Client, error) {
	opt := option.WithCredentialsFile(credentialsPath)

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opt)
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Firestore client: %w", err)
	}
	return client, nil
}
