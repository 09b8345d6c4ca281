package store

import (
	"context"
	"encoding/json"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

// FirebaseStore implements Store on top of the Firebase Realtime Database
// via the Admin SDK. Paths map 1:1 to database refs ("/lpos", "/lpos/{id}").
type FirebaseStore struct {
	client *db.Client
}

// NewFirebaseStore connects to the Realtime Database at databaseURL.
// credentialsFile may be empty, in which case application default
// credentials are used (the normal case on GCP).
func NewFirebaseStore(ctx context.Context, databaseURL, credentialsFile string) (*FirebaseStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: databaseURL}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase database client: %w", err)
	}
	return &FirebaseStore{client: client}, nil
}

func (s *FirebaseStore) Read(ctx context.Context, path string, dest interface{}) (bool, error) {
	var raw json.RawMessage
	if err := s.client.NewRef(path).Get(ctx, &raw); err != nil {
		return false, fmt.Errorf("%w: read %s: %v", ErrUnavailable, path, err)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}

func (s *FirebaseStore) Push(ctx context.Context, path string, value interface{}) (string, error) {
	ref, err := s.client.NewRef(path).Push(ctx, value)
	if err != nil {
		return "", fmt.Errorf("%w: push %s: %v", ErrUnavailable, path, err)
	}
	return ref.Key, nil
}

func (s *FirebaseStore) Update(ctx context.Context, path string, partial map[string]interface{}) error {
	if err := s.client.NewRef(path).Update(ctx, partial); err != nil {
		return fmt.Errorf("%w: update %s: %v", ErrUnavailable, path, err)
	}
	return nil
}

func (s *FirebaseStore) Remove(ctx context.Context, path string) error {
	if err := s.client.NewRef(path).Delete(ctx); err != nil {
		return fmt.Errorf("%w: remove %s: %v", ErrUnavailable, path, err)
	}
	return nil
}

var _ Store = (*FirebaseStore)(nil)
