package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// ServiceAccount holds essential fields from a Google service account JSON key.
type ServiceAccount struct {
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
}

// Firestore collection names.
const (
	FirestoreMembersCollection = "members"
	FirestoreRecordsCollection = "attendance"
)

// LoadServiceAccount reads the service account key at path.
func LoadServiceAccount(path string) (*ServiceAccount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account: %w", err)
	}
	var sa ServiceAccount
	if err := json.Unmarshal(data, &sa); err != nil {
		return nil, fmt.Errorf("failed to parse service account: %w", err)
	}
	return &sa, nil
}

// FirebaseProject returns the configured project id, falling back to the one in the key file.
func (c *Config) FirebaseProject() (string, error) {
	if c.FirebaseProjectID != "" {
		return c.FirebaseProjectID, nil
	}
	sa, err := LoadServiceAccount(c.FirebaseCredentialsPath)
	if err != nil {
		return "", err
	}
	if sa.ProjectID == "" {
		return "", fmt.Errorf("service account %s has no project_id", c.FirebaseCredentialsPath)
	}
	return sa.ProjectID, nil
}
