package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirebaseProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"project_id":"attendance-demo","client_email":"svc@example.com"}`), 0o600))

	cfg := &Config{FirebaseCredentialsPath: path}
	id, err := cfg.FirebaseProject()
	require.NoError(t, err)
	assert.Equal(t, "attendance-demo", id)

	cfg.FirebaseProjectID = "explicit"
	id, err = cfg.FirebaseProject()
	require.NoError(t, err)
	assert.Equal(t, "explicit", id)
}

func TestFirebaseProject_MissingProjectID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"client_email":"svc@example.com"}`), 0o600))

	_, err := (&Config{FirebaseCredentialsPath: path}).FirebaseProject()
	assert.Error(t, err)
}
