package firebase

import (
	"context"
	"path/filepath"
	"testing"
)

func TestInitFirebase_Disabled(t *testing.T) {
	app, err := InitFirebase(context.Background(), "")
	if err != nil || app != nil {
		t.Errorf("expected disabled firebase, got %v / %v", app, err)
	}
}

func TestInitFirebase_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	if _, err := InitFirebase(context.Background(), path); err == nil {
		t.Error("expected error for missing credentials file")
	}
}
