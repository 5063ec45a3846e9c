package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// InitProject creates the .crewdeck data directory under projectDir and
// returns the path the database should live at. The database itself is
// created on first connection.
func InitProject(projectDir, projectName string) (string, error) {
	if _, err := os.Stat(projectDir); os.IsNotExist(err) {
		return "", fmt.Errorf("project directory does not exist: %s", projectDir)
	}

	dataDir := filepath.Join(projectDir, ".crewdeck")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create .crewdeck directory: %w", err)
	}

	dbName := projectName
	if dbName == "" {
		dbName = "crewdeck"
	}
	if !strings.HasSuffix(dbName, ".db") {
		dbName += ".db"
	}

	dbPath := filepath.Join(dataDir, dbName)
	if _, err := os.Stat(dbPath); err == nil {
		return "", fmt.Errorf("database already exists: %s", dbPath)
	}

	return dbPath, nil
}
