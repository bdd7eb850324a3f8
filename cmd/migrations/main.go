package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

const migrationsDir = "internal/adapters/repository/postgres/migrations"

// Applies every up migration in order, or a single named one when a
// migration name is passed as the first argument.
func main() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	var files []string
	if len(os.Args) > 1 {
		file, err := findMigration(migrationsDir, os.Args[1])
		if err != nil {
			log.Fatal(err)
		}
		files = []string{file}
	} else {
		files, err = listUpMigrations(migrationsDir)
		if err != nil {
			log.Fatal(err)
		}
	}

	for _, name := range files {
		content, err := os.ReadFile(filepath.Join(migrationsDir, name))
		if err != nil {
			log.Fatalf("Failed to read %s: %v", name, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			log.Fatalf("Failed to apply %s: %v", name, err)
		}
		fmt.Printf("Applied %s\n", name)
	}
}

// listUpMigrations returns the up migration file names in lexicographic
// order, which is apply order given the numeric prefix convention.
func listUpMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		files = append(files, entry.Name())
	}

	sort.Strings(files)
	return files, nil
}

// findMigration matches a name fragment against the up migration files,
// so both "000001_create_users" and "create_users" locate the file.
func findMigration(dir string, name string) (string, error) {
	files, err := listUpMigrations(dir)
	if err != nil {
		return "", err
	}

	for _, f := range files {
		if strings.Contains(f, name) {
			return f, nil
		}
	}

	return "", fmt.Errorf("migration %q not found", name)
}

func dbConnString() string {
	dbName, user, password, host, port := dbConfig()
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbName)
}

func dbConfig() (dbName string, user string, password string, host string, port string) {
	dbName = os.Getenv("POSTGRES_DB")
	user = os.Getenv("POSTGRES_USER")
	password = os.Getenv("POSTGRES_PASSWORD")
	host = os.Getenv("POSTGRES_HOST")
	port = os.Getenv("POSTGRES_PORT")
	return
}
