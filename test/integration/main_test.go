//go:build integration
// +build integration

package integration

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mkopaniuk/city-news/internal/app"
	"github.com/mkopaniuk/city-news/internal/config"
)

var (
	testServerURL string
	db            *sql.DB
)

// newsStub serves a canned NewsAPI response so the tests never touch
// the real upstream.
func newsStub() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"status": "ok",
			"totalResults": 1,
			"articles": [
				{"title": "Інтеграційна новина", "url": "https://example.com/integration"}
			]
		}`)
	}))
}

func TestMain(m *testing.M) {
	fmt.Println("Starting integration tests...")

	upstream := newsStub()
	defer upstream.Close()

	tmpDir, err := os.MkdirTemp("", "citynews-integration")
	if err != nil {
		log.Panicf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	os.Setenv("DB_NAME", filepath.Join(tmpDir, "test.db"))
	os.Setenv("DB_MIGRATIONS_DIR", "../../migrations")
	os.Setenv("TEMPLATES_GLOB", "../../web/templates/*.html")
	os.Setenv("LOGS_PATH", filepath.Join(tmpDir, "http.log"))
	os.Setenv("SESSION_SECRET", "integration-test-secret")
	os.Setenv("NEWS_API_KEY", "integration-test-key")
	os.Setenv("NEWS_API_URL", upstream.URL)

	cfg, err := config.NewWebConfig()
	if err != nil {
		log.Panicf("failed to load configuration: %v", err)
	}

	application := app.New(*cfg, log.Default())
	container, err := application.Init()
	if err != nil {
		log.Panicf("failed to initialize application: %v", err)
	}

	if err := container.Db.Ping(); err != nil {
		log.Panicf("failed to connect to the database: %v", err)
	}

	app.RegisterRoutes(container, log.Default())

	testServer := httptest.NewServer(container.Router)
	defer func() {
		if err := application.Stop(container); err != nil {
			log.Printf("failed to shutdown application: %v", err)
		}
		testServer.Close()
	}()

	testServerURL = testServer.URL
	db = container.Db

	_ = m.Run()
}

func resetTables(db *sql.DB) error {
	if _, err := db.Exec("DELETE FROM users"); err != nil {
		return err
	}
	_, err := db.Exec("DELETE FROM preferences")
	return err
}
