//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/rs/zerolog"

	server "stayfinder/internal/adapters/http_server"
	redisad "stayfinder/internal/adapters/redis"
	"stayfinder/internal/app"
	"stayfinder/internal/domain"
	"stayfinder/internal/recommend"
	mysqlrepo "stayfinder/internal/storage/mysql"
)

// ---------- helpers ----------

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=stayfinder",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/stayfinder?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

// ---------- the test ----------

func TestHTTP_EndToEnd_Recommendations(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)

	// Seed three hotels with distinct general-ranking signals.
	seed := []struct {
		name   string
		rating float64
	}{
		{"Grand Calangute Palace", 4.8},
		{"Lotus Baga Inn", 4.2},
		{"Pearl Anjuna Retreat", 3.5},
	}
	var ids []int64
	for i, s := range seed {
		id, err := repo.UpsertHotel(ctx, domain.Hotel{
			Name: s.name, Description: "d", Type: domain.HotelResort,
			City: "Goa", Area: "Calangute", Address: "a",
			Amenities: []string{"wifi", "pool"}, StarRating: 4,
			AverageRating: s.rating, Active: true,
		})
		if err != nil {
			t.Fatalf("UpsertHotel %d: %v", i, err)
		}
		ids = append(ids, id)
	}

	q := app.NewQueryService(repo, cache, 15*time.Minute)
	b := app.NewBookingService(repo, cache)
	rec := recommend.New(repo, zerolog.Nop())

	srv := server.New()
	srv.MountHandlers(server.NewHandlers(q, b, rec))
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// Anonymous call serves the general ranking: rating descending.
	res, err := http.Get(ts.URL + "/v1/recommendations?city=Goa&limit=10")
	if err != nil {
		t.Fatalf("GET recommendations: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}

	var body struct {
		Items []struct {
			ID   int64  `json:"ID"`
			Name string `json:"Name"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(body.Items))
	}
	for i, want := range []string{"Grand Calangute Palace", "Lotus Baga Inn", "Pearl Anjuna Retreat"} {
		if body.Items[i].Name != want {
			t.Fatalf("position %d: want %q, got %q", i, want, body.Items[i].Name)
		}
	}

	// Hotel detail comes back through the cacheable read path.
	res2, err := http.Get(fmt.Sprintf("%s/v1/hotels/%d", ts.URL, ids[0]))
	if err != nil {
		t.Fatalf("GET hotel: %v", err)
	}
	defer res2.Body.Close()
	if res2.StatusCode != http.StatusOK {
		t.Fatalf("hotel status %d", res2.StatusCode)
	}
	var detail struct {
		Hotel struct {
			Name string `json:"Name"`
		} `json:"hotel"`
	}
	if err := json.NewDecoder(res2.Body).Decode(&detail); err != nil {
		t.Fatalf("decode hotel: %v", err)
	}
	if detail.Hotel.Name != "Grand Calangute Palace" {
		t.Fatalf("unexpected hotel: %+v", detail.Hotel)
	}

	// An authenticated review lands and shifts the stored average.
	uid, err := repo.EnsureUser(ctx, "e2e-user", "e2e@example.com")
	if err != nil {
		t.Fatalf("EnsureUser: %v", err)
	}
	reqBody := `{"rating":3,"title":"Fine","comment":"Decent stay."}`
	req, _ := http.NewRequest(http.MethodPost,
		fmt.Sprintf("%s/v1/hotels/%d/reviews", ts.URL, ids[2]),
		strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", fmt.Sprintf("%d", uid))
	res3, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST review: %v", err)
	}
	defer res3.Body.Close()
	if res3.StatusCode != http.StatusCreated {
		t.Fatalf("review status %d", res3.StatusCode)
	}

	h, err := repo.GetHotel(ctx, ids[2])
	if err != nil {
		t.Fatalf("GetHotel: %v", err)
	}
	if h.AverageRating != 3.0 || h.ReviewCount != 1 {
		t.Fatalf("expected refreshed rating 3.0 with 1 review, got %v / %d", h.AverageRating, h.ReviewCount)
	}
}
