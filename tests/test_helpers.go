package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/fitbuddy/internal/config"
	"github.com/mansoorceksport/fitbuddy/internal/server"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupTestDB spins up a single node MongoDB replica set (transactions need
// one) and returns a fresh database along with a cleanup function.
func SetupTestDB(t *testing.T) (*mongo.Database, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container backed test in short mode")
	}
	ctx := context.Background()

	mongodbContainer, err := mongodb.Run(ctx, "mongo:7", mongodb.WithReplicaSet("rs0"))
	if err != nil {
		t.Fatalf("failed to start container: %s", err)
	}

	endpoint, err := mongodbContainer.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %s", err)
	}

	// The advertised replica set host is only resolvable inside the container network
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(endpoint).SetDirect(true))
	if err != nil {
		t.Fatalf("failed to connect to mongo: %v", err)
	}

	return mongoClient.Database("fitbuddy_test"), func() {
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Printf("failed to disconnect mongo: %v", err)
		}
		if err := mongodbContainer.Terminate(ctx); err != nil {
			log.Printf("failed to terminate container: %v", err)
		}
	}
}

// memoryMediaStore keeps uploaded files in memory
type memoryMediaStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemoryMediaStore() *memoryMediaStore {
	return &memoryMediaStore{files: make(map[string][]byte)}
}

func (m *memoryMediaStore) Upload(ctx context.Context, file []byte, filename string, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filename] = append([]byte(nil), file...)
	return "https://media.test/" + filename, nil
}

// testApp is a running app plus the helpers the flows share
type testApp struct {
	t     *testing.T
	app   *fiber.App
	db    *mongo.Database
	media *memoryMediaStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, cleanupDB := SetupTestDB(t)
	t.Cleanup(cleanupDB)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	cfg := &config.Config{}
	cfg.Server.MaxUploadSizeMB = 10
	cfg.JWT.Secret = "test-secret-key-123"
	cfg.JWT.AccessTokenExpiry = time.Hour
	cfg.Idempotency.TTL = time.Minute

	media := newMemoryMediaStore()
	app := server.NewApp(server.AppDependencies{
		Config:      cfg,
		MongoDB:     db,
		RedisClient: redisClient,
		MediaStore:  media,
	})

	return &testApp{t: t, app: app, db: db, media: media}
}

// do sends a JSON request. headers are optional key/value pairs.
func (a *testApp) do(method, path, token string, body interface{}, headers ...string) *http.Response {
	a.t.Helper()

	var bodyReader io.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		require.NoError(a.t, err)
		bodyReader = bytes.NewReader(jsonBytes)
	}
	req, err := http.NewRequest(method, path, bodyReader)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	return resp
}

// expect asserts the status and decodes the body into out (when non-nil)
func (a *testApp) expect(resp *http.Response, status int, out interface{}) {
	a.t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	require.Equal(a.t, status, resp.StatusCode, "body: %s", body)
	if out != nil {
		require.NoError(a.t, json.Unmarshal(body, out), "body: %s", body)
	}
}

// signup registers a user and returns the access token
func (a *testApp) signup(username string) string {
	a.t.Helper()

	var auth struct {
		Token string `json:"token"`
	}
	a.expect(a.do("POST", "/v1/auth/signup", "", map[string]string{
		"username": username,
		"email":    fmt.Sprintf("%s@example.com", username),
		"password": "secret123",
	}), fiber.StatusCreated, &auth)
	require.NotEmpty(a.t, auth.Token)
	return auth.Token
}
