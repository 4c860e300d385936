package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"userservice/internal/app/dto"
	httpapi "userservice/internal/app/http"
	"userservice/internal/app/http/handler"
	"userservice/internal/domain/stats"
	userdomain "userservice/internal/domain/user"
	"userservice/internal/infrastructure/async"
	"userservice/internal/infrastructure/db/pg"
	"userservice/internal/infrastructure/logging"
)

type uuidGenerator struct{}

func (uuidGenerator) NewID() string { return uuid.NewString() }

var migrateOnce sync.Once

func ensureMigrations(t *testing.T, db *sql.DB) {
	t.Helper()

	migrateOnce.Do(func() {
		if err := goose.SetDialect("postgres"); err != nil {
			t.Fatalf("goose.SetDialect: %v", err)
		}

		dir := "migrations"
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			alt := filepath.Join("..", "migrations")
			if _, err2 := os.Stat(alt); err2 == nil {
				dir = alt
			} else {
				t.Fatalf("migrations directory not found: tried %q (%v) and %q (%v)", dir, err, alt, err2)
			}
		}

		if err := goose.Up(db, dir); err != nil {
			t.Fatalf("goose.Up: %v", err)
		}
	})
}

func resetDB(t *testing.T, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Managers keep their seed rows; only user rows are owned by tests.
	if _, err := db.ExecContext(ctx, `TRUNCATE TABLE users;`); err != nil {
		t.Fatalf("truncate users: %v", err)
	}
}

func getTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		t.Fatalf("ping db: %v", err)
	}

	ensureMigrations(t, db)
	resetDB(t, db)

	return db
}

func setupTestServer(t *testing.T) (*httptest.Server, func()) {
	t.Helper()

	db := getTestDB(t)

	log, err := logging.NewLogger()
	if err != nil {
		_ = db.Close()
		t.Fatalf("create logger: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	eventBus := async.NewAsyncEventBus(ctx, 4, log)
	uow := pg.NewTxManager(db)

	userRepo := pg.NewUserRepository(db)
	managerRepo := pg.NewManagerRepository(db)
	statsRepo := pg.NewStatsRepository(db)

	userSvc := userdomain.NewService(uow, userRepo, managerRepo, eventBus, uuidGenerator{})
	statsSvc := stats.NewService(statsRepo)

	h := handler.New(userSvc, statsSvc, log)
	router := httpapi.NewRouter(h, log)

	ts := httptest.NewServer(router)

	cleanup := func() {
		ts.Close()
		eventBus.Close()
		cancel()
		_ = log.Sync()
		_ = db.Close()
	}

	return ts, cleanup
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any, wantStatus int, out any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do %s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var errBody map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		t.Fatalf("unexpected status %d, want %d, body=%v", resp.StatusCode, wantStatus, errBody)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func createUser(t *testing.T, client *http.Client, baseURL, fullName, mob, pan, managerID string) string {
	t.Helper()

	var resp struct {
		Message string `json:"message"`
		UserID  string `json:"user_id"`
	}
	doJSON(t, client, http.MethodPost, baseURL+"/create_user", dto.CreateUserRequest{
		FullName:  fullName,
		MobNum:    mob,
		PANNum:    pan,
		ManagerID: managerID,
	}, http.StatusCreated, &resp)

	if resp.UserID == "" {
		t.Fatalf("expected user_id in create response")
	}
	return resp.UserID
}

func TestIntegration_CreateAndFetchRoundTrip(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	client := &http.Client{Timeout: 2 * time.Second}

	id := createUser(t, client, ts.URL, "Alice Kumar", "+91-98765-43210", "abcde1234f", "manager-1")

	var getResp struct {
		Users []dto.User `json:"users"`
	}
	doJSON(t, client, http.MethodGet, ts.URL+"/get_users", dto.GetUsersRequest{UserID: id},
		http.StatusOK, &getResp)

	if len(getResp.Users) != 1 {
		t.Fatalf("expected exactly 1 user, got %d", len(getResp.Users))
	}
	u := getResp.Users[0]
	if u.MobNum != "9876543210" {
		t.Fatalf("expected normalized mobile, got %q", u.MobNum)
	}
	if u.PANNum != "ABCDE1234F" {
		t.Fatalf("expected upper-cased PAN, got %q", u.PANNum)
	}
	if u.ManagerID != "manager-1" || !u.IsActive {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestIntegration_CreateWithInactiveManager(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	client := &http.Client{Timeout: 2 * time.Second}

	body := dto.CreateUserRequest{
		FullName:  "Bob",
		MobNum:    "9876543210",
		PANNum:    "ABCDE1234F",
		ManagerID: "manager-3", // seeded inactive
	}
	doJSON(t, client, http.MethodPost, ts.URL+"/create_user", body, http.StatusBadRequest, nil)

	var getResp struct {
		Users []dto.User `json:"users"`
	}
	doJSON(t, client, http.MethodGet, ts.URL+"/get_users", nil, http.StatusOK, &getResp)
	if len(getResp.Users) != 0 {
		t.Fatalf("no row may be written on a failed create, got %d", len(getResp.Users))
	}
}

func TestIntegration_CreateConflict(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	client := &http.Client{Timeout: 2 * time.Second}

	createUser(t, client, ts.URL, "Alice", "9876543210", "ABCDE1234F", "manager-1")

	body := dto.CreateUserRequest{
		FullName:  "Mallory",
		MobNum:    "9876543210",
		PANNum:    "FGHIJ5678K",
		ManagerID: "manager-1",
	}
	doJSON(t, client, http.MethodPost, ts.URL+"/create_user", body, http.StatusConflict, nil)
}

func TestIntegration_DeleteIsIdempotentlyNotFound(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	client := &http.Client{Timeout: 2 * time.Second}

	id := createUser(t, client, ts.URL, "Alice", "9876543210", "ABCDE1234F", "manager-1")

	doJSON(t, client, http.MethodDelete, ts.URL+"/delete_user",
		dto.DeleteUserRequest{UserID: id}, http.StatusOK, nil)
	doJSON(t, client, http.MethodDelete, ts.URL+"/delete_user",
		dto.DeleteUserRequest{UserID: id}, http.StatusNotFound, nil)

	doJSON(t, client, http.MethodDelete, ts.URL+"/delete_user",
		dto.DeleteUserRequest{}, http.StatusBadRequest, nil)
}

func TestIntegration_UpdateManagerReassignPartial(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	client := &http.Client{Timeout: 2 * time.Second}

	id := createUser(t, client, ts.URL, "Alice", "9876543210", "ABCDE1234F", "manager-1")

	var before struct {
		Users []dto.User `json:"users"`
	}
	doJSON(t, client, http.MethodGet, ts.URL+"/get_users", dto.GetUsersRequest{UserID: id},
		http.StatusOK, &before)
	createdAt := before.Users[0].CreatedAt

	var updResp dto.UpdateUserResponse
	doJSON(t, client, http.MethodPatch, ts.URL+"/update_user", dto.UpdateUserRequest{
		UserIDs:    []string{id, "no-such-user"},
		UpdateData: dto.UpdateData{ManagerID: "manager-2"},
	}, http.StatusOK, &updResp)

	if len(updResp.Updated) != 1 || updResp.Updated[0] != id {
		t.Fatalf("expected %s updated, got %+v", id, updResp)
	}
	if len(updResp.Missing) != 1 || updResp.Missing[0] != "no-such-user" {
		t.Fatalf("expected partial success with one missing id, got %+v", updResp)
	}
	if updResp.Message != "Some users not found, others updated" {
		t.Fatalf("unexpected message %q", updResp.Message)
	}

	// The old id is gone; the replacement is found by mobile.
	var byOldID struct {
		Users []dto.User `json:"users"`
	}
	doJSON(t, client, http.MethodGet, ts.URL+"/get_users", dto.GetUsersRequest{UserID: id},
		http.StatusOK, &byOldID)
	if len(byOldID.Users) != 0 {
		t.Fatalf("old row must be inactive after reassignment")
	}

	var byMob struct {
		Users []dto.User `json:"users"`
	}
	doJSON(t, client, http.MethodGet, ts.URL+"/get_users", dto.GetUsersRequest{MobNum: "9876543210"},
		http.StatusOK, &byMob)
	if len(byMob.Users) != 1 {
		t.Fatalf("expected exactly one active row for the mobile, got %d", len(byMob.Users))
	}
	repl := byMob.Users[0]
	if repl.UserID == id {
		t.Fatalf("replacement must have a fresh user_id")
	}
	if repl.ManagerID != "manager-2" {
		t.Fatalf("replacement must reference the new manager, got %q", repl.ManagerID)
	}
	if !repl.CreatedAt.Equal(createdAt) {
		t.Fatalf("created_at must be preserved: %v vs %v", repl.CreatedAt, createdAt)
	}
	if repl.FullName != "Alice" || repl.PANNum != "ABCDE1234F" {
		t.Fatalf("replacement must keep the original fields: %+v", repl)
	}
}

func TestIntegration_UpdateFullFieldConflictMidBatch(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	client := &http.Client{Timeout: 2 * time.Second}

	id1 := createUser(t, client, ts.URL, "Alice", "9876543210", "ABCDE1234F", "manager-1")
	id2 := createUser(t, client, ts.URL, "Bob", "1112223334", "FGHIJ5678K", "manager-1")

	var updResp dto.UpdateUserResponse
	doJSON(t, client, http.MethodPatch, ts.URL+"/update_user", dto.UpdateUserRequest{
		UserIDs: []string{id1, id2},
		UpdateData: dto.UpdateData{
			FullName:  "Renamed",
			MobNum:    "5556667778",
			PANNum:    "LMNOP9012Q",
			ManagerID: "manager-2",
		},
	}, http.StatusOK, &updResp)

	if len(updResp.Updated) != 1 || updResp.Updated[0] != id1 {
		t.Fatalf("expected only %s updated, got %+v", id1, updResp)
	}
	if len(updResp.Conflicts) != 1 || updResp.Conflicts[0] != id2 {
		t.Fatalf("expected %s conflicted, got %+v", id2, updResp)
	}

	// The conflicted id keeps its active row untouched.
	var byID2 struct {
		Users []dto.User `json:"users"`
	}
	doJSON(t, client, http.MethodGet, ts.URL+"/get_users", dto.GetUsersRequest{UserID: id2},
		http.StatusOK, &byID2)
	if len(byID2.Users) != 1 || byID2.Users[0].MobNum != "1112223334" {
		t.Fatalf("conflicted id must keep its row: %+v", byID2.Users)
	}
}

func TestIntegration_GetUsersFilters(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	client := &http.Client{Timeout: 2 * time.Second}

	createUser(t, client, ts.URL, "Alice", "9876543210", "ABCDE1234F", "manager-1")
	createUser(t, client, ts.URL, "Bob", "1112223334", "FGHIJ5678K", "manager-2")

	var all struct {
		Users []dto.User `json:"users"`
	}
	doJSON(t, client, http.MethodGet, ts.URL+"/get_users", nil, http.StatusOK, &all)
	if len(all.Users) != 2 {
		t.Fatalf("expected 2 active users, got %d", len(all.Users))
	}

	var byManager struct {
		Users []dto.User `json:"users"`
	}
	doJSON(t, client, http.MethodGet, ts.URL+"/get_users",
		dto.GetUsersRequest{ManagerID: "manager-2"}, http.StatusOK, &byManager)
	if len(byManager.Users) != 1 || byManager.Users[0].FullName != "Bob" {
		t.Fatalf("unexpected manager filter result: %+v", byManager.Users)
	}

	doJSON(t, client, http.MethodGet, ts.URL+"/get_users",
		dto.GetUsersRequest{MobNum: "123"}, http.StatusBadRequest, nil)
}

func TestIntegration_ManagerStats(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	client := &http.Client{Timeout: 2 * time.Second}

	id := createUser(t, client, ts.URL, "Alice", "9876543210", "ABCDE1234F", "manager-1")
	doJSON(t, client, http.MethodDelete, ts.URL+"/delete_user",
		dto.DeleteUserRequest{UserID: id}, http.StatusOK, nil)
	createUser(t, client, ts.URL, "Bob", "1112223334", "FGHIJ5678K", "manager-1")

	var statsResp dto.StatsResponse
	doJSON(t, client, http.MethodGet, ts.URL+"/stats/managers", nil, http.StatusOK, &statsResp)

	byManager := map[string]dto.ManagerUserStat{}
	for _, s := range statsResp.Managers {
		byManager[s.ManagerID] = s
	}
	m1, ok := byManager["manager-1"]
	if !ok {
		t.Fatalf("expected manager-1 in stats, got %+v", statsResp.Managers)
	}
	if m1.ActiveUsers != 1 || m1.InactiveUsers != 1 {
		t.Fatalf("unexpected manager-1 counts: %+v", m1)
	}
	if _, ok := byManager["manager-3"]; !ok {
		t.Fatalf("inactive managers must still appear in stats")
	}
}
