package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ecollinet/chasse-backend/internal/config"
	"github.com/ecollinet/chasse-backend/internal/models"
	"github.com/ecollinet/chasse-backend/internal/models/dto"
	"github.com/ecollinet/chasse-backend/internal/server"
	"github.com/ecollinet/chasse-backend/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const adminToken = "0101"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Config{
		Port:            "0",
		AdminToken:      adminToken,
		JWTSecret:       adminToken,
		JWTIssuer:       "chasse-test",
		JWTTTL:          time.Minute,
		CORSOrigins:     []string{"*"},
		ProximityMeters: 50,
		LocationCheck:   true,
		MediaDir:        t.TempDir(),
		BcryptCost:      bcrypt.MinCost,
	}
	log := slog.New(slog.DiscardHandler)
	ts := httptest.NewServer(server.NewMux(cfg, memory.New(), log))
	t.Cleanup(ts.Close)
	return ts
}

// call issues a request and decodes the JSON response into out when non-nil.
func call(t *testing.T, ts *httptest.Server, method, path, token, body string, out any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(raw, out), "body: %s", raw)
	}
	return resp
}

func createStep(t *testing.T, ts *httptest.Server, body string) models.Step {
	t.Helper()
	var step models.Step
	resp := call(t, ts, http.MethodPost, "/api/steps", adminToken, body, &step)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return step
}

const (
	stepABody = `{"rank":1,"latitude":45.74846,"longitude":4.84671,"location_hint":"go there","question":"what is the color of the sky?","answer":"blue","media":"1.jpg"}`
	stepBBody = `{"rank":2,"latitude":45.16667,"longitude":5.71667,"location_hint":"go there after","question":"quel est le plus grand parc de Lyon ?","answer":"Le Parc de la Tête d'Or","media":"2.jpg"}`
)

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	var body map[string]string
	resp := call(t, ts, http.MethodGet, "/api/health", "", "", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestStepRoutesRequireAdmin(t *testing.T) {
	ts := newTestServer(t)

	resp := call(t, ts, http.MethodGet, "/api/steps", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = call(t, ts, http.MethodGet, "/api/steps", "0202", "", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestStepCRUDAndRerank(t *testing.T) {
	ts := newTestServer(t)

	created := createStep(t, ts, `{"rank":1,"latitude":45.74846,"longitude":4.84671,"location_hint":"  go there  ","question":" what is the color of the sky?  ","answer":"  blue  ","media":"  1.jpg  "}`)
	assert.Equal(t, int32(1), created.Rank)
	assert.Equal(t, "go there", created.LocationHint)
	assert.Equal(t, "blue", created.Answer)

	// Read back, and a miss is a 404.
	var got models.Step
	resp := call(t, ts, http.MethodGet, fmt.Sprintf("/api/steps/%d", created.ID), adminToken, "", &got)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created, got)
	resp = call(t, ts, http.MethodGet, fmt.Sprintf("/api/steps/%d", created.ID+1), adminToken, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// A second step asking for rank 4 settles at rank 2.
	second := createStep(t, ts, `{"rank":4,"latitude":45.366669,"longitude":5.58333,"question":"what is the color of the sun?","answer":"yellow"}`)
	assert.Equal(t, int32(2), second.Rank)

	// Moving the first step down resettles it last.
	update := `{"rank":10,"latitude":45.74846,"longitude":4.84671,"location_hint":"go there","question":"what is the color of the city?","answer":"grey","media":"1.jpg"}`
	var updated models.Step
	resp = call(t, ts, http.MethodPut, fmt.Sprintf("/api/steps/%d", created.ID), adminToken, update, &updated)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), updated.Rank)
	assert.Equal(t, "grey", updated.Answer)

	var steps []models.Step
	resp = call(t, ts, http.MethodGet, "/api/steps", adminToken, "", &steps)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, steps, 2)
	assert.Equal(t, second.ID, steps[0].ID)
	assert.Equal(t, created.ID, steps[1].ID)

	// Deleting the first-ranked step closes the gap.
	resp = call(t, ts, http.MethodDelete, fmt.Sprintf("/api/steps/%d", second.ID), adminToken, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = call(t, ts, http.MethodDelete, fmt.Sprintf("/api/steps/%d", second.ID), adminToken, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = call(t, ts, http.MethodGet, "/api/steps", adminToken, "", &steps)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, steps, 1)
	assert.Equal(t, int32(1), steps[0].Rank)

	// Delete all.
	resp = call(t, ts, http.MethodDelete, "/api/steps", adminToken, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = call(t, ts, http.MethodGet, "/api/steps", adminToken, "", &steps)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, steps)
}

func TestUserCreationValidation(t *testing.T) {
	ts := newTestServer(t)

	var user models.User
	resp := call(t, ts, http.MethodPost, "/api/users", "", `{"name":"  Test name  ","password":"    Test password       "}`, &user)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Test name", user.Name)
	assert.Equal(t, int32(1), user.CurrentStep)

	// The hash never serializes.
	req, err := http.NewRequest(http.MethodGet, ts.URL+fmt.Sprintf("/api/users/%d", user.ID), nil)
	require.NoError(t, err)
	raw, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer raw.Body.Close()
	body, err := io.ReadAll(raw.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")

	resp = call(t, ts, http.MethodPost, "/api/users", "", `{"name":"No pass","password":"   "}`, nil)
	assert.Equal(t, http.StatusNotAcceptable, resp.StatusCode)
}

func TestUserUpdateKeepsHashOnEmptyPassword(t *testing.T) {
	ts := newTestServer(t)
	createStep(t, ts, stepABody)
	createStep(t, ts, stepBBody)

	var user models.User
	resp := call(t, ts, http.MethodPost, "/api/users", "", `{"name":"Test name","password":"Test password"}`, &user)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = call(t, ts, http.MethodPut, fmt.Sprintf("/api/users/%d", user.ID), "", `{"name":"Renamed","password":"","current_step":1}`, &user)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Renamed", user.Name)

	// The old password still verifies on advance.
	var outcome dto.AdvanceResponse
	resp = call(t, ts, http.MethodPost, fmt.Sprintf("/api/users/%d/advance", user.ID), "",
		`{"password":"Test password","latitude":45.74846,"longitude":4.84671,"answer":"blue"}`, &outcome)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Success", outcome.Type)
}

func TestAdvanceScenario(t *testing.T) {
	ts := newTestServer(t)

	var user models.User
	resp := call(t, ts, http.MethodPost, "/api/users", "", `{"name":"Test name","password":"Test password"}`, &user)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	stepA := createStep(t, ts, stepABody)
	stepB := createStep(t, ts, stepBBody)

	advancePath := fmt.Sprintf("/api/users/%d/advance", user.ID)
	currentPath := fmt.Sprintf("/api/users/%d/current_step", user.ID)

	// Current step starts at A, readable without a password.
	var current models.Step
	resp = call(t, ts, http.MethodGet, currentPath, "", "", &current)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, stepA.ID, current.ID)

	// Wrong password.
	var outcome dto.AdvanceResponse
	resp = call(t, ts, http.MethodPost, advancePath, "",
		`{"password":"Wrong test password","latitude":45.74846,"longitude":4.84671,"answer":"yellow"}`, &outcome)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "WrongPassword", outcome.Type)

	// Right password, wrong position: the distance hint comes back.
	outcome = dto.AdvanceResponse{}
	resp = call(t, ts, http.MethodPost, advancePath, "",
		`{"password":"Test password","latitude":45.16667,"longitude":5.71667,"answer":"yellow"}`, &outcome)
	assert.Equal(t, http.StatusNotAcceptable, resp.StatusCode)
	assert.Equal(t, "WrongPlace", outcome.Type)
	require.NotNil(t, outcome.Distance)
	assert.InDelta(t, 93749.54, *outcome.Distance, 1.0)

	// Right position, wrong answer.
	outcome = dto.AdvanceResponse{}
	resp = call(t, ts, http.MethodPost, advancePath, "",
		`{"password":"Test password","latitude":45.74846,"longitude":4.84671,"answer":"yellow"}`, &outcome)
	assert.Equal(t, http.StatusNotAcceptable, resp.StatusCode)
	assert.Equal(t, "WrongAnswer", outcome.Type)

	// All checks pass: the next step comes back.
	outcome = dto.AdvanceResponse{}
	resp = call(t, ts, http.MethodPost, advancePath, "",
		`{"password":"Test password","latitude":45.74846,"longitude":4.84671,"answer":"blue"}`, &outcome)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Success", outcome.Type)
	require.NotNil(t, outcome.Step)
	assert.Equal(t, stepB.ID, outcome.Step.ID)

	resp = call(t, ts, http.MethodGet, currentPath, "", "", &current)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, stepB.ID, current.ID)

	// The close fuzzy answer passes, but there is nothing after B.
	resp = call(t, ts, http.MethodPost, advancePath, "",
		`{"password":"Test password","latitude":45.16667,"longitude":5.71667,"answer":"parc tete dor"}`, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Admin cleanup.
	resp = call(t, ts, http.MethodDelete, "/api/users", adminToken, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = call(t, ts, http.MethodDelete, "/api/steps", adminToken, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTokenExchange(t *testing.T) {
	ts := newTestServer(t)

	resp := call(t, ts, http.MethodPost, "/api/auth/token", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var token dto.TokenResponse
	resp = call(t, ts, http.MethodPost, "/api/auth/token", adminToken, "", &token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, token.Token)
	assert.Equal(t, int64(60), token.ExpiresIn)

	// The minted JWT opens admin routes.
	resp = call(t, ts, http.MethodGet, "/api/steps", token.Token, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMediaUploadAndFetch(t *testing.T) {
	ts := newTestServer(t)
	step := createStep(t, ts, stepABody)

	payload := []byte("binary-ish media payload")
	req, err := http.NewRequest(http.MethodPost, ts.URL+fmt.Sprintf("/api/steps/media/%d", step.ID), bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The blob is publicly readable.
	resp, err = http.Get(ts.URL + fmt.Sprintf("/api/steps/media/%d", step.ID))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, body)

	// Deleting it twice: second is a 404.
	del := call(t, ts, http.MethodDelete, fmt.Sprintf("/api/steps/media/%d", step.ID), adminToken, "", nil)
	assert.Equal(t, http.StatusOK, del.StatusCode)
	del = call(t, ts, http.MethodDelete, fmt.Sprintf("/api/steps/media/%d", step.ID), adminToken, "", nil)
	assert.Equal(t, http.StatusNotFound, del.StatusCode)
}

func TestUserAdminRoutes(t *testing.T) {
	ts := newTestServer(t)

	var user models.User
	resp := call(t, ts, http.MethodPost, "/api/users", "", `{"name":"A","password":"pw"}`, &user)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = call(t, ts, http.MethodGet, "/api/users", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var users []models.User
	resp = call(t, ts, http.MethodGet, "/api/users", adminToken, "", &users)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, users, 1)

	resp = call(t, ts, http.MethodDelete, fmt.Sprintf("/api/users/%d", user.ID), adminToken, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = call(t, ts, http.MethodGet, fmt.Sprintf("/api/users/%d", user.ID), "", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
