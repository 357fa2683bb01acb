package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/taskspro/backend/core/progression"
	"github.com/taskspro/backend/core/user"
)

func Test_progressionApi_me(t *testing.T) {
	ts := newTestServer(t)
	usr := ts.createUser(t, "Hero", "hero", "hero@test.cd", "LeP@sswd243", []string{user.RoleStudent}, true)
	token := getToken(t, usr)

	t.Run("zero value for a fresh user", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/progression/me", token)
		ts.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body = %v", rec.Code, rec.Body.String())
		}

		var res ProgressionResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("unmarshalling failed: %v", err)
		}
		if res.XP != 0 {
			t.Errorf("XP = %v, want 0", res.XP)
		}
		if res.Level.Name != progression.Levels[0].Name {
			t.Errorf("Level = %v, want %v", res.Level.Name, progression.Levels[0].Name)
		}
		if res.NextLevel == nil {
			t.Error("NextLevel = nil, want the second tier")
		}
	})

	t.Run("after earning XP", func(t *testing.T) {
		if _, err := ts.progSvc.AddXP(testCtx(), usr.ID, 120, "studying hard"); err != nil {
			t.Fatalf("AddXP() failed: %v", err)
		}

		req, rec := newAuthRequest(http.MethodGet, "/v1/progression/me", token)
		ts.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body = %v", rec.Code, rec.Body.String())
		}

		var res ProgressionResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("unmarshalling failed: %v", err)
		}
		if res.XP != 120 {
			t.Errorf("XP = %v, want 120", res.XP)
		}
		if res.Level.Name != progression.CurrentLevel(120).Name {
			t.Errorf("Level = %v, want %v", res.Level.Name, progression.CurrentLevel(120).Name)
		}
		if got, want := res.Progress, progression.LevelProgress(120); got != want {
			t.Errorf("Progress = %v, want %v", got, want)
		}
		if len(res.History) != 1 {
			t.Errorf("len(History) = %v, want 1", len(res.History))
		}
	})
}

func Test_progressionApi_catalogs(t *testing.T) {
	ts := newTestServer(t)
	usr := ts.createUser(t, "Hero", "hero", "hero@test.cd", "LeP@sswd243", []string{user.RoleStudent}, true)
	token := getToken(t, usr)

	tests := []httpTest{
		{name: "levels", path: "/v1/progression/levels", token: token, wantCode: http.StatusOK, wantData: marchallObj(t, progression.Levels)},
		{name: "badges", path: "/v1/progression/badges", token: token, wantCode: http.StatusOK, wantData: marchallObj(t, progression.Badges)},
		{name: "auth required", path: "/v1/progression/levels", wantCode: http.StatusBadRequest, wantData: marchallObj(t, errMissingToken)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			ts.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
