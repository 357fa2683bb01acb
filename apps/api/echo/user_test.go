package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dgrijalva/jwt-go"

	"github.com/taskspro/backend/core/progression"
	"github.com/taskspro/backend/core/user"
)

func Test_userApi_login(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "John Doe", "jdoe", "jdoe@test.cd", "LeP@sswd243", []string{user.RoleStudent}, true)
	ts.createUser(t, "Sleeper", "zzz", "zzz@test.cd", "LeP@sswd243", []string{user.RoleStudent}, false)

	authFailed := marchallObj(t, httpErr{Error: "Authentication failed"})

	tests := []httpTest{
		{
			name: "unknown user", body: marchallObj(t, LoginRequest{Username: "nope", Password: "LeP@sswd243"}),
			wantCode: http.StatusUnauthorized, wantData: authFailed,
		},
		{
			name: "wrong password", body: marchallObj(t, LoginRequest{Username: "jdoe", Password: "oops"}),
			wantCode: http.StatusUnauthorized, wantData: authFailed,
		},
		{
			name: "inactive account", body: marchallObj(t, LoginRequest{Username: "zzz", Password: "LeP@sswd243"}),
			wantCode: http.StatusUnauthorized, wantData: authFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			ts.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("login ok", func(t *testing.T) {
		body := marchallObj(t, LoginRequest{Username: "jdoe", Password: "LeP@sswd243"})
		req, rec := newRequest(http.MethodPost, "/v1/users/login", body)
		ts.server.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("login failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		var res LoginResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("unmarshalling LoginResponse failed: %v", err)
		}

		claims := new(Claims)
		if _, err := jwt.ParseWithClaims(res.Token, claims, func(token *jwt.Token) (interface{}, error) {
			return newTestConfig().SecretKey, nil
		}); err != nil {
			t.Fatalf("parsing token failed: %v", err)
		}
		if claims.Username != "jdoe" {
			t.Errorf("claims.Username = %v; want jdoe", claims.Username)
		}
		if !claims.IsStudent || claims.IsAdmin {
			t.Errorf("claims portals = student:%v admin:%v; want student only", claims.IsStudent, claims.IsAdmin)
		}
	})

	t.Run("login records daily activity", func(t *testing.T) {
		usr, err := ts.usrSvc.GetByUsername(testCtx(), "jdoe")
		if err != nil {
			t.Fatalf("GetByUsername() failed: %v", err)
		}
		prog, err := ts.progSvc.Get(testCtx(), usr.ID)
		if err != nil {
			t.Fatalf("progSvc.Get() failed: %v", err)
		}
		wantXP := progression.XPDailyLogin + progression.XPBadgeUnlock
		if prog.XP != wantXP {
			t.Errorf("XP = %v, want %v", prog.XP, wantXP)
		}
		if prog.Streak != 1 {
			t.Errorf("Streak = %v, want 1", prog.Streak)
		}
		if !prog.HasBadge(progression.BadgeFirstLogin) {
			t.Error("first_login badge not awarded")
		}
	})
}

func Test_userApi_query(t *testing.T) {
	ts := newTestServer(t)
	student := ts.createUser(t, "Hero", "hero", "hero@test.cd", "LeP@sswd243", []string{user.RoleStudent}, true)
	admin := ts.createUser(t, "Admin", "admin", "admin@test.cd", "LeP@sswd243", []string{user.RoleAdmin}, true)

	adminToken := getToken(t, admin)

	tests := []httpTest{
		{
			name: "Auth required", path: "/v1/users",
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Admin required", path: "/v1/users", token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "Forbidden"}),
		},
		{
			name: "Get all", path: "/v1/users", token: adminToken,
			wantCode: http.StatusOK, wantData: marchallList(t, student, admin),
		},
		{
			name: "search=her", path: "/v1/users?search=her", token: adminToken,
			wantCode: http.StatusOK, wantData: marchallList(t, student),
		},
		{
			name: "role=admin:", path: "/v1/users?role=admin%3A", token: adminToken,
			wantCode: http.StatusOK, wantData: marchallList(t, admin),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			ts.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_retrieve(t *testing.T) {
	ts := newTestServer(t)
	student := ts.createUser(t, "Hero", "hero", "hero@test.cd", "LeP@sswd243", []string{user.RoleStudent}, true)
	other := ts.createUser(t, "Other", "other", "other@test.cd", "LeP@sswd243", []string{user.RoleStudent}, true)
	admin := ts.createUser(t, "Admin", "admin", "admin@test.cd", "LeP@sswd243", []string{user.RoleAdmin}, true)

	tests := []httpTest{
		{
			name: "own profile", path: "/v1/users/" + student.ID, token: getToken(t, student),
			wantCode: http.StatusOK, wantData: marchallObj(t, student),
		},
		{
			name: "someone else's profile", path: "/v1/users/" + other.ID, token: getToken(t, student),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Not Found"}),
		},
		{
			name: "admin can read anyone", path: "/v1/users/" + other.ID, token: getToken(t, admin),
			wantCode: http.StatusOK, wantData: marchallObj(t, other),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			ts.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_me(t *testing.T) {
	ts := newTestServer(t)
	usr := ts.createUser(t, "John Doe", "jdoe", "jdoe@test.cd", "LeP@sswd243", []string{user.RoleStudent}, true)

	tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, usr)}
	req, rec := newAuthRequest(http.MethodGet, "/v1/users/me", getToken(t, usr))
	ts.server.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}

func Test_userApi_refreshToken(t *testing.T) {
	ts := newTestServer(t)
	usr := ts.createUser(t, "John Doe", "jdoe", "jdoe@test.cd", "LeP@sswd243", []string{user.RoleStudent}, true)

	req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", getToken(t, usr))
	ts.server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("refresh failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
	var res LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshalling LoginResponse failed: %v", err)
	}
	if res.Token == "" {
		t.Error("refresh returned an empty token")
	}
}
