package user

import (
	"testing"
	"time"
)

func TestMakeCheckToken(t *testing.T) {
	secretKey := []byte("secret")
	timeout := 3 * 24 * time.Hour

	now := time.Now()
	usr := User{
		ID:        "0b4ce439-1916-4e65-9c0f-d0cb78070e3b",
		Name:      "T",
		Username:  "t",
		Email:     "t@test.test",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
		LastLogin: now,
	}
	_ = usr.SetPassword("pwd")

	validToken := makeToken(usr, secretKey)

	// generate an expired token
	dayLate := timeout + (24 * time.Hour)
	nowFunc = func() time.Time { return time.Now().Add(-dayLate) }
	expiredToken := makeToken(usr, secretKey)
	nowFunc = time.Now // reset

	otherUsr := usr
	otherUsr.ID = "4f3cb1a3-0f9c-4f5b-8aef-1d9e6f3ba9b2"

	tests := []struct {
		name  string
		usr   User
		token string
		want  bool
	}{
		{name: "no token", usr: usr},
		{name: "invalid parts len", usr: usr, token: "lmaooolol"},
		{name: "invalid base32", usr: usr, token: "hahaha-sigsig-sig"},
		{name: "invalid timestamp", usr: usr, token: "NRXWY-sigsig-sig"},
		{name: "invalid token", usr: usr, token: "HE4TS-sigsig-sig"},
		{name: "expired token", usr: usr, token: expiredToken},
		{name: "token for another user", usr: otherUsr, token: validToken},
		{name: "valid token", usr: usr, token: validToken, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkToken(tt.token, tt.usr, secretKey, timeout); got != tt.want {
				t.Errorf("checkToken() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokenInvalidatedByPasswordChange(t *testing.T) {
	secretKey := []byte("secret")
	timeout := 3 * 24 * time.Hour

	usr := User{ID: "0b4ce439-1916-4e65-9c0f-d0cb78070e3b", Username: "t"}
	_ = usr.SetPassword("old pwd")

	token := makeToken(usr, secretKey)
	_ = usr.SetPassword("new pwd")

	if checkToken(token, usr, secretKey, timeout) {
		t.Error("checkToken() = true after password change, want false")
	}
}
