package user

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/taskspro/backend/core"
)

type mockRepo struct {
	users map[string]User // by ID
}

func newMockRepo() *mockRepo { return &mockRepo{users: make(map[string]User)} }

func (m *mockRepo) CheckUsernameUniqueness(ctx context.Context, username, email string, excl ...User) error {
	excluded := make(map[string]bool, len(excl))
	for _, u := range excl {
		excluded[u.ID] = true
	}
	for _, u := range m.users {
		if excluded[u.ID] {
			continue
		}
		if username != "" && u.Username == username {
			return ErrUsernameExists
		}
		if email != "" && u.Email == email {
			return ErrEmailExists
		}
	}
	return nil
}

func (m *mockRepo) CreateUser(ctx context.Context, usr *User) error {
	m.users[usr.ID] = *usr
	return nil
}

func (m *mockRepo) QueryAllUsers(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockRepo) FilterUsers(ctx context.Context, filter QueryFilter) ([]User, error) {
	return m.QueryAllUsers(ctx)
}

func (m *mockRepo) GetUserByID(ctx context.Context, id string) (User, error) {
	u, ok := m.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *mockRepo) GetUserByUsername(ctx context.Context, username string) (User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (m *mockRepo) GetUserByEmail(ctx context.Context, email string) (User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (m *mockRepo) GetUserByUsernameOrEmail(ctx context.Context, uname string) (User, error) {
	for _, u := range m.users {
		if u.Username == uname || u.Email == uname {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (m *mockRepo) UpdateUser(ctx context.Context, usr *User) error {
	if _, ok := m.users[usr.ID]; !ok {
		return ErrNotFound
	}
	m.users[usr.ID] = *usr
	return nil
}

func (m *mockRepo) SetUserLastLogin(ctx context.Context, usr *User) error {
	u, ok := m.users[usr.ID]
	if !ok {
		return ErrNotFound
	}
	u.LastLogin = usr.LastLogin
	m.users[usr.ID] = u
	return nil
}

func (m *mockRepo) DeleteUsersByID(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		delete(m.users, id)
	}
	return nil
}

type mockMailService struct {
	sent []*core.EmailMessage
}

func (m *mockMailService) SendMessages(messages ...*core.EmailMessage) {
	m.sent = append(m.sent, messages...)
}

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func testConf() *core.Config {
	return &core.Config{
		AppName:                   "TasksPro",
		SecretKey:                 []byte("secret"),
		FrontendBaseURL:           "http://localhost:3000",
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
	}
}

func setup(t *testing.T) (Service, *mockRepo, *mockMailService) {
	t.Helper()
	repo := newMockRepo()
	mailSvc := &mockMailService{}
	validate, translator := core.NewValidator()
	core.InitValidators(validate, translator)
	registerValidators(validate, translator)
	return NewService(repo, mailSvc, testConf(), validate, nopLogger{}), repo, mailSvc
}

func TestService_Create_defaultsToStudent(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setup(t)

	usr, err := svc.Create(ctx, NewUser{
		Name:            "John Doe",
		Username:        "jdoe26",
		Email:           "jdoe@test.cd",
		Password:        "LeP@sswd243",
		PasswordConfirm: "LeP@sswd243",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if usr.ID == "" {
		t.Error("Create() did not assign an ID")
	}
	if !usr.IsActive {
		t.Error("IsActive = false, want true")
	}
	if !usr.IsStudent() {
		t.Errorf("Roles = %v, want default student role", usr.Roles)
	}
	if err := usr.CheckPassword("LeP@sswd243"); err != nil {
		t.Errorf("CheckPassword() error = %v", err)
	}
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setup(t)

	usr, err := svc.Create(ctx, NewUser{
		Name:            "John Doe",
		Username:        "jdoe26",
		Email:           "jdoe@test.cd",
		Password:        "LeP@sswd243",
		PasswordConfirm: "LeP@sswd243",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name    string
		uname   string
		pwd     string
		wantErr error
	}{
		{name: "by username", uname: "jdoe26", pwd: "LeP@sswd243"},
		{name: "by email", uname: "jdoe@test.cd", pwd: "LeP@sswd243"},
		{name: "username is case-insensitive", uname: "JDOE26", pwd: "LeP@sswd243"},
		{name: "unknown user", uname: "nope", pwd: "LeP@sswd243", wantErr: ErrInvalidCredentials},
		{name: "wrong password", uname: "jdoe26", pwd: "nope", wantErr: ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Authenticate(ctx, tt.uname, tt.pwd)
			if err != tt.wantErr {
				t.Fatalf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got.ID != usr.ID {
				t.Errorf("Authenticate() ID = %v, want %v", got.ID, usr.ID)
			}
		})
	}

	t.Run("inactive account", func(t *testing.T) {
		inactive := false
		if _, err := svc.Update(ctx, usr.ID, UpdateUser{IsActive: &inactive}); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if _, err := svc.Authenticate(ctx, "jdoe26", "LeP@sswd243"); err != ErrInvalidCredentials {
			t.Errorf("Authenticate() error = %v, wantErr %v", err, ErrInvalidCredentials)
		}
	})
}

func TestService_passwordResetFlow(t *testing.T) {
	ctx := context.Background()
	svc, _, mailSvc := setup(t)

	usr, err := svc.Create(ctx, NewUser{
		Name:            "John Doe",
		Username:        "jdoe26",
		Email:           "jdoe@test.cd",
		Password:        "LeP@sswd243",
		PasswordConfirm: "LeP@sswd243",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// unknown email is silently ignored
	if err := svc.RequestPasswordReset(ctx, "nobody@test.cd"); err != nil {
		t.Fatalf("RequestPasswordReset() error = %v", err)
	}
	if len(mailSvc.sent) != 0 {
		t.Fatalf("len(sent) = %v, want 0", len(mailSvc.sent))
	}

	if err := svc.RequestPasswordReset(ctx, "jdoe@test.cd"); err != nil {
		t.Fatalf("RequestPasswordReset() error = %v", err)
	}
	if len(mailSvc.sent) != 1 {
		t.Fatalf("len(sent) = %v, want 1", len(mailSvc.sent))
	}

	// pull the token out of the reset link
	body := mailSvc.sent[0].Body
	i := strings.Index(body, "token=")
	if i < 0 {
		t.Fatalf("no token in mail body:\n%s", body)
	}
	token := strings.Fields(body[i+len("token="):])[0]

	if _, err := svc.ResetPassword(ctx, ResetUserPassword{
		Token:           "not-the-token",
		UID:             usr.ID,
		Password:        "NewP@sswd987",
		PasswordConfirm: "NewP@sswd987",
	}); err != ErrInvalidToken {
		t.Errorf("ResetPassword() with bad token error = %v, want %v", err, ErrInvalidToken)
	}

	if _, err := svc.ResetPassword(ctx, ResetUserPassword{
		Token:           token,
		UID:             usr.ID,
		Password:        "NewP@sswd987",
		PasswordConfirm: "NewP@sswd987",
	}); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}

	if _, err := svc.Authenticate(ctx, "jdoe26", "NewP@sswd987"); err != nil {
		t.Errorf("Authenticate() with new password error = %v", err)
	}

	// the token is single-use: the password change invalidates it
	if _, err := svc.ResetPassword(ctx, ResetUserPassword{
		Token:           token,
		UID:             usr.ID,
		Password:        "Anoth3r@Pwd",
		PasswordConfirm: "Anoth3r@Pwd",
	}); err != ErrInvalidToken {
		t.Errorf("ResetPassword() token reuse error = %v, want %v", err, ErrInvalidToken)
	}
}
