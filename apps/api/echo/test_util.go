package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/taskspro/backend/core"
	"github.com/taskspro/backend/core/assignment"
	"github.com/taskspro/backend/core/discussion"
	"github.com/taskspro/backend/core/focus"
	"github.com/taskspro/backend/core/note"
	"github.com/taskspro/backend/core/progression"
	"github.com/taskspro/backend/core/quiz"
	"github.com/taskspro/backend/core/todo"
	"github.com/taskspro/backend/core/user"
	emailsvc "github.com/taskspro/backend/services/email"
	logsvc "github.com/taskspro/backend/services/logger"
	inmemdb "github.com/taskspro/backend/storage/database/inmem"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

func testCtx() context.Context { return context.Background() }

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

type testServer struct {
	server Server
	db     *inmemdb.DB

	usrSvc  user.Service
	progSvc progression.Service
	quizSvc quiz.Service
	assnSvc assignment.Service
	noteSvc note.Service
	todoSvc todo.Service
	fcsSvc  focus.Service
	discSvc discussion.Service
}

func newTestConfig() *core.Config {
	return &core.Config{
		Debug:                     true,
		TestMode:                  true,
		Env:                       "TEST",
		AppName:                   "TasksPro",
		SecretKey:                 []byte("secret"),
		FrontendBaseURL:           "http://localhost:3000",
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	conf := newTestConfig()
	logger := logsvc.NewStdLogger(log.New(io.Discard, "", 0))
	validate, translator := core.NewValidator()
	core.InitValidators(validate, translator)
	user.RegisterValidators(validate, translator)

	db := inmemdb.Open()
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	progSvc := progression.NewService(inmemdb.NewProgressionRepository(db))
	usrSvc := user.NewService(inmemdb.NewUserRepository(db), mailSvc, conf, validate, logger)
	quizSvc := quiz.NewService(inmemdb.NewQuizRepository(db), progSvc, validate, logger)
	assnSvc := assignment.NewService(inmemdb.NewAssignmentRepository(db), progSvc, validate)
	noteSvc := note.NewService(inmemdb.NewNoteRepository(db), progSvc, validate)
	todoSvc := todo.NewService(inmemdb.NewTodoRepository(db), validate)
	fcsSvc := focus.NewService(inmemdb.NewFocusRepository(db), progSvc, validate)
	discSvc := discussion.NewService(inmemdb.NewDiscussionRepository(db), progSvc, validate)

	srv := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		UserSvc:    usrSvc,
		ProgSvc:    progSvc,
		QuizSvc:    quizSvc,
		AssnSvc:    assnSvc,
		NoteSvc:    noteSvc,
		TodoSvc:    todoSvc,
		FcsSvc:     fcsSvc,
		DiscSvc:    discSvc,
	})

	return &testServer{
		server:  srv,
		db:      db,
		usrSvc:  usrSvc,
		progSvc: progSvc,
		quizSvc: quizSvc,
		assnSvc: assnSvc,
		noteSvc: noteSvc,
		todoSvc: todoSvc,
		fcsSvc:  fcsSvc,
		discSvc: discSvc,
	}
}

// createUser inserts a user fixture directly, bypassing service validation.
func (ts *testServer) createUser(t *testing.T, name, uname, email, pwd string, roles []string, isActive bool) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		ID:        uuid.New().String(),
		Name:      name,
		Username:  uname,
		Email:     email,
		IsActive:  isActive,
		Roles:     roles,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	if err := inmemdb.NewUserRepository(ts.db).CreateUser(context.Background(), &usr); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func (ts *testServer) createQuiz(t *testing.T, title string, timeLimit int, questions ...quiz.NewQuestion) quiz.Quiz {
	t.Helper()

	qz, err := ts.quizSvc.Create(context.Background(), "system", quiz.NewQuiz{
		Title:     title,
		TimeLimit: timeLimit,
		Questions: questions,
	})
	if err != nil {
		t.Fatalf("quizSvc.Create() failed: %v", err)
	}
	return qz
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()

	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
