package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"testing"

	"sunseeker/internal/config"
	"sunseeker/internal/database"
	"sunseeker/internal/mailer"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret-key-12345678901234567890123456789012"

// mailerStub records sent emails instead of dialing SMTP.
type mailerStub struct {
	notifications []mailer.Notification
	replies       []mailer.Reply
	failNext      error
}

func (m *mailerStub) SendNotification(_ context.Context, in mailer.Notification) (string, error) {
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return "", err
	}
	m.notifications = append(m.notifications, in)
	return "test-message-id", nil
}

func (m *mailerStub) SendReply(_ context.Context, in mailer.Reply) (string, error) {
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return "", err
	}
	m.replies = append(m.replies, in)
	return "test-message-id", nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Env:       "test",
		Port:      "0",
		JWTSecret: testJWTSecret,
		BaseURL:   "https://sunseeker.test",
	}
}

// setupTestServer wires a Server against in-memory sqlite and a recording
// mailer, with all routes registered.
func setupTestServer(t *testing.T) (*Server, *fiber.App, *mailerStub) {
	t.Helper()

	db := setupTestDB(t)
	m := &mailerStub{}

	s, err := NewServerWithDeps(testConfig(), db, nil, m)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{BodyLimit: maxBodySize})
	s.SetupRoutes(app)
	return s, app, m
}

// setupTestServerWithRedis is like setupTestServer but backs the server with
// a miniredis instance for session revocation tests.
func setupTestServerWithRedis(t *testing.T) (*Server, *fiber.App, *mailerStub) {
	t.Helper()

	db := setupTestDB(t)
	m := &mailerStub{}
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	s, err := NewServerWithDeps(testConfig(), db, rdb, m)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{BodyLimit: maxBodySize})
	s.SetupRoutes(app)
	return s, app, m
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, headers map[string]string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// multipartBody builds a multipart form with the given fields and files.
func multipartBody(t *testing.T, fields map[string]string, files map[string]multipartFile) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+f.name+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

type multipartFile struct {
	name        string
	contentType string
	content     []byte
}

// requestPath builds an /api/requests/:id path with an optional suffix.
func requestPath(id uint, suffix string) string {
	return "/api/requests/" + strconv.FormatUint(uint64(id), 10) + suffix
}

// newMultipartRequest builds a request with an explicit content type, for
// multipart forms and malformed-body cases.
func newMultipartRequest(t *testing.T, method, path string, body io.Reader, contentType string, headers map[string]string) *http.Request {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

// adminAuthHeader creates an admin session token for authenticated requests.
func adminAuthHeader(t *testing.T, s *Server) map[string]string {
	t.Helper()
	token, err := s.generateToken(1, "admin")
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}
