package middleware

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"learnhub/apperror"
	"learnhub/services/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, app *fiber.App, path, token string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestErrorHandlerMapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperror.Validation("bad"), fiber.StatusBadRequest},
		{apperror.Auth("who"), fiber.StatusUnauthorized},
		{apperror.Forbidden("no"), fiber.StatusForbidden},
		{apperror.NotFound("gone"), fiber.StatusNotFound},
		{apperror.Conflict("again", nil), fiber.StatusConflict},
		{apperror.Storage("db down", errors.New("dial tcp")), fiber.StatusInternalServerError},
		{fiber.NewError(fiber.StatusTeapot, "tea"), fiber.StatusTeapot},
		{errors.New("plain"), fiber.StatusInternalServerError},
	}

	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(false)})
	for i, tc := range cases {
		tc := tc
		app.Get("/"+string(rune('a'+i)), func(c *fiber.Ctx) error { return tc.err })
	}

	for i, tc := range cases {
		status, body := call(t, app, "/"+string(rune('a'+i)), "")
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, false, body["success"])
		assert.NotContains(t, body, "error")
	}
}

func TestErrorHandlerExposesCauseInDevelopment(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(true)})
	app.Get("/", func(c *fiber.Ctx) error {
		return apperror.Storage("Failed to load courses", errors.New("dial tcp"))
	})

	status, body := call(t, app, "/", "")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Failed to load courses", body["message"])
	assert.Equal(t, "dial tcp", body["error"])
}

func TestJWTMiddleware(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	learnerToken, err := tokens.Issue(auth.Learner{UserID: 7, Email: "jamie@example.com", Role: "LEARNER"})
	require.NoError(t, err)
	adminToken, err := tokens.Issue(auth.Admin{Email: "admin@example.com"})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(false)})
	app.Get("/me", JWTMiddleware(tokens), func(c *fiber.Ctx) error {
		id, err := LearnerID(c)
		if err != nil {
			return err
		}
		return JsonResponse(c, fiber.StatusOK, true, "ok", fiber.Map{"id": id, "userId": c.Locals("userId")})
	})
	app.Get("/admin", JWTMiddleware(tokens), AdminOnly, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", nil)
	})
	app.Get("/maybe", OptionalJWTMiddleware(tokens), func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", fiber.Map{"anonymous": Principal(c) == nil})
	})

	status, _ := call(t, app, "/me", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body := call(t, app, "/me", learnerToken)
	assert.Equal(t, fiber.StatusUnauthorized, status, "missing Bearer prefix")
	assert.Equal(t, "Invalid Authorization header format", body["message"])

	status, body = call(t, app, "/me", "Bearer "+learnerToken)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, map[string]interface{}{"id": 7.0, "userId": 7.0}, body["data"])

	status, _ = call(t, app, "/me", "Bearer "+adminToken)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = call(t, app, "/admin", "Bearer "+learnerToken)
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = call(t, app, "/admin", "Bearer "+adminToken)
	assert.Equal(t, fiber.StatusOK, status)

	status, body = call(t, app, "/maybe", "Bearer garbage")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, map[string]interface{}{"anonymous": true}, body["data"])

	_, body = call(t, app, "/maybe", "Bearer "+learnerToken)
	assert.Equal(t, map[string]interface{}{"anonymous": false}, body["data"])
}
