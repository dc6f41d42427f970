package http_test

import (
	"context"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/disgoorg/snowflake/v2"
	"github.com/ferdian3456/staffroster/internal/delivery/http"
	"github.com/ferdian3456/staffroster/internal/delivery/http/middleware"
	"github.com/ferdian3456/staffroster/internal/delivery/http/route"
	"github.com/ferdian3456/staffroster/internal/model"
	"github.com/ferdian3456/staffroster/internal/platform/platformtest"
	"github.com/ferdian3456/staffroster/internal/repository"
	"github.com/ferdian3456/staffroster/internal/usecase"
	"github.com/ferdian3456/staffroster/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	testGuild  snowflake.ID = 1
	testSecret              = "test-secret-key-for-jwt-token-generation"
)

func setupApp(t *testing.T) (*fiber.App, *repository.StateRepository) {
	log := zaptest.NewLogger(t)

	config := koanf.New(".")
	require.NoError(t, config.Set("JWT_SECRET_KEY", testSecret))

	fake := platformtest.New()
	fake.AddRole(200, "Staff", model.Member{Id: 102, DisplayName: "Alice"})
	fake.AddRole(201, "Helpers")

	state := repository.NewStateRepository(log, repository.NewMemoryDocumentStore())
	_, err := state.Update(context.Background(), func(guild *model.Guild) error {
		guild.State.StaffRoles = append(guild.State.StaffRoles, 200, 201)
		guild.State.Users["102"] = model.CounterRecord{Warn: 1, Strike: 2}
		return nil
	})
	require.NoError(t, err)

	roster := usecase.NewRosterUsecase(state, fake, log)
	moderation := usecase.NewModerationUsecase(state, roster, log)

	app := fiber.New(fiber.Config{JSONEncoder: sonic.Marshal, JSONDecoder: sonic.Unmarshal})
	routeConfig := route.RouteConfig{
		App:              app,
		AuthMiddleware:   middleware.NewAuthMiddleware(log, config),
		RateLimiter:      middleware.SetupRateLimiter(log, 100),
		RosterController: http.NewRosterController(roster, moderation, log, testGuild),
	}
	routeConfig.SetupRoute()

	return app, state
}

func request(t *testing.T, app *fiber.App, path string, authorized bool) (int, []byte) {
	req := httptest.NewRequest(nethttp.MethodGet, path, nil)
	if authorized {
		token, err := util.GenerateAccessToken("test", testSecret, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", util.BearerPrefix+token.AccessToken)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestHealthNeedsNoToken(t *testing.T) {
	app, _ := setupApp(t)

	status, body := request(t, app, "/api/health", false)

	assert.Equal(t, 200, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestRosterRequiresToken(t *testing.T) {
	app, _ := setupApp(t)

	status, _ := request(t, app, "/api/roster", false)

	assert.Equal(t, 401, status)
}

func TestGetRoster(t *testing.T) {
	app, _ := setupApp(t)

	status, body := request(t, app, "/api/roster", true)

	require.Equal(t, 200, status, string(body))
	assert.JSONEq(t, `{
		"guildId": "1",
		"rows": [
			{"roleId": "200", "roleName": "Staff", "vacant": false, "members": [
				{"memberId": "102", "name": "Alice", "warn": 1, "strike": 2}
			]},
			{"roleId": "201", "roleName": "Helpers", "vacant": true, "members": []}
		]
	}`, string(body))
}

func TestGetMemberCounters(t *testing.T) {
	app, _ := setupApp(t)

	status, body := request(t, app, "/api/members/102", true)
	require.Equal(t, 200, status, string(body))
	assert.JSONEq(t, `{"memberId":"102","warn":1,"strike":2,"warnCeiling":2,"strikeCeiling":3}`, string(body))

	status, _ = request(t, app, "/api/members/555", true)
	assert.Equal(t, 404, status)

	status, _ = request(t, app, "/api/members/abc", true)
	assert.Equal(t, 400, status)
}
