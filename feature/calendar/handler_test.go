package calendar

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, *fixture) {
	t.Helper()
	f := newFixture(t)

	app := fiber.New()
	NewHandler(f.service).RegisterRoutes(app)
	return app, f
}

func decodeBody(t *testing.T, r io.Reader, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r).Decode(v))
}

func TestHandleListTargets(t *testing.T) {
	app, f := newTestApp(t)
	f.writeSheet(t, twoRows)

	resp, err := app.Test(httptest.NewRequest("GET", "/targets/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Targets []TargetStatus `json:"targets"`
	}
	decodeBody(t, resp.Body, &body)

	require.Len(t, body.Targets, 1)
	assert.Equal(t, "team", body.Targets[0].Label)
	assert.True(t, body.Targets[0].Stale)
}

func TestHandleSyncTarget(t *testing.T) {
	app, f := newTestApp(t)
	f.writeSheet(t, twoRows)

	resp, err := app.Test(httptest.NewRequest("POST", "/targets/team/sync", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result RunResult
	decodeBody(t, resp.Body, &result)
	assert.Equal(t, "team", result.Label)
	assert.Equal(t, 2, result.Report.Created)
	assert.Len(t, f.listEvents(t), 2)
}

func TestHandleSyncTarget_DryRun(t *testing.T) {
	app, f := newTestApp(t)
	f.writeSheet(t, twoRows)

	resp, err := app.Test(httptest.NewRequest("POST", "/targets/team/sync?dry_run=true", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, f.listEvents(t))
}

func TestHandleSyncTarget_UnknownLabel(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/targets/nope/sync", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleSyncTarget_FailingTarget(t *testing.T) {
	app, _ := newTestApp(t)
	// No sheet written, so the source read fails.

	resp, err := app.Test(httptest.NewRequest("POST", "/targets/team/sync", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var result RunResult
	decodeBody(t, resp.Body, &result)
	assert.Contains(t, result.Error, "failed to read source")
}

func TestHandleSyncAll(t *testing.T) {
	app, f := newTestApp(t)
	f.writeSheet(t, twoRows)

	resp, err := app.Test(httptest.NewRequest("POST", "/targets/sync", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Results []RunResult `json:"results"`
	}
	decodeBody(t, resp.Body, &body)
	require.Len(t, body.Results, 1)
	assert.Equal(t, 2, body.Results[0].Report.Created)
}

func TestHandlerDoesNotTouchDiskOnList(t *testing.T) {
	app, f := newTestApp(t)
	f.writeSheet(t, twoRows)

	resp, err := app.Test(httptest.NewRequest("GET", "/targets/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, err = os.Stat(filepath.Join(f.stateDir, "sync_times.json"))
	assert.True(t, os.IsNotExist(err))
}
