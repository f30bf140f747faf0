package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/michaelhiggins8/vimpound-backend/internal/auth"
	"github.com/michaelhiggins8/vimpound-backend/internal/domain"
	"github.com/michaelhiggins8/vimpound-backend/internal/repository"
)

type routerFixture struct {
	router *Router
	orgs   *repository.MemoryOrgsRepo
	orgID  string
}

// newRouterFixture wires the management surface over in-memory repos with a
// static token "token-1" mapped to user-1.
func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	orgs := repository.NewMemoryOrgsRepo()
	org := &domain.Org{}
	orgs.PutOrg(org)
	orgs.PutProfile(&domain.Profile{ID: "user-1", OrgID: org.ID})

	vehicles := repository.NewMemoryVehiclesRepo(orgs)
	exceptionDates := repository.NewMemoryExceptionDatesRepo(orgs)

	verifier := &auth.StaticVerifier{Users: map[string]*auth.User{
		"token-1": {ID: "user-1", Email: "owner@example.com"},
	}}

	logger := zap.NewNop()
	router := NewRouter(verifier, logger)
	router.RegisterOrgRoutes(NewOrgHandler(orgs, logger))
	router.RegisterExceptionDateRoutes(NewExceptionDateHandler(exceptionDates, logger))
	router.RegisterVehicleRoutes(NewVehicleHandler(vehicles, logger))
	router.RegisterUserRoutes(NewUserHandler(orgs, logger))
	router.RegisterHealthRoute()

	return &routerFixture{router: router, orgs: orgs, orgID: org.ID}
}

func (f *routerFixture) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_AuthRequired(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/orgs/content", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/orgs/content", "wrong-token", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_OrgContentRoundTrip(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPatch, "/orgs/agent-name", "token-1", `{"agent_name":"Alex"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/orgs/content", "token-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var content map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &content))
	require.Equal(t, "Alex", content["agent_name"])
	require.Nil(t, content["company_name"])
}

func TestRouter_DefaultHoursValidation(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPatch, "/orgs/default-hours", "token-1",
		`{"default_hours_of_operation":"* Monday: 9-5"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	valid, err := json.Marshal(map[string]string{"default_hours_of_operation": handlerWeeklyHours})
	require.NoError(t, err)
	rec = f.do(t, http.MethodPatch, "/orgs/default-hours", "token-1", string(valid))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_BulletListValidationAndNull(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPatch, "/orgs/documents-needed", "token-1",
		`{"documents_needed":"no bullets here"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(t, http.MethodPatch, "/orgs/documents-needed", "token-1",
		`{"documents_needed":"* Title\n* Photo ID"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Blank input clears the column back to NULL.
	rec = f.do(t, http.MethodPatch, "/orgs/documents-needed", "token-1",
		`{"documents_needed":""}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/orgs/content", "token-1", "")
	var content map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &content))
	require.Nil(t, content["documents_needed"])
}

func TestRouter_ContentByPhonePublic(t *testing.T) {
	f := newRouterFixture(t)
	require.NoError(t, f.orgs.SetPhoneBinding(t.Context(), "user-1", "+17605281256", "pn-1"))

	// No token needed.
	rec := f.do(t, http.MethodGet, "/orgs/content/by-phone?phone_number=%2B17605281256", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var content map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &content))
	require.Equal(t, f.orgID, content["id"])

	rec = f.do(t, http.MethodGet, "/orgs/content/by-phone?phone_number=%2B10000000000", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_VehicleLifecycle(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/vehicles", "token-1",
		`{"status":"impounded","make":"Toyota","model":"Corolla","year":2019,"color":"blue",`+
			`"vin_number":"VIN123","plate_number":"PLATE1","owner_first_name":"Pat",`+
			`"owner_last_name":"Jones","location":"row 4"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var created struct {
		Vehicle map[string]any `json:"vehicle"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	vehicleID, _ := created.Vehicle["id"].(string)
	require.NotEmpty(t, vehicleID)

	rec = f.do(t, http.MethodGet, "/vehicles?page=0", "token-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Vehicles []map[string]any `json:"vehicles"`
		PageSize int              `json:"page_size"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Vehicles, 1)
	require.Equal(t, 10, page.PageSize)

	rec = f.do(t, http.MethodDelete, "/vehicles", "token-1", `{"id":"`+vehicleID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodDelete, "/vehicles", "token-1", `{"id":"`+vehicleID+`"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_VehicleExport(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/vehicles", "token-1", `{"make":"Honda","vin_number":"VIN9"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/vehicles/export", "token-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	require.NotZero(t, rec.Body.Len())
	// xlsx files are zip archives.
	require.Equal(t, "PK", rec.Body.String()[:2])
}

func TestRouter_ExceptionDateLifecycle(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/orgs/exception-dates", "token-1",
		`{"date":"12/25","hours":"Closed"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/orgs/exception-dates", "token-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		ExceptionDates []struct {
			ID    int64  `json:"id"`
			Date  string `json:"date"`
			Hours string `json:"hours"`
		} `json:"exception_dates"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Equal(t, 1, listed.Count)
	require.Equal(t, "12/25", listed.ExceptionDates[0].Date)
	id := listed.ExceptionDates[0].ID

	// id accepted as a string too; the frontend sends both shapes.
	rec = f.do(t, http.MethodPatch, "/orgs/exception-dates", "token-1",
		`{"id":"1","hours":"10 AM - 2 PM"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodDelete, "/orgs/exception-dates", "token-1",
		`{"id":`+jsonNumber(id)+`}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/orgs/exception-dates", "token-1", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Equal(t, 0, listed.Count)
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestRouter_MakeUser(t *testing.T) {
	f := newRouterFixture(t)

	// Mismatched body id is forbidden.
	rec := f.do(t, http.MethodPost, "/make-user", "token-1", `{"user_id":"someone-else"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// user-1 already has a profile; the call is idempotent.
	rec = f.do(t, http.MethodPost, "/make-user", "token-1", `{"user_id":"user-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "User profile already exists", resp["message"])
	require.Equal(t, f.orgID, resp["org_id"])
}

func TestRouter_Health(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "message")

	rec = f.do(t, http.MethodGet, "/nope", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
