package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-lighting/internal/config"
	"github.com/iliyamo/lab-lighting/internal/handler"
	"github.com/iliyamo/lab-lighting/internal/labstore"
	"github.com/iliyamo/lab-lighting/internal/model"
	"github.com/iliyamo/lab-lighting/internal/repository"
	"github.com/iliyamo/lab-lighting/internal/storage"
	"github.com/iliyamo/lab-lighting/internal/utils"
)

const secret = "router-test-secret"

type app struct {
	e        *echo.Echo
	store    *labstore.Store
	users    *repository.UserRepo
	admin    string
	teacher  string
	teacher2 string
	t1ID     string
}

func newApp(t *testing.T) *app {
	t.Helper()
	ctx := context.Background()
	users, err := repository.NewUserRepo(ctx, storage.NewMemory(), "test")
	if err != nil {
		t.Fatal(err)
	}
	a := &app{store: labstore.New(nil), users: users}
	mk := func(email, role string) (string, string) {
		u, err := users.Create(ctx, email, strings.Split(email, "@")[0], "password123", role, 4)
		if err != nil {
			t.Fatalf("create %s: %v", email, err)
		}
		tok, err := utils.NewAccessToken(secret, u.ID, u.Role, u.Name, 5)
		if err != nil {
			t.Fatal(err)
		}
		return u.ID, tok.Token
	}
	_, a.admin = mk("admin@lab.io", model.RoleAdmin)
	a.t1ID, a.teacher = mk("t1@lab.io", model.RoleTeacher)
	_, a.teacher2 = mk("t2@lab.io", model.RoleTeacher)

	e := echo.New()
	e.Validator = handler.NewValidator()
	labs := handler.NewLabHandler(a.store)
	RegisterRoutes(e, nil)
	RegisterAuth(e, handler.NewAuthHandler(config.Config{JWTSecret: secret, AccessTTLMin: 5}, users), secret)
	RegisterAdmin(e, labs, handler.NewTeacherHandler(users, a.store, 4), secret)
	RegisterTeacher(e, labs, secret)
	a.e = e
	return a
}

func (a *app) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func expect(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("status = %d, want %d; body=%s", rec.Code, code, rec.Body)
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body, err)
	}
}

func TestHealth(t *testing.T) {
	a := newApp(t)
	rec := a.do(http.MethodGet, "/healthz", "", "")
	expect(t, rec, http.StatusOK)
	if rec.Body.String() != "ok" {
		t.Fatalf("body = %q", rec.Body)
	}
}

func TestLoginAndMe(t *testing.T) {
	a := newApp(t)
	expect(t, a.do(http.MethodPost, "/v1/auth/login", "", `{"email":"t1@lab.io","password":"wrong-password"}`), http.StatusUnauthorized)
	expect(t, a.do(http.MethodPost, "/v1/auth/login", "", `{"email":"nobody@lab.io","password":"password123"}`), http.StatusUnauthorized)
	expect(t, a.do(http.MethodPost, "/v1/auth/login", "", `{"email":"not-an-email","password":"x"}`), http.StatusBadRequest)

	rec := a.do(http.MethodPost, "/v1/auth/login", "", `{"email":"T1@lab.io","password":"password123"}`)
	expect(t, rec, http.StatusOK)
	var resp struct {
		User struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
		Access struct {
			Token string `json:"token"`
		} `json:"access"`
	}
	decode(t, rec, &resp)
	if resp.User.Role != model.RoleTeacher || resp.User.ID != a.t1ID || resp.Access.Token == "" {
		t.Fatalf("unexpected login response %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("login response leaks the password hash: %s", rec.Body)
	}

	rec = a.do(http.MethodGet, "/v1/me", resp.Access.Token, "")
	expect(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"email":"t1@lab.io"`) {
		t.Fatalf("me = %s", rec.Body)
	}
	expect(t, a.do(http.MethodGet, "/v1/me", "", ""), http.StatusUnauthorized)
}

func TestActivationFlow(t *testing.T) {
	a := newApp(t)
	expect(t, a.do(http.MethodPost, "/v1/labs/1/activate", a.teacher, ""), http.StatusOK)
	expect(t, a.do(http.MethodPost, "/v1/labs/1/activate", a.teacher, ""), http.StatusOK)
	expect(t, a.do(http.MethodPost, "/v1/labs/1/activate", a.teacher2, ""), http.StatusConflict)
	expect(t, a.do(http.MethodPost, "/v1/labs/nope/activate", a.teacher, ""), http.StatusNotFound)

	// only the holder controls the lights
	expect(t, a.do(http.MethodPatch, "/v1/labs/1/lights/1-1", a.teacher2, `{"intensity":10}`), http.StatusForbidden)
	expect(t, a.do(http.MethodPatch, "/v1/labs/1/lights/1-1", a.teacher, `{"intensity":150}`), http.StatusBadRequest)
	expect(t, a.do(http.MethodPatch, "/v1/labs/1/lights/9-9", a.teacher, `{"intensity":10}`), http.StatusNotFound)

	rec := a.do(http.MethodPatch, "/v1/labs/1/lights/1-1", a.teacher, `{"intensity":50,"is_on":true}`)
	expect(t, rec, http.StatusOK)
	var light model.Light
	decode(t, rec, &light)
	if light.Intensity != 50 || !light.IsOn || light.Color != "#ffffff" || light.Name != "Front left" {
		t.Fatalf("unexpected light %+v", light)
	}

	expect(t, a.do(http.MethodPost, "/v1/labs/1/deactivate", a.teacher2, ""), http.StatusForbidden)
	rec = a.do(http.MethodPost, "/v1/labs/1/deactivate", a.teacher, "")
	expect(t, rec, http.StatusOK)
	var lab model.Lab
	decode(t, rec, &lab)
	if lab.IsActive || lab.ActiveTeacher != nil || lab.Lights[0].IsOn {
		t.Fatalf("lab not released: %+v", lab)
	}
	expect(t, a.do(http.MethodPost, "/v1/labs/1/activate", a.teacher2, ""), http.StatusOK)
}

func TestDeactivateInactiveLabNeedsAdmin(t *testing.T) {
	a := newApp(t)
	on := true
	if err := a.store.UpdateLight("3", "3-1", model.LightPatch{IsOn: &on}); err != nil {
		t.Fatal(err)
	}
	expect(t, a.do(http.MethodPost, "/v1/labs/3/deactivate", a.teacher, ""), http.StatusForbidden)
	lab, _ := a.store.Lab("3")
	if !lab.Lights[0].IsOn {
		t.Fatalf("teacher switched off an inactive lab")
	}
	expect(t, a.do(http.MethodPost, "/v1/labs/3/deactivate", a.admin, ""), http.StatusOK)
	lab, _ = a.store.Lab("3")
	if lab.Lights[0].IsOn {
		t.Fatalf("admin release did not switch the lights off")
	}
}

func TestControlRequiresActivation(t *testing.T) {
	a := newApp(t)
	expect(t, a.do(http.MethodPost, "/v1/labs/2/lights/power", a.teacher, `{"on":true}`), http.StatusForbidden)
	expect(t, a.do(http.MethodPost, "/v1/labs/2/activate", a.teacher, ""), http.StatusOK)
	expect(t, a.do(http.MethodPost, "/v1/labs/2/lights/power", a.teacher, `{}`), http.StatusBadRequest)

	rec := a.do(http.MethodPost, "/v1/labs/2/lights/power", a.teacher, `{"on":true}`)
	expect(t, rec, http.StatusOK)
	var lab model.Lab
	decode(t, rec, &lab)
	for _, l := range lab.Lights {
		if !l.IsOn {
			t.Fatalf("light %s still off", l.ID)
		}
	}

	rec = a.do(http.MethodGet, "/v1/labs/2/energy", a.teacher, "")
	expect(t, rec, http.StatusOK)
	var energy struct {
		Watts float64 `json:"watts"`
	}
	decode(t, rec, &energy)
	if energy.Watts != a.store.EnergyConsumption("2") || energy.Watts <= 0 {
		t.Fatalf("energy = %v", energy.Watts)
	}
}

func TestWheelSetsColor(t *testing.T) {
	a := newApp(t)
	expect(t, a.do(http.MethodPost, "/v1/labs/3/activate", a.teacher, ""), http.StatusOK)
	rec := a.do(http.MethodPost, "/v1/labs/3/lights/3-1/wheel", a.teacher, `{"cx":100,"cy":100,"x":200,"y":100,"intensity":40}`)
	expect(t, rec, http.StatusOK)
	var light model.Light
	decode(t, rec, &light)
	if light.Color != "#ff0000" || light.Intensity != 40 || !light.IsOn {
		t.Fatalf("unexpected light %+v", light)
	}
}

func TestApplyPractice(t *testing.T) {
	a := newApp(t)
	expect(t, a.do(http.MethodPost, "/v1/labs/1/practices/p3/apply", a.teacher, ""), http.StatusForbidden)
	expect(t, a.do(http.MethodPost, "/v1/labs/1/activate", a.teacher, ""), http.StatusOK)
	expect(t, a.do(http.MethodPost, "/v1/labs/1/practices/nope/apply", a.teacher, ""), http.StatusNotFound)
	rec := a.do(http.MethodPost, "/v1/labs/1/practices/p3/apply", a.teacher, "")
	expect(t, rec, http.StatusOK)
	var lab model.Lab
	decode(t, rec, &lab)
	p, _ := a.store.Practice("p3")
	for _, l := range lab.Lights {
		if l.Color != p.Color || l.Intensity != p.Intensity || !l.IsOn {
			t.Fatalf("light %s not set to preset: %+v", l.ID, l)
		}
	}
}

func TestPracticeEndpoints(t *testing.T) {
	a := newApp(t)
	expect(t, a.do(http.MethodDelete, "/v1/practices/p1", a.teacher, ""), http.StatusForbidden)
	expect(t, a.do(http.MethodDelete, "/v1/practices/missing", a.teacher, ""), http.StatusNotFound)
	expect(t, a.do(http.MethodPost, "/v1/practices", a.teacher, `{"name":"Dim","color":"#112233","intensity":101}`), http.StatusBadRequest)

	rec := a.do(http.MethodPost, "/v1/practices", a.teacher, `{"name":"Dim","color":"#112233","intensity":20}`)
	expect(t, rec, http.StatusCreated)
	var p model.Practice
	decode(t, rec, &p)
	if !p.IsCustom || p.ID == "" {
		t.Fatalf("unexpected practice %+v", p)
	}
	before := len(a.store.Practices())
	expect(t, a.do(http.MethodDelete, "/v1/practices/"+p.ID, a.teacher, ""), http.StatusNoContent)
	if got := len(a.store.Practices()); got != before-1 {
		t.Fatalf("practices = %d, want %d", got, before-1)
	}

	rec = a.do(http.MethodGet, "/v1/practices", a.teacher, "")
	expect(t, rec, http.StatusOK)
	var list []model.Practice
	decode(t, rec, &list)
	if len(list) != 4 {
		t.Fatalf("practices = %d", len(list))
	}
}

func TestAdminLabCRUD(t *testing.T) {
	a := newApp(t)
	expect(t, a.do(http.MethodGet, "/v1/admin/labs", a.teacher, ""), http.StatusForbidden)
	expect(t, a.do(http.MethodPost, "/v1/admin/labs", a.admin, `{"description":"no name"}`), http.StatusBadRequest)

	rec := a.do(http.MethodPost, "/v1/admin/labs", a.admin, `{"name":"Robotics","floor":"3","capacity":12,"lights":[{"name":"Desk","intensity":70}]}`)
	expect(t, rec, http.StatusCreated)
	var lab model.Lab
	decode(t, rec, &lab)
	if lab.ID == "" || len(lab.Lights) != 1 || lab.Lights[0].ID == "" || lab.Lights[0].Color != "#ffffff" {
		t.Fatalf("unexpected lab %+v", lab)
	}

	rec = a.do(http.MethodPatch, "/v1/admin/labs/"+lab.ID, a.admin, `{"room":"R-3"}`)
	expect(t, rec, http.StatusOK)
	var updated model.Lab
	decode(t, rec, &updated)
	if updated.Room != "R-3" || updated.Name != "Robotics" || updated.Capacity != 12 {
		t.Fatalf("merge failed: %+v", updated)
	}
	expect(t, a.do(http.MethodPatch, "/v1/admin/labs/missing", a.admin, `{"room":"x"}`), http.StatusNotFound)

	rec = a.do(http.MethodPost, "/v1/admin/labs/"+lab.ID+"/lights", a.admin, `{"name":"Window","color":"#00ff00","intensity":30}`)
	expect(t, rec, http.StatusCreated)
	var light model.Light
	decode(t, rec, &light)
	expect(t, a.do(http.MethodPatch, "/v1/admin/labs/"+lab.ID+"/lights/"+light.ID, a.admin, `{"name":"Window 2"}`), http.StatusOK)
	expect(t, a.do(http.MethodDelete, "/v1/admin/labs/"+lab.ID+"/lights/"+light.ID, a.admin, ""), http.StatusNoContent)
	expect(t, a.do(http.MethodDelete, "/v1/admin/labs/"+lab.ID+"/lights/"+light.ID, a.admin, ""), http.StatusNotFound)

	expect(t, a.do(http.MethodDelete, "/v1/admin/labs/"+lab.ID, a.admin, ""), http.StatusNoContent)
	expect(t, a.do(http.MethodGet, "/v1/admin/labs/"+lab.ID, a.admin, ""), http.StatusNotFound)
}

func TestAdminForceDeactivateAndAnalytics(t *testing.T) {
	a := newApp(t)
	expect(t, a.do(http.MethodPost, "/v1/labs/1/activate", a.teacher, ""), http.StatusOK)
	expect(t, a.do(http.MethodPost, "/v1/labs/1/lights/power", a.teacher, `{"on":true}`), http.StatusOK)

	rec := a.do(http.MethodGet, "/v1/admin/analytics/summary", a.admin, "")
	expect(t, rec, http.StatusOK)
	var sum struct {
		Labs       int     `json:"labs"`
		ActiveLabs int     `json:"active_labs"`
		LightsOn   int     `json:"lights_on"`
		TotalWatts float64 `json:"total_watts"`
	}
	decode(t, rec, &sum)
	if sum.Labs != 3 || sum.ActiveLabs != 1 || sum.LightsOn != 4 || sum.TotalWatts != 40 {
		t.Fatalf("unexpected summary %+v", sum)
	}

	rec = a.do(http.MethodGet, "/v1/admin/analytics/energy", a.admin, "")
	expect(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"total_watts":40`) {
		t.Fatalf("energy = %s", rec.Body)
	}

	expect(t, a.do(http.MethodPost, "/v1/admin/labs/1/deactivate", a.admin, ""), http.StatusOK)
	if a.store.EnergyConsumption("") != 0 {
		t.Fatalf("lights still drawing power after release")
	}
}

func TestAdminTeachers(t *testing.T) {
	a := newApp(t)
	expect(t, a.do(http.MethodPost, "/v1/admin/teachers", a.admin, `{"email":"t1@lab.io","name":"Dup","password":"password123"}`), http.StatusConflict)
	expect(t, a.do(http.MethodPost, "/v1/admin/teachers", a.admin, `{"email":"t3@lab.io","name":"Short","password":"short"}`), http.StatusBadRequest)
	expect(t, a.do(http.MethodPost, "/v1/admin/teachers", a.admin, `{"email":"t3@lab.io","name":"Third","password":"password123"}`), http.StatusCreated)

	rec := a.do(http.MethodGet, "/v1/admin/teachers", a.admin, "")
	expect(t, rec, http.StatusOK)
	var list []struct {
		Email string `json:"email"`
	}
	decode(t, rec, &list)
	if len(list) != 3 || list[0].Email != "t1@lab.io" {
		t.Fatalf("unexpected teachers %+v", list)
	}

	// deleting a teacher releases the labs they hold
	expect(t, a.do(http.MethodPost, "/v1/labs/2/activate", a.teacher, ""), http.StatusOK)
	expect(t, a.do(http.MethodDelete, "/v1/admin/teachers/"+a.t1ID, a.admin, ""), http.StatusNoContent)
	lab, _ := a.store.Lab("2")
	if lab.IsActive {
		t.Fatalf("lab 2 still held by a deleted teacher")
	}
	expect(t, a.do(http.MethodDelete, "/v1/admin/teachers/"+a.t1ID, a.admin, ""), http.StatusNotFound)
}
