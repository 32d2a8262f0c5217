package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// buildListerTestApp mounts a stub handler behind the real lister
// middleware so the gate can be exercised without a database.
func buildListerTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()

	verifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	verifierMiddleware := verifier.Verify(func() interface{} { return new(utils.AccessToken) })

	app.Post("/api/property", verifierMiddleware, utils.ListerOnlyMiddleware, func(ctx iris.Context) {
		ctx.JSON(iris.Map{"ok": true})
	})
	app.Post("/api/realtors/me", verifierMiddleware, utils.RealtorOnlyMiddleware, func(ctx iris.Context) {
		ctx.JSON(iris.Map{"ok": true})
	})
	if err := app.Build(); err != nil {
		panic(err)
	}
	return app
}

func signListerTestToken(role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: 7, Role: role})
	return string(token)
}

func TestListerOnlyMiddleware(t *testing.T) {
	app := buildListerTestApp()

	cases := []struct {
		role string
		want int
	}{
		{"buyer", http.StatusForbidden},
		{"owner", http.StatusOK},
		{"realtor", http.StatusOK},
		{"admin", http.StatusOK},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/property", nil)
		req.Header.Set("Authorization", "Bearer "+signListerTestToken(c.role))
		resp := httptest.NewRecorder()
		app.ServeHTTP(resp, req)
		if resp.Code != c.want {
			t.Errorf("role %s: expected %d, got %d", c.role, c.want, resp.Code)
		}
	}

	// No token at all
	req := httptest.NewRequest(http.MethodPost, "/api/property", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Errorf("expected non-200 without token, got %d", resp.Code)
	}
}

func TestRealtorOnlyMiddleware(t *testing.T) {
	app := buildListerTestApp()

	cases := []struct {
		role string
		want int
	}{
		{"buyer", http.StatusForbidden},
		{"owner", http.StatusForbidden},
		{"realtor", http.StatusOK},
		{"admin", http.StatusOK},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/realtors/me", nil)
		req.Header.Set("Authorization", "Bearer "+signListerTestToken(c.role))
		resp := httptest.NewRecorder()
		app.ServeHTTP(resp, req)
		if resp.Code != c.want {
			t.Errorf("role %s: expected %d, got %d", c.role, c.want, resp.Code)
		}
	}
}
