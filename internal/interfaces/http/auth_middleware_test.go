package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/mulphico/inventory-valuation/internal/interfaces/http"
	pkgjwt "github.com/mulphico/inventory-valuation/pkg/jwt"
)


const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "inventory-valuation-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New(fiber.Config{
		// Silenciar errores internos en los tests
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	// Ruta protegida: JWT + RBAC
	app.Get("/protected",
		apphttp.AuthMiddleware(mustVerifier()),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

func mustVerifier() *pkgjwt.Verifier {
	v, err := pkgjwt.NewVerifier(testJWTSecret, testIssuer, 0)
	if err != nil {
		panic(err)
	}
	return v
}

func testVerifier(t *testing.T) *pkgjwt.Verifier {
	t.Helper()
	v, err := pkgjwt.NewVerifier(testJWTSecret, testIssuer, 0)
	require.NoError(t, err)
	return v
}

// tokenForRole genera un JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ── RequireRole ──

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name     string
		allowed  []string
		header   func(t *testing.T) string
		status   int
		wantCode string
	}{
		{"admin en ruta admin", []string{"admin"}, bearer("admin"), http.StatusOK, ""},
		{"bodeguero en ruta admin o bodeguero", []string{"admin", "bodeguero"}, bearer("bodeguero"), http.StatusOK, ""},
		{"auditor en ruta admin", []string{"admin"}, bearer("auditor"), http.StatusForbidden, "FORBIDDEN"},
		{"bodeguero en ruta auditor", []string{"auditor"}, bearer("bodeguero"), http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", []string{"admin"}, bearer(""), http.StatusUnauthorized, "MISSING_ROLE"},
		{"sin header", []string{"admin"}, literal(""), http.StatusUnauthorized, "MISSING_TOKEN"},
		{"token malformado", []string{"admin"}, literal("Bearer token.invalido.aqui"), http.StatusUnauthorized, "INVALID_TOKEN"},
		{"esquema distinto", []string{"admin"}, literal("Basic abc"), http.StatusUnauthorized, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, buildTestApp(tc.allowed...), tc.header(t))
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			if tc.wantCode != "" {
				assert.Contains(t, string(body), tc.wantCode)
			}
			if tc.status == http.StatusOK {
				var got map[string]interface{}
				require.NoError(t, json.Unmarshal(body, &got))
				assert.Equal(t, true, got["ok"])
			}
		})
	}
}

func bearer(role string) func(t *testing.T) string {
	return func(t *testing.T) string {
		t.Helper()
		tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, role, testIssuer, testExpMin)
		require.NoError(t, err)
		return "Bearer " + tok
	}
}

func literal(h string) func(*testing.T) string {
	return func(*testing.T) string { return h }
}

// ── AuthMiddleware ──

func TestAuthMiddleware_ExtractaClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(mustVerifier()), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, "admin", body["role"])
}

func TestAuthMiddleware_EmisorDistinto_Retorna401(t *testing.T) {
	app := buildTestApp("admin")
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, "admin", "otro-emisor", testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
