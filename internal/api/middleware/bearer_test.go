package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runBearer(t *testing.T, header string) (string, int) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured string
	mw := BearerToken()
	handler := mw(func(c echo.Context) error {
		captured = Token(c)
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return captured, rec.Code
}

func TestBearerToken_Extracts(t *testing.T) {
	token, code := runBearer(t, "Bearer abc.def.ghi")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if token != "abc.def.ghi" {
		t.Fatalf("unexpected token: %q", token)
	}
}

func TestBearerToken_CaseInsensitiveScheme(t *testing.T) {
	token, _ := runBearer(t, "bearer xyz")
	if token != "xyz" {
		t.Fatalf("unexpected token: %q", token)
	}
}

func TestBearerToken_MissingHeaderStillPasses(t *testing.T) {
	token, code := runBearer(t, "")
	if code != http.StatusOK {
		t.Fatalf("request without header must pass through, got %d", code)
	}
	if token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}
}

func TestBearerToken_WrongScheme(t *testing.T) {
	token, code := runBearer(t, "Basic dXNlcjpwdw==")
	if code != http.StatusOK {
		t.Fatalf("request with wrong scheme must pass through, got %d", code)
	}
	if token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}
}
