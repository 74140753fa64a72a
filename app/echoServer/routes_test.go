package echoServer

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"campuscloset/app/echoServer/controller/auth"
	"campuscloset/app/echoServer/controller/listing"
	"campuscloset/app/echoServer/controller/rental"
	"campuscloset/app/echoServer/validation"
	"campuscloset/model"
	identityrepo "campuscloset/repository/identity"
	authsvc "campuscloset/service/auth"
	listingsvc "campuscloset/service/listing"
	rentalsvc "campuscloset/service/rental"
	"campuscloset/util/apperr"
	jwtutil "campuscloset/util/jwt"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

// --- fakes ---

type fakeIDP struct{ calls int }

func (f *fakeIDP) SignUp(ctx context.Context, email, password, name string) (*identityrepo.User, error) {
	f.calls++
	return &identityrepo.User{ID: "u-1", Email: email, Name: name}, nil
}

func (f *fakeIDP) SignIn(ctx context.Context, email, password string) (*identityrepo.User, error) {
	f.calls++
	return &identityrepo.User{ID: "u-1", Email: email, Name: "Ada", EmailConfirm: true}, nil
}

func (f *fakeIDP) VerifySignupOTP(ctx context.Context, email, code string) (*identityrepo.User, error) {
	f.calls++
	return &identityrepo.User{ID: "u-1", Email: email}, nil
}

type fakeProfiles struct{}

func (fakeProfiles) Upsert(ctx context.Context, p *model.Profile) error   { return nil }
func (fakeProfiles) MarkVerified(ctx context.Context, email string) error { return nil }

type fakeListings struct {
	createFn func(ctx context.Context, email string, f listingsvc.Fields, img *listingsvc.Upload) (*model.Listing, error)
	calls    int
}

func (f *fakeListings) Create(ctx context.Context, email string, fl listingsvc.Fields, img *listingsvc.Upload) (*model.Listing, error) {
	f.calls++
	return f.createFn(ctx, email, fl, img)
}

func (f *fakeListings) Search(ctx context.Context, q string, s model.ListingSort) ([]model.Listing, error) {
	return []model.Listing{}, nil
}

func (f *fakeListings) Get(ctx context.Context, id int64) (*model.Listing, error) {
	return nil, apperr.New(apperr.ErrNotFound, "Listing not found")
}

type fakeRentals struct {
	payFn  func(ctx context.Context, req rentalsvc.PaymentReq) (*rentalsvc.Receipt, error)
	listFn func(ctx context.Context, email string) ([]model.RentalHistory, error)
}

func (f *fakeRentals) ProcessPayment(ctx context.Context, req rentalsvc.PaymentReq) (*rentalsvc.Receipt, error) {
	return f.payFn(ctx, req)
}

func (f *fakeRentals) ListRentals(ctx context.Context, email string) ([]model.RentalHistory, error) {
	return f.listFn(ctx, email)
}

// --- helpers ---

type env struct {
	e        *echo.Echo
	idp      *fakeIDP
	listings *fakeListings
	rentals  *fakeRentals
}

func newEnv() *env {
	log := slog.Default()
	v := validation.New().Engine()
	idp := &fakeIDP{}
	as := authsvc.New(idp, fakeProfiles{}, authsvc.Options{
		AllowedDomains: []string{"spelman.edu", "morehouse.edu"},
		JWTSecret:      secret,
	})
	ls := &fakeListings{}
	rs := &fakeRentals{}

	e := echo.New()
	RegisterMiddlewares(e, "*")
	Register(e, C{
		Auth:      &auth.Controller{Svc: as, V: v, Log: log},
		Listing:   &listing.Controller{Svc: ls, Log: log},
		Rental:    &rental.Controller{Svc: rs, V: v, Log: log},
		JWTSecret: secret,
	})
	return &env{e: e, idp: idp, listings: ls, rentals: rs}
}

func (en *env) do(req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	rec := httptest.NewRecorder()
	en.e.ServeHTTP(rec, req)
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func token(t *testing.T, email string) string {
	t.Helper()
	tok, err := jwtutil.Issue(secret, "u-ada", email, "Ada", 1)
	require.NoError(t, err)
	return "Bearer " + tok
}

func jsonReq(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func listingForm(t *testing.T, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"title":            "Blue Jeans",
		"size":             "M",
		"itemType":         "jeans",
		"condition":        "Good",
		"washInstructions": "Cold",
		"startDate":        "2024-06-01",
		"endDate":          "2024-06-10",
		"pricePerDay":      "5",
		"totalPrice":       "50",
	} {
		require.NoError(t, w.WriteField(k, v))
	}
	if withImage {
		fw, err := w.CreateFormFile("image", "jeans.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte("\x89PNG\r\n\x1a\nrest"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

// --- tests ---

func TestRegister_WrongDomain(t *testing.T) {
	en := newEnv()
	rec, body := en.do(jsonReq(http.MethodPost, "/register", `{"name":"Ada","email":"ada@gmail.com","password":"supersecret"}`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Email must end with @spelman.edu or @morehouse.edu.", body["message"])
	require.Zero(t, en.idp.calls)
}

func TestLogin_ReturnsToken(t *testing.T) {
	en := newEnv()
	rec, body := en.do(jsonReq(http.MethodPost, "/login", `{"email":"ada@spelman.edu","password":"pw"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])
	require.Equal(t, "Ada", body["name"])
	require.NotEmpty(t, body["token"])
	require.Equal(t, true, body["verified"])
}

func TestLogin_ValidationMessage(t *testing.T) {
	en := newEnv()
	rec, body := en.do(jsonReq(http.MethodPost, "/login", `{"email":"ada@spelman.edu"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "password is required", body["message"])
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	en := newEnv()
	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/rentals", nil),
		jsonReq(http.MethodPost, "/api/process-payment", `{}`),
		httptest.NewRequest(http.MethodPost, "/listings", nil),
	} {
		rec, body := en.do(req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, req.URL.Path)
		require.Equal(t, false, body["success"])
	}

	req := httptest.NewRequest(http.MethodGet, "/api/rentals", nil)
	req.Header.Set("user-id", "ada@spelman.edu")
	rec, _ := en.do(req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/rentals", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-jwt")
	rec, _ = en.do(req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutes_RejectBadSessions(t *testing.T) {
	en := newEnv()
	forged, err := jwtutil.Issue("other-secret", "u-ada", "ada@spelman.edu", "Ada", 1)
	require.NoError(t, err)
	noEmail, err := jwtutil.Issue(secret, "u-ada", "", "Ada", 1)
	require.NoError(t, err)
	expired, err := jwtutil.Issue(secret, "u-ada", "ada@spelman.edu", "Ada", -1)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"wrong secret": forged,
		"no email":     noEmail,
		"expired":      expired,
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/rentals", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
		rec, body := en.do(req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, name)
		require.Equal(t, false, body["success"], name)
	}
}

func TestRentals_UsesSessionEmail(t *testing.T) {
	en := newEnv()
	en.rentals.listFn = func(ctx context.Context, email string) ([]model.RentalHistory, error) {
		require.Equal(t, "ada@spelman.edu", email)
		return []model.RentalHistory{}, nil
	}
	req := httptest.NewRequest(http.MethodGet, "/api/rentals", nil)
	req.Header.Set(echo.HeaderAuthorization, token(t, "ada@spelman.edu"))

	rec, body := en.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []any{}, body["rentals"])
}

func TestCreateListing_NoImage(t *testing.T) {
	en := newEnv()
	buf, ct := listingForm(t, false)
	req := httptest.NewRequest(http.MethodPost, "/listings", buf)
	req.Header.Set(echo.HeaderContentType, ct)
	req.Header.Set(echo.HeaderAuthorization, token(t, "ada@spelman.edu"))

	rec, body := en.do(req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Image is required", body["message"])
	require.Zero(t, en.listings.calls)
}

func TestCreateListing_WithImage(t *testing.T) {
	en := newEnv()
	en.listings.createFn = func(ctx context.Context, email string, f listingsvc.Fields, img *listingsvc.Upload) (*model.Listing, error) {
		require.Equal(t, "ada@spelman.edu", email)
		require.Equal(t, "Blue Jeans", f.Title)
		require.Equal(t, 5.0, f.PricePerDay)
		require.Equal(t, "jeans.png", img.Name)
		require.True(t, strings.HasPrefix(img.MimeType, "image/png"))
		return &model.Listing{ID: 1, Title: f.Title}, nil
	}
	buf, ct := listingForm(t, true)
	req := httptest.NewRequest(http.MethodPost, "/listings", buf)
	req.Header.Set(echo.HeaderContentType, ct)
	req.Header.Set(echo.HeaderAuthorization, token(t, "ada@spelman.edu"))

	rec, body := en.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "Listing posted successfully", body["message"])
	require.Equal(t, 1, en.listings.calls)
}

func TestProcessPayment_ErrorMapping(t *testing.T) {
	en := newEnv()
	var got rentalsvc.PaymentReq
	en.rentals.payFn = func(ctx context.Context, req rentalsvc.PaymentReq) (*rentalsvc.Receipt, error) {
		got = req
		return nil, apperr.Wrap(apperr.ErrPayment, rentalsvc.MsgPaymentFailed, context.DeadlineExceeded)
	}
	req := jsonReq(http.MethodPost, "/api/process-payment",
		`{"sourceId":"cnon:ok","amount":15,"listingId":1,"startDate":"2024-06-01","endDate":"2024-06-03","userEmail":"ada@spelman.edu","idempotencyKey":"k-1"}`)
	req.Header.Set(echo.HeaderAuthorization, token(t, "ada@spelman.edu"))

	rec, body := en.do(req)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Payment processing failed", body["message"])
	require.Equal(t, "ada@spelman.edu", got.SessionEmail)
	require.Equal(t, "k-1", got.IdempotencyKey)
	require.Equal(t, 2, got.EndDate.Day()-got.StartDate.Day())
}

func TestProcessPayment_MissingField(t *testing.T) {
	en := newEnv()
	req := jsonReq(http.MethodPost, "/api/process-payment", `{"amount":15,"listingId":1}`)
	req.Header.Set(echo.HeaderAuthorization, token(t, "ada@spelman.edu"))

	rec, body := en.do(req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "sourceId is required", body["message"])
}

func TestUnknownRoute_JSONEnvelope(t *testing.T) {
	en := newEnv()
	rec, body := en.do(httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, false, body["success"])
}

func TestListingDetail_NotFound(t *testing.T) {
	en := newEnv()
	rec, body := en.do(httptest.NewRequest(http.MethodGet, "/listings/9", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Listing not found", body["message"])

	rec, _ = en.do(httptest.NewRequest(http.MethodGet, "/listings/abc", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
