package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/dealerhub/dealership-backend/apperr"
	"github.com/dealerhub/dealership-backend/auth"
	"github.com/dealerhub/dealership-backend/handlers"
	"github.com/dealerhub/dealership-backend/models"
)

type mockCarRepo struct {
	mock.Mock
}

func (m *mockCarRepo) Find(ctx context.Context, filter bson.M) ([]models.Car, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Car), args.Error(1)
}

func (m *mockCarRepo) FindPage(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Car, int64, error) {
	args := m.Called(ctx, filter, skip, limit)
	return args.Get(0).([]models.Car), args.Get(1).(int64), args.Error(2)
}

func (m *mockCarRepo) MakesModels(ctx context.Context) ([]models.MakeModels, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.MakeModels), args.Error(1)
}

type mockDealerRepo struct {
	mock.Mock
}

func (m *mockDealerRepo) All(ctx context.Context) ([]models.Dealer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Dealer), args.Error(1)
}

func (m *mockDealerRepo) ByState(ctx context.Context, state string) ([]models.Dealer, error) {
	args := m.Called(ctx, state)
	return args.Get(0).([]models.Dealer), args.Error(1)
}

func (m *mockDealerRepo) ByID(ctx context.Context, id int) (*models.Dealer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dealer), args.Error(1)
}

func (m *mockDealerRepo) Update(ctx context.Context, id int, changes map[string]any) (*models.Dealer, error) {
	args := m.Called(ctx, id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dealer), args.Error(1)
}

func (m *mockDealerRepo) Create(ctx context.Context, dealer models.Dealer) (*models.Dealer, error) {
	args := m.Called(ctx, dealer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dealer), args.Error(1)
}

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) All(ctx context.Context) ([]models.Review, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *mockReviewRepo) ByDealer(ctx context.Context, dealerID int) ([]models.Review, error) {
	args := m.Called(ctx, dealerID)
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *mockReviewRepo) ByID(ctx context.Context, id int) (*models.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *mockReviewRepo) Insert(ctx context.Context, review models.Review) (*models.Review, error) {
	args := m.Called(ctx, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *mockReviewRepo) Update(ctx context.Context, id int, changes map[string]any) (*models.Review, error) {
	args := m.Called(ctx, id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) ByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func logrusDiscard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fixture struct {
	cars    *mockCarRepo
	dealers *mockDealerRepo
	reviews *mockReviewRepo
	auth    *auth.Service
	router  *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		cars:    new(mockCarRepo),
		dealers: new(mockDealerRepo),
		reviews: new(mockReviewRepo),
	}
	users := new(mockUserRepo)
	users.On("Create", mock.Anything, mock.AnythingOfType("models.User")).
		Return(&models.User{Username: "bpestrong0"}, nil).Maybe()

	svc, err := auth.NewService(users, "test-secret", time.Hour)
	require.NoError(t, err)
	f.auth = svc

	log := logrusDiscard()
	h := handlers.New(f.cars, f.dealers, f.reviews, svc, nil, log)
	f.router = gin.New()
	h.RegisterRoutes(f.router)
	return f
}

// tokenFor issues a token carrying the given username.
func (f *fixture) tokenFor(t *testing.T, username string) string {
	t.Helper()
	users := new(mockUserRepo)
	users.On("Create", mock.Anything, mock.Anything).
		Return(&models.User{Username: username}, nil).Once()
	svc, err := auth.NewService(users, "test-secret", time.Hour)
	require.NoError(t, err)
	_, token, err := svc.Register(context.Background(), models.RegisterPayload{
		Username: username,
		Password: "pw",
	})
	require.NoError(t, err)
	return token
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func intp(v int) *int { return &v }

func TestCarsByMaxMileageUsesBucketPredicate(t *testing.T) {
	f := newFixture(t)

	wantFilter := bson.M{
		"dealer_id": 5,
		"mileage":   bson.M{"$gt": 50000, "$lte": 100000},
	}
	matching := []models.Car{{
		DealerID: intp(5), Make: "Audi", Model: "Q5", BodyType: "SUV",
		Year: intp(2018), Mileage: intp(90000), Price: intp(30500),
	}}
	f.cars.On("Find", mock.Anything, wantFilter).Return(matching, nil).Once()

	w := f.do(httptest.NewRequest(http.MethodGet, "/carsbymaxmileage/5/100000", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var cars []models.Car
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cars))
	require.Len(t, cars, 1)
	assert.Equal(t, 90000, *cars[0].Mileage)
	f.cars.AssertExpectations(t)
}

func TestCarsByPriceUsesBucketPredicate(t *testing.T) {
	f := newFixture(t)

	wantFilter := bson.M{
		"dealer_id": 3,
		"price":     bson.M{"$gt": 20000, "$lte": 30000},
	}
	f.cars.On("Find", mock.Anything, wantFilter).Return([]models.Car{}, nil).Once()

	w := f.do(httptest.NewRequest(http.MethodGet, "/carsbyprice/3/30000", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	f.cars.AssertExpectations(t)
}

func TestCarsByDealerRejectsNonNumericID(t *testing.T) {
	f := newFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/cars/abc", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.cars.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
}

func TestCarsByYearUsesMinYearPredicate(t *testing.T) {
	f := newFixture(t)

	wantFilter := bson.M{
		"dealer_id": 2,
		"year":      bson.M{"$gte": 2015},
	}
	f.cars.On("Find", mock.Anything, wantFilter).Return([]models.Car{}, nil).Once()

	w := f.do(httptest.NewRequest(http.MethodGet, "/carsbyyear/2/2015", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	f.cars.AssertExpectations(t)
}

func TestInventoryPaginationMetadata(t *testing.T) {
	f := newFixture(t)

	f.cars.On("FindPage", mock.Anything, bson.M{}, int64(20), int64(10)).
		Return([]models.Car{}, int64(95), nil).Once()

	w := f.do(httptest.NewRequest(http.MethodGet, "/inventory/?page=3&limit=10", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		TotalCars   int64 `json:"totalCars"`
		TotalPages  int   `json:"totalPages"`
		CurrentPage int   `json:"currentPage"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(95), body.TotalCars)
	assert.Equal(t, 10, body.TotalPages)
	assert.Equal(t, 3, body.CurrentPage)
	f.cars.AssertExpectations(t)
}

func TestInventoryRangeAppliedOnlyWithBothBounds(t *testing.T) {
	f := newFixture(t)

	// mileageMin alone must not produce a mileage predicate.
	f.cars.On("FindPage", mock.Anything, bson.M{}, int64(0), int64(10)).
		Return([]models.Car{}, int64(0), nil).Once()

	w := f.do(httptest.NewRequest(http.MethodGet, "/inventory/?mileageMin=1000", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	f.cars.AssertExpectations(t)
}

func TestInventoryCombinedFilters(t *testing.T) {
	f := newFixture(t)

	wantFilter := bson.M{
		"make":    "Toyota",
		"year":    bson.M{"$gte": 2018},
		"mileage": bson.M{"$gte": 0, "$lte": 60000},
		"price":   bson.M{"$gte": 15000, "$lte": 25000},
	}
	f.cars.On("FindPage", mock.Anything, wantFilter, int64(0), int64(10)).
		Return([]models.Car{}, int64(0), nil).Once()

	w := f.do(httptest.NewRequest(http.MethodGet,
		"/inventory/?make=Toyota&year=2018&mileageMin=0&mileageMax=60000&priceMin=15000&priceMax=25000", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	f.cars.AssertExpectations(t)
}

func TestInventoryRejectsNonNumericQuery(t *testing.T) {
	f := newFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/inventory/?year=recent", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.cars.AssertNotCalled(t, "FindPage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMakesModels(t *testing.T) {
	f := newFixture(t)

	f.cars.On("MakesModels", mock.Anything).Return([]models.MakeModels{
		{Make: "Audi", Models: []string{"A4", "Q5"}},
		{Make: "Toyota", Models: []string{"Camry", "Corolla"}},
	}, nil).Once()

	w := f.do(httptest.NewRequest(http.MethodGet, "/makes_models/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var out []models.MakeModels
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, []string{"A4", "Q5"}, out[0].Models)
}

func TestFetchDealerNotFound(t *testing.T) {
	f := newFixture(t)

	f.dealers.On("ByID", mock.Anything, 99).Return(nil, apperr.NotFound("dealer", 99)).Once()

	w := f.do(httptest.NewRequest(http.MethodGet, "/fetchDealer/99", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateDealerPartial(t *testing.T) {
	f := newFixture(t)

	updated := &models.Dealer{ID: 2, City: "Austin", State: "Texas", FullName: "Temp Car Dealership"}
	f.dealers.On("Update", mock.Anything, 2, map[string]any{"city": "Austin"}).
		Return(updated, nil).Once()

	req := httptest.NewRequest(http.MethodPut, "/update_dealer/2",
		jsonBody(t, map[string]any{"city": "Austin"}))
	req.Header.Set("Content-Type", "application/json")
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	f.dealers.AssertExpectations(t)
}

func TestNewDealerMissingFieldReturns400(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/new_dealer/",
		jsonBody(t, map[string]any{"full_name": "Incomplete Motors"}))
	req.Header.Set("Content-Type", "application/json")
	w := f.do(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.dealers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestNewDealerAssignsNextID(t *testing.T) {
	f := newFixture(t)

	created := &models.Dealer{ID: 6, City: "Boise", State: "Idaho", Address: "1 Elm St",
		Zip: "83701", Lat: "43.6150", Long: "-116.2023", FullName: "Gem State Autos"}
	f.dealers.On("Create", mock.Anything, mock.AnythingOfType("models.Dealer")).
		Return(created, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/new_dealer/", jsonBody(t, map[string]any{
		"full_name": "Gem State Autos",
		"address":   "1 Elm St",
		"city":      "Boise",
		"state":     "Idaho",
		"zip":       "83701",
		"lat":       "43.6150",
		"long":      "-116.2023",
	}))
	req.Header.Set("Content-Type", "application/json")
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	var dealer models.Dealer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dealer))
	assert.Equal(t, 6, dealer.ID)
}

func TestInsertReviewRequiresAuth(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/insert_review",
		jsonBody(t, map[string]any{"review": "no token"}))
	req.Header.Set("Content-Type", "application/json")
	w := f.do(req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	f.reviews.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestInsertReviewStampsAuthenticatedUser(t *testing.T) {
	f := newFixture(t)
	token := f.tokenFor(t, "bpestrong0")

	stored := &models.Review{ID: 5, Username: "bpestrong0", Name: "Berton Pestrong",
		Dealership: 1, Review: "Solid follow-up service."}
	f.reviews.On("Insert", mock.Anything, mock.MatchedBy(func(r models.Review) bool {
		return r.Username == "bpestrong0" && r.ID == 0
	})).Return(stored, nil).Once()

	purchase := true
	req := httptest.NewRequest(http.MethodPost, "/insert_review", jsonBody(t, map[string]any{
		"name":          "Berton Pestrong",
		"dealership":    1,
		"review":        "Solid follow-up service.",
		"purchase":      purchase,
		"purchase_date": "2025-03-01",
		"car_make":      "Toyota",
		"car_model":     "Corolla",
		"car_year":      2020,
	}))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	var review models.Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &review))
	assert.Equal(t, 5, review.ID)
	f.reviews.AssertExpectations(t)
}

func TestInsertReviewValidationMap(t *testing.T) {
	f := newFixture(t)
	token := f.tokenFor(t, "bpestrong0")

	req := httptest.NewRequest(http.MethodPost, "/insert_review", jsonBody(t, map[string]any{
		"name": "Berton Pestrong",
	}))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := f.do(req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "missing", body.Errors["review"])
	assert.Equal(t, "missing", body.Errors["purchase"])
	assert.NotContains(t, body.Errors, "name")
	f.reviews.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestInsertReviewWrongTypedFieldReturnsTypeViolation(t *testing.T) {
	f := newFixture(t)
	token := f.tokenFor(t, "bpestrong0")

	req := httptest.NewRequest(http.MethodPost, "/insert_review",
		bytes.NewReader([]byte(`{"car_year":"2020"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := f.do(req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"car_year": "type"}, body.Errors)
	f.reviews.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestEditReviewForbiddenForNonAuthor(t *testing.T) {
	f := newFixture(t)
	token := f.tokenFor(t, "mallory")

	stored := &models.Review{ID: 3, Username: "sdermott2", Review: "Browsed the lot."}
	f.reviews.On("ByID", mock.Anything, 3).Return(stored, nil).Once()

	req := httptest.NewRequest(http.MethodPut, "/edit_review/3",
		jsonBody(t, map[string]any{"review": "hijacked"}))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := f.do(req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	f.reviews.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestEditReviewAuthorSucceeds(t *testing.T) {
	f := newFixture(t)
	token := f.tokenFor(t, "sdermott2")

	stored := &models.Review{ID: 3, Username: "sdermott2", Review: "Browsed the lot."}
	updated := &models.Review{ID: 3, Username: "sdermott2", Review: "Came back and bought it."}
	f.reviews.On("ByID", mock.Anything, 3).Return(stored, nil).Once()
	f.reviews.On("Update", mock.Anything, 3, map[string]any{"review": "Came back and bought it."}).
		Return(updated, nil).Once()

	req := httptest.NewRequest(http.MethodPut, "/edit_review/3",
		jsonBody(t, map[string]any{"review": "Came back and bought it."}))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	var review models.Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &review))
	assert.Equal(t, "Came back and bought it.", review.Review)
	f.reviews.AssertExpectations(t)
}

func TestEditReviewMissingReturns404(t *testing.T) {
	f := newFixture(t)
	token := f.tokenFor(t, "sdermott2")

	f.reviews.On("ByID", mock.Anything, 42).Return(nil, apperr.NotFound("review", 42)).Once()

	req := httptest.NewRequest(http.MethodPut, "/edit_review/42",
		jsonBody(t, map[string]any{"review": "nothing here"}))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := f.do(req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogoutClearsUsername(t *testing.T) {
	f := newFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/logout", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		UserName string `json:"userName"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.UserName)
}

func TestStoreErrorReturnsGeneric500(t *testing.T) {
	f := newFixture(t)

	f.reviews.On("All", mock.Anything).
		Return([]models.Review{}, apperr.Store("find reviews", assert.AnError)).Once()

	w := f.do(httptest.NewRequest(http.MethodGet, "/fetchReviews", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}
