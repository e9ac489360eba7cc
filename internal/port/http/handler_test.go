package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mahinrabby10101/farm-backend/internal/domain/entity"
	"github.com/mahinrabby10101/farm-backend/internal/platform/logger"
	"github.com/mahinrabby10101/farm-backend/internal/repository"
	"github.com/mahinrabby10101/farm-backend/internal/service"
)

type MockInterestService struct {
	mock.Mock
}

func (m *MockInterestService) SubmitInterest(ctx context.Context, input service.SubmitInterestInput) (*entity.Interest, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Interest), args.Error(1)
}

func (m *MockInterestService) UpdateInterestStatus(ctx context.Context, input service.UpdateInterestStatusInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListCrops(ctx context.Context, cropType string, limit int64) ([]entity.Crop, error) {
	args := m.Called(ctx, cropType, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Crop), args.Error(1)
}

func (m *MockCatalogService) GetCrop(ctx context.Context, cropID string) (*entity.Crop, error) {
	args := m.Called(ctx, cropID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Crop), args.Error(1)
}

func (m *MockCatalogService) CreateCrops(ctx context.Context, crops []entity.Crop) ([]string, error) {
	args := m.Called(ctx, crops)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCatalogService) ReplaceCrop(ctx context.Context, cropID string, params repository.ReplaceCropParams) error {
	args := m.Called(ctx, cropID, params)
	return args.Error(0)
}

func (m *MockCatalogService) MergeCrop(ctx context.Context, cropID string, fields map[string]interface{}) (int64, error) {
	args := m.Called(ctx, cropID, fields)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogService) DeleteCrop(ctx context.Context, cropID string) error {
	args := m.Called(ctx, cropID)
	return args.Error(0)
}

type MockQueryService struct {
	mock.Mock
}

func (m *MockQueryService) ListMyCrops(ctx context.Context, ownerEmail string) ([]entity.Crop, error) {
	args := m.Called(ctx, ownerEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Crop), args.Error(1)
}

func (m *MockQueryService) ListMyInterests(ctx context.Context, userEmail string) ([]entity.InterestProjection, error) {
	args := m.Called(ctx, userEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.InterestProjection), args.Error(1)
}

func newTestRouter(catalog *MockCatalogService, queries *MockQueryService, interests *MockInterestService) http.Handler {
	log := logger.NoOp()
	cropH := NewCropHandler(catalog, queries, log)
	interestH := NewInterestHandler(interests, log)
	return NewRouter(cropH, interestH, log, nil)
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(new(MockCatalogService), new(MockQueryService), new(MockInterestService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestSubmitInterest_Created(t *testing.T) {
	mockInterests := new(MockInterestService)
	cropID := primitive.NewObjectID()
	interest, _ := entity.NewInterest(cropID, "buyer@x.com", "Buyer", 2, "hello")

	mockInterests.On("SubmitInterest", mock.Anything, service.SubmitInterestInput{
		CropID:    cropID.Hex(),
		UserEmail: "buyer@x.com",
		UserName:  "Buyer",
		Quantity:  2,
		Message:   "hello",
	}).Return(interest, nil).Once()

	router := newTestRouter(new(MockCatalogService), new(MockQueryService), mockInterests)

	body := bytes.NewBufferString(`{"userEmail":"buyer@x.com","userName":"Buyer","quantity":2,"message":"hello"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/crops/"+cropID.Hex()+"/interests", body))

	assert.Equal(t, http.StatusCreated, rec.Code)

	var got entity.Interest
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, interest.ID, got.ID)
	assert.Equal(t, entity.InterestStatusPending, got.Status)
	mockInterests.AssertExpectations(t)
}

func TestSubmitInterest_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"duplicate maps to conflict", fmt.Errorf("%w: interest already sent for this crop", entity.ErrConflict), http.StatusConflict},
		{"owner maps to forbidden", fmt.Errorf("%w: owners cannot submit interest in their own listing", entity.ErrForbidden), http.StatusForbidden},
		{"missing crop maps to not found", fmt.Errorf("%w: crop", entity.ErrNotFound), http.StatusNotFound},
		{"bad quantity maps to bad request", fmt.Errorf("%w: quantity must be at least 1", entity.ErrInvalidInput), http.StatusBadRequest},
		{"storage failure maps to internal error", fmt.Errorf("%w: boom", entity.ErrRepository), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockInterests := new(MockInterestService)
			mockInterests.On("SubmitInterest", mock.Anything, mock.Anything).Return(nil, tc.serviceErr).Once()

			router := newTestRouter(new(MockCatalogService), new(MockQueryService), mockInterests)

			body := bytes.NewBufferString(`{"userEmail":"buyer@x.com","userName":"Buyer","quantity":1}`)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/crops/"+primitive.NewObjectID().Hex()+"/interests", body))

			assert.Equal(t, tc.wantStatus, rec.Code)

			var resp map[string]string
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
			mockInterests.AssertExpectations(t)
		})
	}
}

func TestSubmitInterest_MalformedBody(t *testing.T) {
	mockInterests := new(MockInterestService)
	router := newTestRouter(new(MockCatalogService), new(MockQueryService), mockInterests)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		"/crops/"+primitive.NewObjectID().Hex()+"/interests", bytes.NewBufferString("{not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockInterests.AssertNotCalled(t, "SubmitInterest", mock.Anything, mock.Anything)
}

func TestUpdateInterestStatus_Success(t *testing.T) {
	mockInterests := new(MockInterestService)
	cropID := primitive.NewObjectID()
	interestID := primitive.NewObjectID()

	mockInterests.On("UpdateInterestStatus", mock.Anything, service.UpdateInterestStatusInput{
		CropID:         cropID.Hex(),
		InterestID:     interestID.Hex(),
		Status:         "accepted",
		RequesterEmail: "owner@x.com",
	}).Return(nil).Once()

	router := newTestRouter(new(MockCatalogService), new(MockQueryService), mockInterests)

	body := bytes.NewBufferString(`{"status":"accepted","ownerEmail":"owner@x.com"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch,
		"/crops/"+cropID.Hex()+"/interests/"+interestID.Hex(), body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	mockInterests.AssertExpectations(t)
}

func TestUpdateInterestStatus_DecidedConflict(t *testing.T) {
	mockInterests := new(MockInterestService)
	mockInterests.On("UpdateInterestStatus", mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: interest is already decided", entity.ErrConflict)).Once()

	router := newTestRouter(new(MockCatalogService), new(MockQueryService), mockInterests)

	body := bytes.NewBufferString(`{"status":"rejected","ownerEmail":"owner@x.com"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch,
		"/crops/"+primitive.NewObjectID().Hex()+"/interests/"+primitive.NewObjectID().Hex(), body))

	assert.Equal(t, http.StatusConflict, rec.Code)
	mockInterests.AssertExpectations(t)
}

func TestListCrops_InvalidLimit(t *testing.T) {
	mockCatalog := new(MockCatalogService)
	router := newTestRouter(mockCatalog, new(MockQueryService), new(MockInterestService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/crops?limit=-5", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockCatalog.AssertNotCalled(t, "ListCrops", mock.Anything, mock.Anything, mock.Anything)
}

func TestListCrops_PassesFilters(t *testing.T) {
	mockCatalog := new(MockCatalogService)
	mockCatalog.On("ListCrops", mock.Anything, "fruit", int64(25)).
		Return([]entity.Crop{}, nil).Once()

	router := newTestRouter(mockCatalog, new(MockQueryService), new(MockInterestService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/crops?type=fruit&limit=25", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	mockCatalog.AssertExpectations(t)
}

func TestCreateCrops_SingleDocumentBody(t *testing.T) {
	mockCatalog := new(MockCatalogService)
	insertedID := primitive.NewObjectID().Hex()
	mockCatalog.On("CreateCrops", mock.Anything, mock.MatchedBy(func(crops []entity.Crop) bool {
		return len(crops) == 1 && crops[0].Name == "Wheat"
	})).Return([]string{insertedID}, nil).Once()

	router := newTestRouter(mockCatalog, new(MockQueryService), new(MockInterestService))

	body := bytes.NewBufferString(`{"name":"Wheat","type":"grain"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/crops", body))

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string][]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{insertedID}, resp["insertedIds"])
	mockCatalog.AssertExpectations(t)
}

func TestCreateCrops_ArrayBody(t *testing.T) {
	mockCatalog := new(MockCatalogService)
	mockCatalog.On("CreateCrops", mock.Anything, mock.MatchedBy(func(crops []entity.Crop) bool {
		return len(crops) == 2
	})).Return([]string{"a", "b"}, nil).Once()

	router := newTestRouter(mockCatalog, new(MockQueryService), new(MockInterestService))

	body := bytes.NewBufferString(`[{"name":"Wheat"},{"name":"Rice"}]`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/crops", body))

	assert.Equal(t, http.StatusCreated, rec.Code)
	mockCatalog.AssertExpectations(t)
}

func TestGetCrop_NotFound(t *testing.T) {
	mockCatalog := new(MockCatalogService)
	cropID := primitive.NewObjectID().Hex()
	mockCatalog.On("GetCrop", mock.Anything, cropID).
		Return(nil, fmt.Errorf("%w: crop %s", entity.ErrNotFound, cropID)).Once()

	router := newTestRouter(mockCatalog, new(MockQueryService), new(MockInterestService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/crops/"+cropID, nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	mockCatalog.AssertExpectations(t)
}

func TestMergeCrop_ReportsModifiedCount(t *testing.T) {
	mockCatalog := new(MockCatalogService)
	cropID := primitive.NewObjectID().Hex()
	mockCatalog.On("MergeCrop", mock.Anything, cropID, map[string]interface{}{
		"location": "Springfield",
	}).Return(int64(1), nil).Once()

	router := newTestRouter(mockCatalog, new(MockQueryService), new(MockInterestService))

	body := bytes.NewBufferString(`{"location":"Springfield"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/crops/"+cropID, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"modifiedCount":1}`, rec.Body.String())
	mockCatalog.AssertExpectations(t)
}

func TestListMyInterests_EmptyResult(t *testing.T) {
	mockQueries := new(MockQueryService)
	mockQueries.On("ListMyInterests", mock.Anything, "buyer@x.com").
		Return([]entity.InterestProjection(nil), nil).Once()

	router := newTestRouter(new(MockCatalogService), mockQueries, new(MockInterestService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/my-interests?email=buyer@x.com", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	mockQueries.AssertExpectations(t)
}

func TestListMyCrops_MissingEmail(t *testing.T) {
	mockQueries := new(MockQueryService)
	mockQueries.On("ListMyCrops", mock.Anything, "").
		Return(nil, fmt.Errorf("%w: email is required", entity.ErrInvalidInput)).Once()

	router := newTestRouter(new(MockCatalogService), mockQueries, new(MockInterestService))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/my-crops", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockQueries.AssertExpectations(t)
}
