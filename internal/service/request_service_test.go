package service

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fieldworks/parts-order-api/internal/dto"
	"github.com/fieldworks/parts-order-api/internal/models"
	appErrors "github.com/fieldworks/parts-order-api/pkg/errors"
)

type fakeRequestStore struct {
	requests  []models.Request
	logs      []models.LogEntry
	listErr   error
	createErr error
}

func (f *fakeRequestStore) ListRequests(filter models.RequestFilter) ([]models.Request, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Request
	for _, req := range f.requests {
		if filter.RequesterID != "" && strings.TrimSpace(req.RequesterID) != strings.TrimSpace(filter.RequesterID) {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.AssetNo != "" && strings.TrimSpace(req.AssetNo) != strings.TrimSpace(filter.AssetNo) {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

func (f *fakeRequestStore) GetRequestByNo(requestNo string) (*models.Request, error) {
	for i := range f.requests {
		if f.requests[i].RequestNo == requestNo {
			copied := f.requests[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeRequestStore) CreateRequest(req models.Request) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.requests = append(f.requests, req)
	return nil
}

func (f *fakeRequestStore) UpdateRequest(requestNo string, upd models.RequestUpdate) (bool, error) {
	for i := range f.requests {
		if f.requests[i].RequestNo != requestNo {
			continue
		}
		req := &f.requests[i]
		if upd.Status != nil {
			req.Status = *upd.Status
		}
		if upd.Handler != nil {
			req.Handler = *upd.Handler
		}
		if upd.HandlerRemarks != nil {
			req.HandlerRemarks = *upd.HandlerRemarks
		}
		if upd.OrderDate != nil {
			req.OrderDate = *upd.OrderDate
		}
		if upd.ExpectedDeliveryDate != nil {
			req.ExpectedDeliveryDate = *upd.ExpectedDeliveryDate
		}
		if upd.ReceiptDate != nil {
			req.ReceiptDate = *upd.ReceiptDate
		}
		if upd.LastModified != nil {
			req.LastModified = *upd.LastModified
		}
		if upd.LastModifiedBy != nil {
			req.LastModifiedBy = *upd.LastModifiedBy
		}
		return true, nil
	}
	return false, nil
}

func (f *fakeRequestStore) AppendLog(entry models.LogEntry) error {
	f.logs = append(f.logs, entry)
	return nil
}

type fakePhotoStore struct {
	saved   int
	lastReq string
	saveErr error
}

func (f *fakePhotoStore) Save(requestNo string, data []byte, mimeType string) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.saved++
	f.lastReq = requestNo
	return requestNo + "/" + requestNo + "_photo.jpg", nil
}

func testClaims(userID string, role models.UserRole) *models.JWTClaims {
	return &models.JWTClaims{
		UserID:       userID,
		Role:         role,
		Name:         "홍길동",
		Team:         "서울1팀",
		EmployeeCode: "E100",
		Region:       "서울",
	}
}

func fixedClock(value string) func() time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", value)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func testPhoto() string {
	return base64.StdEncoding.EncodeToString([]byte("fake-jpeg-bytes"))
}

func newTestRequestService(store *fakeRequestStore, photos *fakePhotoStore) *RequestService {
	svc := NewRequestService(store, photos, zap.NewNop(), RequestServiceConfig{APIPrefix: "/api/v1"})
	svc.now = fixedClock("2026-08-30 10:00:00")
	return svc
}

func TestCreateRequestAssignsSequentialNumber(t *testing.T) {
	store := &fakeRequestStore{requests: []models.Request{
		{RequestNo: "2608300007", RequesterID: "other@corp.com", AssetNo: "A-1", Status: models.StatusFinished},
		{RequestNo: "2608290003", RequesterID: "other@corp.com", AssetNo: "A-2", Status: models.StatusFinished},
	}}
	photos := &fakePhotoStore{}
	svc := newTestRequestService(store, photos)

	res, err := svc.CreateRequest(dto.CreateRequestInput{
		ItemName:    "토너",
		Quantity:    2,
		AssetNo:     "AS-9001",
		PhotoBase64: testPhoto(),
	}, testClaims("user@corp.com", models.RoleRequester))
	require.NoError(t, err)
	assert.Equal(t, "2608300008", res.RequestNo)
	assert.False(t, res.Duplicate)
	assert.Equal(t, 1, photos.saved)

	created := store.requests[len(store.requests)-1]
	assert.Equal(t, models.StatusRequested, created.Status)
	assert.Equal(t, "user@corp.com", created.RequesterID)
	assert.Equal(t, "2026-08-30 10:00:00", created.RequestDate)
	assert.Contains(t, created.PhotoURL, "/api/v1/attachments/2608300008/")
	require.Len(t, store.logs, 1)
	assert.Equal(t, "신청 생성", store.logs[0].Action)
}

func TestCreateRequestStartsAtOne(t *testing.T) {
	store := &fakeRequestStore{}
	svc := newTestRequestService(store, &fakePhotoStore{})

	res, err := svc.CreateRequest(dto.CreateRequestInput{
		ItemName:    "토너",
		Quantity:    1,
		AssetNo:     "AS-1",
		PhotoBase64: testPhoto(),
	}, testClaims("user@corp.com", models.RoleRequester))
	require.NoError(t, err)
	assert.Equal(t, "2608300001", res.RequestNo)
}

func TestCreateRequestDetectsDuplicate(t *testing.T) {
	store := &fakeRequestStore{requests: []models.Request{
		{RequestNo: "2608300001", RequesterID: "user@corp.com", AssetNo: "AS-9001", Status: models.StatusRequested},
	}}
	photos := &fakePhotoStore{}
	svc := newTestRequestService(store, photos)

	res, err := svc.CreateRequest(dto.CreateRequestInput{
		ItemName:    "토너",
		Quantity:    1,
		AssetNo:     "AS-9001",
		PhotoBase64: testPhoto(),
	}, testClaims("user@corp.com", models.RoleRequester))
	require.NoError(t, err)
	assert.True(t, res.Duplicate)
	assert.Equal(t, "2608300001", res.DuplicateRequestNo)
	assert.Equal(t, 0, photos.saved)
	assert.Len(t, store.requests, 1)
}

func TestCreateRequestAllowsNewWhenPriorResolved(t *testing.T) {
	store := &fakeRequestStore{requests: []models.Request{
		{RequestNo: "2608290001", RequesterID: "user@corp.com", AssetNo: "AS-9001", Status: models.StatusCancelled},
	}}
	svc := newTestRequestService(store, &fakePhotoStore{})

	res, err := svc.CreateRequest(dto.CreateRequestInput{
		ItemName:    "토너",
		Quantity:    1,
		AssetNo:     "AS-9001",
		PhotoBase64: testPhoto(),
	}, testClaims("user@corp.com", models.RoleRequester))
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
}

func TestCreateRequestValidation(t *testing.T) {
	svc := newTestRequestService(&fakeRequestStore{}, &fakePhotoStore{})
	actor := testClaims("user@corp.com", models.RoleRequester)

	cases := []struct {
		name  string
		input dto.CreateRequestInput
	}{
		{"blank item", dto.CreateRequestInput{ItemName: "  ", Quantity: 1, AssetNo: "A", PhotoBase64: testPhoto()}},
		{"zero quantity", dto.CreateRequestInput{ItemName: "토너", Quantity: 0, AssetNo: "A", PhotoBase64: testPhoto()}},
		{"missing asset", dto.CreateRequestInput{ItemName: "토너", Quantity: 1, PhotoBase64: testPhoto()}},
		{"missing photo", dto.CreateRequestInput{ItemName: "토너", Quantity: 1, AssetNo: "A"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateRequest(tc.input, actor)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestCreateRequestAcceptsDataURL(t *testing.T) {
	store := &fakeRequestStore{}
	svc := newTestRequestService(store, &fakePhotoStore{})

	_, err := svc.CreateRequest(dto.CreateRequestInput{
		ItemName:    "토너",
		Quantity:    1,
		AssetNo:     "A",
		PhotoBase64: "data:image/png;base64," + testPhoto(),
	}, testClaims("user@corp.com", models.RoleRequester))
	require.NoError(t, err)
}

func TestUpdateStatusStampsOrderDate(t *testing.T) {
	store := &fakeRequestStore{requests: []models.Request{
		{RequestNo: "2608300001", RequesterID: "user@corp.com", Status: models.StatusRequested},
	}}
	svc := newTestRequestService(store, &fakePhotoStore{})

	err := svc.UpdateStatus("2608300001", dto.UpdateStatusInput{Status: models.StatusOrdering}, testClaims("admin@corp.com", models.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, models.StatusOrdering, store.requests[0].Status)
	assert.Equal(t, "2026-08-30 10:00:00", store.requests[0].OrderDate)
	require.Len(t, store.logs, 1)
	assert.Contains(t, store.logs[0].Action, "상태 변경")
}

func TestUpdateStatusKeepsExistingOrderDate(t *testing.T) {
	store := &fakeRequestStore{requests: []models.Request{
		{RequestNo: "2608300001", RequesterID: "user@corp.com", Status: models.StatusRequested, OrderDate: "2026-08-01 09:00:00"},
	}}
	svc := newTestRequestService(store, &fakePhotoStore{})

	err := svc.UpdateStatus("2608300001", dto.UpdateStatusInput{Status: models.StatusOrdering}, testClaims("admin@corp.com", models.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, "2026-08-01 09:00:00", store.requests[0].OrderDate)
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	store := &fakeRequestStore{requests: []models.Request{
		{RequestNo: "2608300001", RequesterID: "user@corp.com", Status: models.StatusFinished},
	}}
	svc := newTestRequestService(store, &fakePhotoStore{})

	err := svc.UpdateStatus("2608300001", dto.UpdateStatusInput{Status: models.StatusOrdering}, testClaims("admin@corp.com", models.RoleAdmin))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
}

func TestUpdateStatusUnknownRequest(t *testing.T) {
	svc := newTestRequestService(&fakeRequestStore{}, &fakePhotoStore{})

	err := svc.UpdateStatus("9999999999", dto.UpdateStatusInput{Status: models.StatusOrdering}, testClaims("admin@corp.com", models.RoleAdmin))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUpdateStatusConfirmedNeedsDeliveryDate(t *testing.T) {
	store := &fakeRequestStore{requests: []models.Request{
		{RequestNo: "2608300001", RequesterID: "user@corp.com", Status: models.StatusOrdering},
	}}
	svc := newTestRequestService(store, &fakePhotoStore{})
	admin := testClaims("admin@corp.com", models.RoleAdmin)

	err := svc.UpdateStatus("2608300001", dto.UpdateStatusInput{Status: models.StatusCompletedConfirmed}, admin)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	date := "2026-09-05"
	err = svc.UpdateStatus("2608300001", dto.UpdateStatusInput{Status: models.StatusCompletedConfirmed, ExpectedDeliveryDate: &date}, admin)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-05", store.requests[0].ExpectedDeliveryDate)
}

func TestUpdateStatusPendingClearsDeliveryDate(t *testing.T) {
	store := &fakeRequestStore{requests: []models.Request{
		{RequestNo: "2608300001", RequesterID: "user@corp.com", Status: models.StatusOrdering, ExpectedDeliveryDate: "2026-09-05"},
	}}
	svc := newTestRequestService(store, &fakePhotoStore{})

	err := svc.UpdateStatus("2608300001", dto.UpdateStatusInput{Status: models.StatusCompletedPending}, testClaims("admin@corp.com", models.RoleAdmin))
	require.NoError(t, err)
	assert.Empty(t, store.requests[0].ExpectedDeliveryDate)
}

func TestUpdateStatusFinishedStampsReceiptDate(t *testing.T) {
	store := &fakeRequestStore{requests: []models.Request{
		{RequestNo: "2608300001", RequesterID: "user@corp.com", Status: models.StatusCompletedConfirmed},
	}}
	svc := newTestRequestService(store, &fakePhotoStore{})

	err := svc.UpdateStatus("2608300001", dto.UpdateStatusInput{Status: models.StatusFinished}, testClaims("user@corp.com", models.RoleRequester))
	require.NoError(t, err)
	assert.Equal(t, "2026-08-30 10:00:00", store.requests[0].ReceiptDate)
}

func TestRequesterCannotTouchOthersRequests(t *testing.T) {
	store := &fakeRequestStore{requests: []models.Request{
		{RequestNo: "2608300001", RequesterID: "owner@corp.com", Status: models.StatusRequested},
	}}
	svc := newTestRequestService(store, &fakePhotoStore{})

	err := svc.UpdateStatus("2608300001", dto.UpdateStatusInput{Status: models.StatusCancelled}, testClaims("intruder@corp.com", models.RoleRequester))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestRequesterCannotAdvanceWorkflow(t *testing.T) {
	store := &fakeRequestStore{requests: []models.Request{
		{RequestNo: "2608300001", RequesterID: "user@corp.com", Status: models.StatusRequested},
	}}
	svc := newTestRequestService(store, &fakePhotoStore{})

	err := svc.UpdateStatus("2608300001", dto.UpdateStatusInput{Status: models.StatusOrdering}, testClaims("user@corp.com", models.RoleRequester))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestRequesterCanCancelOwnRequest(t *testing.T) {
	store := &fakeRequestStore{requests: []models.Request{
		{RequestNo: "2608300001", RequesterID: "user@corp.com", Status: models.StatusRequested},
	}}
	svc := newTestRequestService(store, &fakePhotoStore{})

	err := svc.UpdateStatus("2608300001", dto.UpdateStatusInput{Status: models.StatusCancelled}, testClaims("user@corp.com", models.RoleRequester))
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, store.requests[0].Status)
}

func TestGetRequestEnforcesOwnership(t *testing.T) {
	store := &fakeRequestStore{requests: []models.Request{
		{RequestNo: "2608300001", RequesterID: "owner@corp.com", Status: models.StatusRequested},
	}}
	svc := newTestRequestService(store, &fakePhotoStore{})

	_, err := svc.GetRequest("2608300001", testClaims("intruder@corp.com", models.RoleRequester))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	req, err := svc.GetRequest("2608300001", testClaims("admin@corp.com", models.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, "2608300001", req.RequestNo)
}

func TestGetMyRequestsAffordances(t *testing.T) {
	store := &fakeRequestStore{requests: []models.Request{
		{RequestNo: "1", RequesterID: "user@corp.com", Status: models.StatusRequested},
		{RequestNo: "2", RequesterID: "user@corp.com", Status: models.StatusCompletedConfirmed},
		{RequestNo: "3", RequesterID: "user@corp.com", Status: models.StatusFinished},
	}}
	svc := newTestRequestService(store, &fakePhotoStore{})

	list, err := svc.GetMyRequests("user@corp.com")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.True(t, list[0].CanCancel)
	assert.False(t, list[0].CanConfirmReceipt)
	assert.True(t, list[1].CanConfirmReceipt)
	assert.False(t, list[2].CanCancel)
	assert.False(t, list[2].CanConfirmReceipt)
}

func TestDashboardScopesToRequester(t *testing.T) {
	store := &fakeRequestStore{requests: []models.Request{
		{RequestNo: "1", RequesterID: "user@corp.com", RequestDate: "2026-08-15 09:00:00", Status: models.StatusRequested},
		{RequestNo: "2", RequesterID: "other@corp.com", RequestDate: "2026-08-16 09:00:00", Status: models.StatusRequested},
	}}
	svc := newTestRequestService(store, &fakePhotoStore{})

	data, err := svc.GetDashboardData(testClaims("user@corp.com", models.RoleRequester), "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, data.Stats.Total)

	data, err = svc.GetDashboardData(testClaims("admin@corp.com", models.RoleAdmin), "", "")
	require.NoError(t, err)
	assert.Equal(t, 2, data.Stats.Total)
}

func TestDashboardFlagsUrgentAndDelayed(t *testing.T) {
	store := &fakeRequestStore{requests: []models.Request{
		// waiting two days, past the urgent window
		{RequestNo: "1", RequesterID: "u", RequestDate: "2026-08-28 09:00:00", Status: models.StatusRequested},
		// submitted today, not urgent
		{RequestNo: "2", RequesterID: "u", RequestDate: "2026-08-30 09:00:00", Status: models.StatusRequested},
		// ordered five days ago, past the delayed window
		{RequestNo: "3", RequesterID: "u", RequestDate: "2026-08-20 09:00:00", OrderDate: "2026-08-25 09:00:00", Status: models.StatusOrdering},
		// ordered today, not delayed
		{RequestNo: "4", RequesterID: "u", RequestDate: "2026-08-30 09:00:00", OrderDate: "2026-08-30 09:00:00", Status: models.StatusOrdering},
	}}
	svc := newTestRequestService(store, &fakePhotoStore{})

	data, err := svc.GetDashboardData(testClaims("admin@corp.com", models.RoleAdmin), "", "")
	require.NoError(t, err)

	require.Len(t, data.Urgent, 1)
	assert.Equal(t, "1", data.Urgent[0].RequestNo)

	require.Len(t, data.Delayed, 1)
	assert.Equal(t, "3", data.Delayed[0].RequestNo)
	assert.Equal(t, 5, data.Delayed[0].DelayDays)
}

func TestDashboardPeriodDefaultsToCurrentMonth(t *testing.T) {
	store := &fakeRequestStore{requests: []models.Request{
		{RequestNo: "1", RequesterID: "u", RequestDate: "2026-08-15 09:00:00", Status: models.StatusFinished},
		{RequestNo: "2", RequesterID: "u", RequestDate: "2026-07-15 09:00:00", Status: models.StatusFinished},
	}}
	svc := newTestRequestService(store, &fakePhotoStore{})

	data, err := svc.GetDashboardData(testClaims("admin@corp.com", models.RoleAdmin), "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, data.Stats.Period.Total)
	assert.Equal(t, 1, data.Stats.Period.Completed)
	assert.Equal(t, 2, data.Stats.Finished)
}

func TestDashboardNotificationsForRequesterOnly(t *testing.T) {
	store := &fakeRequestStore{requests: []models.Request{
		{RequestNo: "1", RequesterID: "user@corp.com", RequestDate: "2026-08-15 09:00:00", Status: models.StatusCompletedPending},
	}}
	svc := newTestRequestService(store, &fakePhotoStore{})

	data, err := svc.GetDashboardData(testClaims("user@corp.com", models.RoleRequester), "", "")
	require.NoError(t, err)
	require.Len(t, data.Notifications, 1)

	data, err = svc.GetDashboardData(testClaims("admin@corp.com", models.RoleAdmin), "", "")
	require.NoError(t, err)
	assert.Empty(t, data.Notifications)
}

func TestNormalizeDateOnly(t *testing.T) {
	cases := map[string]string{
		"2026-08-30 10:00:00": "2026-08-30",
		"2026-08-30":          "2026-08-30",
		"2026.8.5":            "2026-08-05",
		"2026/08/05 11:00":    "2026-08-05",
		"":                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeDateOnly(in), "input %q", in)
	}
}
