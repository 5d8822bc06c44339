package service

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fieldworks/parts-order-api/internal/dto"
	"github.com/fieldworks/parts-order-api/internal/models"
	appErrors "github.com/fieldworks/parts-order-api/pkg/errors"
)

const displayTimeFormat = "2006-01-02 15:04:05"

type requestStore interface {
	ListRequests(filter models.RequestFilter) ([]models.Request, error)
	GetRequestByNo(requestNo string) (*models.Request, error)
	CreateRequest(req models.Request) error
	UpdateRequest(requestNo string, upd models.RequestUpdate) (bool, error)
	AppendLog(entry models.LogEntry) error
}

type photoStore interface {
	Save(requestNo string, data []byte, mimeType string) (string, error)
}

// RequestServiceConfig tunes lifecycle behaviour.
type RequestServiceConfig struct {
	UrgentAfter  time.Duration
	DelayedAfter time.Duration
	MaxPhotoSize int64
	APIPrefix    string
}

// RequestService owns all state transitions and derived views over requests.
type RequestService struct {
	store  requestStore
	photos photoStore
	logger *zap.Logger
	now    func() time.Time
	cfg    RequestServiceConfig

	// createMu serialises the whole create path: the duplicate check and the
	// request-number generation are read-then-write and would race otherwise.
	createMu sync.Mutex

	onTransition func(to string)
}

// SetTransitionObserver installs a callback fired after every applied status
// change, used for metrics.
func (s *RequestService) SetTransitionObserver(fn func(to string)) {
	s.onTransition = fn
}

// NewRequestService constructs a RequestService with sane defaults.
func NewRequestService(store requestStore, photos photoStore, logger *zap.Logger, cfg RequestServiceConfig) *RequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.UrgentAfter <= 0 {
		cfg.UrgentAfter = 24 * time.Hour
	}
	if cfg.DelayedAfter <= 0 {
		cfg.DelayedAfter = 72 * time.Hour
	}
	if cfg.MaxPhotoSize <= 0 {
		cfg.MaxPhotoSize = 5 * 1024 * 1024
	}
	return &RequestService{
		store:  store,
		photos: photos,
		logger: logger,
		now:    time.Now,
		cfg:    cfg,
	}
}

// CreateRequest runs the creation protocol: hard preconditions, duplicate
// detection, request-number generation, photo persistence, append, audit log.
func (s *RequestService) CreateRequest(input dto.CreateRequestInput, actor *models.JWTClaims) (*dto.CreateRequestResult, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if strings.TrimSpace(input.ItemName) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "item name is required")
	}
	if input.Quantity < 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "quantity must be at least 1")
	}
	if strings.TrimSpace(input.AssetNo) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "asset tag is required")
	}
	if input.PhotoBase64 == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a photo attachment is required")
	}

	photoBytes, mimeType, err := decodePhotoPayload(input.PhotoBase64)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "photo payload could not be decoded")
	}
	if int64(len(photoBytes)) > s.cfg.MaxPhotoSize {
		return nil, appErrors.Clone(appErrors.ErrValidation, "photo exceeds the maximum allowed size")
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	existing, err := s.store.ListRequests(models.RequestFilter{
		RequesterID: actor.UserID,
		AssetNo:     input.AssetNo,
	})
	if err != nil {
		return nil, err
	}
	for _, req := range existing {
		if req.Status == models.StatusRequested {
			return &dto.CreateRequestResult{
				Duplicate:          true,
				DuplicateRequestNo: req.RequestNo,
				Message:            fmt.Sprintf("an open request for this asset already exists: %s", req.RequestNo),
			}, nil
		}
	}

	requestNo, err := s.nextRequestNo()
	if err != nil {
		return nil, err
	}

	relPath, err := s.photos.Save(requestNo, photoBytes, mimeType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store photo")
	}
	photoURL := strings.TrimRight(s.cfg.APIPrefix, "/") + "/attachments/" + relPath

	now := s.now().Format(displayTimeFormat)
	region := strings.TrimSpace(input.Region)
	if region == "" {
		region = actor.Region
	}
	req := models.Request{
		RequestNo:      requestNo,
		RequestDate:    now,
		RequesterID:    actor.UserID,
		RequesterName:  actor.Name,
		EmployeeCode:   actor.EmployeeCode,
		Team:           actor.Team,
		Region:         region,
		ItemName:       strings.TrimSpace(input.ItemName),
		ModelName:      strings.TrimSpace(input.ModelName),
		SerialNo:       strings.TrimSpace(input.SerialNo),
		Quantity:       input.Quantity,
		AssetNo:        strings.TrimSpace(input.AssetNo),
		DeliveryPlace:  strings.TrimSpace(input.DeliveryPlace),
		Phone:          strings.TrimSpace(input.Phone),
		Company:        strings.TrimSpace(input.Company),
		Remarks:        strings.TrimSpace(input.Remarks),
		PhotoURL:       photoURL,
		Status:         models.StatusRequested,
		LastModified:   now,
		LastModifiedBy: actor.UserID,
	}

	if err := s.store.CreateRequest(req); err != nil {
		return nil, err
	}
	s.appendLog(models.LogLevelInfo, "신청 생성", requestNo, actor.UserID, "")

	return &dto.CreateRequestResult{
		RequestNo: requestNo,
		Message:   "request created",
	}, nil
}

// nextRequestNo builds today's YYMMDD prefix and takes the maximum existing
// numeric suffix plus one. The max-scan deliberately tolerates gaps from
// cancelled test rows and unordered sheets; a row count would not.
func (s *RequestService) nextRequestNo() (string, error) {
	prefix := s.now().Format("060102")
	all, err := s.store.ListRequests(models.RequestFilter{})
	if err != nil {
		return "", err
	}
	maxSeq := 0
	for _, req := range all {
		no := strings.TrimSpace(req.RequestNo)
		if !strings.HasPrefix(no, prefix) || len(no) <= len(prefix) {
			continue
		}
		seq, err := strconv.Atoi(no[len(prefix):])
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return fmt.Sprintf("%s%04d", prefix, maxSeq+1), nil
}

// UpdateStatus validates and applies one transition of the state machine,
// stamping orderDate/receiptDate on first entry into the corresponding state.
func (s *RequestService) UpdateStatus(requestNo string, input dto.UpdateStatusInput, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if !input.Status.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", input.Status))
	}

	req, err := s.store.GetRequestByNo(requestNo)
	if err != nil {
		return err
	}
	if req == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "request not found")
	}

	if actor.Role != models.RoleAdmin {
		if strings.TrimSpace(req.RequesterID) != strings.TrimSpace(actor.UserID) {
			return appErrors.ErrForbidden
		}
		if !requesterMayTransition(req.Status, input.Status) {
			return appErrors.ErrForbidden
		}
	}

	if !req.Status.CanTransitionTo(input.Status) {
		return appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("cannot move from %s to %s", req.Status, input.Status))
	}

	now := s.now().Format(displayTimeFormat)
	status := input.Status
	upd := models.RequestUpdate{
		Status:         &status,
		LastModified:   &now,
		LastModifiedBy: &actor.UserID,
	}
	if input.Remarks != nil {
		upd.HandlerRemarks = input.Remarks
	}
	if input.Handler != nil {
		upd.Handler = input.Handler
	}

	switch status {
	case models.StatusOrdering:
		if req.OrderDate == "" {
			upd.OrderDate = &now
		}
	case models.StatusFinished:
		if req.ReceiptDate == "" {
			upd.ReceiptDate = &now
		}
	case models.StatusCompletedConfirmed:
		expected := req.ExpectedDeliveryDate
		if input.ExpectedDeliveryDate != nil {
			expected = strings.TrimSpace(*input.ExpectedDeliveryDate)
		}
		if expected == "" {
			return appErrors.Clone(appErrors.ErrValidation, "expected delivery date is required for a confirmed order")
		}
		upd.ExpectedDeliveryDate = &expected
	case models.StatusCompletedPending:
		empty := ""
		upd.ExpectedDeliveryDate = &empty
	}

	found, err := s.store.UpdateRequest(requestNo, upd)
	if err != nil {
		return err
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "request not found")
	}

	s.appendLog(models.LogLevelInfo, fmt.Sprintf("상태 변경: %s → %s", req.Status, status), requestNo, actor.UserID, "")
	if s.onTransition != nil {
		s.onTransition(string(status))
	}
	return nil
}

// requesterMayTransition restricts non-admin actors to cancelling their own
// unprocessed request or confirming receipt of a completed order.
func requesterMayTransition(from, to models.RequestStatus) bool {
	switch {
	case from == models.StatusRequested && to == models.StatusCancelled:
		return true
	case (from == models.StatusCompletedConfirmed || from == models.StatusCompletedPending) && to == models.StatusFinished:
		return true
	}
	return false
}

// GetRequest returns one request, applying the ownership check for
// non-admin actors.
func (s *RequestService) GetRequest(requestNo string, actor *models.JWTClaims) (*models.Request, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	req, err := s.store.GetRequestByNo(requestNo)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
	}
	if actor.Role != models.RoleAdmin && strings.TrimSpace(req.RequesterID) != strings.TrimSpace(actor.UserID) {
		return nil, appErrors.ErrForbidden
	}
	return req, nil
}

// ListRequests returns requests matching the filter (admin screens).
func (s *RequestService) ListRequests(filter models.RequestFilter) ([]models.Request, error) {
	return s.store.ListRequests(filter)
}

// GetMyRequests returns the requester's own rows annotated with the actions
// currently available to them.
func (s *RequestService) GetMyRequests(userID string) ([]dto.MyRequest, error) {
	list, err := s.store.ListRequests(models.RequestFilter{RequesterID: userID})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MyRequest, 0, len(list))
	for _, req := range list {
		out = append(out, dto.MyRequest{
			Request:           req,
			CanCancel:         req.Status == models.StatusRequested,
			CanConfirmReceipt: req.Status == models.StatusCompletedConfirmed || req.Status == models.StatusCompletedPending,
		})
	}
	return out, nil
}

// GetDashboardData composes lifetime and period statistics plus the SLA
// breach lists. Admins see every request; requesters only their own.
func (s *RequestService) GetDashboardData(actor *models.JWTClaims, startDate, endDate string) (*dto.DashboardResponse, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}

	all, err := s.store.ListRequests(models.RequestFilter{})
	if err != nil {
		return nil, err
	}

	isAdmin := actor.Role == models.RoleAdmin
	userID := strings.TrimSpace(actor.UserID)
	filtered := all
	if !isAdmin {
		filtered = make([]models.Request, 0, len(all))
		for _, req := range all {
			if strings.TrimSpace(req.RequesterID) == userID {
				filtered = append(filtered, req)
			}
		}
	}

	now := s.now()
	if endDate == "" {
		endDate = now.Format("2006-01-02")
	}
	if startDate == "" {
		startDate = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
	}

	period := make([]models.Request, 0, len(filtered))
	for _, req := range filtered {
		d := normalizeDateOnly(req.RequestDate)
		if d >= startDate && d <= endDate {
			period = append(period, req)
		}
	}

	stats := dto.DashboardStats{Total: len(filtered)}
	for _, req := range filtered {
		switch req.Status {
		case models.StatusRequested:
			stats.Requested++
		case models.StatusOrdering:
			stats.Ordering++
		case models.StatusCompletedConfirmed, models.StatusCompletedPending:
			stats.Completed++
		case models.StatusFinished:
			stats.Finished++
		case models.StatusCancelled:
			stats.Cancelled++
		}
	}
	stats.Period.Total = len(period)
	for _, req := range period {
		switch req.Status {
		case models.StatusRequested:
			stats.Period.New++
			stats.Period.Requested++
		case models.StatusOrdering, models.StatusCompletedConfirmed:
			stats.Period.InProgress++
		case models.StatusCompletedPending:
			stats.Period.InProgress++
			stats.Period.Delayed++
		case models.StatusFinished:
			stats.Period.Completed++
		}
	}

	recent := filtered
	if len(recent) > 10 {
		recent = recent[:10]
	}

	var notifications []models.Request
	if !isAdmin {
		for _, req := range filtered {
			if req.Status == models.StatusCompletedConfirmed || req.Status == models.StatusCompletedPending {
				notifications = append(notifications, req)
			}
		}
	}

	urgentCutoff := now.Add(-s.cfg.UrgentAfter).Format("2006-01-02")
	var urgent []models.Request
	for _, req := range filtered {
		if req.Status != models.StatusRequested || req.RequestDate == "" {
			continue
		}
		if normalizeDateOnly(req.RequestDate) < urgentCutoff {
			urgent = append(urgent, req)
		}
	}

	delayedCutoff := now.Add(-s.cfg.DelayedAfter).Format("2006-01-02")
	var delayed []dto.DelayedRequest
	for _, req := range filtered {
		if req.Status != models.StatusOrdering || req.OrderDate == "" {
			continue
		}
		d := normalizeDateOnly(req.OrderDate)
		if d == "" || d >= delayedCutoff {
			continue
		}
		delayDays := 0
		if t, err := time.Parse("2006-01-02", d); err == nil {
			delayDays = int(now.Sub(t).Hours() / 24)
		}
		delayed = append(delayed, dto.DelayedRequest{Request: req, DelayDays: delayDays})
	}

	return &dto.DashboardResponse{
		Stats:         stats,
		Recent:        recent,
		Urgent:        urgent,
		Delayed:       delayed,
		Notifications: notifications,
		Requests:      filtered,
	}, nil
}

func (s *RequestService) appendLog(level, action, requestNo, userID, detail string) {
	err := s.store.AppendLog(models.LogEntry{
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Level:     level,
		Action:    action,
		RequestNo: requestNo,
		UserID:    userID,
		Detail:    detail,
	})
	if err != nil {
		s.logger.Warn("failed to append audit log", zap.String("action", action), zap.Error(err))
	}
}

var isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// normalizeDateOnly flattens the store's mixed date representations into
// YYYY-MM-DD for string comparison. ISO-prefixed values pass through;
// anything else is split on space/dot/dash/slash and reassembled.
func normalizeDateOnly(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if isoDatePrefix.MatchString(s) {
		return s[:10]
	}
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '.' || r == '-' || r == '/'
	})
	if len(parts) >= 3 {
		return zeroPad(parts[0], 4) + "-" + zeroPad(parts[1], 2) + "-" + zeroPad(parts[2], 2)
	}
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

func zeroPad(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// decodePhotoPayload accepts either a bare base64 string or a data URL and
// returns the raw bytes with the detected mime type.
func decodePhotoPayload(payload string) ([]byte, string, error) {
	mimeType := "image/jpeg"
	data := payload
	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ";base64,")
		if idx < 0 {
			return nil, "", fmt.Errorf("malformed data url")
		}
		mimeType = payload[len("data:"):idx]
		data = payload[idx+len(";base64,"):]
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", fmt.Errorf("decode base64: %w", err)
	}
	if len(raw) == 0 {
		return nil, "", fmt.Errorf("empty photo payload")
	}
	return raw, mimeType, nil
}
