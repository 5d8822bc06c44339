package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fieldworks/parts-order-api/internal/dto"
	"github.com/fieldworks/parts-order-api/internal/models"
	appErrors "github.com/fieldworks/parts-order-api/pkg/errors"
	"github.com/fieldworks/parts-order-api/pkg/export"
)

type masterStore interface {
	ListUsers() ([]models.User, error)
	GetUserByID(id string) (*models.User, error)
	CreateUser(user models.User) error
	UpdateUser(id string, upd models.UserUpdate) (bool, error)
	ListRegions(activeOnly bool) ([]models.Region, error)
	ListTeams(region string, activeOnly bool) ([]models.Team, error)
	ListDeliveryPlaces(team string, activeOnly bool) ([]models.DeliveryPlace, error)
	CreateDeliveryPlace(place models.DeliveryPlace) error
	UpdateDeliveryPlace(name, team string, upd models.DeliveryPlaceUpdate) (bool, error)
	ListRequests(filter models.RequestFilter) ([]models.Request, error)
	ListLogs() ([]models.LogEntry, error)
	AppendLog(entry models.LogEntry) error
	Export() ([]byte, string, error)
}

// MasterServiceConfig tunes master-data behaviour.
type MasterServiceConfig struct {
	DefaultPassword string
}

// MasterService manages accounts, code tables, delivery places and the
// admin-facing bulk operations (CSV import, workbook export, reports).
type MasterService struct {
	store    masterStore
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
	cfg      MasterServiceConfig
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
}

// NewMasterService constructs a MasterService with sane defaults.
func NewMasterService(store masterStore, validate *validator.Validate, logger *zap.Logger, cfg MasterServiceConfig) *MasterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultPassword == "" {
		cfg.DefaultPassword = "0000"
	}
	return &MasterService{
		store:    store,
		validate: validate,
		logger:   logger,
		now:      time.Now,
		cfg:      cfg,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
	}
}

// defaultRegions backs the region dropdown when the code sheet is empty,
// which happens on a freshly provisioned workbook.
var defaultRegions = []models.Region{
	{Code: "SEL", Name: "서울", Active: true, SortOrder: 1},
	{Code: "GYG", Name: "경기", Active: true, SortOrder: 2},
	{Code: "ICN", Name: "인천", Active: true, SortOrder: 3},
	{Code: "BSN", Name: "부산", Active: true, SortOrder: 4},
	{Code: "DGU", Name: "대구", Active: true, SortOrder: 5},
	{Code: "DJN", Name: "대전", Active: true, SortOrder: 6},
	{Code: "GWJ", Name: "광주", Active: true, SortOrder: 7},
}

// ListRegions returns the region codes, falling back to the built-in set
// when the sheet has no rows.
func (s *MasterService) ListRegions(activeOnly bool) ([]models.Region, error) {
	regions, err := s.store.ListRegions(activeOnly)
	if err != nil {
		return nil, err
	}
	if len(regions) == 0 {
		return defaultRegions, nil
	}
	return regions, nil
}

// ListTeams returns the team codes, optionally scoped to a region.
func (s *MasterService) ListTeams(region string, activeOnly bool) ([]models.Team, error) {
	return s.store.ListTeams(region, activeOnly)
}

// ListDeliveryPlaces returns destinations, optionally scoped to a team.
func (s *MasterService) ListDeliveryPlaces(team string, activeOnly bool) ([]models.DeliveryPlace, error) {
	return s.store.ListDeliveryPlaces(team, activeOnly)
}

// CreateDeliveryPlace adds a destination after checking the (name, team)
// pair is not already taken.
func (s *MasterService) CreateDeliveryPlace(input dto.CreateDeliveryPlaceInput, actor *models.JWTClaims) (*models.DeliveryPlace, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid delivery place payload")
	}
	name := strings.TrimSpace(input.Name)
	team := strings.TrimSpace(input.Team)
	if name == "" || team == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name and team are required")
	}

	existing, err := s.store.ListDeliveryPlaces(team, false)
	if err != nil {
		return nil, err
	}
	for _, place := range existing {
		if strings.TrimSpace(place.Name) == name {
			return nil, appErrors.Clone(appErrors.ErrConflict, "delivery place already exists for this team")
		}
	}

	place := models.DeliveryPlace{
		Name:    name,
		Team:    team,
		Address: strings.TrimSpace(input.Address),
		Contact: strings.TrimSpace(input.Contact),
		Manager: strings.TrimSpace(input.Manager),
		Active:  true,
		Remarks: strings.TrimSpace(input.Remarks),
	}
	if err := s.store.CreateDeliveryPlace(place); err != nil {
		return nil, err
	}
	s.appendAdminLog("배송지 등록", actorID(actor), name+" / "+team)
	return &place, nil
}

// UpdateDeliveryPlace applies partial changes to a destination identified by
// its (name, team) pair.
func (s *MasterService) UpdateDeliveryPlace(name, team string, input dto.UpdateDeliveryPlaceInput, actor *models.JWTClaims) error {
	upd := models.DeliveryPlaceUpdate{
		Name:    input.Name,
		Team:    input.Team,
		Address: input.Address,
		Contact: input.Contact,
		Manager: input.Manager,
		Active:  input.Active,
		Remarks: input.Remarks,
	}
	found, err := s.store.UpdateDeliveryPlace(name, team, upd)
	if err != nil {
		return err
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "delivery place not found")
	}
	s.appendAdminLog("배송지 수정", actorID(actor), name+" / "+team)
	return nil
}

// ListUsers returns every account row.
func (s *MasterService) ListUsers() ([]models.User, error) {
	return s.store.ListUsers()
}

// CreateUser registers an account. A missing password means the configured
// default; the role defaults to requester.
func (s *MasterService) CreateUser(input dto.CreateUserInput, actor *models.JWTClaims) (*models.User, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user id is required")
	}
	role := input.Role
	if role == "" {
		role = models.RoleRequester
	}
	if role != models.RoleRequester && role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown role %q", role))
	}

	password := input.Password
	if password == "" {
		password = s.cfg.DefaultPassword
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := models.User{
		ID:           userID,
		PasswordHash: hash,
		Name:         strings.TrimSpace(input.Name),
		EmployeeCode: strings.TrimSpace(input.EmployeeCode),
		Team:         strings.TrimSpace(input.Team),
		Region:       strings.TrimSpace(input.Region),
		Role:         role,
		Active:       true,
	}
	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}
	s.appendAdminLog("사용자 등록", actorID(actor), userID)
	user.PasswordHash = ""
	return &user, nil
}

// UpdateUser applies partial account changes, rehashing the password when
// one is supplied.
func (s *MasterService) UpdateUser(userID string, input dto.UpdateUserInput, actor *models.JWTClaims) error {
	upd := models.UserUpdate{
		Name:         input.Name,
		EmployeeCode: input.EmployeeCode,
		Team:         input.Team,
		Region:       input.Region,
		Role:         input.Role,
		Active:       input.Active,
	}
	if input.Role != nil && *input.Role != models.RoleRequester && *input.Role != models.RoleAdmin {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown role %q", *input.Role))
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := HashPassword(*input.Password)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		upd.PasswordHash = &hash
	}

	found, err := s.store.UpdateUser(strings.TrimSpace(userID), upd)
	if err != nil {
		return err
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	s.appendAdminLog("사용자 수정", actorID(actor), userID)
	return nil
}

// ExportWorkbook returns the raw workbook bytes with a dated filename.
func (s *MasterService) ExportWorkbook(actor *models.JWTClaims) ([]byte, string, error) {
	data, name, err := s.store.Export()
	if err != nil {
		return nil, "", err
	}
	s.appendAdminLog("마스터 다운로드", actorID(actor), name)
	return data, name, nil
}

// ListLogs returns the audit trail.
func (s *MasterService) ListLogs() ([]models.LogEntry, error) {
	return s.store.ListLogs()
}

var reportHeaders = []string{
	"Request No", "Request Date", "Requester", "Team", "Item", "Qty",
	"Status", "Order Date", "Expected Delivery", "Receipt Date",
}

// BuildRequestReport renders the filtered request list as CSV or PDF bytes,
// returning the payload, filename and content type.
func (s *MasterService) BuildRequestReport(filter models.RequestFilter, format string) ([]byte, string, string, error) {
	requests, err := s.store.ListRequests(filter)
	if err != nil {
		return nil, "", "", err
	}

	dataset := export.Dataset{Headers: reportHeaders}
	for _, req := range requests {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Request No":        req.RequestNo,
			"Request Date":      req.RequestDate,
			"Requester":         req.RequesterName,
			"Team":              req.Team,
			"Item":              req.ItemName,
			"Qty":               strconv.Itoa(req.Quantity),
			"Status":            string(req.Status),
			"Order Date":        req.OrderDate,
			"Expected Delivery": req.ExpectedDeliveryDate,
			"Receipt Date":      req.ReceiptDate,
		})
	}

	stamp := s.now().Format("2006-01-02")
	switch strings.ToLower(format) {
	case "", "csv":
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
		}
		return data, "requests_" + stamp + ".csv", "text/csv", nil
	case "pdf":
		data, err := s.pdf.Render(dataset, "Request Report "+stamp)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
		}
		return data, "requests_" + stamp + ".pdf", "application/pdf", nil
	default:
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report format %q", format))
	}
}

// ImportCSV bulk-loads either the staff roster or the delivery place list.
// The sheet kind is detected from the header row; rows are upserted by their
// natural key so re-importing the same file is a no-op.
func (s *MasterService) ImportCSV(data []byte, actor *models.JWTClaims) (*dto.ImportResult, error) {
	records, err := parseCSV(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "csv could not be parsed")
	}
	if len(records) < 2 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "csv has no data rows")
	}

	header := make([]string, len(records[0]))
	for i, cell := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))
	}

	var result *dto.ImportResult
	switch {
	case headerContainsAny(header, "배송지명", "배송지", "deliveryplace", "place"):
		result, err = s.importDeliveryPlaces(header, records[1:])
	case headerContainsAny(header, "아이디", "이메일", "사번", "userid", "email"):
		result, err = s.importUsers(header, records[1:])
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unrecognized csv header row")
	}
	if err != nil {
		return nil, err
	}

	s.appendAdminLog("CSV 가져오기", actorID(actor),
		fmt.Sprintf("%s: created=%d updated=%d skipped=%d", result.Kind, result.Created, result.Updated, result.Skipped))
	return result, nil
}

func (s *MasterService) importUsers(header []string, rows [][]string) (*dto.ImportResult, error) {
	idx := headerIndex(header, map[string][]string{
		"id":       {"아이디", "이메일", "userid", "email", "id"},
		"name":     {"이름", "성명", "name"},
		"empCode":  {"사번", "employeecode"},
		"team":     {"팀", "팀명", "team"},
		"region":   {"지역", "region"},
		"role":     {"권한", "역할", "role"},
		"password": {"비밀번호", "password"},
	})
	if idx["id"] < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "roster csv is missing the id column")
	}

	defaultHash, err := HashPassword(s.cfg.DefaultPassword)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	result := &dto.ImportResult{Kind: "users"}
	for i, row := range rows {
		userID := cellAt(row, idx["id"])
		if userID == "" {
			result.Skipped++
			continue
		}

		existing, err := s.store.GetUserByID(userID)
		if err != nil {
			return nil, err
		}

		name := cellAt(row, idx["name"])
		empCode := cellAt(row, idx["empCode"])
		team := cellAt(row, idx["team"])
		region := cellAt(row, idx["region"])
		role := models.UserRole(cellAt(row, idx["role"]))
		if role == "" {
			role = models.RoleRequester
		}
		if role != models.RoleRequester && role != models.RoleAdmin {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: unknown role %q", i+2, role))
			result.Skipped++
			continue
		}

		if existing == nil {
			hash := defaultHash
			if pw := cellAt(row, idx["password"]); pw != "" {
				hash, err = HashPassword(pw)
				if err != nil {
					return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
				}
			}
			user := models.User{
				ID:           userID,
				PasswordHash: hash,
				Name:         name,
				EmployeeCode: empCode,
				Team:         team,
				Region:       region,
				Role:         role,
				Active:       true,
			}
			if err := s.store.CreateUser(user); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+2, err))
				result.Skipped++
				continue
			}
			result.Created++
			continue
		}

		upd := models.UserUpdate{Role: &role}
		if name != "" {
			upd.Name = &name
		}
		if empCode != "" {
			upd.EmployeeCode = &empCode
		}
		if team != "" {
			upd.Team = &team
		}
		if region != "" {
			upd.Region = &region
		}
		if _, err := s.store.UpdateUser(userID, upd); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+2, err))
			result.Skipped++
			continue
		}
		result.Updated++
	}
	return result, nil
}

func (s *MasterService) importDeliveryPlaces(header []string, rows [][]string) (*dto.ImportResult, error) {
	idx := headerIndex(header, map[string][]string{
		"name":    {"배송지명", "배송지", "deliveryplace", "place", "name"},
		"team":    {"팀", "팀명", "team"},
		"address": {"주소", "address"},
		"contact": {"연락처", "전화번호", "contact", "phone"},
		"manager": {"담당자", "manager"},
		"remarks": {"비고", "remarks"},
	})
	if idx["name"] < 0 || idx["team"] < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "delivery place csv needs name and team columns")
	}

	result := &dto.ImportResult{Kind: "deliveryPlaces"}
	for i, row := range rows {
		name := cellAt(row, idx["name"])
		team := cellAt(row, idx["team"])
		if name == "" || team == "" {
			result.Skipped++
			continue
		}

		existing, err := s.store.ListDeliveryPlaces(team, false)
		if err != nil {
			return nil, err
		}
		found := false
		for _, place := range existing {
			if strings.TrimSpace(place.Name) == name {
				found = true
				break
			}
		}

		address := cellAt(row, idx["address"])
		contact := cellAt(row, idx["contact"])
		manager := cellAt(row, idx["manager"])
		remarks := cellAt(row, idx["remarks"])

		if !found {
			place := models.DeliveryPlace{
				Name:    name,
				Team:    team,
				Address: address,
				Contact: contact,
				Manager: manager,
				Active:  true,
				Remarks: remarks,
			}
			if err := s.store.CreateDeliveryPlace(place); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+2, err))
				result.Skipped++
				continue
			}
			result.Created++
			continue
		}

		upd := models.DeliveryPlaceUpdate{}
		if address != "" {
			upd.Address = &address
		}
		if contact != "" {
			upd.Contact = &contact
		}
		if manager != "" {
			upd.Manager = &manager
		}
		if remarks != "" {
			upd.Remarks = &remarks
		}
		if _, err := s.store.UpdateDeliveryPlace(name, team, upd); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+2, err))
			result.Skipped++
			continue
		}
		result.Updated++
	}
	return result, nil
}

func (s *MasterService) appendAdminLog(action, userID, detail string) {
	err := s.store.AppendLog(models.LogEntry{
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Level:     models.LogLevelInfo,
		Action:    action,
		UserID:    userID,
		Detail:    detail,
	})
	if err != nil {
		s.logger.Warn("failed to append audit log", zap.String("action", action), zap.Error(err))
	}
}

func actorID(actor *models.JWTClaims) string {
	if actor == nil {
		return ""
	}
	return actor.UserID
}

func parseCSV(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func headerContainsAny(header []string, wanted ...string) bool {
	for _, cell := range header {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for _, w := range wanted {
			if normalized == w || strings.Contains(normalized, w) {
				return true
			}
		}
	}
	return false
}

// headerIndex resolves each logical column to its position, or -1 when the
// column is absent.
func headerIndex(header []string, aliases map[string][]string) map[string]int {
	out := make(map[string]int, len(aliases))
	for key := range aliases {
		out[key] = -1
	}
	for i, cell := range header {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for key, names := range aliases {
			if out[key] >= 0 {
				continue
			}
			for _, name := range names {
				if normalized == name {
					out[key] = i
				}
			}
		}
	}
	return out
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
