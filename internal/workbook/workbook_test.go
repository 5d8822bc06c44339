package workbook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/fieldworks/parts-order-api/internal/models"
	appErrors "github.com/fieldworks/parts-order-api/pkg/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "소모품발주.xlsx"), nil)
}

func sampleRequest(no string) models.Request {
	return models.Request{
		RequestNo:     no,
		RequestDate:   "2026-08-30 10:00:00",
		RequesterID:   "user@corp.com",
		RequesterName: "홍길동",
		Team:          "서울1팀",
		ItemName:      "토너",
		Quantity:      3,
		AssetNo:       "AS-9001",
		Status:        models.StatusRequested,
	}
}

func TestEnsureExistsProvisionsAllSheets(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.EnsureExists())

	f, err := excelize.OpenFile(store.Path())
	require.NoError(t, err)
	defer f.Close()

	names := f.GetSheetList()
	for _, sheet := range []string{SheetRequests, SheetUsers, SheetRegions, SheetTeams, SheetDeliveryPlaces, SheetLogs} {
		assert.Contains(t, names, sheet)
	}
	assert.NotContains(t, names, "Sheet1")

	rows, err := f.GetRows(SheetRequests)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, requestHeaders, rows[0])
}

func TestEnsureExistsIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.EnsureExists())
	require.NoError(t, store.CreateRequest(sampleRequest("2608300001")))

	require.NoError(t, store.EnsureExists())
	list, err := store.ListRequests(models.RequestFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateAndListRequestsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateRequest(sampleRequest("2608300001")))

	second := sampleRequest("2608300002")
	second.RequestDate = "2026-08-30 11:00:00"
	second.RequesterID = "other@corp.com"
	second.Status = models.StatusOrdering
	require.NoError(t, store.CreateRequest(second))

	list, err := store.ListRequests(models.RequestFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	// newest first
	assert.Equal(t, "2608300002", list[0].RequestNo)
	assert.Equal(t, 3, list[0].Quantity)

	filtered, err := store.ListRequests(models.RequestFilter{RequesterID: "user@corp.com"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "2608300001", filtered[0].RequestNo)

	filtered, err = store.ListRequests(models.RequestFilter{Status: models.StatusOrdering})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "2608300002", filtered[0].RequestNo)
}

func TestGetRequestByNoMissingIsNil(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.EnsureExists())

	req, err := store.GetRequestByNo("9999999999")
	require.NoError(t, err)
	assert.Nil(t, req)
}

func TestUpdateRequestAppliesPartialFields(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateRequest(sampleRequest("2608300001")))

	status := models.StatusOrdering
	orderDate := "2026-08-30 12:00:00"
	handler := "관리자"
	found, err := store.UpdateRequest("2608300001", models.RequestUpdate{
		Status:    &status,
		OrderDate: &orderDate,
		Handler:   &handler,
	})
	require.NoError(t, err)
	assert.True(t, found)

	req, err := store.GetRequestByNo("2608300001")
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, models.StatusOrdering, req.Status)
	assert.Equal(t, "2026-08-30 12:00:00", req.OrderDate)
	assert.Equal(t, "관리자", req.Handler)
	// untouched fields survive the rewrite
	assert.Equal(t, "토너", req.ItemName)
	assert.Equal(t, 3, req.Quantity)
}

func TestUpdateRequestNotFound(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.EnsureExists())

	found, err := store.UpdateRequest("9999999999", models.RequestUpdate{})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestListRequestsMissingFileIsEmpty(t *testing.T) {
	store := newTestStore(t)

	list, err := store.ListRequests(models.RequestFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCorruptWorkbookSurfacesError(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o755))
	require.NoError(t, os.WriteFile(store.Path(), []byte("not an xlsx"), 0o644))

	_, err := store.ListRequests(models.RequestFilter{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrWorkbookCorrupt.Code, appErrors.FromError(err).Code)
}

func TestReadToleratesAliasedHeaders(t *testing.T) {
	store := newTestStore(t)

	f := excelize.NewFile()
	_, err := f.NewSheet(SheetRequests)
	require.NoError(t, err)
	headers := []interface{}{"신청번호", "신청일시", "신청자이머", "상태", "수량"}
	require.NoError(t, f.SetSheetRow(SheetRequests, "A1", &headers))
	row := []interface{}{"2608300001", "2026-08-30 10:00:00", "user@corp.com", string(models.StatusRequested), 2}
	require.NoError(t, f.SetSheetRow(SheetRequests, "A2", &row))
	require.NoError(t, f.SaveAs(store.Path()))
	require.NoError(t, f.Close())

	list, err := store.ListRequests(models.RequestFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "user@corp.com", list[0].RequesterID)
	assert.Equal(t, 2, list[0].Quantity)
}

func TestReadNormalizesExcelDateSerials(t *testing.T) {
	store := newTestStore(t)

	f := excelize.NewFile()
	_, err := f.NewSheet(SheetRequests)
	require.NoError(t, err)
	headers := []interface{}{"신청번호", "신청일시", "상태"}
	require.NoError(t, f.SetSheetRow(SheetRequests, "A1", &headers))
	row := []interface{}{"2608300001", 45000, string(models.StatusRequested)}
	require.NoError(t, f.SetSheetRow(SheetRequests, "A2", &row))
	require.NoError(t, f.SaveAs(store.Path()))
	require.NoError(t, f.Close())

	list, err := store.ListRequests(models.RequestFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2023-03-15 00:00:00", list[0].RequestDate)
}

func TestFindSheetToleratesPaddedName(t *testing.T) {
	store := newTestStore(t)

	f := excelize.NewFile()
	_, err := f.NewSheet(" " + SheetRequests + " ")
	require.NoError(t, err)
	headers := []interface{}{"신청번호", "상태"}
	require.NoError(t, f.SetSheetRow(" "+SheetRequests+" ", "A1", &headers))
	row := []interface{}{"2608300001", string(models.StatusRequested)}
	require.NoError(t, f.SetSheetRow(" "+SheetRequests+" ", "A2", &row))
	require.NoError(t, f.SaveAs(store.Path()))
	require.NoError(t, f.Close())

	list, err := store.ListRequests(models.RequestFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestRewritePreservesOperatorColumns(t *testing.T) {
	store := newTestStore(t)

	f := excelize.NewFile()
	_, err := f.NewSheet(SheetRequests)
	require.NoError(t, err)
	headers := []interface{}{"신청번호", "신청일시", "상태", "메모"}
	require.NoError(t, f.SetSheetRow(SheetRequests, "A1", &headers))
	row := []interface{}{"2608300001", "2026-08-30 10:00:00", string(models.StatusRequested), "운영자 메모"}
	require.NoError(t, f.SetSheetRow(SheetRequests, "A2", &row))
	require.NoError(t, f.SaveAs(store.Path()))
	require.NoError(t, f.Close())

	status := models.StatusOrdering
	found, err := store.UpdateRequest("2608300001", models.RequestUpdate{Status: &status})
	require.NoError(t, err)
	assert.True(t, found)

	reopened, err := excelize.OpenFile(store.Path())
	require.NoError(t, err)
	defer reopened.Close()
	rows, err := reopened.GetRows(SheetRequests)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	memoCol := -1
	for i, h := range rows[0] {
		if h == "메모" {
			memoCol = i
		}
	}
	require.GreaterOrEqual(t, memoCol, 0, "extra column dropped from header row")
	require.Greater(t, len(rows[1]), memoCol)
	assert.Equal(t, "운영자 메모", rows[1][memoCol])

	// the canonical update still applied
	req, err := store.GetRequestByNo("2608300001")
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, models.StatusOrdering, req.Status)
}

func TestNormalizeDateCellPassthrough(t *testing.T) {
	assert.Equal(t, "2026-08-30 10:00:00", normalizeDateCell("2026-08-30 10:00:00"))
	assert.Equal(t, "", normalizeDateCell("  "))
	assert.Equal(t, "memo", normalizeDateCell("memo"))
}

func TestUserLifecycle(t *testing.T) {
	store := newTestStore(t)

	user := models.User{ID: "user@corp.com", PasswordHash: "hash", Name: "홍길동", Team: "서울1팀", Region: "서울", Active: true}
	require.NoError(t, store.CreateUser(user))

	err := store.CreateUser(user)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	got, err := store.GetUserByID("  user@corp.com  ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.RoleRequester, got.Role)
	assert.True(t, got.Active)

	inactive := false
	found, err := store.UpdateUser("user@corp.com", models.UserUpdate{Active: &inactive})
	require.NoError(t, err)
	assert.True(t, found)

	got, err = store.GetUserByID("user@corp.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Active)
}

func TestUpdateUserNotFound(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.EnsureExists())

	found, err := store.UpdateUser("ghost@corp.com", models.UserUpdate{})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeliveryPlacePairIdentity(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CreateDeliveryPlace(models.DeliveryPlace{Name: "본사창고", Team: "서울1팀", Active: true}))
	require.NoError(t, store.CreateDeliveryPlace(models.DeliveryPlace{Name: "본사창고", Team: "부산1팀", Active: true}))

	address := "부산시 해운대구"
	found, err := store.UpdateDeliveryPlace("본사창고", "부산1팀", models.DeliveryPlaceUpdate{Address: &address})
	require.NoError(t, err)
	assert.True(t, found)

	seoul, err := store.ListDeliveryPlaces("서울1팀", true)
	require.NoError(t, err)
	require.Len(t, seoul, 1)
	assert.Empty(t, seoul[0].Address)

	busan, err := store.ListDeliveryPlaces("부산1팀", true)
	require.NoError(t, err)
	require.Len(t, busan, 1)
	assert.Equal(t, "부산시 해운대구", busan[0].Address)
}

func TestListDeliveryPlacesActiveOnly(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateDeliveryPlace(models.DeliveryPlace{Name: "폐쇄창고", Team: "서울1팀", Active: false}))

	places, err := store.ListDeliveryPlaces("", true)
	require.NoError(t, err)
	assert.Empty(t, places)

	places, err = store.ListDeliveryPlaces("", false)
	require.NoError(t, err)
	assert.Len(t, places, 1)
}

func TestRegionAndTeamSheets(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.EnsureExists())

	f, err := excelize.OpenFile(store.Path())
	require.NoError(t, err)
	regionRows := [][]interface{}{
		{"SEL", "서울", "Y", 1},
		{"BSN", "부산", "N", 2},
	}
	for i, row := range regionRows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(SheetRegions, cell, &r))
	}
	teamRows := [][]interface{}{
		{"T01", "서울1팀", "서울", "Y"},
		{"T02", "부산1팀", "부산", "Y"},
	}
	for i, row := range teamRows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(SheetTeams, cell, &r))
	}
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	active, err := store.ListRegions(true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "서울", active[0].Name)
	assert.Equal(t, 1, active[0].SortOrder)

	all, err := store.ListRegions(false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	teams, err := store.ListTeams("부산", true)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "부산1팀", teams[0].Name)
}

func TestAppendLogDefaults(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.AppendLog(models.LogEntry{Action: "로그인", UserID: "user@corp.com"}))

	logs, err := store.ListLogs()
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "로그인", logs[0].Action)
	assert.Equal(t, models.LogLevelInfo, logs[0].Level)
	assert.NotEmpty(t, logs[0].Timestamp)
}

func TestExportReturnsDatedFileName(t *testing.T) {
	store := newTestStore(t)

	data, fileName, err := store.Export()
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Contains(t, fileName, "소모품발주_마스터_")
	assert.Contains(t, fileName, ".xlsx")
}

func TestObserverReceivesTimings(t *testing.T) {
	store := newTestStore(t)
	var tables []string
	store.SetObserver(func(table, op string, seconds float64) {
		tables = append(tables, table+"/"+op)
	})

	require.NoError(t, store.CreateRequest(sampleRequest("2608300001")))
	_, err := store.ListRequests(models.RequestFilter{})
	require.NoError(t, err)

	assert.Contains(t, tables, "requests/create")
	assert.Contains(t, tables, "requests/list")
}
