package workbook

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fieldworks/parts-order-api/internal/models"
)

var requestNumericKeys = map[string]struct{}{"quantity": {}}

func requestFromRecord(r map[string]string) models.Request {
	quantity, _ := strconv.Atoi(strings.TrimSpace(r["quantity"]))
	return models.Request{
		RequestNo:            r["requestNo"],
		RequestDate:          r["requestDate"],
		RequesterID:          r["requesterId"],
		RequesterName:        r["requesterName"],
		EmployeeCode:         r["employeeCode"],
		Team:                 r["team"],
		Region:               r["region"],
		ItemName:             r["itemName"],
		ModelName:            r["modelName"],
		SerialNo:             r["serialNo"],
		Quantity:             quantity,
		AssetNo:              r["assetNo"],
		DeliveryPlace:        r["deliveryPlace"],
		Phone:                r["phone"],
		Company:              r["company"],
		Remarks:              r["remarks"],
		PhotoURL:             r["photoUrl"],
		Status:               models.RequestStatus(r["status"]),
		Handler:              r["handler"],
		HandlerRemarks:       r["handlerRemarks"],
		OrderDate:            r["orderDate"],
		ExpectedDeliveryDate: r["expectedDeliveryDate"],
		ReceiptDate:          r["receiptDate"],
		LastModified:         r["lastModified"],
		LastModifiedBy:       r["lastModifiedBy"],
	}
}

func requestToRecord(req models.Request) map[string]string {
	return map[string]string{
		"requestNo":            req.RequestNo,
		"requestDate":          req.RequestDate,
		"requesterId":          req.RequesterID,
		"requesterName":        req.RequesterName,
		"employeeCode":         req.EmployeeCode,
		"team":                 req.Team,
		"region":               req.Region,
		"itemName":             req.ItemName,
		"modelName":            req.ModelName,
		"serialNo":             req.SerialNo,
		"quantity":             strconv.Itoa(req.Quantity),
		"assetNo":              req.AssetNo,
		"deliveryPlace":        req.DeliveryPlace,
		"phone":                req.Phone,
		"company":              req.Company,
		"remarks":              req.Remarks,
		"photoUrl":             req.PhotoURL,
		"status":               string(req.Status),
		"handler":              req.Handler,
		"handlerRemarks":       req.HandlerRemarks,
		"orderDate":            req.OrderDate,
		"expectedDeliveryDate": req.ExpectedDeliveryDate,
		"receiptDate":          req.ReceiptDate,
		"lastModified":         req.LastModified,
		"lastModifiedBy":       req.LastModifiedBy,
	}
}

// ListRequests reads the request sheet, applying exact-match filters on
// trimmed requester id, status and asset tag. Rows come back newest first.
func (s *Store) ListRequests(filter models.RequestFilter) ([]models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer s.observed("requests", "list", start)

	rows, err := s.listSheet(SheetRequests, requestHeaderToKey, requestDateKeys)
	if err != nil {
		return nil, err
	}

	requests := make([]models.Request, 0, len(rows))
	for _, row := range rows {
		req := requestFromRecord(row)
		if filter.RequesterID != "" && strings.TrimSpace(req.RequesterID) != strings.TrimSpace(filter.RequesterID) {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.AssetNo != "" && strings.TrimSpace(req.AssetNo) != strings.TrimSpace(filter.AssetNo) {
			continue
		}
		requests = append(requests, req)
	}

	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].RequestDate > requests[j].RequestDate
	})
	return requests, nil
}

// GetRequestByNo scans for a request by number. A missing request is
// (nil, nil), not an error.
func (s *Store) GetRequestByNo(requestNo string) (*models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer s.observed("requests", "get", start)

	rows, err := s.listSheet(SheetRequests, requestHeaderToKey, requestDateKeys)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row["requestNo"] == requestNo {
			req := requestFromRecord(row)
			return &req, nil
		}
	}
	return nil, nil
}

// CreateRequest appends one request row and rewrites the file.
func (s *Store) CreateRequest(req models.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer s.observed("requests", "create", start)

	return s.mutate(SheetRequests, requestHeaders, requestHeaderToKey, requestDateKeys, requestNumericKeys, func(rows []map[string]string) ([]map[string]string, error) {
		return append(rows, requestToRecord(req)), nil
	})
}

// UpdateRequest applies the partial fields to the request with the given
// number. It reports whether the row was found; "not found" is not an error.
func (s *Store) UpdateRequest(requestNo string, upd models.RequestUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer s.observed("requests", "update", start)

	found := false
	err := s.mutate(SheetRequests, requestHeaders, requestHeaderToKey, requestDateKeys, requestNumericKeys, func(rows []map[string]string) ([]map[string]string, error) {
		for _, row := range rows {
			if row["requestNo"] != requestNo {
				continue
			}
			found = true
			applyRequestUpdate(row, upd)
			return rows, nil
		}
		// No row matched; skip the rewrite.
		return nil, nil
	})
	return found, err
}

func applyRequestUpdate(row map[string]string, upd models.RequestUpdate) {
	if upd.Status != nil {
		row["status"] = string(*upd.Status)
	}
	if upd.Handler != nil {
		row["handler"] = *upd.Handler
	}
	if upd.HandlerRemarks != nil {
		row["handlerRemarks"] = *upd.HandlerRemarks
	}
	if upd.OrderDate != nil {
		row["orderDate"] = *upd.OrderDate
	}
	if upd.ExpectedDeliveryDate != nil {
		row["expectedDeliveryDate"] = *upd.ExpectedDeliveryDate
	}
	if upd.ReceiptDate != nil {
		row["receiptDate"] = *upd.ReceiptDate
	}
	if upd.LastModified != nil {
		row["lastModified"] = *upd.LastModified
	}
	if upd.LastModifiedBy != nil {
		row["lastModifiedBy"] = *upd.LastModifiedBy
	}
}
