package models

// RequestStatus enumerates the request lifecycle states. The stored values are
// the Korean labels the workbook has always used, so existing files stay valid.
type RequestStatus string

const (
	StatusRequested          RequestStatus = "접수중"
	StatusOrdering           RequestStatus = "접수완료"
	StatusCompletedConfirmed RequestStatus = "발주완료(납기확인)"
	StatusCompletedPending   RequestStatus = "발주완료(납기미정)"
	StatusFinished           RequestStatus = "처리완료"
	StatusCancelled          RequestStatus = "접수취소"
)

// AllStatuses lists every defined lifecycle state.
var AllStatuses = []RequestStatus{
	StatusRequested,
	StatusOrdering,
	StatusCompletedConfirmed,
	StatusCompletedPending,
	StatusFinished,
	StatusCancelled,
}

// statusTransitions is the closed transition table. Cancellation is reachable
// from every non-terminal state (admin force-cancel); requester-initiated
// cancellation is additionally restricted to StatusRequested at the service.
var statusTransitions = map[RequestStatus][]RequestStatus{
	StatusRequested:          {StatusOrdering, StatusCancelled},
	StatusOrdering:           {StatusCompletedConfirmed, StatusCompletedPending, StatusCancelled},
	StatusCompletedConfirmed: {StatusFinished, StatusCancelled},
	StatusCompletedPending:   {StatusFinished, StatusCancelled},
	StatusFinished:           {},
	StatusCancelled:          {},
}

// Valid reports whether the value is one of the defined states.
func (s RequestStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// Terminal reports whether no further transition is allowed.
func (s RequestStatus) Terminal() bool {
	next, ok := statusTransitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether the move s -> next is in the transition table.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Request represents one consumable/part order. Date fields are kept as
// strings because the workbook mixes Excel date serials and free text; the
// store normalises them to "YYYY-MM-DD HH:MM:SS" display strings on read.
type Request struct {
	RequestNo            string        `json:"requestNo"`
	RequestDate          string        `json:"requestDate"`
	RequesterID          string        `json:"requesterId"`
	RequesterName        string        `json:"requesterName"`
	EmployeeCode         string        `json:"employeeCode"`
	Team                 string        `json:"team"`
	Region               string        `json:"region"`
	ItemName             string        `json:"itemName"`
	ModelName            string        `json:"modelName"`
	SerialNo             string        `json:"serialNo"`
	Quantity             int           `json:"quantity"`
	AssetNo              string        `json:"assetNo"`
	DeliveryPlace        string        `json:"deliveryPlace"`
	Phone                string        `json:"phone"`
	Company              string        `json:"company"`
	Remarks              string        `json:"remarks"`
	PhotoURL             string        `json:"photoUrl"`
	Status               RequestStatus `json:"status"`
	Handler              string        `json:"handler"`
	HandlerRemarks       string        `json:"handlerRemarks"`
	OrderDate            string        `json:"orderDate"`
	ExpectedDeliveryDate string        `json:"expectedDeliveryDate"`
	ReceiptDate          string        `json:"receiptDate"`
	LastModified         string        `json:"lastModified"`
	LastModifiedBy       string        `json:"lastModifiedBy"`
}

// RequestFilter captures exact-match predicates applied by the store.
type RequestFilter struct {
	RequesterID string
	Status      RequestStatus
	AssetNo     string
}

// RequestUpdate carries the partial fields a status transition may touch.
// Nil pointers leave the stored value untouched.
type RequestUpdate struct {
	Status               *RequestStatus
	Handler              *string
	HandlerRemarks       *string
	OrderDate            *string
	ExpectedDeliveryDate *string
	ReceiptDate          *string
	LastModified         *string
	LastModifiedBy       *string
}
