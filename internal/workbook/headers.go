package workbook

import (
	"strconv"
	"strings"
	"time"
)

// Sheet names. Lookup tolerates renamed/whitespace-padded tabs, see findSheet.
const (
	SheetRequests       = "신청내역"
	SheetUsers          = "사용자관리"
	SheetRegions        = "지역코드"
	SheetTeams          = "팀코드"
	SheetDeliveryPlaces = "배송지관리"
	SheetLogs           = "로그"
)

// requestHeaders is the canonical column order of the request sheet.
var requestHeaders = []string{
	"신청번호", "신청일시", "신청자이메일", "신청자이름", "기사코드", "소속팀", "지역",
	"품명", "모델명", "시리얼번호", "수량", "관리번호", "수령지", "전화번호", "업체명",
	"비고", "사진URL", "상태", "접수담당자", "담당자비고", "발주일시", "예상납기일",
	"수령확인일시", "최종수정일시", "최종수정자",
}

// requestKeyToHeader maps canonical field keys to on-disk column labels. The
// mapping is a bijection over the defined fields; unknown columns pass through
// untouched on read.
var requestKeyToHeader = map[string]string{
	"requestNo":            "신청번호",
	"requestDate":          "신청일시",
	"requesterId":          "신청자이메일",
	"requesterName":        "신청자이름",
	"employeeCode":         "기사코드",
	"team":                 "소속팀",
	"region":               "지역",
	"itemName":             "품명",
	"modelName":            "모델명",
	"serialNo":             "시리얼번호",
	"quantity":             "수량",
	"assetNo":              "관리번호",
	"deliveryPlace":        "수령지",
	"phone":                "전화번호",
	"company":              "업체명",
	"remarks":              "비고",
	"photoUrl":             "사진URL",
	"status":               "상태",
	"handler":              "접수담당자",
	"handlerRemarks":       "담당자비고",
	"orderDate":            "발주일시",
	"expectedDeliveryDate": "예상납기일",
	"receiptDate":          "수령확인일시",
	"lastModified":         "최종수정일시",
	"lastModifiedBy":       "최종수정자",
}

var requestHeaderToKey = invert(requestKeyToHeader)

// headerAliases maps known historical header typos found in operator-edited
// files to their canonical labels.
var headerAliases = map[string]string{
	"신청자이머":   "신청자이메일",
	"신청자 아이디": "신청자이메일",
	"접수담당지":   "접수담당자",
	"수령확인":    "수령확인일시",
	"최종수정일":   "최종수정일시",
}

// requestDateKeys are the canonical keys whose cells may hold Excel date
// serials and need display normalisation on read.
var requestDateKeys = map[string]struct{}{
	"requestDate":          {},
	"orderDate":            {},
	"expectedDeliveryDate": {},
	"receiptDate":          {},
	"lastModified":         {},
}

var userHeaders = []string{"사용자ID", "비밀번호해시", "이름", "기사코드", "소속팀", "지역", "역할", "활성화"}

var userKeyToHeader = map[string]string{
	"userId":       "사용자ID",
	"passwordHash": "비밀번호해시",
	"name":         "이름",
	"employeeCode": "기사코드",
	"team":         "소속팀",
	"region":       "지역",
	"role":         "역할",
	"active":       "활성화",
}

var userHeaderToKey = invert(userKeyToHeader)

var regionHeaders = []string{"코드", "지역명", "사용여부", "정렬순서"}

var regionKeyToHeader = map[string]string{
	"code":      "코드",
	"name":      "지역명",
	"active":    "사용여부",
	"sortOrder": "정렬순서",
}

var regionHeaderToKey = invert(regionKeyToHeader)

var teamHeaders = []string{"코드", "팀명", "지역", "사용여부"}

var teamKeyToHeader = map[string]string{
	"code":   "코드",
	"name":   "팀명",
	"region": "지역",
	"active": "사용여부",
}

var teamHeaderToKey = invert(teamKeyToHeader)

var deliveryPlaceHeaders = []string{"배송지명", "소속팀", "주소", "연락처", "담당자", "활성화", "비고"}

var deliveryPlaceKeyToHeader = map[string]string{
	"name":    "배송지명",
	"team":    "소속팀",
	"address": "주소",
	"contact": "연락처",
	"manager": "담당자",
	"active":  "활성화",
	"remarks": "비고",
}

var deliveryPlaceHeaderToKey = invert(deliveryPlaceKeyToHeader)

var logHeaders = []string{"일시", "레벨", "액션", "신청번호", "사용자", "상세내용"}

var logKeyToHeader = map[string]string{
	"timestamp": "일시",
	"level":     "레벨",
	"action":    "액션",
	"requestNo": "신청번호",
	"userId":    "사용자",
	"detail":    "상세내용",
}

var logHeaderToKey = invert(logKeyToHeader)

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// canonicalKey resolves a raw header cell to the canonical field key: exact
// match first, then the alias table, then pass-through for unknown headers.
func canonicalKey(raw string, headerToKey map[string]string) string {
	header := strings.TrimSpace(raw)
	if alias, ok := headerAliases[header]; ok {
		header = alias
	}
	if key, ok := headerToKey[header]; ok {
		return key
	}
	return header
}

// excelEpochOffset is the number of days between the Excel serial epoch
// (1899-12-30) and the Unix epoch.
const excelEpochOffset = 25569

// normalizeDateCell converts an Excel date serial to a "YYYY-MM-DD HH:MM:SS"
// display string. Non-numeric values pass through unchanged so hand-typed
// dates survive.
func normalizeDateCell(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	serial, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || serial <= 0 {
		return raw
	}
	seconds := (serial - excelEpochOffset) * 86400
	t := time.Unix(int64(seconds), 0).UTC()
	return t.Format("2006-01-02 15:04:05")
}

func yesNo(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

func isYes(raw string) bool {
	return strings.TrimSpace(raw) == "Y"
}
