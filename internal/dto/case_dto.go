package dto

import "sort"

type CreateCaseRequest struct {
	NRIC         string `json:"nric"`
	Subject      string `json:"subject"`
	Description  string `json:"description"`
	Language     string `json:"language"`
	Location     string `json:"location"`
	WhatsappCall bool   `json:"whatsappCall"`
}

type AssignCaseRequest struct {
	Assignee string `json:"assignee"`
}

type CategorizeCaseRequest struct {
	Category string `json:"category"`
}

type CloseCaseRequest struct {
	Status string `json:"status"`
}

// CaseListQuery holds the parameters of a case listing. A nil field was not
// sent; a non-nil empty field was sent without a value.
type CaseListQuery struct {
	Location *string
	Status   *string
	Category *string
	Sort     *string
	Unknown  []string
}

// NewCaseListQuery sorts raw query parameters into the known fields.
func NewCaseListQuery(params map[string]string) CaseListQuery {
	var q CaseListQuery
	for key, value := range params {
		v := value
		switch key {
		case "location":
			q.Location = &v
		case "status":
			q.Status = &v
		case "category":
			q.Category = &v
		case "sort":
			q.Sort = &v
		default:
			q.Unknown = append(q.Unknown, key)
		}
	}
	sort.Strings(q.Unknown)
	return q
}
