package dto

type SubmitReportRequest struct {
	AppID   string `json:"app_id" validate:"required,uuid"`
	Reason  string `json:"reason" validate:"required,oneof=spam misleading broken_links duplicate inappropriate other"`
	Details string `json:"details" validate:"required,min=10,max=500"`
}

type RejectAppRequest struct {
	Reason string `json:"reason"`
}

type ResolveReportRequest struct {
	Status string `json:"status"`
}

type ContactRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}
