package call

// ListCallsRequest carries the query parameters of the call listing endpoint
type ListCallsRequest struct {
	Direction string `query:"direction" validate:"omitempty,oneof=inbound outbound"`
	Status    string `query:"status" validate:"omitempty,oneof=initiated answered ai_active ended"`
	FromDate  string `query:"from_date" validate:"omitempty"`
	ToDate    string `query:"to_date" validate:"omitempty"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=500"`
	Offset    int    `query:"offset" validate:"omitempty,min=0"`
}

// RecentCallsRequest carries the query parameters of the recent calls endpoint
type RecentCallsRequest struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

// StatsRangeRequest carries the explicit window of the range stats endpoint
type StatsRangeRequest struct {
	FromDate string `query:"from_date"`
	ToDate   string `query:"to_date"`
}

// OutboundCallRequest initiates an outbound call
type OutboundCallRequest struct {
	To string `json:"to" validate:"required,e164"`
}

// SendInfoSMSRequest is the payload the AI assistant posts when invoking the
// send-info-SMS tool mid-call
type SendInfoSMSRequest struct {
	CallControlID string `json:"call_control_id"`
	MessageType   string `json:"message_type"`
	CustomText    string `json:"custom_text,omitempty"`
}

// BookAppointmentRequest is the payload of the book-appointment tool webhook
type BookAppointmentRequest struct {
	ClientName    string `json:"client_name"`
	Service       string `json:"service"`
	PreferredDate string `json:"preferred_date,omitempty"`
	PreferredTime string `json:"preferred_time,omitempty"`
	Phone         string `json:"phone,omitempty"`
}
