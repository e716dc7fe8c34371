package dto

// MessageRequest is the JSON body for POST /messages.
type MessageRequest struct {
	PostedBy        int64  `json:"posted_by"`
	MessageText     string `json:"message_text"`
	TimePostedEpoch int64  `json:"time_posted_epoch"`
}

// UpdateMessageRequest is the JSON body for PATCH /messages/{id}. Any other
// field in the body is ignored.
type UpdateMessageRequest struct {
	MessageText string `json:"message_text"`
}

type MessageResponse struct {
	MessageID       int64  `json:"message_id"`
	PostedBy        int64  `json:"posted_by"`
	MessageText     string `json:"message_text"`
	TimePostedEpoch int64  `json:"time_posted_epoch"`
}
