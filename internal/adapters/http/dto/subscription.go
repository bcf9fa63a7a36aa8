package dto

// SubscribeRequest is the body of POST /subscribe. Email format is checked
// by the subscription service so its messages reach the client verbatim.
type SubscribeRequest struct {
	Email    string `json:"email"    validate:"max=254"`
	Timezone string `json:"timezone" validate:"omitempty,max=64,timezone"`
}

// UnsubscribeRequest is the body of POST /unsubscribe.
type UnsubscribeRequest struct {
	Email string `json:"email" validate:"max=254"`
}

// TokenQuery is the query of GET /unsubscribe.
type TokenQuery struct {
	Token string `form:"token" validate:"max=128"`
}

// MessageResponse is the success body of every subscription endpoint.
type MessageResponse struct {
	Message string `json:"message"`
}
