package dto

// AccountRequest is the JSON body for POST /register and POST /login.
type AccountRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AccountResponse is the account as returned to clients. Password is left
// out when echoing is disabled.
type AccountResponse struct {
	AccountID int64  `json:"account_id"`
	Username  string `json:"username"`
	Password  string `json:"password,omitempty"`
}
