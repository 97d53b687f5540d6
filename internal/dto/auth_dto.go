package dto

// LoginRequest carries the anonymous participant code. Codes are validated
// for shape before any store lookup happens.
type LoginRequest struct {
	Code string `json:"code" validate:"required,len=6,alphanum"`
}

// LoginResponse is returned after a successful participant login.
type LoginResponse struct {
	Token             string  `json:"token"`
	Code              string  `json:"code"`
	ClassID           string  `json:"class_id"`
	Streak            int     `json:"streak"`
	CompletedDays     int     `json:"completed_days"`
	Coins             int     `json:"coins"`
	LastSubmission    *string `json:"last_submission_date"`
	HasSubmittedToday bool    `json:"has_submitted_today"`
}

// StaffLoginRequest authenticates a teacher or admin account.
type StaffLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// StaffLoginResponse is returned after a successful staff login.
type StaffLoginResponse struct {
	Token       string `json:"token"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
	ClassID     string `json:"class_id,omitempty"`
}
