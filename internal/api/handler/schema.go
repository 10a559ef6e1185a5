package handler

import (
	"time"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
)

// errorResponse documents the error envelope rendered by the central error handler.
type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

type messageResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

// --- Auth ---

type registerRequest struct {
	FullName        string `json:"fullName"        form:"fullName"`
	Email           string `json:"email"           form:"email"           validate:"required,email"`
	Password        string `json:"password"        form:"password"        validate:"password"`
	PasswordConfirm string `json:"passwordConfirm" form:"passwordConfirm" validate:"eqfield=Password"`
}

type registerResponse struct {
	Message  string       `json:"message"`
	User     *domain.User `json:"user"`
	Redirect string       `json:"redirect"`
}

type loginRequest struct {
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
}

type sessionResponse struct {
	Token    string       `json:"token"`
	User     *domain.User `json:"user"`
	Redirect string       `json:"redirect,omitempty"`
}

type updateProfileRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email"    form:"email"`
	Gender   string `json:"gender"   form:"gender"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"           form:"token"           param:"token" validate:"required"`
	Password        string `json:"password"        form:"password"        validate:"password"`
	PasswordConfirm string `json:"passwordConfirm" form:"passwordConfirm" validate:"eqfield=Password"`
}

type adminLoginRequest struct {
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
}

type adminSessionResponse struct {
	Token    string        `json:"token"`
	Admin    *domain.Admin `json:"admin"`
	Redirect string        `json:"redirect"`
}

// --- Catalog ---

type courseResponse struct {
	Course *domain.Course `json:"course"`
}

type coursesResponse struct {
	Courses []domain.Course `json:"courses"`
}

type enrollResponse struct {
	Message    string             `json:"message"`
	Enrollment *domain.Enrollment `json:"enrollment"`
}

type myCoursesResponse struct {
	Enrolled  []domain.EnrolledCourse `json:"enrolled"`
	Available []domain.Course         `json:"available"`
}

// --- Meetings ---

type meetingRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Start       string  `json:"start"`
	End         *string `json:"end"`
	AllDay      bool    `json:"allDay"`
}

type meetingItem struct {
	ID     uint       `json:"id"`
	Title  string     `json:"title"`
	Start  time.Time  `json:"start"`
	End    *time.Time `json:"end"`
	AllDay bool       `json:"allDay"`
}

// --- Admin users ---

type followupRequest struct {
	UserIDs    []uint   `json:"userIds"    validate:"omitempty,dive,gt=0"`
	UserEmails []string `json:"userEmails" validate:"omitempty,dive,required"`
}

type followupItem struct {
	UserID  uint   `json:"userId"`
	Email   string `json:"email"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type followupResponse struct {
	Message string         `json:"message"`
	Sent    int            `json:"sent"`
	Failed  int            `json:"failed"`
	Results []followupItem `json:"results"`
}

type listUsersQuery struct {
	Search string `query:"search"`
	Page   int    `query:"page"  validate:"min=0"`
	Limit  int    `query:"limit" validate:"min=0"`
}

type usersPageResponse struct {
	Users      []domain.User `json:"users"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"totalPages"`
}

type paymentsResponse struct {
	Payments []domain.Payment `json:"payments"`
}
