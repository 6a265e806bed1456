package dto

// CreateUserRequest is official-only. Role is fixed at creation and can
// never be changed afterwards.
type CreateUserRequest struct {
	FullName string  `json:"full_name" binding:"required,min=3,max=100"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Role     string  `json:"role" binding:"required,oneof=official teacher student"`
	Position *string `json:"position"` // officials only
	Branch   *string `json:"branch"`   // teachers and students
}

type UpdateUserRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,min=3,max=100"`
	Position *string `json:"position"`
	Branch   *string `json:"branch"`
}

type UserFilter struct {
	Role   string `form:"role"`
	Branch string `form:"branch"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}
