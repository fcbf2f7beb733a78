package user

type CreateUserRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role" binding:"required,oneof=ADMIN MANAGER EMPLOYEE"`
	ManagerID string `json:"manager_id"`
}

type UpdateUserRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password"`
	Role      string `json:"role" binding:"required,oneof=ADMIN MANAGER EMPLOYEE"`
	ManagerID string `json:"manager_id"`
}

type UserResponse struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Email               string  `json:"email"`
	Role                string  `json:"role"`
	ManagerID           *string `json:"manager_id,omitempty"`
	ForcePasswordChange bool    `json:"force_password_change"`
}
