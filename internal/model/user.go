package model

// Role names carried in the JWT "role" claim.
const (
	RoleAdmin   = "ADMIN"
	RoleTeacher = "TEACHER"
)

// User represents an account that can sign in to the service.  Admins
// manage labs and teachers; teachers activate labs and control lights.
// The teacher's ID is the value recorded as a lab's active teacher.
//
// Fields:
//  ID           – unique identifier.
//  Email        – unique, lower-cased email address.
//  Name         – display name.
//  PasswordHash – bcrypt hash of the password.
//  Role         – ADMIN or TEACHER.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"password_hash"`
	Role         string `json:"role"`
}
