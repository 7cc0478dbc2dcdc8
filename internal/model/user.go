package model

// UserRole 来自外部身份平台令牌中的角色声明
type UserRole string

const (
	Student    UserRole = "student"
	Instructor UserRole = "instructor"
	Admin      UserRole = "admin"
)
