package entity

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleHost  UserRole = "host"
	RoleAdmin UserRole = "admin"
)

type User struct {
	BaseNoDelete
	Username     string   `db:"username"`
	Email        string   `db:"email"`
	PasswordHash string   `db:"password"`
	Role         UserRole `db:"role"`
	Avatar       string   `db:"avatar"`
	Phone        *string  `db:"phone"`
}

// CanHost reports whether the role may list properties.
func (u *User) CanHost() bool {
	return u.Role == RoleHost || u.Role == RoleAdmin
}
