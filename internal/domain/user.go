package domain

type Role string

const (
	RoleClient Role = "CLIENT"
	RoleWorker Role = "WORKER"
)

func (r Role) Valid() bool {
	return r == RoleClient || r == RoleWorker
}

// UserProfile is the active session identity. Exactly one may be persisted
// per running client instance.
type UserProfile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar"`
}
