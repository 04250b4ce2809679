package domain

// Principal is the authenticated caller of a directory operation.
type Principal struct {
	UserID string
	Name   string
	Email  string
	Role   Role
}
