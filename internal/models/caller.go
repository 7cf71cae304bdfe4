package models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Caller identifies the requester of a single operation. It is built
// at the delivery boundary and passed explicitly into every service
// call; services never read identity from ambient state.
type Caller struct {
	ID         string
	Privileged bool
}
