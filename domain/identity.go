package domain

// Identity is the authenticated caller: a guest session id plus the display
// name it was created with.
type Identity struct {
	ID       string
	Username string
}
