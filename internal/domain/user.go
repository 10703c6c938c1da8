package domain

// User is the slice of the marketplace user record the chat subsystem needs.
// Accounts are owned by the surrounding application; chat only reads them.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
