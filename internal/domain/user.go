package domain

type ContextKey string

const UserContextKey ContextKey = "user"

// User is the authenticated principal attached to admin requests. Tokens are
// minted by the deployment's identity layer; this service only validates
// them.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
