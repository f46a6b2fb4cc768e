package globals

import (
	"context"
	"os"
)

var (
	JwtSecret = []byte(Env("JWT_SECRET", "your_secret_key"))
)

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const UserIDKey ContextKey = "userId"

var Ctx = context.Background()

// Env returns the named environment variable or fallback when unset.
func Env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
