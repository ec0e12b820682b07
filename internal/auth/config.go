// Package auth describes the identity supplied by the external identity
// provider: who is acting, with which role, under which display name.
package auth

import "os"

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
