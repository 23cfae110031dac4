package auth

import (
	"time"

	"simonduel/domain"
)

type TokenManager interface {
	Generate(identity domain.Identity, now time.Time) (string, error)
	Verify(token string) (domain.Identity, error)
}
