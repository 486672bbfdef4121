package pkg

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// UserIDHeader carries the authenticated user id, resolved by the
// auth edge in front of this service.
const UserIDHeader = "X-User-ID"

var ErrNoUserID = errors.New("no user id in request")

func UserIDFromRequest(r *http.Request) (uuid.UUID, error) {
	userIDStr := r.Header.Get(UserIDHeader)
	if userIDStr == "" {
		return uuid.Nil, ErrNoUserID
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, err
	}

	return userID, nil
}
