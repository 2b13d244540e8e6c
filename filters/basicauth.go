package filters

import (
	"net/http"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/lopn/routing"
)

// UserKey is the context key holding the authenticated basic auth user.
const UserKey = "filters.user"

// HashPassword hashes a password for use in BasicAuthOptions.Users.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// BasicAuthOptions configures BasicAuth.
type BasicAuthOptions struct {
	// Realm is sent in the WWW-Authenticate challenge.
	Realm string
	// Users maps user names to bcrypt password hashes.
	Users map[string]string
}

// dummyHash is compared against when the user is unknown.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("routing"), bcrypt.MinCost)

// BasicAuth answers with a 401 challenge unless the request carries valid
// basic credentials. On success the user name is stored under UserKey.
func BasicAuth(options BasicAuthOptions) routing.Filter {
	realm := options.Realm
	if realm == "" {
		realm = "restricted"
	}
	challenge := "Basic realm=" + strconv.Quote(realm)

	return func(ctx *routing.Context, _ ...string) (any, error) {
		user, password, ok := ctx.Request.BasicAuth()
		if ok && checkPassword(options.Users, user, password) {
			ctx.Set(UserKey, user)
			return nil, nil
		}

		resp := routing.NewResponse(http.StatusUnauthorized, "unauthorized")
		resp.Header.Set("WWW-Authenticate", challenge)
		ctx.Logger().Debug("basic auth rejected")
		return resp, nil
	}
}

func checkPassword(users map[string]string, user, password string) bool {
	hash, known := users[user]
	if !known {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
