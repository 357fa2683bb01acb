package user

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var salt = []byte("taskspro.backend.core.user.token_gen")

// makeToken generates a password reset token for a given User.
// The token is invalidated by a password change or a login.
func makeToken(usr User, secretKey []byte) string {
	return makeTokenWithTimestamp(usr, secretKey, numDaysSince2001(nowFunc()))
}

// checkToken reports whether a password reset token for a given User is
// genuine and has not expired.
func checkToken(token string, usr User, secretKey []byte, timeout time.Duration) bool {
	if token == "" {
		return false
	}

	parts := strings.SplitN(token, "-", 2)
	if len(parts) < 2 {
		return false
	}

	data, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(parts[0])
	if err != nil {
		return false
	}
	ts, err := strconv.Atoi(string(data))
	if err != nil {
		return false
	}

	// check that token has not been tampered with
	newToken := makeTokenWithTimestamp(usr, secretKey, ts)
	if subtle.ConstantTimeCompare([]byte(newToken), []byte(token)) == 0 {
		return false
	}

	// check that the timestamp is within limit
	return (numDaysSince2001(nowFunc()) - ts) <= int(timeout/(24*time.Hour))
}

func makeTokenWithTimestamp(usr User, secretKey []byte, ts int) string {
	tsB32 := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString([]byte(strconv.Itoa(ts)))
	return fmt.Sprintf("%s-%s", tsB32, sign(hashValue(usr, ts), secretKey))
}

func numDaysSince2001(t time.Time) int {
	ref := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	return int(math.Ceil(t.Sub(ref).Hours() / 24))
}

func sign(val, secretKey []byte) string {
	key := sha256.Sum256(append(salt, secretKey...))
	h := hmac.New(sha256.New, key[:])
	h.Write(val)
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

func hashValue(usr User, ts int) []byte {
	var val bytes.Buffer
	val.WriteString(usr.ID)
	val.Write(usr.PasswordHash)
	if !usr.LastLogin.IsZero() {
		val.WriteString(usr.LastLogin.String())
	}
	val.WriteString(strconv.Itoa(ts))
	return val.Bytes()
}
