// Package token implements the attendance proximity token.
//
// A token is the first four bytes (big-endian) of
//
//	HMAC-SHA256(secret, "{user_id}|{gym_id}|{window_index}")
//
// where window_index = floor(unix_seconds / 30). The message layout is a wire
// contract shared by the generator and the verifier: gym ids are rendered in
// base 10 without padding and the separator is a single '|'.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"strconv"
	"strings"
	"time"
)

// WindowSeconds is the validity epoch of a single token.
const WindowSeconds int64 = 30

// MaxTolerance bounds how many windows either side of "now" a verifier may accept.
const MaxTolerance = 2

var ErrEmptySecret = errors.New("token: secret is empty")

// Secret is the process-wide HMAC key. It is immutable after construction and
// safe for concurrent use without synchronization.
type Secret struct {
	key []byte
}

func NewSecret(raw string) (Secret, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Secret{}, ErrEmptySecret
	}
	key := make([]byte, len(raw))
	copy(key, raw)
	return Secret{key: key}, nil
}

func (s Secret) IsZero() bool {
	return len(s.key) == 0
}

// Message builds the version-1 derivation input.
func Message(userID string, gymID int64, window int64) string {
	var b strings.Builder
	b.Grow(len(userID) + 32)
	b.WriteString(userID)
	b.WriteByte('|')
	b.WriteString(strconv.FormatInt(gymID, 10))
	b.WriteByte('|')
	b.WriteString(strconv.FormatInt(window, 10))
	return b.String()
}

// Derive computes the 32-bit token for (user, gym, window).
func (s Secret) Derive(userID string, gymID int64, window int64) uint32 {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(Message(userID, gymID, window)))
	return binary.BigEndian.Uint32(mac.Sum(nil)[:4])
}

// Match recomputes the token for each candidate window in order and returns
// the first window whose token equals presented.
func (s Secret) Match(userID string, gymID int64, presented uint32, candidates []int64) (int64, bool) {
	for _, w := range candidates {
		expected := s.Derive(userID, gymID, w)
		if subtle.ConstantTimeEq(int32(expected), int32(presented)) == 1 {
			return w, true
		}
	}
	return 0, false
}

// WindowIndex returns floor(unix_seconds / 30) for t.
func WindowIndex(t time.Time) int64 {
	sec := t.Unix()
	w := sec / WindowSeconds
	if sec%WindowSeconds != 0 && sec < 0 {
		w--
	}
	return w
}

// WindowsAround returns the candidate windows t-tolerance..t+tolerance in
// ascending order. A negative tolerance is treated as zero.
func WindowsAround(t int64, tolerance int) []int64 {
	if tolerance < 0 {
		tolerance = 0
	}
	out := make([]int64, 0, 2*tolerance+1)
	for d := -tolerance; d <= tolerance; d++ {
		out = append(out, t+int64(d))
	}
	return out
}

// Split returns the advertisement halves: major = high 16 bits, minor = low 16 bits.
func Split(tok uint32) (major, minor uint16) {
	return uint16(tok >> 16), uint16(tok & 0xFFFF)
}

// Join is the inverse of Split, used by scanners decoding an advertisement.
func Join(major, minor uint16) uint32 {
	return uint32(major)<<16 | uint32(minor)
}
