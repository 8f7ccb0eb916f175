package services

import (
	"crypto/rand"
	"math/big"
)

const (
	reservationCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	ReservationCodeLength   = 8
	MaxCodeAttempts         = 10
)

// GenerateReservationCode draws ReservationCodeLength characters uniformly from [A-Z0-9].
func GenerateReservationCode() (string, error) {
	max := big.NewInt(int64(len(reservationCodeAlphabet)))
	buf := make([]byte, ReservationCodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = reservationCodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// IsReservationCode reports whether s has the shape of an issued code.
func IsReservationCode(s string) bool {
	if len(s) != ReservationCodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
