package identity

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// OTPTTL is how long an issued challenge stays verifiable.
const OTPTTL = 10 * time.Minute

// otpRange spans the 6-digit codes 100000..999999, so the leading digit is
// never zero.
var otpRange = big.NewInt(900000)

// GenerateOTP draws a uniform 6-digit code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpRange)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
