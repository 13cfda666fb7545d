package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const secret = "test_secret_key"

func TestVerifySignatureAcceptsValid(t *testing.T) {
	sig := Sign(secret, "order_ABC", "pay_XYZ")
	assert.Len(t, sig, 64)
	assert.True(t, VerifySignature(secret, "order_ABC", "pay_XYZ", sig))
}

func TestVerifySignatureRejectsEverySingleByteMutation(t *testing.T) {
	sig := []byte(Sign(secret, "order_ABC", "pay_XYZ"))

	for i := range sig {
		for _, b := range []byte("0123456789abcdefABCDEF") {
			if b == sig[i] {
				continue
			}
			mutated := append([]byte(nil), sig...)
			mutated[i] = b
			if !assert.False(t, VerifySignature(secret, "order_ABC", "pay_XYZ", string(mutated)), "position %d byte %q", i, b) {
				return
			}
		}
	}
}

func TestVerifySignatureBindsOrderAndPayment(t *testing.T) {
	sig := Sign(secret, "order_ABC", "pay_XYZ")

	assert.False(t, VerifySignature(secret, "order_ABD", "pay_XYZ", sig))
	assert.False(t, VerifySignature(secret, "order_ABC", "pay_XYY", sig))
	assert.False(t, VerifySignature("other", "order_ABC", "pay_XYZ", sig))
	assert.False(t, VerifySignature(secret, "order_ABC", "pay_XYZ", ""))
	assert.False(t, VerifySignature(secret, "order_ABC", "pay_XYZ", sig[:63]))
	assert.False(t, VerifySignature("", "order_ABC", "pay_XYZ", Sign("", "order_ABC", "pay_XYZ")))
}

func TestGatewayKeyID(t *testing.T) {
	g := NewGateway(Config{KeyID: "rzp_test_1", KeySecret: secret})
	assert.Equal(t, "rzp_test_1", g.KeyID())
	assert.True(t, g.VerifySignature("o", "p", Sign(secret, "o", "p")))
}
