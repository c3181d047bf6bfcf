package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderNumber(t *testing.T) {
	number := GenerateOrderNumber()
	assert.Regexp(t, `^ORD-\d{8}-[0-9A-F]{5}$`, number)
}

func TestGenerateRequestNumber(t *testing.T) {
	number := GenerateRequestNumber()
	assert.Regexp(t, `^SR-\d{8}-[0-9A-F]{5}$`, number)
}

func TestGeneratePickupToken(t *testing.T) {
	token := GeneratePickupToken()
	assert.Regexp(t, `^[0-9a-f]{64}$`, token)
	assert.NotEqual(t, token, GeneratePickupToken())
}
