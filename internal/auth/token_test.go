package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type TokenSuite struct {
	suite.Suite
	manager *TokenManager
}

func TestTokenSuite(t *testing.T) {
	suite.Run(t, new(TokenSuite))
}

func (s *TokenSuite) SetupTest() {
	s.manager = NewTokenManager("test-secret", 15)
}

func (s *TokenSuite) TestRoundTrip() {
	const address = "0x00000000000000000000000000000000000000ad"

	token, expiresAt, err := s.manager.GenerateToken(address)
	s.Require().NoError(err)
	s.NotEmpty(token)
	s.WithinDuration(time.Now().Add(15*time.Minute), expiresAt, time.Minute)

	claims, err := s.manager.ParseToken(token)
	s.Require().NoError(err)
	s.Equal(address, claims.Address)
	s.Equal(address, claims.Subject)
}

func (s *TokenSuite) TestRejectsForeignSecret() {
	token, _, err := NewTokenManager("other-secret", 15).GenerateToken("0xabc")
	s.Require().NoError(err)

	_, err = s.manager.ParseToken(token)
	s.Error(err)
}

func (s *TokenSuite) TestRejectsGarbage() {
	_, err := s.manager.ParseToken("not-a-token")
	s.Error(err)
}

func (s *TokenSuite) TestDefaultTTLWhenUnset() {
	manager := NewTokenManager("secret", 0)
	_, expiresAt, err := manager.GenerateToken("0xabc")
	s.Require().NoError(err)
	s.WithinDuration(time.Now().Add(time.Hour), expiresAt, time.Minute)
}
