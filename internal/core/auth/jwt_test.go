package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realestate-crm/internal/domain"
)

func newJWTer(now time.Time) *JWTer {
	return &JWTer{
		Secret: []byte("test-secret"),
		Issuer: "crm-test",
		TTL:    24 * time.Hour,
		Now:    func() time.Time { return now },
	}
}

func TestIssueParseRoundTrip(t *testing.T) {
	j := newJWTer(time.Now())
	tok, err := j.Issue(&domain.User{ID: 7, Email: "bob@x.com", Role: domain.RoleSales})
	require.NoError(t, err)

	c, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, domain.Actor{ID: 7, Email: "bob@x.com", Role: domain.RoleSales}, c.Actor())
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), c.ExpiresAt.Time, 2*time.Second)
}

func TestParseRejectsExpired(t *testing.T) {
	issued := time.Now().Add(-25 * time.Hour)
	tok, err := newJWTer(issued).Issue(&domain.User{ID: 1, Role: domain.RoleAdmin})
	require.NoError(t, err)

	_, err = newJWTer(time.Now()).Parse(tok)
	assert.Error(t, err)
}

func TestParseRejectsForeignSecret(t *testing.T) {
	other := newJWTer(time.Now())
	other.Secret = []byte("someone-else")
	tok, err := other.Issue(&domain.User{ID: 1, Role: domain.RoleAdmin})
	require.NoError(t, err)

	_, err = newJWTer(time.Now()).Parse(tok)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := newJWTer(time.Now()).Parse("not-a-token")
	assert.Error(t, err)
}
