package validators

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmailDomainValidRejectsMalformed(t *testing.T) {
	for _, email := range []string{"", "no-at-sign", "trailing@", "Léa <lea@example.fr>", "lea@localhost"} {
		assert.False(t, IsEmailDomainValid(email), email)
	}
}

func fakeResolver(mx map[string][]*net.MX, hosts map[string][]string) *EmailDomainResolver {
	notFound := errors.New("no such host")
	return &EmailDomainResolver{
		LookupMX: func(_ context.Context, host string) ([]*net.MX, error) {
			if recs, ok := mx[host]; ok {
				return recs, nil
			}
			return nil, notFound
		},
		LookupHost: func(_ context.Context, host string) ([]string, error) {
			if addrs, ok := hosts[host]; ok {
				return addrs, nil
			}
			return nil, notFound
		},
	}
}

func TestEmailDomainResolver(t *testing.T) {
	r := fakeResolver(
		map[string][]*net.MX{
			"nanaheadspa.fr": {{Host: "mx1.mail.fr.", Pref: 10}},
			"nomail.fr":      {{Host: ".", Pref: 0}},
		},
		map[string][]string{
			"a-record.fr": {"192.0.2.10"},
			"nomail.fr":   {"192.0.2.11"},
		},
	)

	cases := map[string]bool{
		"contact@nanaheadspa.fr": true,
		"Contact@NanaHeadSpa.FR": true,
		"lea@a-record.fr":        true,
		"lea@nomail.fr":          false,
		"lea@inexistant.fr":      false,
		"pas-une-adresse":        false,
	}
	for email, want := range cases {
		assert.Equal(t, want, r.Check(email), email)
	}
}

func TestEmailDomain(t *testing.T) {
	d, ok := EmailDomain("  Camille@Example.COM ")
	require.True(t, ok)
	assert.Equal(t, "example.com", d)

	_, ok = EmailDomain("camille@")
	assert.False(t, ok)
}
