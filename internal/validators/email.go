package validators

import (
	"context"
	"net"
	"net/mail"
	"strings"
	"time"
)

// DomainChecker diz se o domínio de um e-mail recebe correio.
type DomainChecker func(email string) bool

const lookupTimeout = 3 * time.Second

// EmailDomainResolver consulta o DNS do domínio: MX primeiro, A/AAAA como fallback (RFC 5321).
type EmailDomainResolver struct {
	LookupMX   func(ctx context.Context, host string) ([]*net.MX, error)
	LookupHost func(ctx context.Context, host string) ([]string, error)
	Timeout    time.Duration
}

// NewEmailDomainResolver usa o resolver do sistema.
func NewEmailDomainResolver() *EmailDomainResolver {
	return &EmailDomainResolver{
		LookupMX:   net.DefaultResolver.LookupMX,
		LookupHost: net.DefaultResolver.LookupHost,
		Timeout:    lookupTimeout,
	}
}

// Check satisfaz DomainChecker.
func (r *EmailDomainResolver) Check(email string) bool {
	domain, ok := EmailDomain(email)
	if !ok {
		return false
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = lookupTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if mx, err := r.LookupMX(ctx, domain); err == nil {
		for _, rec := range mx {
			// MX nulo "." (RFC 7505): domínio declara que não recebe e-mail
			if rec.Host == "." {
				return false
			}
		}
		if len(mx) > 0 {
			return true
		}
	}

	addrs, err := r.LookupHost(ctx, domain)
	return err == nil && len(addrs) > 0
}

// EmailDomain extrai o domínio de um endereço sintaticamente válido.
func EmailDomain(email string) (string, bool) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Name != "" {
		return "", false
	}

	at := strings.LastIndex(addr.Address, "@")
	domain := strings.ToLower(strings.TrimSuffix(addr.Address[at+1:], "."))
	if domain == "" || !strings.Contains(domain, ".") {
		return "", false
	}
	return domain, true
}

// IsEmailDomainValid é o checker padrão, com o resolver do sistema.
func IsEmailDomainValid(email string) bool {
	return NewEmailDomainResolver().Check(email)
}
