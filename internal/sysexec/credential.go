package sysexec

import (
	"context"
	"os"

	"github.com/rs/zerolog"
)

const redacted = "[REDACTED]"

// Credential is secret material handed to sudo. It never prints its content.
type Credential []byte

func (Credential) String() string   { return redacted }
func (Credential) GoString() string { return redacted }

func (c Credential) MarshalZerologObject(e *zerolog.Event) {
	e.Bool("redacted", true).Int("len", len(c))
}

// Zero overwrites the credential in place.
func (c Credential) Zero() {
	for i := range c {
		c[i] = 0
	}
}

// CredentialSource yields a fresh credential for a single invocation. The
// caller owns the returned slice and zeroes it when done.
type CredentialSource interface {
	Credential(ctx context.Context) (Credential, error)
}

// CredentialFunc adapts a function to CredentialSource.
type CredentialFunc func(ctx context.Context) (Credential, error)

func (f CredentialFunc) Credential(ctx context.Context) (Credential, error) {
	return f(ctx)
}

// StaticCredential returns a source that hands out a copy of secret on every
// call. An empty secret yields a nil source.
func StaticCredential(secret string) CredentialSource {
	if secret == "" {
		return nil
	}

	return CredentialFunc(func(context.Context) (Credential, error) {
		return Credential(secret), nil
	})
}

// EnvCredential reads the credential from the environment at invocation time.
func EnvCredential(key string) CredentialSource {
	return CredentialFunc(func(context.Context) (Credential, error) {
		value, ok := os.LookupEnv(key)
		if !ok || value == "" {
			return nil, nil
		}
		return Credential(value), nil
	})
}
