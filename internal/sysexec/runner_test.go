//go:build unix

package sysexec_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/ryzenctl/internal/errors"
	"codeberg.org/mutker/ryzenctl/internal/sysexec"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSudo records the password it reads from stdin and the arguments it got.
func fakeSudo(t *testing.T) (path, secretFile string) {
	t.Helper()

	dir := t.TempDir()
	path = filepath.Join(dir, "sudo")
	secretFile = filepath.Join(dir, "secret")

	script := fmt.Sprintf("#!/bin/sh\nread -r pw\nprintf '%%s' \"$pw\" > %q\nprintf '%%s\\n' \"$*\"\n", secretFile)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o700))

	return path, secretFile
}

func TestRunCapturesOutput(t *testing.T) {
	r := sysexec.NewRunner()

	res, err := r.Run(context.Background(), sysexec.Command{
		Name: "sh",
		Args: []string{"-c", "echo out; echo err >&2; exit 3"},
	})
	require.NoError(t, err)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
	assert.Equal(t, 3, res.ExitCode)
}

func TestRunLaunchFailure(t *testing.T) {
	r := sysexec.NewRunner()

	res, err := r.Run(context.Background(), sysexec.Command{Name: "/nonexistent/ryzenadj"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCommandFailed))
	assert.Equal(t, -1, res.ExitCode)
}

func TestRunElevatedPassesCredentialOnStdin(t *testing.T) {
	sudo, secretFile := fakeSudo(t)

	var handedOut sysexec.Credential
	src := sysexec.CredentialFunc(func(context.Context) (sysexec.Credential, error) {
		handedOut = sysexec.Credential("hunter2")
		return handedOut, nil
	})

	r := sysexec.NewRunner(
		sysexec.WithSudo(sudo),
		sysexec.WithCredentials(src),
		sysexec.WithRootCheck(func() bool { return false }),
	)

	res, err := r.Run(context.Background(), sysexec.Command{
		Name:     "ryzenadj",
		Args:     []string{"--stapm-limit=15000"},
		Elevated: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "-S -p  -- ryzenadj --stapm-limit=15000\n", res.Stdout)

	secret, err := os.ReadFile(secretFile)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", string(secret))

	for _, b := range handedOut {
		assert.Zero(t, b)
	}
}

func TestRunElevatedWithoutCredential(t *testing.T) {
	sudo, _ := fakeSudo(t)

	r := sysexec.NewRunner(
		sysexec.WithSudo(sudo),
		sysexec.WithRootCheck(func() bool { return false }),
	)

	res, err := r.Run(context.Background(), sysexec.Command{Name: "ryzenadj", Args: []string{"-i"}, Elevated: true})
	require.NoError(t, err)
	assert.Equal(t, "-n -- ryzenadj -i\n", res.Stdout)
}

func TestRunElevatedAsRootSkipsSudo(t *testing.T) {
	r := sysexec.NewRunner(
		sysexec.WithSudo("/nonexistent/sudo"),
		sysexec.WithRootCheck(func() bool { return true }),
	)

	res, err := r.Run(context.Background(), sysexec.Command{Name: "echo", Args: []string{"ok"}, Elevated: true})
	require.NoError(t, err)
	assert.Equal(t, "ok\n", res.Stdout)
}

func TestRunCredentialError(t *testing.T) {
	src := sysexec.CredentialFunc(func(context.Context) (sysexec.Credential, error) {
		return nil, fmt.Errorf("keychain locked")
	})

	r := sysexec.NewRunner(
		sysexec.WithCredentials(src),
		sysexec.WithRootCheck(func() bool { return false }),
	)

	_, err := r.Run(context.Background(), sysexec.Command{Name: "ryzenadj", Elevated: true})
	assert.True(t, errors.HasCode(err, errors.ErrCredentialUnavailable))
}

func TestCredentialNeverPrints(t *testing.T) {
	cred := sysexec.Credential("hunter2")

	assert.Equal(t, "[REDACTED]", cred.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", cred))
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%#v", cred))

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	logger.Info().Object("credential", cred).Msg("")
	assert.NotContains(t, buf.String(), "hunter2")
	assert.Contains(t, buf.String(), `"redacted":true`)
}

func TestStaticCredentialCopies(t *testing.T) {
	assert.Nil(t, sysexec.StaticCredential(""))

	src := sysexec.StaticCredential("hunter2")
	first, err := src.Credential(context.Background())
	require.NoError(t, err)
	first.Zero()

	second, err := src.Credential(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("hunter2"), []byte(second))
}

func TestEnvCredential(t *testing.T) {
	t.Setenv("RYZENCTL_TEST_SECRET", "")
	cred, err := sysexec.EnvCredential("RYZENCTL_TEST_SECRET").Credential(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cred)

	t.Setenv("RYZENCTL_TEST_SECRET", "s3cret")
	cred, err = sysexec.EnvCredential("RYZENCTL_TEST_SECRET").Credential(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), []byte(cred))
}
