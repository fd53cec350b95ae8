package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	perr "wikientities/internal/platform/errors"
	kit "wikientities/internal/platform/testkit"

	"github.com/stretchr/testify/require"
)

var entities = kit.Lines(
	"dogs\t200\t80\tEN:3:1:85%",
	"cats\t120\t60\tEN:1:0:95%",
	"fish\t10\t10\tEN:3:1:99%",
	"dogs\t200\t80\tfoo:90%",
	"tabby\t200\t80\tCategory:Cats:12:3:91%",
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_Defaults(t *testing.T) {
	in := kit.WriteFile(t, "entities.gz", kit.Gzip(t, entities))
	out := filepath.Join(t.TempDir(), "subset.tsv")

	_, err := execute(t, "--input", in, "--output", out)
	require.NoError(t, err)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "dogs\tEN\ntabby\tCategory:Cats\n", string(b))
}

func TestRoot_FlagsOverrideEnv(t *testing.T) {
	in := kit.WriteFile(t, "entities.gz", kit.Gzip(t, entities))
	out := filepath.Join(t.TempDir(), "subset.tsv")

	// env says minlen 5 which would drop "dogs"; the flag wins
	t.Setenv("SUBSET_MINLEN", "5")
	_, err := execute(t, "-i", in, "-o", out, "--minlen", "3", "--exactonly=false")
	require.NoError(t, err)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "dogs\tEN\ncats\tEN\ntabby\tCategory:Cats\n", string(b))
}

func TestRoot_EnvAppliesWithoutFlag(t *testing.T) {
	in := kit.WriteFile(t, "entities.gz", kit.Gzip(t, entities))
	out := filepath.Join(t.TempDir(), "subset.tsv")

	t.Setenv("SUBSET_MINLEN", "5")
	_, err := execute(t, "-i", in, "-o", out)
	require.NoError(t, err)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "tabby\tCategory:Cats\n", string(b))
}

func TestRoot_Profile(t *testing.T) {
	in := kit.WriteFile(t, "entities.gz", kit.Gzip(t, entities))
	out := filepath.Join(t.TempDir(), "subset.tsv")
	profile := kit.WriteFile(t, "strict.yaml", []byte("mintrustexact: 90\n"))

	_, err := execute(t, "-i", in, "-o", out, "--profile", profile)
	require.NoError(t, err)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "tabby\tCategory:Cats\n", string(b))
}

func TestRoot_InvalidThreshold(t *testing.T) {
	in := kit.WriteFile(t, "entities.gz", kit.Gzip(t, entities))
	_, err := execute(t, "-i", in, "--mintrust", "150")
	require.True(t, perr.IsCode(err, perr.ErrorCodeValidation))
}

func TestRoot_MissingInput(t *testing.T) {
	_, err := execute(t, "-i", filepath.Join(t.TempDir(), "entities.gz"))
	require.True(t, perr.IsCode(err, perr.ErrorCodeIO))
}

func TestRoot_RejectsArgs(t *testing.T) {
	_, err := execute(t, "entities.gz")
	require.Error(t, err)
}

func TestRoot_Version(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	kit.MustContain(t, out, "dev")
}

func TestRoot_BadEnvIsConfigError(t *testing.T) {
	in := kit.WriteFile(t, "entities.gz", kit.Gzip(t, entities))
	t.Setenv("SUBSET_MINTRUST", "ninety")
	_, err := execute(t, "-i", in)
	require.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))
}

// closedStdoutEnv marks the re-executed test binary that runs the command with a
// stdout whose reader is already gone
const closedStdoutEnv = "WIKIENTITIES_SUBSET_CLOSED_STDOUT"

func TestRoot_ClosedStdoutEndsCleanly(t *testing.T) {
	if in := os.Getenv(closedStdoutEnv); in != "" {
		cmd := newRootCmd()
		cmd.SetArgs([]string{"-i", in})
		if err := cmd.Execute(); err != nil {
			os.Exit(1)
		}
		os.Exit(0)
	}

	in := kit.WriteFile(t, "entities.gz", kit.Gzip(t, entities))

	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	require.NoError(t, pr.Close())
	defer pw.Close()

	var stderr bytes.Buffer
	child := exec.Command(os.Args[0], "-test.run=^TestRoot_ClosedStdoutEndsCleanly$")
	child.Env = append(os.Environ(),
		closedStdoutEnv+"="+in,
		"LOG_LEVEL=debug",
		"LOG_FORMAT=json",
	)
	child.Stdout = pw
	child.Stderr = &stderr

	// killed by SIGPIPE would surface as an *exec.ExitError
	require.NoError(t, child.Run(), stderr.String())
	kit.MustContain(t, stderr.String(), "output closed early")
}
