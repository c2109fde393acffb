package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/contractgen"
	"github.com/NEILBATCHELOR/Cap-Table-Management-v3/models"
)

const noteYAML = `
name: Credit Linked Note
symbol: CLN
decimals: 6
standard: ERC-3525
total_supply: 1000000
blocks:
  compliance: [kyc]
  features: [legacy-module]
metadata:
  tranches:
    - {id: 1, name: Senior, value: 700000, interest_rate_bps: 300}
`

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestDraftCommandPrintsContract(t *testing.T) {
	specPath := filepath.Join(t.TempDir(), "token.yaml")
	require.NoError(t, os.WriteFile(specPath, []byte(noteYAML), 0o600))

	stdout, stderr, err := runCLI(t, "draft", "--spec", specPath)

	require.NoError(t, err)
	assert.Contains(t, stdout, "contract CreditLinkedNote")
	assert.Contains(t, stdout, `_createSlot(1, "Senior", 700000, 300);`)
	assert.Contains(t, stderr, "bloco ignorado: features:legacy-module")
	assert.Contains(t, stderr, contractgen.WarningTrancheSumMismatch)
}

func TestDraftCommandWritesFile(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "token.yaml")
	outPath := filepath.Join(dir, "Token.sol")
	require.NoError(t, os.WriteFile(specPath, []byte(noteYAML), 0o600))

	stdout, _, err := runCLI(t, "draft", "--spec", specPath, "--out", outPath)

	require.NoError(t, err)
	assert.Empty(t, stdout)
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	expected, err := contractgen.Compose(mustLoadSpec(t, specPath))
	require.NoError(t, err)
	assert.Equal(t, expected.FullText, string(data))
}

func TestDraftCommandRejectsUnknownStandard(t *testing.T) {
	specPath := filepath.Join(t.TempDir(), "token.yaml")
	require.NoError(t, os.WriteFile(specPath, []byte("name: X\nsymbol: X\nstandard: ERC-9999\n"), 0o600))

	_, _, err := runCLI(t, "draft", "--spec", specPath)
	assert.ErrorIs(t, err, contractgen.ErrUnsupportedStandard)
}

func TestDraftCommandRequiresSpecFlag(t *testing.T) {
	_, _, err := runCLI(t, "draft")
	assert.Error(t, err)
}

func mustLoadSpec(t *testing.T, path string) models.TokenSpecification {
	t.Helper()
	spec, err := loadSpec(path)
	require.NoError(t, err)
	return spec
}
