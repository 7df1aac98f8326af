package cmd

import (
	"bytes"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokamak-network/dao-action-builder/abi"
	"github.com/tokamak-network/dao-action-builder/actions"
	"github.com/tokamak-network/dao-action-builder/config"
	"github.com/tokamak-network/dao-action-builder/errorcodes"
)

const transferCalldata = "0xa9059cbb" +
	"0000000000000000000000001111111111111111111111111111111111111111" +
	"00000000000000000000000000000000000000000000000000000000000003e8"

// executeCommand runs the root command with the provided arguments and returns its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// TestParseParams checks key=value parsing.
func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"to=0x11", "data=[\"a=b\"]", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"to": "0x11", "data": "[\"a=b\"]", "empty": ""}, params)

	for _, pairs := range [][]string{{"novalue"}, {"=1"}, {"a=1", "a=2"}} {
		_, err = parseParams(pairs)
		assert.Error(t, err, "%v", pairs)
	}
}

// TestParseValues checks ether and wei amount parsing.
func TestParseValues(t *testing.T) {
	wei, err := parseEtherValue("1.5")
	require.NoError(t, err)
	assert.Equal(t, "1500000000000000000", wei.String())

	wei, err = parseEtherValue("0.000000000000000001")
	require.NoError(t, err)
	assert.Equal(t, 0, wei.Cmp(big.NewInt(1)))

	for _, text := range []string{"0.0000000000000000001", "-1", "abc"} {
		_, err = parseEtherValue(text)
		assert.Error(t, err, text)
	}

	wei, err = parseWeiValue("0x10")
	require.NoError(t, err)
	assert.Equal(t, 0, wei.Cmp(big.NewInt(16)))
	wei, err = parseWeiValue("1000")
	require.NoError(t, err)
	assert.Equal(t, 0, wei.Cmp(big.NewInt(1000)))
	_, err = parseWeiValue("-5")
	assert.Error(t, err)
	_, err = parseWeiValue("1.5")
	assert.Error(t, err)
}

// TestResolveFunctionSignature checks name-based lookups.
func TestResolveFunctionSignature(t *testing.T) {
	functions, err := abi.ParseABI([]byte(`[
		{"type":"function","name":"transfer","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint"}]},
		{"type":"function","name":"mint","inputs":[]},
		{"type":"function","name":"mint","inputs":[{"name":"amount","type":"uint256"}]}
	]`))
	require.NoError(t, err)

	signature, err := resolveFunctionSignature(functions, "transfer")
	require.NoError(t, err)
	assert.Equal(t, "transfer(address,uint256)", signature)

	signature, err = resolveFunctionSignature(functions, "mint(uint256 amount)")
	require.NoError(t, err)
	assert.Equal(t, "mint(uint256 amount)", signature)

	_, err = resolveFunctionSignature(functions, "mint")
	assert.True(t, errorcodes.Is(err, errorcodes.FUNCTION_NOT_FOUND))
	_, err = resolveFunctionSignature(functions, "burn")
	assert.True(t, errorcodes.Is(err, errorcodes.FUNCTION_NOT_FOUND))
}

// TestEncodeAndDecodeCommands runs the encode and decode commands against the built-in ERC-20 ABI.
func TestEncodeAndDecodeCommands(t *testing.T) {
	output, err := executeCommand(t, "encode", "--method", "erc20", "--function", "transfer",
		"--param", "to=0x1111111111111111111111111111111111111111", "--param", "amount=1000")
	require.NoError(t, err)
	assert.Equal(t, transferCalldata+"\n", output)

	output, err = executeCommand(t, "decode", transferCalldata, "--method", "erc20", "--json")
	require.NoError(t, err)
	var decoded decodeOutput
	require.NoError(t, json.Unmarshal([]byte(output), &decoded))
	assert.Equal(t, "transfer(address,uint256)", decoded.FunctionSignature)
	assert.Equal(t, []string{"to", "amount"}, decoded.ParameterNames)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", decoded.Parameters["to"])
	assert.Equal(t, "1000", decoded.Parameters["amount"])
}

// TestBuildCommand builds an action on a predefined contract, taking the address from the registry.
func TestBuildCommand(t *testing.T) {
	output, err := executeCommand(t, "build", "--method", "tokamak-dao-committee", "--network", "sepolia",
		"--function", "setDaoVault", "--param", "_daoVault=0x1111111111111111111111111111111111111111")
	require.NoError(t, err)

	var action actions.Action
	require.NoError(t, json.Unmarshal([]byte(output), &action))
	assert.Equal(t, "0x79cfbeacb5470bbe3b8fe76db2a61fc59e588c38", action.ContractAddress)
	assert.Equal(t, "setDaoVault(address)", action.FunctionSignature)
	assert.Equal(t, abi.SelectorHex("setDaoVault(address)")+"0000000000000000000000001111111111111111111111111111111111111111", action.Calldata)
	assert.Nil(t, action.Value)
}

// TestMethodsCommands adds, shows and removes a user-defined method.
func TestMethodsCommands(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "methods.db")
	file := filepath.Join(dir, "vault.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"id":"vault","name":"Vault","description":"Test vault","abi":[
		{"type":"function","name":"withdraw","inputs":[{"name":"amount","type":"uint256"}]},
		{"type":"function","name":"balance","stateMutability":"view","inputs":[]}
	]}`), 0644))

	_, err := executeCommand(t, "methods", "add", file, "--store", store)
	require.NoError(t, err)

	output, err := executeCommand(t, "methods", "show", "vault", "--store", store)
	require.NoError(t, err)
	assert.Contains(t, output, "withdraw(uint256)")
	assert.NotContains(t, output, "balance()")

	output, err = executeCommand(t, "methods", "list", "--store", store)
	require.NoError(t, err)
	assert.Contains(t, output, "vault")
	assert.Contains(t, output, "tokamak-dao-committee")

	_, err = executeCommand(t, "methods", "remove", "vault", "--store", store)
	require.NoError(t, err)
	_, err = executeCommand(t, "methods", "remove", "vault", "--store", store)
	assert.Error(t, err)
}

// TestInitCommand writes a project configuration.
func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DefaultProjectConfigFilename)
	_, err := executeCommand(t, "init", "--out", path, "--network", "sepolia", "--force")
	require.NoError(t, err)

	projectConfig, err := config.ReadProjectConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sepolia", projectConfig.Network)
	assert.True(t, projectConfig.Encoding.VerifyRoundTrip)
}
