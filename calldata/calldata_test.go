package calldata

import (
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokamak-network/dao-action-builder/abi"
	"github.com/tokamak-network/dao-action-builder/errorcodes"
	"github.com/tokamak-network/dao-action-builder/validation"
)

// testABI covers static, dynamic, nested array and tuple parameters.
const testABI = `[
	{"type":"function","name":"transfer","stateMutability":"nonpayable",
	 "inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"mixed","stateMutability":"nonpayable",
	 "inputs":[
		{"name":"ids","type":"uint256[]"},
		{"name":"label","type":"string"},
		{"name":"matrix","type":"bytes32[2][]"},
		{"name":"owner","type":"address"},
		{"name":"delta","type":"int8"},
		{"name":"enabled","type":"bool"},
		{"name":"data","type":"bytes"}
	 ]},
	{"type":"function","name":"submit","stateMutability":"payable",
	 "inputs":[
		{"name":"order","type":"tuple","components":[
			{"name":"amount","type":"uint256"},
			{"name":"memo","type":"string"}
		]},
		{"name":"","type":"uint16[3]"}
	 ]},
	{"type":"function","name":"batch","stateMutability":"nonpayable",
	 "inputs":[
		{"name":"items","type":"tuple[]","components":[
			{"name":"target","type":"address"},
			{"name":"payloads","type":"bytes[]"}
		]}
	 ]},
	{"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"}]},
	{"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}]}
]`

// mustParseABI parses an ABI or fails the test.
func mustParseABI(t *testing.T, data string) abi.ABI {
	parsed, err := abi.ParseABI([]byte(data))
	require.NoError(t, err)
	return parsed
}

// word left-pads hex digits to a full 32-byte word.
func word(digits string) string {
	return strings.Repeat("0", 64-len(digits)) + digits
}

// TestEncodeTransfer checks the exact calldata of an ERC20 transfer.
func TestEncodeTransfer(t *testing.T) {
	functions := mustParseABI(t, testABI)
	result, err := EncodeCalldata(functions, "transfer(address,uint256)", map[string]string{
		"to":     "0x1111111111111111111111111111111111111111",
		"amount": "1000",
	})
	require.NoError(t, err)

	expected := "0xa9059cbb" + word("1111111111111111111111111111111111111111") + word("3e8")
	assert.Equal(t, expected, result.Calldata)
	assert.Equal(t, "transfer(address,uint256)", result.FunctionSignature)
	assert.Equal(t, "transfer", result.FunctionName)

	// Casing of the prefix and digits does not change the encoding
	upper, err := EncodeCalldata(functions, "transfer(address to, uint amount)", map[string]string{
		"to":     "0X1111111111111111111111111111111111111111",
		"amount": "0x3E8",
	})
	require.NoError(t, err)
	assert.Equal(t, expected, upper.Calldata)
}

// TestEncodeErrors checks the error kinds reported by the encoder.
func TestEncodeErrors(t *testing.T) {
	functions := mustParseABI(t, testABI)

	_, err := EncodeCalldata(functions, "transfer(address,uint256)", map[string]string{
		"to":     "0x1111111111111111111111111111111111111111",
		"amount": "-5",
	})
	require.Error(t, err)
	var abErr *errorcodes.ActionBuilderError
	require.ErrorAs(t, err, &abErr)
	assert.Equal(t, errorcodes.INVALID_PARAMETER, abErr.Code)
	assert.Equal(t, "amount", abErr.Field)

	_, err = EncodeCalldata(functions, "transfer(address,uint256)", map[string]string{
		"to":     "0x11",
		"amount": "1",
	})
	assert.True(t, errorcodes.Is(err, errorcodes.INVALID_ADDRESS))

	_, err = EncodeCalldata(functions, "approve(address,uint256)", map[string]string{})
	assert.True(t, errorcodes.Is(err, errorcodes.FUNCTION_NOT_FOUND))

	_, err = EncodeArguments([]abi.ParsedType{mustParseType(t, "uint8")}, []abi.Value{abi.IntegerValue{Int: big.NewInt(256)}})
	assert.True(t, errorcodes.Is(err, errorcodes.ENCODING_FAILED))
	_, err = EncodeArguments([]abi.ParsedType{mustParseType(t, "uint8")}, []abi.Value{abi.StringValue("1")})
	assert.True(t, errorcodes.Is(err, errorcodes.ENCODING_FAILED))
	_, err = EncodeArguments([]abi.ParsedType{mustParseType(t, "uint8")}, nil)
	assert.True(t, errorcodes.Is(err, errorcodes.ENCODING_FAILED))
}

// TestEncodeUnsupportedType checks that a function declaring a type with an invalid width is found, and that encoding
// it fails with ENCODING_FAILED whichever way the function is selected.
func TestEncodeUnsupportedType(t *testing.T) {
	functions := mustParseABI(t, `[
		{"type":"function","name":"g","inputs":[{"name":"v","type":"uint7"}],"stateMutability":"nonpayable"},
		{"type":"function","name":"h","inputs":[{"name":"v","type":"uint7[]"}],"stateMutability":"nonpayable"}
	]`)

	fn, err := abi.FindFunctionBySignature(functions, "g(uint7)")
	require.NoError(t, err)
	assert.Equal(t, "g", fn.Name)

	var abErr *errorcodes.ActionBuilderError
	_, err = EncodeCalldata(functions, "g(uint7)", map[string]string{"v": "1"})
	require.ErrorAs(t, err, &abErr)
	assert.Equal(t, errorcodes.ENCODING_FAILED, abErr.Code)
	assert.Equal(t, "v", abErr.Field)

	_, err = EncodeCalldataByName(functions, "g", map[string]string{"v": "1"})
	assert.True(t, errorcodes.Is(err, errorcodes.ENCODING_FAILED))

	// An empty array still has an unsupported element type
	_, err = EncodeCalldata(functions, "h(uint7[])", map[string]string{"v": "[]"})
	assert.True(t, errorcodes.Is(err, errorcodes.ENCODING_FAILED))
}

// mustParseType parses a type string or fails the test.
func mustParseType(t *testing.T, typeString string) abi.ParsedType {
	parsed, err := abi.ParseType(typeString, nil)
	require.NoError(t, err)
	return parsed
}

// TestDynamicEncoding checks the layout of strings and dynamic arrays.
func TestDynamicEncoding(t *testing.T) {
	stringType := []abi.ParsedType{mustParseType(t, "string")}

	encoded, err := EncodeArguments(stringType, []abi.Value{abi.StringValue("")})
	require.NoError(t, err)
	assert.Equal(t, word("20")+word("0"), hex.EncodeToString(encoded))

	encoded, err = EncodeArguments(stringType, []abi.Value{abi.StringValue("hello")})
	require.NoError(t, err)
	assert.Equal(t, word("20")+word("5")+"68656c6c6f"+strings.Repeat("0", 54), hex.EncodeToString(encoded))

	arrayType := []abi.ParsedType{mustParseType(t, "uint256[]")}
	values := abi.ArrayValue{
		abi.IntegerValue{Int: big.NewInt(1)},
		abi.IntegerValue{Int: big.NewInt(2)},
		abi.IntegerValue{Int: big.NewInt(3)},
	}
	encoded, err = EncodeArguments(arrayType, []abi.Value{values})
	require.NoError(t, err)
	assert.Equal(t, word("20")+word("3")+word("1")+word("2")+word("3"), hex.EncodeToString(encoded))

	// Negative integers use two's complement over the full word
	encoded, err = EncodeArguments([]abi.ParsedType{mustParseType(t, "int8")}, []abi.Value{abi.IntegerValue{Int: big.NewInt(-1)}})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("f", 64), hex.EncodeToString(encoded))

	// Fixed bytes are left-aligned
	encoded, err = EncodeArguments([]abi.ParsedType{mustParseType(t, "bytes2")}, []abi.Value{abi.BytesValue{0xab, 0xcd}})
	require.NoError(t, err)
	assert.Equal(t, "abcd"+strings.Repeat("0", 60), hex.EncodeToString(encoded))
}

// mixedParams are valid text parameters for the mixed function.
var mixedParams = map[string]string{
	"ids":     "[1, 2, 300000000000000000000]",
	"label":   "hello world",
	"matrix":  `[["0x` + strings.Repeat("11", 32) + `","0x` + strings.Repeat("22", 32) + `"]]`,
	"owner":   "0xAbCdEf0123456789aBcDeF0123456789AbCdEf01",
	"delta":   "-128",
	"enabled": "true",
	"data":    "0x" + strings.Repeat("ab", 40),
}

// TestEncodeMatchesGeth checks the encoder against go-ethereum's ABI packer.
func TestEncodeMatchesGeth(t *testing.T) {
	functions := mustParseABI(t, testABI)
	gethABI, err := gethabi.JSON(strings.NewReader(testABI))
	require.NoError(t, err)

	result, err := EncodeCalldata(functions, "mixed(uint256[],string,bytes32[2][],address,int8,bool,bytes)", mixedParams)
	require.NoError(t, err)

	var row [2][32]byte
	copy(row[0][:], common.FromHex(strings.Repeat("11", 32)))
	copy(row[1][:], common.FromHex(strings.Repeat("22", 32)))
	large, _ := new(big.Int).SetString("300000000000000000000", 10)
	expected, err := gethABI.Pack("mixed",
		[]*big.Int{big.NewInt(1), big.NewInt(2), large},
		"hello world",
		[][2][32]byte{row},
		common.HexToAddress("0xAbCdEf0123456789aBcDeF0123456789AbCdEf01"),
		int8(-128),
		true,
		common.FromHex(strings.Repeat("ab", 40)),
	)
	require.NoError(t, err)
	assert.Equal(t, hexutil.Encode(expected), result.Calldata)

	result, err = EncodeCalldata(functions, "submit((uint256,string),uint16[3])", map[string]string{
		"order":  `{"amount": "42", "memo": "gm"}`,
		"param1": "[1, 2, 65535]",
	})
	require.NoError(t, err)
	order := struct {
		Amount *big.Int
		Memo   string
	}{big.NewInt(42), "gm"}
	expected, err = gethABI.Pack("submit", order, [3]uint16{1, 2, 65535})
	require.NoError(t, err)
	assert.Equal(t, hexutil.Encode(expected), result.Calldata)
}

// TestRoundTrip checks that decoding inverts encoding, and that re-encoding decoded values reproduces the calldata.
func TestRoundTrip(t *testing.T) {
	functions := mustParseABI(t, testABI)
	cases := []struct {
		signature string
		params    map[string]string
	}{
		{"mixed(uint256[],string,bytes32[2][],address,int8,bool,bytes)", mixedParams},
		{"submit((uint256,string),uint16[3])", map[string]string{
			"order":  `{"amount": "1e18", "memo": ""}`,
			"param1": "[0, 0, 7]",
		}},
		{"batch((address,bytes[])[])", map[string]string{
			"items": `[
				{"target": "0x1111111111111111111111111111111111111111", "payloads": ["0x", "0x01", "0x` + strings.Repeat("ff", 33) + `"]},
				{"target": "0x2222222222222222222222222222222222222222", "payloads": []}
			]`,
		}},
		{"batch((address,bytes[])[])", map[string]string{"items": "[]"}},
	}

	for _, c := range cases {
		encoded, err := EncodeCalldata(functions, c.signature, c.params)
		require.NoError(t, err, c.signature)

		decoded, err := DecodeCalldata(encoded.Calldata, functions)
		require.NoError(t, err, c.signature)
		assert.Equal(t, encoded.FunctionSignature, decoded.FunctionSignature)

		fn, err := abi.FindFunctionBySignature(functions, c.signature)
		require.NoError(t, err)
		keys := fn.InputKeys()
		for i, input := range fn.Inputs {
			parsed, err := input.ParsedType()
			require.NoError(t, err)
			normalized, err := validation.NormalizeParameterValue(c.params[keys[i]], parsed)
			require.NoError(t, err)
			assert.True(t, abi.ValuesEqual(normalized, decoded.Parameters[keys[i]]), "%s: %s", c.signature, keys[i])
			assert.True(t, abi.ValuesEqual(normalized, decoded.Values[i]), "%s: %s", c.signature, keys[i])
		}

		reencoded, err := EncodeFunctionCall(*fn, decoded.Values)
		require.NoError(t, err)
		assert.Equal(t, encoded.Calldata, hexutil.Encode(reencoded), c.signature)
	}
}

// TestDecodeTransfer checks decoding and display formatting of a transfer.
func TestDecodeTransfer(t *testing.T) {
	functions := mustParseABI(t, testABI)
	calldata := "0xa9059cbb" + word("1111111111111111111111111111111111111111") + word("3e8")

	result, err := DecodeCalldata(calldata, functions)
	require.NoError(t, err)
	assert.Equal(t, "transfer", result.FunctionName)
	assert.Equal(t, []string{"to", "amount"}, result.ParameterNames)
	assert.Equal(t, []string{"address", "uint256"}, result.ParameterTypes)

	formatted, err := FormatDecodedParameters(result)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"to":     "0x1111111111111111111111111111111111111111",
		"amount": "1000",
	}, formatted)

	result, ok := TryDecodeCalldata(calldata, functions)
	assert.True(t, ok)
	assert.NotNil(t, result)

	_, err = DecodeCalldataBySignature(calldata, functions, "mint(address)")
	assert.True(t, errorcodes.Is(err, errorcodes.DECODING_FAILED))
	_, err = DecodeCalldataBySignature(calldata, functions, "transfer(address to,uint256 amount)")
	assert.NoError(t, err)
}

// TestDecodeErrors checks that malformed calldata is rejected without partial results.
func TestDecodeErrors(t *testing.T) {
	functions := mustParseABI(t, testABI)
	selector := "0xa9059cbb"

	cases := map[string]string{
		"short word":       selector + word("1111111111111111111111111111111111111111") + "00000003e8",
		"missing argument": selector + word("1111111111111111111111111111111111111111"),
		"odd hex":          selector + "0",
		"no prefix":        "a9059cbb" + word("0") + word("0"),
		"short selector":   "0xa905",
		"dirty address":    selector + word("ff1111111111111111111111111111111111111111") + word("1"),
	}
	for name, calldata := range cases {
		result, err := DecodeCalldata(calldata, functions)
		assert.Nil(t, result, name)
		assert.True(t, errorcodes.Is(err, errorcodes.DECODING_FAILED), "%s: %v", name, err)
		_, ok := TryDecodeCalldata(calldata, functions)
		assert.False(t, ok, name)
	}

	_, err := DecodeCalldata("0xdeadbeef", functions)
	assert.True(t, errorcodes.Is(err, errorcodes.FUNCTION_NOT_FOUND))
}

// sharedOffsetsBody encodes a uint256[][][] whose n outer elements all point at the same middle array, whose n elements
// all point at the same inner array of m words.
func sharedOffsetsBody(n int, m int) []byte {
	words := []uint64{WordSize, uint64(n)}
	for i := 0; i < n; i++ {
		words = append(words, uint64(n*WordSize))
	}
	words = append(words, uint64(n))
	for i := 0; i < n; i++ {
		words = append(words, uint64(n*WordSize))
	}
	words = append(words, uint64(m))
	for i := 0; i < m; i++ {
		words = append(words, uint64(i))
	}

	body := make([]byte, 0, len(words)*WordSize)
	for _, w := range words {
		body = append(body, uintWord(w)...)
	}
	return body
}

// TestDecodeSharedOffsets checks that offsets pointing at the same data decode, but only while the output stays
// proportional to the size of the calldata.
func TestDecodeSharedOffsets(t *testing.T) {
	types := []abi.ParsedType{mustParseType(t, "uint256[][][]")}

	values, err := DecodeArguments(types, sharedOffsetsBody(2, 3))
	require.NoError(t, err)
	outer := values[0].(abi.ArrayValue)
	require.Len(t, outer, 2)
	for _, middle := range outer {
		require.Len(t, middle.(abi.ArrayValue), 2)
		for _, inner := range middle.(abi.ArrayValue) {
			assert.Len(t, inner.(abi.ArrayValue), 3)
		}
	}

	_, err = DecodeArguments(types, sharedOffsetsBody(300, 300))
	assert.True(t, errorcodes.Is(err, errorcodes.DECODING_FAILED), "%v", err)

	functions := mustParseABI(t, `[{"type":"function","name":"h","inputs":[{"name":"v","type":"uint256[][][]"}],"stateMutability":"nonpayable"}]`)
	calldata := abi.SelectorHex("h(uint256[][][])") + hex.EncodeToString(sharedOffsetsBody(300, 300))
	result, err := DecodeCalldata(calldata, functions)
	assert.Nil(t, result)
	assert.True(t, errorcodes.Is(err, errorcodes.DECODING_FAILED), "%v", err)
}

// TestDecodeArgumentsStrictness checks bounds and canonical padding for dynamic and static words.
func TestDecodeArgumentsStrictness(t *testing.T) {
	decode := func(typeString string, body string) error {
		data, err := hex.DecodeString(body)
		require.NoError(t, err)
		_, err = DecodeArguments([]abi.ParsedType{mustParseType(t, typeString)}, data)
		return err
	}

	assert.NoError(t, decode("bool", word("1")))
	assert.Error(t, decode("bool", word("2")))
	assert.NoError(t, decode("int8", strings.Repeat("f", 64)))
	assert.Error(t, decode("int8", word("ff")))
	assert.Error(t, decode("uint8", word("100")))
	assert.Error(t, decode("bytes2", "abcd01"+strings.Repeat("0", 58)))

	// Offset beyond the data
	assert.Error(t, decode("string", word("40")+word("0")))
	// Length beyond the data
	assert.Error(t, decode("string", word("20")+word("21")+word("0")))
	// Dirty padding after string content
	assert.Error(t, decode("string", word("20")+word("1")+"61"+strings.Repeat("0", 60)+"01"))
	// Huge element count is rejected before allocation
	assert.Error(t, decode("uint256[]", word("20")+word("ffffffff")))
	assert.Error(t, decode("uint256[]", word("20")+strings.Repeat("f", 64)))
	// Fixed array larger than the data
	assert.Error(t, decode("uint256[3]", word("1")+word("2")))

	data, err := hex.DecodeString(word("20") + word("2") + word("7") + word("9"))
	require.NoError(t, err)
	values, err := DecodeArguments([]abi.ParsedType{mustParseType(t, "uint64[]")}, data)
	require.NoError(t, err)
	assert.True(t, abi.ValuesEqual(abi.ArrayValue{abi.IntegerValue{Int: big.NewInt(7)}, abi.IntegerValue{Int: big.NewInt(9)}}, values[0]))
}

// TestEncodeCalldataByName checks overload resolution by parameter keys.
func TestEncodeCalldataByName(t *testing.T) {
	functions := mustParseABI(t, testABI)

	result, err := EncodeCalldataByName(functions, "mint", map[string]string{
		"to": "0x1111111111111111111111111111111111111111",
	})
	require.NoError(t, err)
	assert.Equal(t, "mint(address)", result.FunctionSignature)

	result, err = EncodeCalldataByName(functions, "mint", map[string]string{
		"to":     "0x1111111111111111111111111111111111111111",
		"amount": "5",
	})
	require.NoError(t, err)
	assert.Equal(t, "mint(address,uint256)", result.FunctionSignature)

	_, err = EncodeCalldataByName(functions, "mint", map[string]string{"amount": "5"})
	assert.True(t, errorcodes.Is(err, errorcodes.FUNCTION_NOT_FOUND))
	_, err = EncodeCalldataByName(functions, "burn", map[string]string{})
	assert.True(t, errorcodes.Is(err, errorcodes.FUNCTION_NOT_FOUND))

	result, err = EncodeCalldataByName(functions, "transfer", map[string]string{
		"to":     "0x1111111111111111111111111111111111111111",
		"amount": "1000",
	})
	require.NoError(t, err)
	assert.Equal(t, "0xa9059cbb", result.Calldata[:10])
}

// TestEncodeCalldataWithValues checks encoding from values rather than text.
func TestEncodeCalldataWithValues(t *testing.T) {
	functions := mustParseABI(t, testABI)
	fromText, err := EncodeCalldata(functions, "transfer(address,uint256)", map[string]string{
		"to":     "0x1111111111111111111111111111111111111111",
		"amount": "1000",
	})
	require.NoError(t, err)

	fromValues, err := EncodeCalldataWithValues(functions, "transfer(address,uint256)", map[string]any{
		"to":     common.HexToAddress("0x1111111111111111111111111111111111111111"),
		"amount": big.NewInt(1000),
	})
	require.NoError(t, err)
	assert.Equal(t, fromText.Calldata, fromValues.Calldata)
}
