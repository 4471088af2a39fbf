package cmd_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/optics/cmd/opticsd/cmd"
	"github.com/celestiaorg/optics/pkg/message"
	"github.com/celestiaorg/optics/x/optics/types"
)

const (
	testKey     = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd := cmd.NewRootCmd()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	require.NoError(t, err, "opticsd %s", strings.Join(args, " "))
	return out
}

func initHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	mustExecute(t, "init", "--home", home, "--updater", testAddress, "--home-domain", "1000", "--replica-domain", "2000")
	return home
}

func TestIndex(t *testing.T) {
	home := t.TempDir()
	out := mustExecute(t, "index", "1", "2", "--home", home)
	assert.Equal(t, "4294967298\n", out)

	out = mustExecute(t, "index", "2", "0", "--home", home)
	assert.Equal(t, "8589934592\n", out)

	out = mustExecute(t, "index", "--split", "8589934592", "--home", home)
	assert.Equal(t, "2 0\n", out)

	_, err := execute(t, "index", "4294967295", "0", "--home", home)
	require.ErrorIs(t, err, types.ErrInvalidDomain)
}

func TestMessageEncodeDecode(t *testing.T) {
	home := t.TempDir()
	out := mustExecute(t, "message", "encode", "--home", home,
		"--origin", "1", "--sender", "0x01", "--sequence", "3",
		"--destination", "2", "--recipient", "0x02", "--body", "hi")

	var encoded struct {
		Message hexutil.Bytes `json:"message"`
		Leaf    string        `json:"leaf"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &encoded))
	msg, err := message.Decode(encoded.Message)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), msg.Origin)
	assert.Equal(t, uint32(3), msg.Sequence)
	assert.Equal(t, uint32(2), msg.Destination)
	assert.Equal(t, []byte("hi"), msg.Body)
	assert.Equal(t, msg.Leaf().Hex(), encoded.Leaf)

	out = mustExecute(t, "message", "decode", encoded.Message.String(), "--home", home)
	assert.Contains(t, out, `"leaf": "`+encoded.Leaf+`"`)
}

func TestUpdaterAddress(t *testing.T) {
	home := t.TempDir()
	out := mustExecute(t, "updater", "address", "--home", home, "--key", testKey)
	assert.Equal(t, testAddress+"\n", out)

	t.Setenv("OPTICS_UPDATER_KEY", "0x"+testKey)
	out = mustExecute(t, "updater", "address", "--home", home)
	assert.Equal(t, testAddress+"\n", out)
}

func TestInitWritesConfig(t *testing.T) {
	home := initHome(t)

	_, err := execute(t, "init", "--home", home)
	require.Error(t, err)

	out := mustExecute(t, "home", "root", "--home", home)
	assert.Contains(t, out, `"domain": 1000`)
	assert.Contains(t, out, `"state": "ACTIVE"`)
	assert.Contains(t, out, `"count": 0`)

	t.Setenv("OPTICS_HOME_DOMAIN", "7")
	out = mustExecute(t, "home", "root", "--home", home, "--db-backend", "memdb")
	assert.Contains(t, out, `"domain": 7`)
}

func TestDispatchUpdateProcess(t *testing.T) {
	home := initHome(t)

	out := mustExecute(t, "home", "dispatch", "--home", home,
		"--destination", "2000", "--sender", "0x01", "--recipient", "0x02", "--body", "hello")
	var dispatched struct {
		Sequence               uint32        `json:"sequence"`
		LeafIndex              uint32        `json:"leafIndex"`
		DestinationAndSequence uint64        `json:"destinationAndSequence"`
		Leaf                   string        `json:"leaf"`
		Message                hexutil.Bytes `json:"message"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &dispatched))
	assert.Equal(t, uint32(0), dispatched.Sequence)
	assert.Equal(t, uint64(2000)<<32, dispatched.DestinationAndSequence)

	out = mustExecute(t, "home", "lookup", "2000", "0", "--home", home)
	assert.Contains(t, out, dispatched.Leaf)

	updatePath := filepath.Join(t.TempDir(), "update.json")
	mustExecute(t, "updater", "sign", "--home", home, "--key", testKey, "--output", updatePath)
	mustExecute(t, "home", "update", updatePath, "--home", home)
	root := mustExecute(t, "replica", "update", updatePath, "--home", home)

	out = mustExecute(t, "home", "root", "--home", home)
	assert.Contains(t, out, `"committedRoot": "`+strings.TrimSpace(root)+`"`)

	_, err := execute(t, "replica", "update", updatePath, "--home", home)
	require.ErrorIs(t, err, types.ErrStaleRoot)

	proofPath := filepath.Join(t.TempDir(), "proof.json")
	mustExecute(t, "home", "proof", "0", "--home", home, "--output", proofPath)

	_, err = execute(t, "replica", "process", dispatched.Message.String(), proofPath, "--home", home)
	require.ErrorIs(t, err, types.ErrNotPending)

	out = mustExecute(t, "replica", "prove", proofPath, "--home", home)
	assert.Equal(t, "PENDING\n", out)

	out = mustExecute(t, "replica", "process", dispatched.Message.String(), proofPath, "--home", home)
	assert.Equal(t, "PROCESSED\n", out)

	out = mustExecute(t, "replica", "status", dispatched.Leaf, "--home", home)
	assert.Equal(t, "PROCESSED\n", out)

	_, err = execute(t, "replica", "process", dispatched.Message.String(), proofPath, "--home", home, "--prove")
	require.ErrorIs(t, err, types.ErrAlreadyProcessed)
}

func TestFraudCheckAndSubmit(t *testing.T) {
	home := initHome(t)
	dir := t.TempDir()
	left := filepath.Join(dir, "left.json")
	right := filepath.Join(dir, "right.json")
	zero := "0x0000000000000000000000000000000000000000000000000000000000000000"

	mustExecute(t, "updater", "sign", "--home", home, "--key", testKey,
		"--old-root", zero, "--new-root", "0x"+strings.Repeat("0a", 32), "--output", left)
	mustExecute(t, "updater", "sign", "--home", home, "--key", testKey,
		"--old-root", zero, "--new-root", "0x"+strings.Repeat("0b", 32), "--output", right)

	_, err := execute(t, "fraud", "check", left, left, "--home", home)
	require.ErrorIs(t, err, types.ErrInvalidDoubleUpdate)

	out := mustExecute(t, "fraud", "check", left, right, "--home", home)
	assert.Contains(t, out, "double update by "+testAddress)

	out = mustExecute(t, "fraud", "submit", left, right, "--home", home)
	assert.Equal(t, "home FAILED, replica FAILED\n", out)

	_, err = execute(t, "home", "dispatch", "--home", home, "--destination", "2000", "--body", "late")
	require.ErrorIs(t, err, types.ErrChainFailed)

	out = mustExecute(t, "replica", "status", "--home", home)
	assert.Contains(t, out, `"state": "FAILED"`)
}

func TestRunRejectsUnknownAgent(t *testing.T) {
	home := initHome(t)
	_, err := execute(t, "run", "updater", "--home", home)
	require.Error(t, err)

	_, err = execute(t, "run", "relayer", "--home", home, "--interval", "0s")
	require.Error(t, err)
}
