package tests

import (
	"encoding/hex"
	"math/rand"
	"path"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const (
	payqrPath = "../contracts/payqr"
	tokenPath = "../internal/testcontracts/nep17token"
)

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

func deployPayQrContract(t *testing.T, e *neotest.Executor) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, payqrPath,
		path.Join(payqrPath, "config.yml"))
	e.DeployContract(t, c, nil)
	return c.Hash
}

func deployTokenContract(t *testing.T, e *neotest.Executor) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, tokenPath,
		path.Join(tokenPath, "config.yml"))
	e.DeployContract(t, c, nil)
	return c.Hash
}

func newPayQrInvoker(t *testing.T) *neotest.ContractInvoker {
	e := newExecutor(t)
	h := deployPayQrContract(t, e)
	return e.CommitteeInvoker(h)
}

func randomBytes(n int) []byte {
	a := make([]byte, n)
	rand.Read(a) //nolint:staticcheck // SA1019: rand.Read has been deprecated since Go 1.20
	return a
}

// randomQrHash returns a fresh hash label of the maximum accepted length.
func randomQrHash() []byte {
	u := uuid.New()
	return []byte(hex.EncodeToString(u[:]))
}

// testInvokeStruct invokes a safe method returning a structure and unwraps
// its fields.
func testInvokeStruct(t *testing.T, c *neotest.ContractInvoker, method string, args ...any) []stackitem.Item {
	s, err := c.TestInvoke(t, method, args...)
	require.NoError(t, err)
	require.NotEqual(t, 0, s.Len())

	fields, ok := s.Top().Item().Value().([]stackitem.Item)
	require.True(t, ok)
	return fields
}

func itemToInt(t *testing.T, item stackitem.Item) int64 {
	v, err := item.TryInteger()
	require.NoError(t, err)
	return v.Int64()
}

func itemToBytes(t *testing.T, item stackitem.Item) []byte {
	b, err := item.TryBytes()
	require.NoError(t, err)
	return b
}
