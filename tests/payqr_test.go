package tests

import (
	"strings"
	"testing"

	"github.com/hemmorphi/hemmorphi-contract/common"
	"github.com/hemmorphi/hemmorphi-contract/contracts/payqr/payqrconst"
	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

// newUser registers a fresh funded account as a user and returns the
// invoker signed by it together with the account script hash.
func newUser(t *testing.T, c *neotest.ContractInvoker, name string) (*neotest.ContractInvoker, util.Uint160) {
	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)
	owner := acc.ScriptHash()
	cAcc.Invoke(t, stackitem.Null{}, "createUser", owner, name)
	return cAcc, owner
}

func userStats(t *testing.T, c *neotest.ContractInvoker, owner util.Uint160) (created, transfers, value, lastActive int64) {
	fields := testInvokeStruct(t, c, "getUserStats", owner)
	require.Len(t, fields, 5)
	return itemToInt(t, fields[1]), itemToInt(t, fields[2]),
		itemToInt(t, fields[3]), itemToInt(t, fields[4])
}

func qrTokenStats(t *testing.T, c *neotest.ContractInvoker, owner util.Uint160, hash []byte, index int) (count, amount, value int64) {
	fields := testInvokeStruct(t, c, "getQrCode", owner, hash)
	require.Len(t, fields, 6)

	statsArr, ok := fields[5].Value().([]stackitem.Item)
	require.True(t, ok)
	require.Greater(t, len(statsArr), index)

	ts, ok := statsArr[index].Value().([]stackitem.Item)
	require.True(t, ok)
	require.Len(t, ts, 3)
	return itemToInt(t, ts[0]), itemToInt(t, ts[1]), itemToInt(t, ts[2])
}

func TestCreateUser(t *testing.T) {
	c := newPayQrInvoker(t)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)
	owner := acc.ScriptHash()

	c.InvokeFail(t, common.ErrOwnerWitnessFailed, "createUser", owner, "alice")
	cAcc.InvokeFail(t, payqrconst.ErrNameTooLong, "createUser", owner,
		strings.Repeat("a", payqrconst.MaxNameLen+1))

	name := strings.Repeat("a", payqrconst.MaxNameLen)
	h := cAcc.Invoke(t, stackitem.Null{}, "createUser", owner, name)
	aer := cAcc.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, "CreateUserSuccess", aer.Events[0].Name)

	fields := testInvokeStruct(t, c, "getUser", owner)
	require.Len(t, fields, 3)
	require.Equal(t, name, string(itemToBytes(t, fields[0])))
	require.Equal(t, owner.BytesBE(), itemToBytes(t, fields[1]))
	require.Empty(t, fields[2].Value().([]stackitem.Item))

	cAcc.InvokeFail(t, payqrconst.ErrUserExists, "createUser", owner, "bob")
}

func TestUserStatsLifecycle(t *testing.T) {
	c := newPayQrInvoker(t)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)
	owner := acc.ScriptHash()

	cAcc.InvokeFail(t, payqrconst.ErrUserNotFound, "createUserStats", owner)

	cAcc.Invoke(t, stackitem.Null{}, "createUser", owner, "alice")
	c.InvokeFail(t, common.ErrOwnerWitnessFailed, "createUserStats", owner)
	cAcc.Invoke(t, stackitem.Null{}, "createUserStats", owner)
	cAcc.InvokeFail(t, payqrconst.ErrStatsExists, "createUserStats", owner)

	created, transfers, value, lastActive := userStats(t, c, owner)
	require.Zero(t, created)
	require.Zero(t, transfers)
	require.Zero(t, value)
	require.Zero(t, lastActive)

	cAcc.Invoke(t, stackitem.Null{}, "removeUserStats", owner)
	cAcc.InvokeFail(t, payqrconst.ErrStatsNotFound, "removeUserStats", owner)
}

func TestCreateQrCode(t *testing.T) {
	c := newPayQrInvoker(t)
	gasHash := c.NativeHash(t, nativenames.Gas)

	cAcc, owner := newUser(t, c, "alice")
	hash := randomQrHash()

	t.Run("unknown user", func(t *testing.T) {
		acc := c.NewAccount(t)
		c.WithSigners(acc).InvokeFail(t, payqrconst.ErrUserNotFound,
			"createQrCode", acc.ScriptHash(), hash, int64(100), []any{gasHash})
	})

	h := cAcc.Invoke(t, stackitem.Null{}, "createQrCode", owner, hash, int64(100), []any{gasHash})
	aer := cAcc.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, "CreateQrSuccess", aer.Events[0].Name)

	fields := testInvokeStruct(t, c, "getQrCode", owner, hash)
	require.Len(t, fields, 6)
	require.Equal(t, hash, itemToBytes(t, fields[0]))
	require.Equal(t, owner.BytesBE(), itemToBytes(t, fields[1]))
	require.EqualValues(t, 100, itemToInt(t, fields[2]))
	require.Zero(t, itemToInt(t, fields[3]))

	count, amount, value := qrTokenStats(t, c, owner, hash, 0)
	require.Zero(t, count)
	require.Zero(t, amount)
	require.Zero(t, value)

	cAcc.InvokeFail(t, payqrconst.ErrQrExists, "createQrCode", owner, hash, int64(0), []any{gasHash})

	t.Run("same hash, another user", func(t *testing.T) {
		cOther, otherOwner := newUser(t, c, "bob")
		cOther.Invoke(t, stackitem.Null{}, "createQrCode", otherOwner, hash, int64(100), []any{gasHash})
	})

	t.Run("token list shape", func(t *testing.T) {
		tokens := make([]any, payqrconst.MaxTokens+1)
		for i := range tokens {
			var th util.Uint160
			copy(th[:], randomBytes(20))
			tokens[i] = th
		}
		cAcc.InvokeFail(t, payqrconst.ErrTooManyTokens, "createQrCode",
			owner, randomQrHash(), int64(0), tokens)

		var tokA, tokB util.Uint160
		copy(tokA[:], randomBytes(20))
		copy(tokB[:], randomBytes(20))
		cAcc.InvokeFail(t, payqrconst.ErrRepeatedTokens, "createQrCode",
			owner, randomQrHash(), int64(0), []any{tokA, tokA})
		cAcc.InvokeFail(t, payqrconst.ErrRepeatedTokens, "createQrCode",
			owner, randomQrHash(), int64(0), []any{tokA, tokB, tokA})
	})

	t.Run("list capacity", func(t *testing.T) {
		for i := 1; i < payqrconst.MaxQrCodes; i++ {
			cAcc.Invoke(t, stackitem.Null{}, "createQrCode", owner,
				randomQrHash(), int64(0), []any{gasHash})
		}
		cAcc.InvokeFail(t, payqrconst.ErrQrListFull, "createQrCode", owner,
			randomQrHash(), int64(0), []any{gasHash})
	})
}

func TestCreateQrCodeCountsInStats(t *testing.T) {
	c := newPayQrInvoker(t)
	gasHash := c.NativeHash(t, nativenames.Gas)

	cAcc, owner := newUser(t, c, "alice")
	cAcc.Invoke(t, stackitem.Null{}, "createUserStats", owner)

	cAcc.Invoke(t, stackitem.Null{}, "createQrCode", owner, randomQrHash(), int64(0), []any{gasHash})
	cAcc.Invoke(t, stackitem.Null{}, "createQrCode", owner, randomQrHash(), int64(0), []any{gasHash})

	created, transfers, _, lastActive := userStats(t, c, owner)
	require.EqualValues(t, 2, created)
	require.Zero(t, transfers)
	require.NotZero(t, lastActive)
}

func TestRemoveQrCode(t *testing.T) {
	c := newPayQrInvoker(t)
	gasHash := c.NativeHash(t, nativenames.Gas)

	cAcc, owner := newUser(t, c, "alice")
	hash := []byte(base58.Encode(randomBytes(16)))

	cAcc.InvokeFail(t, payqrconst.ErrQrNotFound, "removeQrCode", owner, hash)

	cAcc.Invoke(t, stackitem.Null{}, "createQrCode", owner, hash, int64(100), []any{gasHash})
	c.InvokeFail(t, common.ErrOwnerWitnessFailed, "removeQrCode", owner, hash)
	cAcc.Invoke(t, stackitem.Null{}, "removeQrCode", owner, hash)

	hashes, err := c.TestInvoke(t, "listQrHashes", owner)
	require.NoError(t, err)
	require.Empty(t, hashes.Top().Item().Value())
	_, err = c.TestInvoke(t, "getQrCode", owner, hash)
	require.Error(t, err)
	require.Contains(t, err.Error(), payqrconst.ErrQrNotFound)

	// the hash is free for reuse again
	cAcc.Invoke(t, stackitem.Null{}, "createQrCode", owner, hash, int64(100), []any{gasHash})
}

func TestRemoveUser(t *testing.T) {
	c := newPayQrInvoker(t)
	gasHash := c.NativeHash(t, nativenames.Gas)

	cAcc, owner := newUser(t, c, "alice")
	cAcc.Invoke(t, stackitem.Null{}, "createUserStats", owner)

	hash := randomQrHash()
	cAcc.Invoke(t, stackitem.Null{}, "createQrCode", owner, hash, int64(0), []any{gasHash})

	cAcc.InvokeFail(t, payqrconst.ErrQrListNotEmpty, "removeUser", owner)

	cAcc.Invoke(t, stackitem.Null{}, "removeQrCode", owner, hash)
	c.InvokeFail(t, common.ErrOwnerWitnessFailed, "removeUser", owner)
	cAcc.Invoke(t, stackitem.Null{}, "removeUser", owner)

	_, err := c.TestInvoke(t, "getUser", owner)
	require.Error(t, err)
	require.Contains(t, err.Error(), payqrconst.ErrUserNotFound)

	// stats record is dropped together with the user
	_, err = c.TestInvoke(t, "getUserStats", owner)
	require.Error(t, err)
	require.Contains(t, err.Error(), payqrconst.ErrStatsNotFound)

	cAcc.InvokeFail(t, payqrconst.ErrUserNotFound, "removeUser", owner)
}

func TestTransferGas(t *testing.T) {
	c := newPayQrInvoker(t)
	gasHash := c.NativeHash(t, nativenames.Gas)

	cOwner, owner := newUser(t, c, "alice")
	cOwner.Invoke(t, stackitem.Null{}, "createUserStats", owner)

	hash := randomQrHash()
	cOwner.Invoke(t, stackitem.Null{}, "createQrCode", owner, hash, int64(100), []any{gasHash})

	payer := c.NewAccount(t)
	cPayer := c.WithSigners(payer)
	from := payer.ScriptHash()

	c.InvokeFail(t, common.ErrPayerWitnessFailed, "transferGas",
		from, owner, owner, hash, int64(100))
	cPayer.InvokeFail(t, payqrconst.ErrAmountZero, "transferGas",
		from, owner, owner, hash, int64(0))
	cPayer.InvokeFail(t, payqrconst.ErrWrongAmount, "transferGas",
		from, owner, owner, hash, int64(50))
	cPayer.InvokeFail(t, payqrconst.ErrWrongDestination, "transferGas",
		from, from, owner, hash, int64(100))
	cPayer.InvokeFail(t, payqrconst.ErrQrNotFound, "transferGas",
		from, owner, owner, randomQrHash(), int64(100))

	h := cPayer.Invoke(t, stackitem.Null{}, "transferGas", from, owner, owner, hash, int64(100))
	aer := cPayer.CheckHalt(t, h)
	require.NotEmpty(t, aer.Events)
	require.Equal(t, "TransferSuccess", aer.Events[len(aer.Events)-1].Name)

	count, amount, value := qrTokenStats(t, c, owner, hash, 0)
	require.EqualValues(t, 1, count)
	require.EqualValues(t, 100, amount)
	require.EqualValues(t, 100, value)

	_, transfers, totalValue, lastActive := userStats(t, c, owner)
	require.EqualValues(t, 1, transfers)
	require.EqualValues(t, 100, totalValue)
	require.NotZero(t, lastActive)

	fields := testInvokeStruct(t, c, "getQrCode", owner, hash)
	require.NotZero(t, itemToInt(t, fields[3]))

	t.Run("sequential transfers accumulate", func(t *testing.T) {
		cPayer.Invoke(t, stackitem.Null{}, "transferGas", from, owner, owner, hash, int64(100))

		count, amount, _ := qrTokenStats(t, c, owner, hash, 0)
		require.EqualValues(t, 2, count)
		require.EqualValues(t, 200, amount)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		openHash := randomQrHash()
		cOwner.Invoke(t, stackitem.Null{}, "createQrCode", owner, openHash, int64(0), []any{gasHash})

		cPayer.InvokeFail(t, payqrconst.ErrWrongAmount, "transferGas",
			from, owner, owner, openHash, int64(1_000_00000000))
	})

	t.Run("GAS not in allow-list", func(t *testing.T) {
		var token util.Uint160
		copy(token[:], randomBytes(20))

		tokenOnlyHash := randomQrHash()
		cOwner.Invoke(t, stackitem.Null{}, "createQrCode", owner, tokenOnlyHash, int64(0), []any{token})

		cPayer.InvokeFail(t, payqrconst.ErrTokenNotInQr, "transferGas",
			from, owner, owner, tokenOnlyHash, int64(100))
	})
}

func TestTransferGasOpenAmount(t *testing.T) {
	c := newPayQrInvoker(t)
	gasHash := c.NativeHash(t, nativenames.Gas)

	cOwner, owner := newUser(t, c, "alice")
	cOwner.Invoke(t, stackitem.Null{}, "createUserStats", owner)

	hash := randomQrHash()
	cOwner.Invoke(t, stackitem.Null{}, "createQrCode", owner, hash, int64(0), []any{gasHash})

	payer := c.NewAccount(t)
	cPayer := c.WithSigners(payer)
	from := payer.ScriptHash()

	cPayer.InvokeFail(t, payqrconst.ErrAmountZero, "transferGas",
		from, owner, owner, hash, int64(0))

	cPayer.Invoke(t, stackitem.Null{}, "transferGas", from, owner, owner, hash, int64(10))
	cPayer.Invoke(t, stackitem.Null{}, "transferGas", from, owner, owner, hash, int64(15))

	count, amount, value := qrTokenStats(t, c, owner, hash, 0)
	require.EqualValues(t, 2, count)
	require.EqualValues(t, 25, amount)
	require.EqualValues(t, 25, value)

	_, transfers, totalValue, _ := userStats(t, c, owner)
	require.EqualValues(t, 2, transfers)
	require.EqualValues(t, 25, totalValue)
}

func TestTransferGasRequiresStats(t *testing.T) {
	c := newPayQrInvoker(t)
	gasHash := c.NativeHash(t, nativenames.Gas)

	cOwner, owner := newUser(t, c, "alice")
	hash := randomQrHash()
	cOwner.Invoke(t, stackitem.Null{}, "createQrCode", owner, hash, int64(0), []any{gasHash})

	payer := c.NewAccount(t)
	c.WithSigners(payer).InvokeFail(t, payqrconst.ErrStatsNotFound, "transferGas",
		payer.ScriptHash(), owner, owner, hash, int64(10))
}

func TestTransferToken(t *testing.T) {
	e := newExecutor(t)
	payqrHash := deployPayQrContract(t, e)
	tokenHash := deployTokenContract(t, e)

	c := e.CommitteeInvoker(payqrHash)
	cToken := e.CommitteeInvoker(tokenHash)

	cOwner, owner := newUser(t, c, "alice")
	cOwner.Invoke(t, stackitem.Null{}, "createUserStats", owner)

	hash := randomQrHash()
	cOwner.Invoke(t, stackitem.Null{}, "createQrCode", owner, hash, int64(150), []any{tokenHash})

	payer := c.NewAccount(t)
	cPayer := c.WithSigners(payer)
	from := payer.ScriptHash()

	cToken.Invoke(t, stackitem.Null{}, "mint", from, int64(1000))
	cToken.Invoke(t, stackitem.Make(1000), "balanceOf", from)

	t.Run("token not in allow-list", func(t *testing.T) {
		var stranger util.Uint160
		copy(stranger[:], randomBytes(20))
		cPayer.InvokeFail(t, payqrconst.ErrTokenNotInQr, "transferToken",
			stranger, from, owner, owner, hash, int64(150))
	})

	cPayer.InvokeFail(t, payqrconst.ErrWrongAmount, "transferToken",
		tokenHash, from, owner, owner, hash, int64(50))
	cPayer.InvokeFail(t, payqrconst.ErrWrongDestination, "transferToken",
		tokenHash, from, from, owner, hash, int64(150))

	cPayer.Invoke(t, stackitem.Null{}, "transferToken", tokenHash, from, owner, owner, hash, int64(150))

	cToken.Invoke(t, stackitem.Make(850), "balanceOf", from)
	cToken.Invoke(t, stackitem.Make(150), "balanceOf", owner)

	count, amount, value := qrTokenStats(t, c, owner, hash, 0)
	require.EqualValues(t, 1, count)
	require.EqualValues(t, 150, amount)
	require.EqualValues(t, 150, value)

	_, transfers, totalValue, _ := userStats(t, c, owner)
	require.EqualValues(t, 1, transfers)
	require.EqualValues(t, 150, totalValue)

	t.Run("failed token transfer aborts", func(t *testing.T) {
		broke := c.NewAccount(t)
		c.WithSigners(broke).InvokeFail(t, "token transfer failed", "transferToken",
			tokenHash, broke.ScriptHash(), owner, owner, hash, int64(150))
	})
}

func TestVersion(t *testing.T) {
	c := newPayQrInvoker(t)
	c.Invoke(t, stackitem.Make(common.Version), "version")
}
