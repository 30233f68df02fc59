// Package nep17token implements a minimal mintable NEP-17 token used by
// integration tests to exercise token payments.
package nep17token

import (
	"github.com/hemmorphi/hemmorphi-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	tokenSymbol   = "HEMT"
	tokenDecimals = 8

	circulationKey = "TokenCirculation"
	accPrefix      = 'a'
)

// Symbol is a NEP-17 standard method that returns the token symbol.
func Symbol() string {
	return tokenSymbol
}

// Decimals is a NEP-17 standard method that returns the token precision.
func Decimals() int {
	return tokenDecimals
}

// TotalSupply is a NEP-17 standard method that returns the amount of
// minted tokens.
func TotalSupply() int {
	return getSupply(storage.GetReadOnlyContext())
}

// BalanceOf is a NEP-17 standard method that returns the token balance of
// the specified account.
func BalanceOf(account interop.Hash160) int {
	return getBalance(storage.GetReadOnlyContext(), account)
}

// Transfer is a NEP-17 standard method that transfers tokens from one
// account to another. It can be invoked by the account owner or by a
// contract acting on the owner's behalf.
func Transfer(from, to interop.Hash160, amount int, data any) bool {
	if len(from) != interop.Hash160Len || len(to) != interop.Hash160Len {
		panic("incorrect account")
	}
	if amount < 0 {
		panic("negative amount")
	}
	if !isUsableAddress(from) {
		runtime.Log("transfer is not witnessed by the sender")
		return false
	}

	ctx := storage.GetContext()
	fromBalance := getBalance(ctx, from)
	if fromBalance < amount {
		runtime.Log("not enough tokens")
		return false
	}

	setBalance(ctx, from, fromBalance-amount)
	setBalance(ctx, to, getBalance(ctx, to)+amount)

	runtime.Notify("Transfer", from, to, amount)
	return true
}

// Mint creates tokens on the specified account increasing total supply.
// It can be invoked only by committee.
func Mint(to interop.Hash160, amount int) {
	if len(to) != interop.Hash160Len {
		panic("incorrect account")
	}
	if amount < 0 {
		panic("negative amount")
	}
	if !common.HasUpdateAccess() {
		panic("only committee can mint")
	}

	ctx := storage.GetContext()
	setBalance(ctx, to, getBalance(ctx, to)+amount)
	storage.Put(ctx, circulationKey, getSupply(ctx)+amount)

	runtime.Notify("Transfer", interop.Hash160(nil), to, amount)
}

// isUsableAddress checks if the sender is either a witnessed account or
// the calling script hash.
func isUsableAddress(addr interop.Hash160) bool {
	if runtime.CheckWitness(addr) {
		return true
	}

	callingScriptHash := runtime.GetCallingScriptHash()
	return callingScriptHash.Equals(addr)
}

func getSupply(ctx storage.Context) int {
	supply := storage.Get(ctx, circulationKey)
	if supply != nil {
		return supply.(int)
	}

	return 0
}

func getBalance(ctx storage.Context, account interop.Hash160) int {
	balance := storage.Get(ctx, append([]byte{accPrefix}, account...))
	if balance != nil {
		return balance.(int)
	}

	return 0
}

func setBalance(ctx storage.Context, account interop.Hash160, balance int) {
	key := append([]byte{accPrefix}, account...)
	if balance == 0 {
		storage.Delete(ctx, key)
		return
	}

	storage.Put(ctx, key, balance)
}
