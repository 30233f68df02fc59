// Package payqr contains RPC wrappers for Hemmorphi Payment QR contract.
package payqr

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// User is a contract-specific payqr.User type used by its methods.
type User struct {
	Name      string
	Authority util.Uint160
	Hashes    [][]byte
}

// UserStats is a contract-specific payqr.UserStats type used by its methods.
type UserStats struct {
	Authority             util.Uint160
	QrCodesCreated        *big.Int
	TotalTransfers        *big.Int
	TotalValueTransferred *big.Int
	LastActiveTimestamp   *big.Int
}

// TokenStats is a contract-specific payqr.TokenStats type used by its methods.
type TokenStats struct {
	TransferCount *big.Int
	TotalAmount   *big.Int
	TotalValue    *big.Int
}

// QrAccount is a contract-specific payqr.QrAccount type used by its methods.
type QrAccount struct {
	Hash                  []byte
	Authority             util.Uint160
	Amount                *big.Int
	LastTransferTimestamp *big.Int
	Tokens                []util.Uint160
	TokensStats           []*TokenStats
}

// CreateUserSuccessEvent represents "CreateUserSuccess" event emitted by the contract.
type CreateUserSuccessEvent struct {
	Owner util.Uint160
}

// RemoveUserSuccessEvent represents "RemoveUserSuccess" event emitted by the contract.
type RemoveUserSuccessEvent struct {
	Owner util.Uint160
}

// CreateQrSuccessEvent represents "CreateQrSuccess" event emitted by the contract.
type CreateQrSuccessEvent struct {
	Owner util.Uint160
	Hash  []byte
}

// RemoveQrSuccessEvent represents "RemoveQrSuccess" event emitted by the contract.
type RemoveQrSuccessEvent struct {
	Owner util.Uint160
	Hash  []byte
}

// TransferSuccessEvent represents "TransferSuccess" event emitted by the contract.
type TransferSuccessEvent struct {
	Token  util.Uint160
	From   util.Uint160
	To     util.Uint160
	Amount *big.Int
	Hash   []byte
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// GetQrCode invokes `getQrCode` method of contract.
func (c *ContractReader) GetQrCode(owner util.Uint160, hash []byte) (*QrAccount, error) {
	return itemToQrAccount(unwrap.Item(c.invoker.Call(c.hash, "getQrCode", owner, hash)))
}

// GetUser invokes `getUser` method of contract.
func (c *ContractReader) GetUser(owner util.Uint160) (*User, error) {
	return itemToUser(unwrap.Item(c.invoker.Call(c.hash, "getUser", owner)))
}

// GetUserStats invokes `getUserStats` method of contract.
func (c *ContractReader) GetUserStats(owner util.Uint160) (*UserStats, error) {
	return itemToUserStats(unwrap.Item(c.invoker.Call(c.hash, "getUserStats", owner)))
}

// ListQrHashes invokes `listQrHashes` method of contract.
func (c *ContractReader) ListQrHashes(owner util.Uint160) ([][]byte, error) {
	return unwrap.ArrayOfBytes(c.invoker.Call(c.hash, "listQrHashes", owner))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// CreateQrCode creates a transaction invoking `createQrCode` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CreateQrCode(owner util.Uint160, hash []byte, amount *big.Int, tokens []util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "createQrCode", owner, hash, amount, tokens)
}

// CreateQrCodeTransaction creates a transaction invoking `createQrCode` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CreateQrCodeTransaction(owner util.Uint160, hash []byte, amount *big.Int, tokens []util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "createQrCode", owner, hash, amount, tokens)
}

// CreateQrCodeUnsigned creates a transaction invoking `createQrCode` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CreateQrCodeUnsigned(owner util.Uint160, hash []byte, amount *big.Int, tokens []util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "createQrCode", nil, owner, hash, amount, tokens)
}

// CreateUser creates a transaction invoking `createUser` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CreateUser(owner util.Uint160, name string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "createUser", owner, name)
}

// CreateUserTransaction creates a transaction invoking `createUser` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CreateUserTransaction(owner util.Uint160, name string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "createUser", owner, name)
}

// CreateUserUnsigned creates a transaction invoking `createUser` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CreateUserUnsigned(owner util.Uint160, name string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "createUser", nil, owner, name)
}

// CreateUserStats creates a transaction invoking `createUserStats` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CreateUserStats(owner util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "createUserStats", owner)
}

// CreateUserStatsTransaction creates a transaction invoking `createUserStats` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CreateUserStatsTransaction(owner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "createUserStats", owner)
}

// CreateUserStatsUnsigned creates a transaction invoking `createUserStats` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CreateUserStatsUnsigned(owner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "createUserStats", nil, owner)
}

// RemoveQrCode creates a transaction invoking `removeQrCode` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RemoveQrCode(owner util.Uint160, hash []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "removeQrCode", owner, hash)
}

// RemoveQrCodeTransaction creates a transaction invoking `removeQrCode` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RemoveQrCodeTransaction(owner util.Uint160, hash []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "removeQrCode", owner, hash)
}

// RemoveQrCodeUnsigned creates a transaction invoking `removeQrCode` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RemoveQrCodeUnsigned(owner util.Uint160, hash []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "removeQrCode", nil, owner, hash)
}

// RemoveUser creates a transaction invoking `removeUser` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RemoveUser(owner util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "removeUser", owner)
}

// RemoveUserTransaction creates a transaction invoking `removeUser` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RemoveUserTransaction(owner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "removeUser", owner)
}

// RemoveUserUnsigned creates a transaction invoking `removeUser` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RemoveUserUnsigned(owner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "removeUser", nil, owner)
}

// RemoveUserStats creates a transaction invoking `removeUserStats` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RemoveUserStats(owner util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "removeUserStats", owner)
}

// RemoveUserStatsTransaction creates a transaction invoking `removeUserStats` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RemoveUserStatsTransaction(owner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "removeUserStats", owner)
}

// RemoveUserStatsUnsigned creates a transaction invoking `removeUserStats` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RemoveUserStatsUnsigned(owner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "removeUserStats", nil, owner)
}

// TransferGas creates a transaction invoking `transferGas` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) TransferGas(from util.Uint160, to util.Uint160, owner util.Uint160, hash []byte, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "transferGas", from, to, owner, hash, amount)
}

// TransferGasTransaction creates a transaction invoking `transferGas` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) TransferGasTransaction(from util.Uint160, to util.Uint160, owner util.Uint160, hash []byte, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "transferGas", from, to, owner, hash, amount)
}

// TransferGasUnsigned creates a transaction invoking `transferGas` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) TransferGasUnsigned(from util.Uint160, to util.Uint160, owner util.Uint160, hash []byte, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "transferGas", nil, from, to, owner, hash, amount)
}

// TransferToken creates a transaction invoking `transferToken` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) TransferToken(token util.Uint160, from util.Uint160, to util.Uint160, owner util.Uint160, hash []byte, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "transferToken", token, from, to, owner, hash, amount)
}

// TransferTokenTransaction creates a transaction invoking `transferToken` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) TransferTokenTransaction(token util.Uint160, from util.Uint160, to util.Uint160, owner util.Uint160, hash []byte, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "transferToken", token, from, to, owner, hash, amount)
}

// TransferTokenUnsigned creates a transaction invoking `transferToken` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) TransferTokenUnsigned(token util.Uint160, from util.Uint160, to util.Uint160, owner util.Uint160, hash []byte, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "transferToken", nil, token, from, to, owner, hash, amount)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

func itemToUser(item stackitem.Item, err error) (*User, error) {
	if err != nil {
		return nil, err
	}
	var res = new(User)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of User from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *User) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Name, err = func(item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Name: %w", err)
	}

	index++
	res.Authority, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Authority: %w", err)
	}

	index++
	res.Hashes, err = itemToBytesList(arr[index])
	if err != nil {
		return fmt.Errorf("field Hashes: %w", err)
	}

	return nil
}

func itemToUserStats(item stackitem.Item, err error) (*UserStats, error) {
	if err != nil {
		return nil, err
	}
	var res = new(UserStats)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of UserStats from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *UserStats) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 5 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Authority, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Authority: %w", err)
	}

	index++
	res.QrCodesCreated, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field QrCodesCreated: %w", err)
	}

	index++
	res.TotalTransfers, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field TotalTransfers: %w", err)
	}

	index++
	res.TotalValueTransferred, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field TotalValueTransferred: %w", err)
	}

	index++
	res.LastActiveTimestamp, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field LastActiveTimestamp: %w", err)
	}

	return nil
}

func itemToTokenStats(item stackitem.Item, err error) (*TokenStats, error) {
	if err != nil {
		return nil, err
	}
	var res = new(TokenStats)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of TokenStats from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *TokenStats) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.TransferCount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field TransferCount: %w", err)
	}

	index++
	res.TotalAmount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field TotalAmount: %w", err)
	}

	index++
	res.TotalValue, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field TotalValue: %w", err)
	}

	return nil
}

func itemToQrAccount(item stackitem.Item, err error) (*QrAccount, error) {
	if err != nil {
		return nil, err
	}
	var res = new(QrAccount)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of QrAccount from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *QrAccount) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 6 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Hash, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field Hash: %w", err)
	}

	index++
	res.Authority, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Authority: %w", err)
	}

	index++
	res.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	index++
	res.LastTransferTimestamp, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field LastTransferTimestamp: %w", err)
	}

	index++
	res.Tokens, err = func(item stackitem.Item) ([]util.Uint160, error) {
		arr, ok := item.Value().([]stackitem.Item)
		if !ok {
			return nil, errors.New("not an array")
		}
		list := make([]util.Uint160, len(arr))
		for i := range arr {
			list[i], err = itemToUint160(arr[i])
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		return list, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Tokens: %w", err)
	}

	index++
	res.TokensStats, err = func(item stackitem.Item) ([]*TokenStats, error) {
		arr, ok := item.Value().([]stackitem.Item)
		if !ok {
			return nil, errors.New("not an array")
		}
		list := make([]*TokenStats, len(arr))
		for i := range arr {
			list[i], err = itemToTokenStats(arr[i], nil)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		return list, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field TokensStats: %w", err)
	}

	return nil
}

func itemToUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	return util.Uint160DecodeBytesBE(b)
}

func itemToBytesList(item stackitem.Item) ([][]byte, error) {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	list := make([][]byte, len(arr))
	for i := range arr {
		b, err := arr[i].TryBytes()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		list[i] = b
	}
	return list, nil
}
