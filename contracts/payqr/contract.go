package payqr

import (
	"github.com/hemmorphi/hemmorphi-contract/common"
	"github.com/hemmorphi/hemmorphi-contract/contracts/payqr/payqrconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	// User represents a registered identity owning up to
	// payqrconst.MaxQrCodes payment QR codes.
	User struct {
		Name      string
		Authority interop.Hash160
		Hashes    [][]byte
	}

	// UserStats holds append-only activity counters of a single user.
	UserStats struct {
		Authority             interop.Hash160
		QrCodesCreated        int
		TotalTransfers        int
		TotalValueTransferred int
		LastActiveTimestamp   int
	}

	// TokenStats holds append-only per-asset counters of a single QR code.
	TokenStats struct {
		TransferCount int
		TotalAmount   int
		TotalValue    int
	}

	// QrAccount is the payable object: it pins an expected amount (zero
	// means any) and the allow-list of asset contracts it accepts.
	// TokensStats is kept index-parallel to Tokens.
	QrAccount struct {
		Hash                  []byte
		Authority             interop.Hash160
		Amount                int
		LastTransferTimestamp int
		Tokens                []interop.Hash160
		TokensStats           []TokenStats
	}
)

const (
	userKeyPrefix  = 'u'
	statsKeyPrefix = 's'
	qrKeyPrefix    = 'q'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	runtime.Log("payqr contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("payqr contract updated")
}

// CreateUser registers a user record for the given owner account with an
// empty QR code list. It can be invoked only by the owner. Each account can
// be registered exactly once; re-creation of a removed account starts from
// scratch.
//
// It produces CreateUserSuccess notification.
func CreateUser(owner interop.Hash160, name string) {
	checkOwner(owner)
	common.CheckOwnerWitness(owner)

	if len(name) > payqrconst.MaxNameLen {
		panic(payqrconst.ErrNameTooLong)
	}

	ctx := storage.GetContext()
	key := userKey(owner)
	if storage.Get(ctx, key) != nil {
		panic(payqrconst.ErrUserExists)
	}

	user := User{
		Name:      name,
		Authority: owner,
		Hashes:    [][]byte{},
	}
	common.SetSerialized(ctx, key, user)

	runtime.Log("registered new user")
	runtime.Notify("CreateUserSuccess", owner)
}

// RemoveUser drops the user record of the given owner together with its
// stats record. It can be invoked only by the owner. All QR codes of the
// user must be removed beforehand, otherwise their records would be left
// unreachable.
//
// It produces RemoveUserSuccess notification.
func RemoveUser(owner interop.Hash160) {
	checkOwner(owner)
	common.CheckOwnerWitness(owner)

	ctx := storage.GetContext()
	user := getUser(ctx, owner)
	if !user.Authority.Equals(owner) {
		panic(payqrconst.ErrAuthorityMismatch)
	}
	if len(user.Hashes) != 0 {
		panic(payqrconst.ErrQrListNotEmpty)
	}

	storage.Delete(ctx, userKey(owner))
	storage.Delete(ctx, statsKey(owner))

	runtime.Log("removed user")
	runtime.Notify("RemoveUserSuccess", owner)
}

// CreateUserStats creates a zeroed stats record bound to an existing user
// of the given owner account. It can be invoked only by the owner.
func CreateUserStats(owner interop.Hash160) {
	checkOwner(owner)
	common.CheckOwnerWitness(owner)

	ctx := storage.GetContext()
	user := getUser(ctx, owner)
	if !user.Authority.Equals(owner) {
		panic(payqrconst.ErrAuthorityMismatch)
	}

	key := statsKey(owner)
	if storage.Get(ctx, key) != nil {
		panic(payqrconst.ErrStatsExists)
	}

	stats := UserStats{Authority: owner}
	common.SetSerialized(ctx, key, stats)
}

// RemoveUserStats drops the stats record of the given owner account. It can
// be invoked only by the owner.
func RemoveUserStats(owner interop.Hash160) {
	checkOwner(owner)
	common.CheckOwnerWitness(owner)

	ctx := storage.GetContext()
	stats := getUserStats(ctx, owner)
	if !stats.Authority.Equals(owner) {
		panic(payqrconst.ErrAuthorityMismatch)
	}

	storage.Delete(ctx, statsKey(owner))
}

// CreateQrCode creates a payment QR code record under the given hash label
// for an existing user. Amount of zero makes an open-amount code accepting
// any positive payment, a non-zero amount pins the code to exact payments.
// Tokens is the allow-list of asset contracts the code accepts, at most
// payqrconst.MaxTokens distinct entries; native GAS is accepted when its
// contract hash is listed. It can be invoked only by the owner.
//
// It produces CreateQrSuccess notification.
func CreateQrCode(owner interop.Hash160, hash []byte, amount int, tokens []interop.Hash160) {
	checkOwner(owner)
	checkQrHash(hash)
	if amount < 0 {
		panic("negative amount")
	}
	common.CheckOwnerWitness(owner)

	ctx := storage.GetContext()
	user := getUser(ctx, owner)
	if !user.Authority.Equals(owner) {
		panic(payqrconst.ErrAuthorityMismatch)
	}

	if len(user.Hashes) >= payqrconst.MaxQrCodes {
		panic(payqrconst.ErrQrListFull)
	}
	for i := range user.Hashes {
		if common.BytesEqual(user.Hashes[i], hash) {
			panic(payqrconst.ErrQrExists)
		}
	}

	if len(tokens) > payqrconst.MaxTokens {
		panic(payqrconst.ErrTooManyTokens)
	}
	tokensStats := []TokenStats{}
	for i := 0; i < len(tokens); i++ {
		if len(tokens[i]) != interop.Hash160Len {
			panic("incorrect token")
		}
		for j := 0; j < i; j++ {
			if tokens[i].Equals(tokens[j]) {
				panic(payqrconst.ErrRepeatedTokens)
			}
		}
		tokensStats = append(tokensStats, TokenStats{})
	}

	qr := QrAccount{
		Hash:        hash,
		Authority:   owner,
		Amount:      amount,
		Tokens:      tokens,
		TokensStats: tokensStats,
	}
	common.SetSerialized(ctx, qrKey(owner, hash), qr)

	user.Hashes = append(user.Hashes, hash)
	common.SetSerialized(ctx, userKey(owner), user)

	if storage.Get(ctx, statsKey(owner)) != nil {
		stats := getUserStats(ctx, owner)
		stats.QrCodesCreated += 1
		stats.LastActiveTimestamp = runtime.GetTime()
		common.SetSerialized(ctx, statsKey(owner), stats)
	}

	runtime.Log("created QR code")
	runtime.Notify("CreateQrSuccess", owner, hash)
}

// RemoveQrCode drops the QR code record stored under the given hash label
// and deletes the label from the owner list. It can be invoked only by the
// owner. Order of the remaining labels is not preserved.
//
// It produces RemoveQrSuccess notification.
func RemoveQrCode(owner interop.Hash160, hash []byte) {
	checkOwner(owner)
	checkQrHash(hash)
	common.CheckOwnerWitness(owner)

	ctx := storage.GetContext()
	user := getUser(ctx, owner)
	if !user.Authority.Equals(owner) {
		panic(payqrconst.ErrAuthorityMismatch)
	}

	found := false
	leftHashes := [][]byte{}
	for i := range user.Hashes {
		if common.BytesEqual(user.Hashes[i], hash) {
			found = true
			continue
		}
		leftHashes = append(leftHashes, user.Hashes[i])
	}
	if !found {
		panic(payqrconst.ErrQrNotFound)
	}

	user.Hashes = leftHashes
	common.SetSerialized(ctx, userKey(owner), user)
	storage.Delete(ctx, qrKey(owner, hash))

	runtime.Log("removed QR code")
	runtime.Notify("RemoveQrSuccess", owner, hash)
}

// TransferGas pays the QR code of the given owner and hash label with
// native GAS. From is the paying account and must witness the invocation,
// to must be the code authority. GAS must be present in the code
// allow-list by its contract hash. Amount must be positive and, unless the
// code is an open-amount one, equal to the pinned amount.
//
// It produces TransferSuccess notification.
func TransferGas(from, to, owner interop.Hash160, hash []byte, amount int) {
	checkOwner(owner)
	checkQrHash(hash)
	if len(from) != interop.Hash160Len || len(to) != interop.Hash160Len {
		panic("incorrect account")
	}
	common.CheckPayerWitness(from)

	ctx := storage.GetContext()
	qr, index := validateTransfer(ctx, interop.Hash160(gas.Hash), to, owner, hash, amount)
	stats := getUserStats(ctx, owner)

	if gas.BalanceOf(from) < amount {
		panic(payqrconst.ErrWrongAmount)
	}
	if !gas.Transfer(from, to, amount, nil) {
		panic("GAS transfer failed")
	}

	settleTransfer(ctx, owner, hash, qr, stats, index, amount)
	runtime.Notify("TransferSuccess", interop.Hash160(gas.Hash), from, to, amount, hash)
}

// TransferToken pays the QR code of the given owner and hash label with a
// NEP-17 token. From is the paying account and must witness the
// invocation, to must be the code authority and token must be present in
// the code allow-list. Amount must be positive and, unless the code is an
// open-amount one, equal to the pinned amount. Failure of the token
// transfer itself aborts the invocation.
//
// It produces TransferSuccess notification.
func TransferToken(token, from, to, owner interop.Hash160, hash []byte, amount int) {
	checkOwner(owner)
	checkQrHash(hash)
	if len(token) != interop.Hash160Len {
		panic("incorrect token")
	}
	if len(from) != interop.Hash160Len || len(to) != interop.Hash160Len {
		panic("incorrect account")
	}
	common.CheckPayerWitness(from)

	ctx := storage.GetContext()
	qr, index := validateTransfer(ctx, token, to, owner, hash, amount)
	stats := getUserStats(ctx, owner)

	if !contract.Call(token, "transfer", contract.All, from, to, amount, nil).(bool) {
		panic("token transfer failed")
	}

	settleTransfer(ctx, owner, hash, qr, stats, index, amount)
	runtime.Notify("TransferSuccess", token, from, to, amount, hash)
}

// GetUser returns the user record of the given owner account.
//
// If the user doesn't exist, it panics with ErrUserNotFound.
func GetUser(owner interop.Hash160) User {
	checkOwner(owner)
	return getUser(storage.GetReadOnlyContext(), owner)
}

// GetUserStats returns the stats record of the given owner account.
//
// If the record doesn't exist, it panics with ErrStatsNotFound.
func GetUserStats(owner interop.Hash160) UserStats {
	checkOwner(owner)
	return getUserStats(storage.GetReadOnlyContext(), owner)
}

// GetQrCode returns the QR code record of the given owner account stored
// under the given hash label.
//
// If the record doesn't exist, it panics with ErrQrNotFound.
func GetQrCode(owner interop.Hash160, hash []byte) QrAccount {
	checkOwner(owner)
	checkQrHash(hash)
	return getQrAccount(storage.GetReadOnlyContext(), owner, hash)
}

// ListQrHashes returns hash labels of all QR codes of the given owner
// account in creation order.
//
// If the user doesn't exist, it panics with ErrUserNotFound.
func ListQrHashes(owner interop.Hash160) [][]byte {
	checkOwner(owner)
	user := getUser(storage.GetReadOnlyContext(), owner)
	return user.Hashes
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// validateTransfer performs asset-independent transfer checks and returns
// the addressed QR record with the allow-list index of the asset.
func validateTransfer(ctx storage.Context, token, to, owner interop.Hash160, hash []byte, amount int) (QrAccount, int) {
	if amount == 0 {
		panic(payqrconst.ErrAmountZero)
	}
	if amount < 0 {
		panic("negative amount")
	}

	qr := getQrAccount(ctx, owner, hash)
	if !qr.Authority.Equals(owner) {
		panic(payqrconst.ErrAuthorityMismatch)
	}

	index := -1
	for i := range qr.Tokens {
		if qr.Tokens[i].Equals(token) {
			index = i
			break
		}
	}
	if index < 0 {
		panic(payqrconst.ErrTokenNotInQr)
	}

	if qr.Amount != 0 && amount != qr.Amount {
		panic(payqrconst.ErrWrongAmount)
	}
	if !to.Equals(qr.Authority) {
		panic(payqrconst.ErrWrongDestination)
	}

	return qr, index
}

// settleTransfer records a successful transfer in the QR code and user
// stats counters.
func settleTransfer(ctx storage.Context, owner interop.Hash160, hash []byte, qr QrAccount, stats UserStats, index, amount int) {
	now := runtime.GetTime()

	qr.TokensStats[index].TransferCount += 1
	qr.TokensStats[index].TotalAmount += amount
	qr.TokensStats[index].TotalValue += amount
	qr.LastTransferTimestamp = now
	common.SetSerialized(ctx, qrKey(owner, hash), qr)

	stats.TotalTransfers += 1
	stats.TotalValueTransferred += amount
	stats.LastActiveTimestamp = now
	common.SetSerialized(ctx, statsKey(owner), stats)
}

func checkOwner(owner interop.Hash160) {
	if len(owner) != interop.Hash160Len {
		panic("incorrect owner")
	}
}

func checkQrHash(hash []byte) {
	if len(hash) == 0 || len(hash) > payqrconst.MaxHashLen {
		panic("incorrect QR hash")
	}
}

func userKey(owner interop.Hash160) []byte {
	return append([]byte{userKeyPrefix}, owner...)
}

func statsKey(owner interop.Hash160) []byte {
	return append([]byte{statsKeyPrefix}, owner...)
}

func qrKey(owner interop.Hash160, hash []byte) []byte {
	return append(append([]byte{qrKeyPrefix}, owner...), hash...)
}

func getUser(ctx storage.Context, owner interop.Hash160) User {
	data := storage.Get(ctx, userKey(owner))
	if data == nil {
		panic(payqrconst.ErrUserNotFound)
	}

	return std.Deserialize(data.([]byte)).(User)
}

func getUserStats(ctx storage.Context, owner interop.Hash160) UserStats {
	data := storage.Get(ctx, statsKey(owner))
	if data == nil {
		panic(payqrconst.ErrStatsNotFound)
	}

	return std.Deserialize(data.([]byte)).(UserStats)
}

func getQrAccount(ctx storage.Context, owner interop.Hash160, hash []byte) QrAccount {
	data := storage.Get(ctx, qrKey(owner, hash))
	if data == nil {
		panic(payqrconst.ErrQrNotFound)
	}

	return std.Deserialize(data.([]byte)).(QrAccount)
}
