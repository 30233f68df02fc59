package payqrconst

const (
	// MaxNameLen is the maximum length of a user name in bytes.
	MaxNameLen = 20
	// MaxHashLen is the maximum length of a QR code hash label in bytes.
	MaxHashLen = 32
	// MaxQrCodes is the maximum number of QR codes a single user can own.
	MaxQrCodes = 5
	// MaxTokens is the maximum number of asset contracts a single QR code
	// accepts payments in.
	MaxTokens = 5

	// ErrNameTooLong is returned on attempt to create a user with a name
	// longer than MaxNameLen.
	ErrNameTooLong = "name is too long"
	// ErrUserExists is returned on attempt to create a user that is
	// already registered.
	ErrUserExists = "user already exists"
	// ErrUserNotFound is returned if the addressed user is missing.
	ErrUserNotFound = "user does not exist"
	// ErrStatsExists is returned on attempt to create a second stats
	// record for the same user.
	ErrStatsExists = "user stats already exist"
	// ErrStatsNotFound is returned if the addressed stats record is missing.
	ErrStatsNotFound = "user stats do not exist"
	// ErrQrListFull is returned on attempt to create more than MaxQrCodes
	// QR codes for one user.
	ErrQrListFull = "QR list is full"
	// ErrQrExists is returned on attempt to reuse a QR hash of a live code.
	ErrQrExists = "QR code already exists"
	// ErrQrNotFound is returned if the addressed QR code is missing.
	ErrQrNotFound = "QR code does not exist"
	// ErrQrListNotEmpty is returned on attempt to remove a user that
	// still owns QR codes.
	ErrQrListNotEmpty = "user still owns QR codes"
	// ErrTooManyTokens is returned if a QR code allow-list exceeds MaxTokens.
	ErrTooManyTokens = "QR code has too many tokens"
	// ErrRepeatedTokens is returned if a QR code allow-list contains
	// the same asset twice.
	ErrRepeatedTokens = "QR code has repeated tokens"
	// ErrTokenNotInQr is returned on attempt to pay with an asset the
	// QR code does not accept.
	ErrTokenNotInQr = "token does not exist in QR account"
	// ErrAmountZero is returned on attempt to transfer nothing.
	ErrAmountZero = "transfer amount cannot be zero"
	// ErrWrongAmount is returned if the transferred amount does not match
	// the amount pinned in the QR code or exceeds the payer balance.
	ErrWrongAmount = "wrong transfer amount"
	// ErrWrongDestination is returned if the transfer destination is not
	// the QR code authority.
	ErrWrongDestination = "wrong transfer destination"
	// ErrAuthorityMismatch is returned if a stored record was not derived
	// from the caller-declared owner. This is a fatal consistency failure,
	// not a user-recoverable one.
	ErrAuthorityMismatch = "authority mismatch"
)
