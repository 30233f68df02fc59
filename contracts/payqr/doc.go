/*
Package payqr contains implementation of Payment QR contract deployed in
Hemmorphi sidechain.

Payment QR contract stores user-owned payment QR code records. Each user
owns up to five named codes; a code pins an expected payment amount (zero
for open-amount codes) and an allow-list of up to five asset contracts it
accepts payments in. Paying a code transfers native GAS or a NEP-17 token
to the code authority and records aggregate statistics per code asset and
per user. All records are addressed deterministically by the owner account
(plus the code hash label for QR records), so no references are ever
stored, only re-derived. Every mutating method requires the witness of the
declared owner (or the paying account for transfers) and verifies that the
loaded record was derived from that owner.

# Contract notifications

CreateUserSuccess notification. This notification is produced when a new
user is registered.

	CreateUserSuccess:
	  - name: owner
	    type: Hash160

RemoveUserSuccess notification. This notification is produced when a user
record is removed together with its stats record.

	RemoveUserSuccess:
	  - name: owner
	    type: Hash160

CreateQrSuccess notification. This notification is produced when a new QR
code record is created.

	CreateQrSuccess:
	  - name: owner
	    type: Hash160
	  - name: hash
	    type: ByteArray

RemoveQrSuccess notification. This notification is produced when a QR code
record is removed.

	RemoveQrSuccess:
	  - name: owner
	    type: Hash160
	  - name: hash
	    type: ByteArray

TransferSuccess notification. This notification is produced when a QR code
is successfully paid.

	TransferSuccess:
	  - name: token
	    type: Hash160
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: hash
	    type: ByteArray
*/
package payqr

/*
Contract storage model.

# Summary
Current conventions:
 <owner>: 20-byte script hash of the account owning a record
 <hash>: QR code hash label, 1-32 bytes

Key-value storage format:
 - 'u<owner>' -> std.Serialize(User)
   user record with name, authority and the list of owned QR hash labels
 - 's<owner>' -> std.Serialize(UserStats)
   append-only user activity counters
 - 'q<owner><hash>' -> std.Serialize(QrAccount)
   QR code record with pinned amount, asset allow-list and per-asset
   counters

# Users
Contract stores one user record per account. The record carries the
bounded list of owned QR hash labels, so every QR record is reachable only
through its owning user and capacity checks are derived from the list
length.

# Statistics
Counters only grow and are observational: no invariant is enforced from
them. Capacity enforcement relies on collection lengths instead.
*/
