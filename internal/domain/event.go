package domain

// RecordKind classifies a raw log record after tagged-variant decoding.
type RecordKind string

// Known record kinds. Anything else decodes to KindUnknown and is dropped
// with a count, never guessed at.
const (
	KindSnapshot RecordKind = "SNAPSHOT"
	KindFill     RecordKind = "FILL"
	KindError    RecordKind = "ERROR"
	KindUnknown  RecordKind = "UNKNOWN"
)

// TimestampMissing marks a record that carried no source timestamp.
// The timeline reconstructor replaces it with a synthesized value.
const TimestampMissing int64 = -1

// RawEvent is one decoded log record before normalization.
// Numeric fields are kept as a presence map: carry-forward defaulting
// needs to distinguish an absent field from an explicit zero.
type RawEvent struct {
	Kind        RecordKind
	RunID       string
	Symbol      string
	TimestampMs int64 // TimestampMissing when the record had none

	// Fields holds the numeric fields present on the record, keyed by
	// their wire names (markPrice, walletBalance, unrealizedPnl,
	// realizedPnl, feePaid, fundingPnl, positionQty).
	Fields map[string]float64

	// PositionSide is the optional side string ("LONG", "SHORT", "FLAT").
	PositionSide string
}

// Wire names of the numeric snapshot fields.
const (
	FieldMarkPrice     = "markPrice"
	FieldWalletBalance = "walletBalance"
	FieldUnrealizedPnl = "unrealizedPnl"
	FieldRealizedPnl   = "realizedPnl"
	FieldFeePaid       = "feePaid"
	FieldFundingPnl    = "fundingPnl"
	FieldPositionQty   = "positionQty"
)

// SnapshotFields lists the numeric fields subject to carry-forward
// defaulting, in canonical order.
var SnapshotFields = []string{
	FieldMarkPrice,
	FieldWalletBalance,
	FieldUnrealizedPnl,
	FieldRealizedPnl,
	FieldFeePaid,
	FieldFundingPnl,
	FieldPositionQty,
}

// Position side constants.
const (
	SideLong  = "LONG"
	SideShort = "SHORT"
	SideFlat  = "FLAT"
)
