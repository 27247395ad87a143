package kef

// Mode names the block-cipher mode a version row dispatches to.
type Mode uint8

const (
	ModeECB Mode = iota
	ModeCBC
	ModeCTR
	ModeGCM
)

// Padding names the padding rule a version row applies before encryption.
type Padding uint8

const (
	PadNulZero Padding = iota
	PadPkcs7
	PadNone
)

// AuthType names where and how the authentication trailer is computed.
type AuthType uint8

const (
	AuthHidden AuthType = iota
	AuthExposed
	AuthGcm
)

// VersionRow is one row of the static KEF version catalog.
type VersionRow struct {
	Version  uint8
	Mode     Mode
	IVSize   int
	Padding  Padding
	Compress bool
	Auth     AuthType
	AuthSize int
}

// versionTable is the twelve canonical rows. Read-only, never mutated after
// package init, and safe for concurrent use from any number of callers —
// there is no process-wide mutable state in this package.
var versionTable = map[uint8]VersionRow{
	0:  {Version: 0, Mode: ModeECB, IVSize: 0, Padding: PadNulZero, Compress: false, Auth: AuthHidden, AuthSize: 16},
	1:  {Version: 1, Mode: ModeCBC, IVSize: 16, Padding: PadNulZero, Compress: false, Auth: AuthHidden, AuthSize: 16},
	5:  {Version: 5, Mode: ModeECB, IVSize: 0, Padding: PadNulZero, Compress: false, Auth: AuthExposed, AuthSize: 3},
	6:  {Version: 6, Mode: ModeECB, IVSize: 0, Padding: PadPkcs7, Compress: false, Auth: AuthHidden, AuthSize: 4},
	7:  {Version: 7, Mode: ModeECB, IVSize: 0, Padding: PadPkcs7, Compress: true, Auth: AuthHidden, AuthSize: 4},
	10: {Version: 10, Mode: ModeCBC, IVSize: 16, Padding: PadNulZero, Compress: false, Auth: AuthExposed, AuthSize: 4},
	11: {Version: 11, Mode: ModeCBC, IVSize: 16, Padding: PadPkcs7, Compress: false, Auth: AuthHidden, AuthSize: 4},
	12: {Version: 12, Mode: ModeCBC, IVSize: 16, Padding: PadPkcs7, Compress: true, Auth: AuthHidden, AuthSize: 4},
	15: {Version: 15, Mode: ModeCTR, IVSize: 12, Padding: PadNone, Compress: false, Auth: AuthHidden, AuthSize: 4},
	16: {Version: 16, Mode: ModeCTR, IVSize: 12, Padding: PadNone, Compress: true, Auth: AuthHidden, AuthSize: 4},
	20: {Version: 20, Mode: ModeGCM, IVSize: 12, Padding: PadNone, Compress: false, Auth: AuthGcm, AuthSize: 4},
	21: {Version: 21, Mode: ModeGCM, IVSize: 12, Padding: PadNone, Compress: true, Auth: AuthGcm, AuthSize: 4},
}

// lookupVersion returns the row for ver, or false if the version is unknown.
func lookupVersion(ver uint8) (VersionRow, bool) {
	row, ok := versionTable[ver]
	return row, ok
}

// isStreamMode reports whether a mode consumes plaintext as a stream
// (CTR/GCM), as opposed to a block mode requiring 16-byte alignment.
func (m Mode) isStreamMode() bool {
	return m == ModeCTR || m == ModeGCM
}

// minCiphertextLen is the smallest legal ciphertext region for the row's
// mode: 16 bytes for block modes (one AES block), 1 byte for stream modes.
func (r VersionRow) minCiphertextLen() int {
	if r.Mode.isStreamMode() {
		return 1
	}
	return 16
}
