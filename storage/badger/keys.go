package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/lyrica/core"
)

// Key prefixes for different data types
const (
	trackRecordPrefix = "trkrec"
	auditRecordPrefix = "audrec"
	auditIDSeq        = "audrecseq"
)

// makeTrackKey generates a key for a track record by ID.
func makeTrackKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", trackRecordPrefix, id))
}

// makeAuditKey generates a key for an audit entry.
// Format: prefix:sequence, big-endian so lexicographic order is append order.
func makeAuditKey(seq uint64) []byte {
	prefix := auditRecordPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}
