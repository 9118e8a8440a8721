package badger

import (
	"encoding/binary"

	"github.com/poiesic/layerscout/core"
)

// Key prefixes for different data types
const (
	catalogInfoPrefix   = "catinf"
	catalogRecordPrefix = "catrec"
)

// makeCatalogInfoKey generates a key for a snapshot's info by source hash.
// Format: prefix:source
func makeCatalogInfoKey(source core.ID) []byte {
	return appendID([]byte(catalogInfoPrefix+":"), source)
}

// makeCatalogRecordKey generates a composite key for one record of a snapshot.
// Format: prefix:source:position
func makeCatalogRecordKey(source core.ID, position int) []byte {
	buf := makePartialCatalogRecordKey(source)
	// BigEndian so iteration order is load order
	return binary.BigEndian.AppendUint32(buf, uint32(position))
}

// makePartialCatalogRecordKey generates the prefix shared by every record of a snapshot.
// Format: prefix:source:
func makePartialCatalogRecordKey(source core.ID) []byte {
	buf := appendID([]byte(catalogRecordPrefix+":"), source)
	return append(buf, ':')
}

func appendID(buf []byte, id core.ID) []byte {
	return binary.BigEndian.AppendUint64(buf, uint64(id))
}
