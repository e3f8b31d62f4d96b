// Package auditlog persists allocator leak-audit snapshots to a small
// durable database, so that a snapshot taken right before a process
// exit can be inspected afterward. It sits off the allocator's hot
// allocate/free path entirely: callers decide when, if ever, to call
// Export.
package auditlog

import (
	"encoding/binary"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

var recordsBucket = []byte("records")

// Record is one outstanding-allocation entry captured at export time.
type Record struct {
	Family string
	Size   uint32
	Addr   uint64
}

// Export writes snapshot to a fresh bbolt database at path, replacing
// any previous contents. Each record is stored under a big-endian
// 8-byte sequence key so Load can reconstruct them in capture order.
func Export(path string, snapshot []Record) error {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return fmt.Errorf("auditlog: open %s: %w", path, err)
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(recordsBucket) != nil {
			if err := tx.DeleteBucket(recordsBucket); err != nil {
				return err
			}
		}
		b, err := tx.CreateBucket(recordsBucket)
		if err != nil {
			return err
		}

		var key [8]byte
		for i, rec := range snapshot {
			binary.BigEndian.PutUint64(key[:], uint64(i))
			if err := b.Put(append([]byte(nil), key[:]...), encodeRecord(rec)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load reads back every record previously written by Export, in
// capture order.
func Load(path string) ([]Record, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("auditlog: open %s: %w", path, err)
	}
	defer db.Close()

	var records []Record
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(recordsBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			rec, err := decodeRecord(v)
			if err != nil {
				return err
			}
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// encodeRecord serializes a Record as: 4-byte family length, family
// bytes, 4-byte size, 8-byte addr.
func encodeRecord(rec Record) []byte {
	buf := make([]byte, 4+len(rec.Family)+4+8)
	binary.BigEndian.PutUint32(buf[0:4], uint32(len(rec.Family)))
	copy(buf[4:], rec.Family)
	off := 4 + len(rec.Family)
	binary.BigEndian.PutUint32(buf[off:off+4], rec.Size)
	binary.BigEndian.PutUint64(buf[off+4:off+12], rec.Addr)
	return buf
}

func decodeRecord(buf []byte) (Record, error) {
	if len(buf) < 4 {
		return Record{}, fmt.Errorf("auditlog: corrupt record: too short")
	}
	nameLen := binary.BigEndian.Uint32(buf[0:4])
	off := 4 + int(nameLen)
	if len(buf) < off+12 {
		return Record{}, fmt.Errorf("auditlog: corrupt record: truncated")
	}
	rec := Record{
		Family: string(buf[4:off]),
		Size:   binary.BigEndian.Uint32(buf[off : off+4]),
		Addr:   binary.BigEndian.Uint64(buf[off+4 : off+12]),
	}
	return rec, nil
}
