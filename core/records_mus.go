package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the types persisted by the catalog cache.
// Field order is part of the on-disk format; append new fields at the end.
var (
	IDMUS            = idMUS{}
	CatalogRecordMUS = catalogRecordMUS{}
	CatalogInfoMUS   = catalogInfoMUS{}
)

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	var raw uint64
	raw, n, err = varint.Uint64.Unmarshal(bs)
	return ID(raw), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type catalogRecordMUS struct{}

func (s catalogRecordMUS) Marshal(v CatalogRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.Name, bs)
	n += ord.String.Marshal(v.Agency, bs[n:])
	n += ord.String.Marshal(v.ServiceEndpoint, bs[n:])
	n += ord.String.Marshal(string(v.Status), bs[n:])
	n += ord.Bool.Marshal(v.DUARequired, bs[n:])
	return n + ord.Bool.Marshal(v.GIIRequired, bs[n:])
}

func (s catalogRecordMUS) Unmarshal(bs []byte) (v CatalogRecord, n int, err error) {
	var n1 int
	v.Name, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Agency, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ServiceEndpoint, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var status string
	status, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Status = Status(status)
	v.DUARequired, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.GIIRequired, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	return
}

func (s catalogRecordMUS) Size(v CatalogRecord) (size int) {
	size = ord.String.Size(v.Name)
	size += ord.String.Size(v.Agency)
	size += ord.String.Size(v.ServiceEndpoint)
	size += ord.String.Size(string(v.Status))
	size += ord.Bool.Size(v.DUARequired)
	return size + ord.Bool.Size(v.GIIRequired)
}

func (s catalogRecordMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for range 4 {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	for range 2 {
		n1, err = ord.Bool.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

// CatalogInfo describes a cached catalog snapshot.
type CatalogInfo struct {
	Source   ID        // content hash of the tabular source
	Count    int       // number of records stored
	StoredAt time.Time // when the snapshot was written
}

type catalogInfoMUS struct{}

func (s catalogInfoMUS) Marshal(v CatalogInfo, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Source, bs)
	n += varint.Int.Marshal(v.Count, bs[n:])
	return n + varint.Int64.Marshal(v.StoredAt.UnixMicro(), bs[n:])
}

func (s catalogInfoMUS) Unmarshal(bs []byte) (v CatalogInfo, n int, err error) {
	var n1 int
	v.Source, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Count, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.StoredAt = time.UnixMicro(micros).UTC()
	return
}

func (s catalogInfoMUS) Size(v CatalogInfo) (size int) {
	size = IDMUS.Size(v.Source)
	size += varint.Int.Size(v.Count)
	return size + varint.Int64.Size(v.StoredAt.UnixMicro())
}

func (s catalogInfoMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}
