package state

import (
	"encoding/binary"
	"strings"
)

var (
	accountPrefix = []byte("account/")

	tokenBalancePrefix   = []byte("token/balance/")
	tokenAllowancePrefix = []byte("token/allowance/")
	tokenSupplyKey       = []byte("token/supply")
	tokenMetadataKey     = []byte("token/metadata")

	articlePrefix             = []byte("articles/article/")
	articleCountKey           = []byte("articles/count")
	contributionPrefix        = []byte("articles/contribution/")
	contributionCountKey      = []byte("articles/contribution-count")
	articleContributionPrefix = []byte("articles/by-article/")
	userContributionPrefix    = []byte("articles/by-user/")
	contributedPrefix         = []byte("articles/contributed/")
	likedPrefix               = []byte("articles/liked/")

	certificatePrefix       = []byte("certificate/token/")
	certificateCountKey     = []byte("certificate/count")
	certificateHashPrefix   = []byte("certificate/content/")
	certificateAuthorPrefix = []byte("certificate/by-author/")
	listingPrefix           = []byte("certificate/listing/")
	marketplaceConfigKey    = []byte("certificate/config")

	eventLogHeadKey     = []byte("events/head")
	eventLogEntryPrefix = []byte("events/entry/")

	genesisMarkerKey = []byte("genesis/applied")
)

func prefixed(prefix []byte, parts ...[]byte) []byte {
	size := len(prefix)
	for _, part := range parts {
		size += len(part)
	}
	key := make([]byte, 0, size)
	key = append(key, prefix...)
	for _, part := range parts {
		key = append(key, part...)
	}
	return key
}

func idBytes(id uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], id)
	return buf[:]
}

func normalizeHashKey(hash string) []byte {
	return []byte(strings.TrimSpace(hash))
}

// unixToStored clamps pre-epoch timestamps, which RLP cannot encode.
func unixToStored(ts int64) uint64 {
	if ts < 0 {
		return 0
	}
	return uint64(ts)
}
