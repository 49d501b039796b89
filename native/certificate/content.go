package certificate

import (
	"strings"

	"github.com/ipfs/go-cid"
	mc "github.com/multiformats/go-multicodec"
)

// CompletionCodec tags the content ids of article completion certificates.
// Only IssueCompletion may mint a content hash carrying it.
const CompletionCodec = mc.Rlp

// IsCompletionHash reports whether hash decodes, in any multibase, to a CID
// in the completion namespace.
func IsCompletionHash(hash string) bool {
	id, err := cid.Decode(strings.TrimSpace(hash))
	if err != nil {
		return false
	}
	return id.Type() == uint64(CompletionCodec)
}
