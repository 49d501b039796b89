package articles

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ipfs/go-cid"
	mh "github.com/multiformats/go-multihash"

	"moviewrite/native/certificate"
)

type canonicalArticle struct {
	ID              uint64
	Title           string
	MovieTitle      string
	Genre           string
	Creator         [20]byte
	ContributionIDs []uint64
}

// ContentHash derives the content identifier committed to by an article's
// completion certificate. It is a CIDv1 (completion codec, sha2-256) over
// the canonical encoding of the article and its ordered contribution ids, so
// it is stable across nodes and unique per article. Public minting rejects
// the completion codec, so nobody can claim the hash ahead of completion.
func ContentHash(article *Article, contributionIDs []uint64) (string, error) {
	if article == nil {
		return "", fmt.Errorf("articles: nil article")
	}
	buf, err := rlp.EncodeToBytes(canonicalArticle{
		ID:              article.ID,
		Title:           article.Title,
		MovieTitle:      article.MovieTitle,
		Genre:           article.Genre,
		Creator:         article.Creator,
		ContributionIDs: contributionIDs,
	})
	if err != nil {
		return "", fmt.Errorf("articles: encode canonical article: %w", err)
	}
	prefix := cid.Prefix{
		Version:  1,
		Codec:    uint64(certificate.CompletionCodec),
		MhType:   mh.SHA2_256,
		MhLength: -1,
	}
	id, err := prefix.Sum(buf)
	if err != nil {
		return "", fmt.Errorf("articles: derive content id: %w", err)
	}
	return id.String(), nil
}

// CompletionTitle is the certificate title used for a completed article.
// Blank titles fall back to the article number and long titles are cut to
// the certificate limit on a rune boundary.
func CompletionTitle(article *Article) string {
	if article == nil {
		return ""
	}
	title := strings.TrimSpace(article.Title)
	if len(title) > certificate.MaxTitleLength {
		cut := certificate.MaxTitleLength
		for cut > 0 && !utf8.RuneStart(title[cut]) {
			cut--
		}
		title = strings.TrimSpace(title[:cut])
	}
	if title == "" {
		return fmt.Sprintf("Article #%d", article.ID)
	}
	return title
}

// completionCategories maps an article genre onto certificate categories.
// Genres the certificate would reject are left off.
func completionCategories(genre string) []string {
	genre = strings.TrimSpace(genre)
	if genre == "" || len(genre) > certificate.MaxCategoryLength {
		return nil
	}
	return []string{genre}
}
