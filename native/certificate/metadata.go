package certificate

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"moviewrite/crypto"
)

const metadataURIPrefix = "data:application/json;base64,"

type metadataAttribute struct {
	TraitType string      `json:"trait_type"`
	Value     interface{} `json:"value"`
}

type metadataDocument struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	ContentHash string              `json:"content_hash"`
	Author      string              `json:"author"`
	Attributes  []metadataAttribute `json:"attributes"`
}

// RenderMetadata serialises the descriptive fields of cert into a base64 JSON
// data URI. The output depends only on cert.
func RenderMetadata(cert *Certificate) (string, error) {
	if cert == nil {
		return "", fmt.Errorf("certificate: nil certificate")
	}
	attrs := []metadataAttribute{
		{TraitType: "Status", Value: cert.Status.String()},
		{TraitType: "Views", Value: cert.Views},
		{TraitType: "Likes", Value: cert.Likes},
		{TraitType: "Royalty Basis Points", Value: cert.RoyaltyBps},
		{TraitType: "Minted At", Value: cert.MintedAt},
	}
	for _, category := range cert.Categories {
		attrs = append(attrs, metadataAttribute{TraitType: "Category", Value: category})
	}
	doc := metadataDocument{
		Name:        cert.Title,
		Description: fmt.Sprintf("Certificate #%d", cert.ID),
		ContentHash: cert.ContentHash,
		Author:      crypto.FormatAccount(cert.Author),
		Attributes:  attrs,
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("certificate: encode metadata: %w", err)
	}
	return metadataURIPrefix + base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeMetadata reverses RenderMetadata into a generic JSON document.
func DecodeMetadata(uri string) (map[string]interface{}, error) {
	if len(uri) < len(metadataURIPrefix) || uri[:len(metadataURIPrefix)] != metadataURIPrefix {
		return nil, fmt.Errorf("certificate: unexpected metadata uri")
	}
	raw, err := base64.StdEncoding.DecodeString(uri[len(metadataURIPrefix):])
	if err != nil {
		return nil, fmt.Errorf("certificate: decode metadata: %w", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("certificate: decode metadata: %w", err)
	}
	return doc, nil
}
