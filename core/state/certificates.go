package state

import (
	"fmt"
	"math/big"

	"moviewrite/native/certificate"
)

type storedCertificate struct {
	ID             uint64
	Owner          [20]byte
	Title          string
	ContentHash    string
	Author         [20]byte
	Categories     []string
	Status         uint8
	Views          uint64
	Likes          uint64
	TransferLocked bool
	RoyaltyBps     uint32
	MintedAt       uint64
	UpdatedAt      uint64
}

type storedListing struct {
	CertificateID uint64
	Seller        [20]byte
	Price         *big.Int
	Deadline      uint64
	IsForSale     bool
}

// CertificateGet loads the certificate with the supplied id.
func (m *Manager) CertificateGet(id uint64) (*certificate.Certificate, bool, error) {
	stored := new(storedCertificate)
	ok, err := m.KVGet(prefixed(certificatePrefix, idBytes(id)), stored)
	if err != nil || !ok {
		return nil, ok, err
	}
	return &certificate.Certificate{
		ID:             stored.ID,
		Owner:          stored.Owner,
		Title:          stored.Title,
		ContentHash:    stored.ContentHash,
		Author:         stored.Author,
		Categories:     append([]string(nil), stored.Categories...),
		Status:         certificate.Status(stored.Status),
		Views:          stored.Views,
		Likes:          stored.Likes,
		TransferLocked: stored.TransferLocked,
		RoyaltyBps:     stored.RoyaltyBps,
		MintedAt:       int64(stored.MintedAt),
		UpdatedAt:      int64(stored.UpdatedAt),
	}, true, nil
}

// CertificatePut persists cert.
func (m *Manager) CertificatePut(cert *certificate.Certificate) error {
	if cert == nil {
		return fmt.Errorf("certificate: nil certificate")
	}
	stored := &storedCertificate{
		ID:             cert.ID,
		Owner:          cert.Owner,
		Title:          cert.Title,
		ContentHash:    cert.ContentHash,
		Author:         cert.Author,
		Categories:     append([]string{}, cert.Categories...),
		Status:         uint8(cert.Status),
		Views:          cert.Views,
		Likes:          cert.Likes,
		TransferLocked: cert.TransferLocked,
		RoyaltyBps:     cert.RoyaltyBps,
		MintedAt:       unixToStored(cert.MintedAt),
		UpdatedAt:      unixToStored(cert.UpdatedAt),
	}
	return m.KVPut(prefixed(certificatePrefix, idBytes(cert.ID)), stored)
}

// CertificateCount returns the number of certificates minted so far.
func (m *Manager) CertificateCount() (uint64, error) { return m.readCounter(certificateCountKey) }

// SetCertificateCount overwrites the certificate counter.
func (m *Manager) SetCertificateCount(count uint64) error {
	return m.KVPut(certificateCountKey, count)
}

// CertificateByContentHash resolves the certificate committed to hash.
func (m *Manager) CertificateByContentHash(hash string) (uint64, bool, error) {
	var id uint64
	ok, err := m.KVGet(prefixed(certificateHashPrefix, normalizeHashKey(hash)), &id)
	if err != nil || !ok {
		return 0, false, err
	}
	return id, true, nil
}

// SetCertificateContentHash records that hash has been minted as id.
func (m *Manager) SetCertificateContentHash(hash string, id uint64) error {
	return m.KVPut(prefixed(certificateHashPrefix, normalizeHashKey(hash)), id)
}

// AuthorCertificatesAppend records id in the author index.
func (m *Manager) AuthorCertificatesAppend(author [20]byte, id uint64) error {
	return m.appendID(prefixed(certificateAuthorPrefix, author[:]), id)
}

// AuthorCertificates lists the certificates minted for author.
func (m *Manager) AuthorCertificates(author [20]byte) ([]uint64, error) {
	return m.readIDList(prefixed(certificateAuthorPrefix, author[:]))
}

// ListingGet loads the sale listing of a certificate.
func (m *Manager) ListingGet(id uint64) (*certificate.Listing, bool, error) {
	stored := new(storedListing)
	ok, err := m.KVGet(prefixed(listingPrefix, idBytes(id)), stored)
	if err != nil || !ok {
		return nil, ok, err
	}
	price := big.NewInt(0)
	if stored.Price != nil {
		price.Set(stored.Price)
	}
	return &certificate.Listing{
		CertificateID: stored.CertificateID,
		Seller:        stored.Seller,
		Price:         price,
		Deadline:      int64(stored.Deadline),
		IsForSale:     stored.IsForSale,
	}, true, nil
}

// ListingPut persists listing.
func (m *Manager) ListingPut(listing *certificate.Listing) error {
	if listing == nil {
		return fmt.Errorf("certificate: nil listing")
	}
	price := big.NewInt(0)
	if listing.Price != nil {
		price.Set(listing.Price)
	}
	stored := &storedListing{
		CertificateID: listing.CertificateID,
		Seller:        listing.Seller,
		Price:         price,
		Deadline:      unixToStored(listing.Deadline),
		IsForSale:     listing.IsForSale,
	}
	return m.KVPut(prefixed(listingPrefix, idBytes(listing.CertificateID)), stored)
}

// ListingDelete removes the listing of a certificate.
func (m *Manager) ListingDelete(id uint64) error {
	return m.KVDelete(prefixed(listingPrefix, idBytes(id)))
}

// MarketplaceConfig returns the stored platform parameters.
func (m *Manager) MarketplaceConfig() (*certificate.PlatformConfig, bool, error) {
	cfg := new(certificate.PlatformConfig)
	ok, err := m.KVGet(marketplaceConfigKey, cfg)
	if err != nil || !ok {
		return nil, ok, err
	}
	if cfg.MintFee == nil {
		cfg.MintFee = big.NewInt(0)
	}
	return cfg, true, nil
}

// PutMarketplaceConfig stores the platform parameters.
func (m *Manager) PutMarketplaceConfig(cfg *certificate.PlatformConfig) error {
	if cfg == nil {
		return fmt.Errorf("certificate: nil platform config")
	}
	stored := cfg.Clone()
	if stored.MintFee == nil {
		stored.MintFee = big.NewInt(0)
	}
	return m.KVPut(marketplaceConfigKey, stored)
}
