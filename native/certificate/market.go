package certificate

import (
	"math/big"

	"moviewrite/native/bank"
	"moviewrite/native/fees"
)

// ListForSale offers a certificate at price until deadline. Listing again
// replaces the previous offer.
func (e *Engine) ListForSale(caller [20]byte, id uint64, price *big.Int, deadline int64) (*Listing, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	cert, err := e.loadCertificate(id)
	if err != nil {
		return nil, err
	}
	if cert.Owner != caller {
		return nil, errNotOwner
	}
	if price == nil || price.Sign() <= 0 {
		return nil, errZeroPrice
	}
	if deadline <= e.now() {
		return nil, errInvalidDeadline
	}
	if cert.TransferLocked {
		return nil, errTransferLocked
	}
	listing := &Listing{
		CertificateID: id,
		Seller:        caller,
		Price:         new(big.Int).Set(price),
		Deadline:      deadline,
		IsForSale:     true,
	}
	if err := e.state.ListingPut(listing); err != nil {
		return nil, err
	}
	e.emit(CertificateListedEvent(listing))
	return listing.Clone(), nil
}

// CancelSale withdraws the active listing of a certificate.
func (e *Engine) CancelSale(caller [20]byte, id uint64) error {
	if err := e.ready(); err != nil {
		return err
	}
	cert, err := e.loadCertificate(id)
	if err != nil {
		return err
	}
	if cert.Owner != caller {
		return errNotOwner
	}
	listing, ok, err := e.state.ListingGet(id)
	if err != nil {
		return err
	}
	if !ok || listing == nil || !listing.IsForSale {
		return errNotForSale
	}
	if err := e.state.ListingDelete(id); err != nil {
		return err
	}
	e.emit(CertificateSaleCancelledEvent(id))
	return nil
}

func (e *Engine) clearListing(id uint64) error {
	_, ok, err := e.state.ListingGet(id)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return e.state.ListingDelete(id)
}

// Buy settles the active listing of a certificate. payment must equal the
// listing price exactly. The price is split between the platform, the author
// and the seller in one step; an author buying back their own work keeps the
// royalty share with the seller instead of paying it to themself.
func (e *Engine) Buy(buyer [20]byte, id uint64, payment *big.Int) (*Sale, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	cert, err := e.loadCertificate(id)
	if err != nil {
		return nil, err
	}
	listing, ok, err := e.state.ListingGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || listing == nil || !listing.IsForSale {
		return nil, errNotForSale
	}
	if e.now() > listing.Deadline {
		return nil, errSaleExpired
	}
	if cert.TransferLocked {
		return nil, errTransferLocked
	}
	if buyer == cert.Owner {
		return nil, errBuyerIsOwner
	}
	if payment == nil || payment.Cmp(listing.Price) != 0 {
		return nil, errIncorrectPayment
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	breakdown, err := fees.SplitSale(listing.Price, cfg.FeeBps, cert.RoyaltyBps, buyer == cert.Author)
	if err != nil {
		return nil, err
	}
	seller := cert.Owner
	if err := bank.Apply(e.state,
		bank.Debit(buyer, breakdown.Price),
		bank.Credit(cfg.FeeRecipient, breakdown.PlatformFee),
		bank.Credit(cert.Author, breakdown.Royalty),
		bank.Credit(seller, breakdown.SellerProceeds),
	); err != nil {
		return nil, err
	}
	cert.Owner = buyer
	cert.UpdatedAt = e.now()
	if err := e.state.CertificatePut(cert); err != nil {
		return nil, err
	}
	if err := e.state.ListingDelete(id); err != nil {
		return nil, err
	}
	sale := &Sale{
		CertificateID:  id,
		Seller:         seller,
		Buyer:          buyer,
		Author:         cert.Author,
		FeeRecipient:   cfg.FeeRecipient,
		Price:          breakdown.Price,
		PlatformFee:    breakdown.PlatformFee,
		Royalty:        breakdown.Royalty,
		SellerProceeds: breakdown.SellerProceeds,
		RoyaltyWaived:  breakdown.RoyaltyWaived,
	}
	e.emit(CertificateSoldEvent(sale))
	e.emit(RoyaltiesDistributedEvent(sale))
	return sale, nil
}

// RoyaltyInfo returns the royalty receiver and amount due on a sale at
// salePrice. It does not modify state.
func (e *Engine) RoyaltyInfo(id uint64, salePrice *big.Int) ([20]byte, *big.Int, error) {
	if err := e.ready(); err != nil {
		return [20]byte{}, nil, err
	}
	if salePrice != nil && salePrice.Sign() < 0 {
		return [20]byte{}, nil, errNegativeSalePrice
	}
	cert, err := e.loadCertificate(id)
	if err != nil {
		return [20]byte{}, nil, err
	}
	return cert.Author, fees.ComputeBps(salePrice, cert.RoyaltyBps), nil
}

// SaleInfo returns the listing of a certificate. Certificates without an
// active listing report IsForSale=false.
func (e *Engine) SaleInfo(id uint64) (*Listing, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if _, err := e.loadCertificate(id); err != nil {
		return nil, err
	}
	listing, ok, err := e.state.ListingGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || listing == nil {
		return &Listing{CertificateID: id, Price: big.NewInt(0)}, nil
	}
	return listing.Clone(), nil
}
