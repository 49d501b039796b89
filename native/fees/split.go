package fees

import (
	"fmt"
	"math/big"
)

// BasisPointsDenominator is the scale used by every percentage in the
// marketplace.
const BasisPointsDenominator = 10_000

// ComputeBps returns amount * bps / 10000, rounded down.
func ComputeBps(amount *big.Int, bps uint32) *big.Int {
	if amount == nil || amount.Sign() <= 0 || bps == 0 {
		return big.NewInt(0)
	}
	out := new(big.Int).Mul(amount, new(big.Int).SetUint64(uint64(bps)))
	return out.Quo(out, big.NewInt(BasisPointsDenominator))
}

// SaleBreakdown describes how a sale price is distributed. The three amounts
// always add up to the price.
type SaleBreakdown struct {
	Price          *big.Int
	PlatformFee    *big.Int
	Royalty        *big.Int
	SellerProceeds *big.Int
	// RoyaltyWaived is set when the royalty was folded into the seller
	// proceeds because the buyer is the author.
	RoyaltyWaived bool
}

// SplitSale computes the platform fee and royalty for price. Rounding
// remainders stay with the seller. When waiveRoyalty is set the royalty is
// still computed but credited to the seller instead.
func SplitSale(price *big.Int, feeBps, royaltyBps uint32, waiveRoyalty bool) (SaleBreakdown, error) {
	if price == nil || price.Sign() <= 0 {
		return SaleBreakdown{}, fmt.Errorf("fees: price must be positive")
	}
	if uint64(feeBps)+uint64(royaltyBps) > BasisPointsDenominator {
		return SaleBreakdown{}, fmt.Errorf("fees: fee %d bps and royalty %d bps exceed 100%%", feeBps, royaltyBps)
	}
	fee := ComputeBps(price, feeBps)
	royalty := ComputeBps(price, royaltyBps)
	seller := new(big.Int).Sub(price, fee)
	seller.Sub(seller, royalty)
	breakdown := SaleBreakdown{
		Price:          new(big.Int).Set(price),
		PlatformFee:    fee,
		Royalty:        royalty,
		SellerProceeds: seller,
	}
	if waiveRoyalty && royalty.Sign() > 0 {
		breakdown.SellerProceeds = new(big.Int).Add(seller, royalty)
		breakdown.Royalty = big.NewInt(0)
		breakdown.RoyaltyWaived = true
	}
	return breakdown, nil
}

// Total returns the sum of the distributed amounts.
func (b SaleBreakdown) Total() *big.Int {
	total := new(big.Int)
	for _, part := range []*big.Int{b.PlatformFee, b.Royalty, b.SellerProceeds} {
		if part != nil {
			total.Add(total, part)
		}
	}
	return total
}
