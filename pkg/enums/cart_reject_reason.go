package enums

// CartRejectReason identifies why a cart mutation was refused.
type CartRejectReason string

const (
	CartRejectOutOfStock       CartRejectReason = "OUT_OF_STOCK"
	CartRejectMaxOrderExceeded CartRejectReason = "MAX_ORDER_EXCEEDED"
	CartRejectCartFull         CartRejectReason = "CART_FULL"
)

// String implements fmt.Stringer.
func (c CartRejectReason) String() string {
	return string(c)
}
