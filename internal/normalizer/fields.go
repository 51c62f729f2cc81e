package normalizer

// Record store column names
const (
	FieldName           = "Name"
	FieldSKU            = "SKU"
	FieldDescription    = "Description"
	FieldPriceRetail    = "Price Retail"
	FieldPriceWholesale = "Price Wholesale"
	FieldStock          = "Stock"
	FieldCategory       = "Category"
	FieldBrand          = "Brand"
	FieldImages         = "Images"
	FieldActive         = "Active"
)
