package models

// FieldType is the declared type of a target product field.
type FieldType string

const (
	FieldText    FieldType = "text"
	FieldNumber  FieldType = "number"
	FieldBoolean FieldType = "boolean"
)

// TargetFieldSpec is a static catalog entry describing one importable field.
type TargetFieldSpec struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Required bool      `json:"required"`
	DataType FieldType `json:"data_type"`
}

// ProductFields is the catalog of fields a spreadsheet column may map to.
var ProductFields = []TargetFieldSpec{
	{Key: "name", Label: "Product Name", Required: true, DataType: FieldText},
	{Key: "description", Label: "Description", Required: false, DataType: FieldText},
	{Key: "sku", Label: "SKU", Required: false, DataType: FieldText},
	{Key: "barcode", Label: "Barcode", Required: false, DataType: FieldText},
	{Key: "price", Label: "Selling Price", Required: true, DataType: FieldNumber},
	{Key: "cost_price", Label: "Cost Price", Required: false, DataType: FieldNumber},
	{Key: "stock_quantity", Label: "Stock Quantity", Required: false, DataType: FieldNumber},
	{Key: "min_stock_level", Label: "Minimum Stock Level", Required: false, DataType: FieldNumber},
	{Key: "category", Label: "Category", Required: false, DataType: FieldText},
	{Key: "unit", Label: "Unit", Required: false, DataType: FieldText},
	{Key: "supplier", Label: "Supplier", Required: false, DataType: FieldText},
	{Key: "tags", Label: "Tags", Required: false, DataType: FieldText},
	{Key: "taxable", Label: "Taxable", Required: false, DataType: FieldBoolean},
}

// FieldByKey returns the catalog entry for key, or nil when unknown.
func FieldByKey(catalog []TargetFieldSpec, key string) *TargetFieldSpec {
	for i := range catalog {
		if catalog[i].Key == key {
			return &catalog[i]
		}
	}
	return nil
}

// IntegrityFields is the fixed set re-checked by the transformer's final pass.
// Independent of the catalog's Required flags.
var IntegrityFields = []string{
	"name", "price", "category", "sku", "stock_quantity", "store_id", "created_by",
}
