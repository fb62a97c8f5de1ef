package importer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"catalog-import-service/models"
)

// Transform converts one raw spreadsheet row into a fully-populated product
// record. Mapped cells are coerced to their field's declared type, unset
// fields are defaulted, and ownership fields are stamped from the actor
// context. A record leaving this function always has every required field
// present and non-nil; transformation never fails.
func Transform(row []string, mapping map[int]string, catalog []models.TargetFieldSpec, rowIndex int, actor models.Actor) models.Record {
	record := make(models.Record)

	// Apply mapped cells in column order so a duplicated target field is
	// resolved deterministically (highest column wins).
	cols := make([]int, 0, len(mapping))
	for col := range mapping {
		cols = append(cols, col)
	}
	sort.Ints(cols)

	for _, col := range cols {
		if col < 0 || col >= len(row) {
			continue
		}
		key := mapping[col]
		field := models.FieldByKey(catalog, key)
		if field == nil {
			continue
		}
		record[key] = coerce(row[col], field.DataType)
	}

	applyDefaults(record, rowIndex)
	stampActor(record, actor)

	// Final integrity pass. Redundant with the defaulting above on purpose:
	// it guarantees the fully-populated invariant even if the steps before it
	// are changed incorrectly later.
	for _, key := range models.IntegrityFields {
		if v, ok := record[key]; !ok || v == nil {
			switch key {
			case "store_id":
				record[key] = orSentinel(actor.StoreID, models.DefaultStoreID)
			case "created_by":
				record[key] = orSentinel(actor.UserID, models.DefaultUserID)
			default:
				applyDefault(record, key, rowIndex, true)
			}
		}
	}

	return record
}

// coerce converts a raw cell value according to the field's declared type.
func coerce(raw string, dataType models.FieldType) interface{} {
	switch dataType {
	case models.FieldNumber:
		return coerceNumber(raw)
	case models.FieldBoolean:
		return coerceBool(raw)
	default:
		return coerceText(raw)
	}
}

// coerceNumber strips everything that is not a digit, dot or minus sign and
// parses the remainder; unparseable values become 0.
func coerceNumber(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return f
}

var truthy = map[string]bool{"true": true, "yes": true, "1": true, "active": true}

func coerceBool(raw string) bool {
	return truthy[strings.ToLower(strings.TrimSpace(raw))]
}

// coerceText trims the value and repairs scientific notation: spreadsheets
// auto-format long numeric identifiers such as barcodes into exponential
// strings, which are re-rendered here with zero decimal places.
func coerceText(raw string) string {
	v := strings.TrimSpace(raw)
	if strings.Contains(v, "E+") || strings.Contains(v, "e+") {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return strconv.FormatFloat(f, 'f', 0, 64)
		}
	}
	return v
}

// applyDefaults fills every defaultable field that is still unset. An empty
// string counts as unset so that blank cells fall through to the defaults.
func applyDefaults(record models.Record, rowIndex int) {
	for _, key := range []string{
		"name", "price", "stock_quantity", "category", "unit",
		"sku", "description", "barcode", "min_stock_level", "tags", "images",
	} {
		applyDefault(record, key, rowIndex, false)
	}
}

// applyDefault applies the default/generation rule for key. When force is
// false the rule only runs if the current value is unset (nil or blank); the
// integrity pass calls with force=true after establishing the value is nil.
func applyDefault(record models.Record, key string, rowIndex int, force bool) {
	switch key {
	case "name":
		if force || isBlank(record["name"]) {
			record["name"] = fmt.Sprintf("Product %d", rowIndex+1)
		}
	case "price":
		if force || record["price"] == nil {
			record["price"] = float64(0)
		}
	case "stock_quantity":
		if force || record["stock_quantity"] == nil {
			record["stock_quantity"] = float64(0)
		}
	case "category":
		if force || isBlank(record["category"]) {
			record["category"] = "Uncategorized"
		}
	case "unit":
		if force || isBlank(record["unit"]) {
			record["unit"] = "Piece"
		}
	case "sku":
		if force || isBlank(record["sku"]) {
			record["sku"] = generateSKU(record, rowIndex)
		}
	case "description":
		if record["description"] == nil {
			record["description"] = ""
		}
	case "barcode":
		if record["barcode"] == nil {
			record["barcode"] = ""
		}
	case "min_stock_level":
		if record["min_stock_level"] == nil {
			record["min_stock_level"] = float64(5)
		}
	case "tags":
		record["tags"] = splitTags(record["tags"])
	case "images":
		// Images are never imported from spreadsheet data.
		record["images"] = []string{}
	}
}

// generateSKU builds a uniqueness-safe key from the (already defaulted) name
// and the row position: SKU-{first 3 letters uppercased}-{row, zero padded}.
func generateSKU(record models.Record, rowIndex int) string {
	name, _ := record["name"].(string)
	prefix := []rune(strings.ToUpper(name))
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return fmt.Sprintf("SKU-%s-%04d", string(prefix), rowIndex+1)
}

// splitTags turns a comma-separated mapped value into a trimmed, non-empty
// tag slice; anything else defaults to an empty slice.
func splitTags(v interface{}) []string {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return []string{}
	}
	var tags []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	if tags == nil {
		return []string{}
	}
	return tags
}

func stampActor(record models.Record, actor models.Actor) {
	record["store_id"] = orSentinel(actor.StoreID, models.DefaultStoreID)
	record["created_by"] = orSentinel(actor.UserID, models.DefaultUserID)
	record["is_active"] = true
	record["is_featured"] = false
}

func orSentinel(v, sentinel string) string {
	if strings.TrimSpace(v) == "" {
		return sentinel
	}
	return v
}

func isBlank(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}
