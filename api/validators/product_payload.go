package validators

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/teeshirtate/storefront-backend/pkg/enums"
	pkgerrors "github.com/teeshirtate/storefront-backend/pkg/errors"
)

// legacyProductKeys maps the camelCase field names older admin builds still
// send onto the canonical snake_case schema. Flag keys go through
// enums.ParseProductFlag instead, which also folds isOffer into is_on_sale.
var legacyProductKeys = map[string]string{
	"nameEn":         "name_en",
	"originalPrice":  "original_price",
	"categoryEn":     "category_en",
	"categoryId":     "category_id",
	"descriptionEn":  "description_en",
	"printTypes":     "print_types",
	"salePercentage": "sale_percentage",
}

// CanonicalizeProductBody rewrites the legacy camelCase keys older admin
// builds still send (isFeatured, originalPrice, printTypes, ...) into the
// canonical snake_case names before decoding. Unknown keys pass through
// untouched so DecodeJSONBody still rejects them with a field-level error.
func CanonicalizeProductBody(r *http.Request) error {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body")
	}
	r.Body.Close()

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").WithDetails(map[string]any{"error": err.Error()})
	}

	changed := false
	for key, value := range doc {
		canonical := ""
		if flag, err := enums.ParseProductFlag(key); err == nil {
			canonical = string(flag)
		} else if mapped, ok := legacyProductKeys[key]; ok {
			canonical = mapped
		}
		if canonical == "" || canonical == key {
			continue
		}
		delete(doc, key)
		doc[canonical] = value
		changed = true
	}

	if changed {
		raw, err = json.Marshal(doc)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rewrite request body")
		}
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	return nil
}
