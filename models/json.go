package models

import "github.com/shopspring/decimal"

func init() {
	// amounts go out as JSON numbers, the admin UI formats them with toLocaleString
	decimal.MarshalJSONWithoutQuotes = true
}
