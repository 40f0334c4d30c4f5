package entity

import "github.com/shopspring/decimal"

type PriceResult = ActionResult[decimal.Decimal]
