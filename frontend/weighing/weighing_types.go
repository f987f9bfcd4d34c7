package weighing

import "conferente/infrastructure/scale"

// RegisterInput is a validated weighing registration ready to be
// learned and appended.
type RegisterInput struct {
	Supplier            string
	Product             string
	TargetWeightKg      float64
	GrossKg             float64
	UnitTareKg          float64
	BoxQuantity         int
	PackagingUnitTareKg float64
	PackagingQuantity   int
	Mode                scale.Mode
	PhotoBlob           []byte
	PhotoMIME           string
}

// RegisterResult reports what was stored.
type RegisterResult struct {
	ID          string            `json:"id"`
	Composition scale.Composition `json:"composition"`
	TimestampMs int64             `json:"timestampMs"`
}

// PredictSupplierResponse answers a supplier-blur lookup.
type PredictSupplierResponse struct {
	Found   bool    `json:"found"`
	Product string  `json:"product,omitempty"`
	TareKg  float64 `json:"tareKg,omitempty"`
}

// PredictProductResponse answers a product-blur lookup.
type PredictProductResponse struct {
	Found  bool    `json:"found"`
	TareKg float64 `json:"tareKg,omitempty"`
}
