package models

// Carrier is a known freight carrier name. Pure lookup data: the filter engine
// treats carrier names as advisory, so nothing here carries derived logic.
type Carrier struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Customer is a known outbound customer name.
type Customer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product holds per-item packing factors. The WM* variants are the Walmart
// pallet configuration, which differs from the standard one for some items.
type Product struct {
	ID                int64  `json:"id"`
	ItemNumber        string `json:"item_number"`
	ItemsPerCase      *int64 `json:"items_per_case"`
	ItemsPerPallet    *int64 `json:"items_per_pallet"`
	CasesPerPallet    *int64 `json:"cases_per_pallet"`
	LayersPerPallet   *int64 `json:"layers_per_pallet"`
	CasesPerLayer     *int64 `json:"cases_per_layer"`
	Notes             string `json:"notes"`
	WMItemsPerPallet  *int64 `json:"wm_items_per_pallet"`
	WMCasesPerPallet  *int64 `json:"wm_cases_per_pallet"`
	WMLayersPerPallet *int64 `json:"wm_layers_per_pallet"`
	WMCasesPerLayer   *int64 `json:"wm_cases_per_layer"`
}
