package testutil

import "github.com/thecodizt/graph-server/internal/schema"

// PersonAddressSchema is a two-type schema: Person{core} and
// Address{supplement} linked by LIVES_AT(Person -> Address).
func PersonAddressSchema() *schema.Schema {
	s, err := schema.Load(schema.Raw{
		Nodes: map[string]schema.RawNodeType{
			"Person": {
				Kind:  schema.KindStatic,
				Usage: schema.UsageCore,
				Features: schema.NewFeatures(
					schema.Feature{Name: "id", Type: schema.TypeString},
					schema.Feature{Name: "name", Type: schema.TypeString},
					schema.Feature{Name: "importance", Type: schema.TypeInteger},
				),
			},
			"Address": {
				Kind:  schema.KindStatic,
				Usage: schema.UsageSupplement,
				Features: schema.NewFeatures(
					schema.Feature{Name: "id", Type: schema.TypeString},
					schema.Feature{Name: "location", Type: schema.TypeString},
				),
			},
		},
		Edges: map[string]schema.RawEdgeType{
			"LIVES_AT": {
				Source: "Person",
				Target: "Address",
				Features: schema.NewFeatures(
					schema.Feature{Name: "lead_time", Type: schema.TypeInteger},
				),
			},
		},
	})
	if err != nil {
		panic(err)
	}
	return s
}

// SupplyChainSchema mirrors a small supply-chain network: a core hierarchy
// (BusinessUnit -> ProductFamily -> ProductOffering <- Facility -> Parts)
// plus supplement Warehouse and Supplier types.
func SupplyChainSchema() *schema.Schema {
	s, err := schema.Parse([]byte(supplyChainYAML))
	if err != nil {
		panic(err)
	}
	return s
}

const supplyChainYAML = `
nodes:
  BusinessUnit:
    type: static
    usage: core
    features:
      id: string
      name: string
      description: string
      revenue: float
  ProductFamily:
    type: static
    usage: core
    features:
      id: string
      name: string
      revenue: float
  ProductOffering:
    type: static
    usage: core
    features:
      id: string
      name: string
      cost: float
      demand: integer
  Facility:
    type: dynamic
    usage: core
    features:
      id: string
      name: string
      type: string
      location: string
      max_capacity: integer
      operating_cost: float
  Parts:
    type: dynamic
    usage: core
    features:
      id: string
      name: string
      type: string
      cost: float
      importance: integer
      expected_life: integer
      units_in_chain: integer
      expiry: datetime
  Warehouse:
    type: dynamic
    usage: supplement
    features:
      id: string
      name: string
      type: string
      size: string
      location: string
      max_capacity: integer
      current_capacity: integer
      safety_stock: integer
  Supplier:
    type: dynamic
    usage: supplement
    features:
      id: string
      name: string
      location: string
      reliability: float
      size: string
edges:
  BusinessUnitToProductFamily:
    source: BusinessUnit
    target: ProductFamily
    features: {}
  ProductFamilyToProductOffering:
    source: ProductFamily
    target: ProductOffering
    features: {}
  FacilityToProductOffering:
    source: Facility
    target: ProductOffering
    features:
      product_cost: float
      lead_time: integer
      quantity_produced: integer
  FacilityToParts:
    source: Facility
    target: Parts
    features:
      quantity: integer
      transport_cost: float
      lead_time: integer
  WarehouseToParts:
    source: Warehouse
    target: Parts
    features:
      inventory_level: integer
      storage_cost: float
  SupplierToWarehouse:
    source: Supplier
    target: Warehouse
    features:
      transportation_cost: float
      lead_time: integer
`
