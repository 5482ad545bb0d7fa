// Package schema models the node/edge type declarations that drive a
// simulation run.
//
// A schema is a flat description of the graph's shape: node types with a
// kind (static/dynamic), a usage class (core/supplement), and an ordered
// property list; edge types with declared source/target node types and an
// optional property list. There is no inheritance - kind and usage are plain
// enumerated fields consulted by the generator's weighting logic.
//
// Loading is all-or-nothing: an invalid schema reports every violation and
// returns no Schema at all. A *Schema, once returned, is immutable and safe
// to share across concurrent runs.
//
// The on-disk form is a YAML mapping with two top-level keys:
//
//	nodes:
//	  Warehouse:
//	    type: dynamic
//	    usage: supplement
//	    features:
//	      id: string
//	      max_capacity: integer
//	edges:
//	  SupplierToWarehouse:
//	    source: Supplier
//	    target: Warehouse
//	    features:
//	      lead_time: integer
//
// Property declaration order is preserved: Features keeps the YAML order so
// generated instances iterate their properties deterministically.
package schema
