// Package descriptor provides the typed element tree of an hbm-style mapping
// document and its YAML decoding.
//
// A descriptor is the upstream input of resolution: one document per file,
// one element per mapped class, attribute, association or collection. This
// package only decodes; it does not default, qualify or validate values.
// Optional enumerated settings are kept as raw strings (empty means unset)
// and tri-state flags as *bool so that resolution can tell "false" from
// "not given".
//
// # Document Overview
//
//	package: com.acme.model
//	schema: sales
//	default-cascade: save-update
//	default-lazy: true
//	classes:
//	  - class:
//	      name: Order
//	      table: orders
//	      id: { name: id, column: order_id, generator: native }
//	      attributes:
//	        - property: { name: total, column: total_amt }
//	        - many-to-one: { name: customer, class: Customer, column: customer_id }
//	        - set:
//	            name: lines
//	            key: { column: order_id }
//	            one-to-many: { class: OrderLine }
//	      subclasses:
//	        - subclass: { name: RushOrder, discriminator-value: R }
//	  - joined-subclass: { name: Refund, extends: Order, key: { column: order_id } }
//	queries:
//	  - { name: ordersByCustomer, query: "from Order o where o.customer = :c" }
//
// # Ordered Element Lists
//
// Attribute lists (of classes, components, composite elements, joins,
// natural ids and composite ids), class lists, column lists and native query
// return lists are ordered sequences of single-key maps. The key names the
// element kind and the value holds its settings:
//
//	attributes:
//	  - property: { name: a }
//	  - component: { name: b, attributes: [ { property: { name: c } } ] }
//	columns:
//	  - column: { name: first_name, length: 40 }
//	  - formula: "upper(last_name)"
//
// Declaration order is preserved end to end; it is the column order of
// composite keys and indexes.
//
// Several settings accept a short scalar form: a column may be given by
// name only, a type by name only, a generator by class only and custom SQL
// by its statement only.
package descriptor
