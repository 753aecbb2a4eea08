// Package graph defines the node/edge model produced by the builder and
// consumed by the renderers.
//
// A [Graph] holds typed nodes ([NodeType]: interface, system, sub-topic,
// group) and tagged edges ([EdgeKind]: hierarchy, relation, group). Node
// insertion order is preserved so that repeated builds over the same input
// serialize identically.
//
// The package also owns the canonical JSON wire format ([Marshal], [Read]
// and friends), used for the CLI's graph.json artifacts, HTTP responses,
// and cache entries.
package graph
