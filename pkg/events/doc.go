// Package events provides the listener bus used by document nodes.
//
// Event names follow the "type:path" convention, where path is a dot
// separated list of attribute keys or collection indexes:
//
//	change                  bare change on the node itself (never relayed)
//	change:street           attribute "street" changed on the node
//	change:shipping.street  nested change relayed from the "shipping" child
//	add:tags                a member was added to the "tags" collection
//
// Listener names may contain "*" segments. A trailing "*" matches one or
// more remaining segments, any other "*" matches exactly one:
//
//	change:shipping.*       change:shipping.street, change:shipping.geo.lat
//	change:items.*.price    change:items.0.price
//
// Dispatch is synchronous. Parents subscribe to their children with
// Bus.Relay so a relayed event reaches the parent only after every listener
// on the child has run.
package events
