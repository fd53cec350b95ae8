// Package entities parses the tab-separated records of an entity list
//
// A record is `phrase<TAB>count<TAB>used<TAB>annotation1[<TAB>annotation2...]`.
// Annotations look like `label:n1:...:nk:percent%`; the integer right before the
// percentage flags an exact match (anything but "0") and the percentage is the trust.
// Fields after the second annotation are ignored.
package entities
