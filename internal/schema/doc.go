// Package schema defines the serialized graph description (root name plus
// node list) and its static validator. Validation catches unknown operator
// types, cycles and unreachable nodes before any operator is instantiated;
// errors come back as structured data designed for programmatic consumption
// rather than immediate failure.
package schema
