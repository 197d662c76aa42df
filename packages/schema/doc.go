// Package schema holds the parameter declarations attached to documented
// resource groups.
//
// A Schema is an ordered list of Parameter values. Names are not unique;
// lookups always resolve to the first declaration with a given name.
package schema
