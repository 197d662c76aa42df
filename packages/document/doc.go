// Package document interprets executed examples for documentation output.
//
// A View is a typed snapshot of an example's metadata. ShouldDocument decides
// whether a view belongs in generated output, and Sections groups documented
// views by resource for rendering.
package document
