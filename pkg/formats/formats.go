// Package formats provides parsers for text mesh formats.
package formats

// Note: Wavefront OBJ is implemented in obj.go (document parser) and
// objindex.go (line tokenizer and face-vertex references).
