// See kind.go for the package overview: Parser (parser.go) turns a token
// stream into a lossless Tree via Builder; Node/Pointer give HIR typed,
// stable access to that tree without re-touching source text.
package cst
