// Package lang defines the mkcmd command-definition language: its syntax
// tree, a parser from source text, and formatters back to source, JSON and
// YAML.
//
// A script is a sequence of nodes. Each node has a name, optional
// positional parameters and a body of statements:
//
//	build mode target {
//		depends clean
//		out = "bin/$target"
//		> go build -o $out
//		if $mode == release {
//			> strip $out
//		}
//		for os in [linux, darwin] {
//			> echo $os
//		}
//		release { > echo nested }
//	}
//
// Statements are separated by newlines or semicolons. Lines beginning with
// # or // are comments. An Exec statement ('>') takes the rest of its line
// verbatim as shell text; a closing brace that does not balance an opening
// brace on the same line ends the text.
//
// The tree is immutable once parsed. Interpretation lives in package
// engine.
package lang
