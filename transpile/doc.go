// Package transpile turns a natural-language source file into code.
//
// A Transpiler wires the pieces of one run together: it reads the source,
// conventions and context files, renders the prompt template, sends a
// single request through a provider.Adapter, strips markdown fences from
// the reply, prices the usage and writes the result.
//
//	t := transpile.New(adapter,
//		transpile.WithCatalog(catalog),
//		transpile.WithAudit(sink),
//	)
//	out, err := t.Run(ctx, eff)
//
// Transpile is the pure part of Run and takes every input as a value,
// which is what tests and watch mode use.
package transpile
