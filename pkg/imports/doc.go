// Package imports extracts import statements from source files and resolves
// them to files on disk.
//
// Only single-line named imports with a quoted relative literal are
// recognized:
//
//	import { Invoice, Total } from './invoice';
//
// Default imports, dynamic imports, re-exports and multi-line braces are
// invisible to this package.
//
// # Resolution
//
// [Resolve] replicates the host module system's extensionless resolution.
// For a literal L relative to directory D it tries, in order:
//
//  1. D/L when L already ends with the source extension
//  2. D/L + ".ts"
//  3. D/L + ".d.ts"
//  4. D/L/index.ts
//  5. D/L verbatim
//
// The first candidate that exists is canonicalized; if none exists the
// verbatim candidate is tried, which normally fails with an [*UnresolvedError].
//
// # Aliases
//
// A [Mapping] rewrites a source-level alias (for example "@lib") to a
// relative path (for example "./packages/lib") before resolution. The
// rewritten literal resolves like any other, against the importing file's
// directory.
package imports
