/*
Package target turns a compact target specification such as

	arm,x86:19,21/arm64:all

into a deduplicated, ordered list of build jobs, each a (platform, sdk) pair
that the toolchain is known to support.

The grammar is:

	spec      := group ('/' group)*
	group     := platforms ':' sdks
	platforms := 'all' | 'all+' | platform (',' platform)*
	sdks      := 'all' | sdk (',' sdk)*

Groups using a wildcard silently drop incompatible pairs. Pairs requested
explicitly are rejected loudly instead. The package also owns the per-job
toolchain parameters: lunch mode, make flags, targets and makefiles.
*/
package target
