// Package extension provides reusable invocation strategies.
//
// Func and ByName adapt plain functions. Find answers locator methods
// with nested facades over located children. Should polls a Matcher
// against the target until it holds.
//
//	atlas := facade.New()
//	atlas.Extension(extension.NewFind(atlas).Locate("Header", "#header"))
//	atlas.Extension(extension.NewShould(atlas, 5*time.Second))
package extension
