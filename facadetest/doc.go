// Package facadetest provides listeners and invokers for testing code that
// builds or extends facades.
//
//	rec := facadetest.NewRecorder("L")
//	atlas := facade.New().Listener(rec)
//	...
//	rec.Events() // ["L:before:Greet", "L:after:Greet"]
package facadetest
