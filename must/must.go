package must

// NilErr panics on a non-nil error. Reserved for operations that cannot
// fail with well-formed inputs, e.g. parsing constant URLs.
func NilErr(err error) {
	if nil != err {
		panic("expected nil error, got: " + err.Error())
	}
}

func Be(expr bool, msg string) {
	if !expr {
		panic("assertion failed: " + msg)
	}
}
