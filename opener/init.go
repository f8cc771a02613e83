package opener

func init() {
	if err := RegisterOpener(schemeFile, RegularFileOpenerFactory); err != nil {
		panic(err)
	}
	if err := RegisterOpener(schemeHTTP, HTTPOpenerFactory); err != nil {
		panic(err)
	}
}
