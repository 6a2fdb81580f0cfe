// Package filekv provides a client for interacting with a FileKV store
// over TCP.
//
// Example:
//
//	client, err := filekv.Connect()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.SET(0, "foo", "bar")
//	val, err := client.GET(0, "foo")
package filekv
