// Package newsletter implements issue publication: loading the confirmed
// audience and fanning an issue out to every recipient, one send at a time.
package newsletter
